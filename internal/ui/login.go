package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
	fieldName
	fieldSubmitButton
	fieldModeToggle
)

type LoginModel struct {
	emailInput    textinput.Model
	passwordInput textinput.Model
	nameInput     textinput.Model
	currentField  loginField
	signUp        bool
	submitting    bool
	errMsg        string
	width         int
	height        int
}

// LoginSubmit asks the application to run the sign-in or sign-up.
type LoginSubmit struct {
	Email    string
	Password string
	Name     string
	SignUp   bool
}

// LoginFailed is sent back when the credentials were rejected.
type LoginFailed struct {
	Err error
}

func NewLoginModel(width, height int) LoginModel {
	emailInput := textinput.New()
	emailInput.Placeholder = "email@esempio.com"
	emailInput.Focus()
	emailInput.CharLimit = 100
	emailInput.Width = 40

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'
	passwordInput.CharLimit = 100
	passwordInput.Width = 40

	nameInput := textinput.New()
	nameInput.Placeholder = "Il tuo nome"
	nameInput.CharLimit = 100
	nameInput.Width = 40

	return LoginModel{
		emailInput:    emailInput,
		passwordInput: passwordInput,
		nameInput:     nameInput,
		currentField:  fieldEmail,
		width:         width,
		height:        height,
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoginFailed:
		m.submitting = false
		m.errMsg = msg.Err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit

		case "esc":
			return m, func() tea.Msg {
				return BackToConversationList{}
			}

		case "tab", "shift+tab":
			if msg.String() == "tab" {
				m.nextField()
			} else {
				m.prevField()
			}
			return m, nil

		case "enter":
			switch m.currentField {
			case fieldModeToggle:
				m.toggleMode()
				return m, nil
			case fieldSubmitButton:
				return m.submit()
			default:
				m.nextField()
				return m, nil
			}

		case " ":
			if m.currentField == fieldModeToggle {
				m.toggleMode()
				return m, nil
			}
		}
	}

	// Update active field
	switch m.currentField {
	case fieldEmail:
		var cmd tea.Cmd
		m.emailInput, cmd = m.emailInput.Update(msg)
		cmds = append(cmds, cmd)
	case fieldPassword:
		var cmd tea.Cmd
		m.passwordInput, cmd = m.passwordInput.Update(msg)
		cmds = append(cmds, cmd)
	case fieldName:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m LoginModel) View() string {
	var b strings.Builder

	title := "Accedi"
	if m.signUp {
		title = "Crea un account"
	}
	b.WriteString(TitleStyle.Render(title) + "\n\n")

	b.WriteString(RenderFieldLabel("Email:", m.currentField == fieldEmail) + "\n")
	b.WriteString(m.emailInput.View() + "\n\n")

	b.WriteString(RenderFieldLabel("Password:", m.currentField == fieldPassword) + "\n")
	b.WriteString(m.passwordInput.View() + "\n\n")

	if m.signUp {
		b.WriteString(RenderFieldLabel("Nome:", m.currentField == fieldName) + "\n")
		b.WriteString(m.nameInput.View() + "\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(RenderError(m.errMsg) + "\n\n")
	}

	submitLabel := "Accedi"
	if m.signUp {
		submitLabel = "Registrati"
	}
	if m.submitting {
		submitLabel += "..."
	}
	b.WriteString(RenderButton(submitLabel, m.currentField == fieldSubmitButton) + "\n\n")

	toggleLabel := "Non hai un account? Registrati"
	if m.signUp {
		toggleLabel = "Hai già un account? Accedi"
	}
	b.WriteString(RenderFieldLabel(toggleLabel, m.currentField == fieldModeToggle) + "\n\n")

	helpText := "Tab/Shift+Tab: Naviga • Enter: Avanti/Conferma • Esc: Indietro • Ctrl+X: Esci"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

func (m *LoginModel) toggleMode() {
	m.signUp = !m.signUp
	m.errMsg = ""
	if !m.signUp && m.currentField == fieldName {
		m.currentField = fieldPassword
	}
	m.updateFocus()
}

func (m LoginModel) submit() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" || password == "" {
		m.errMsg = "Email e password sono obbligatorie"
		return m, nil
	}

	m.submitting = true
	m.errMsg = ""
	submit := LoginSubmit{
		Email:    email,
		Password: password,
		Name:     strings.TrimSpace(m.nameInput.Value()),
		SignUp:   m.signUp,
	}
	return m, func() tea.Msg {
		return submit
	}
}

func (m *LoginModel) nextField() {
	m.currentField = m.advance(m.currentField, 1)
	m.updateFocus()
}

func (m *LoginModel) prevField() {
	m.currentField = m.advance(m.currentField, -1)
	m.updateFocus()
}

func (m *LoginModel) advance(f loginField, dir int) loginField {
	f += loginField(dir)
	if f > fieldModeToggle {
		f = fieldEmail
	}
	if f < fieldEmail {
		f = fieldModeToggle
	}
	// The name field only exists while registering.
	if f == fieldName && !m.signUp {
		f += loginField(dir)
	}
	return f
}

func (m *LoginModel) updateFocus() {
	m.emailInput.Blur()
	m.passwordInput.Blur()
	m.nameInput.Blur()

	switch m.currentField {
	case fieldEmail:
		m.emailInput.Focus()
	case fieldPassword:
		m.passwordInput.Focus()
	case fieldName:
		m.nameInput.Focus()
	}
}
