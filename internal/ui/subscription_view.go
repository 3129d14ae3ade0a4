package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"simonai/internal/subscription"
)

type subscriptionStep int

const (
	stepPlans subscriptionStep = iota
	stepPayment
	stepDone
)

type SubscriptionViewModel struct {
	step           subscriptionStep
	planIndex      int
	selectedPlan   subscription.Plan
	methodIndex    int
	methodChosen   bool
	codeInput      textinput.Model
	emailInput     textinput.Model
	passwordInput  textinput.Model
	activeInput    int
	paymentErr     string
	width          int
	height         int
}

func NewSubscriptionViewModel(width, height int) SubscriptionViewModel {
	codeInput := textinput.New()
	codeInput.Placeholder = "XXXX-XXXX-XXXX"
	codeInput.CharLimit = 40
	codeInput.Width = 30

	emailInput := textinput.New()
	emailInput.Placeholder = "email@esempio.com"
	emailInput.CharLimit = 100
	emailInput.Width = 30

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'
	passwordInput.CharLimit = 100
	passwordInput.Width = 30

	return SubscriptionViewModel{
		codeInput:     codeInput,
		emailInput:    emailInput,
		passwordInput: passwordInput,
		width:         width,
		height:        height,
	}
}

func (m SubscriptionViewModel) Init() tea.Cmd {
	return nil
}

func (m SubscriptionViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit
		case "esc":
			return m.back()
		}

		switch m.step {
		case stepPlans:
			return m.updatePlans(msg)
		case stepPayment:
			return m.updatePayment(msg)
		case stepDone:
			if msg.String() == "enter" {
				return m, func() tea.Msg {
					return BackToConversationList{}
				}
			}
			return m, nil
		}
	}

	if m.step == stepPayment && m.methodChosen {
		return m.updatePaymentInputs(msg)
	}
	return m, nil
}

func (m SubscriptionViewModel) back() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepPayment:
		m.step = stepPlans
		m.methodChosen = false
		m.paymentErr = ""
		m.codeInput.SetValue("")
		m.emailInput.SetValue("")
		m.passwordInput.SetValue("")
		return m, nil
	default:
		return m, func() tea.Msg {
			return BackToConversationList{}
		}
	}
}

func (m SubscriptionViewModel) updatePlans(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "left":
		if m.planIndex > 0 {
			m.planIndex--
		}
	case "down", "right":
		if m.planIndex < len(subscription.Plans)-1 {
			m.planIndex++
		}
	case "enter":
		plan := subscription.Plans[m.planIndex]
		// The free tier is the current plan, nothing to buy.
		if plan.Free() {
			return m, nil
		}
		m.selectedPlan = plan
		m.step = stepPayment
		m.methodIndex = 0
		m.methodChosen = false
	}
	return m, nil
}

func (m SubscriptionViewModel) updatePayment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.methodChosen {
		switch msg.String() {
		case "up":
			if m.methodIndex > 0 {
				m.methodIndex--
			}
		case "down":
			if m.methodIndex < len(subscription.PaymentMethods)-1 {
				m.methodIndex++
			}
		case "enter":
			m.methodChosen = true
			m.activeInput = 0
			m.paymentErr = ""
			m.focusPaymentInput()
		}
		return m, nil
	}

	switch msg.String() {
	case "tab":
		if m.method() == subscription.PaymentPayPal {
			m.activeInput = (m.activeInput + 1) % 2
			m.focusPaymentInput()
		}
		return m, nil

	case "enter":
		payment := subscription.Payment{
			Method:   m.method(),
			Code:     m.codeInput.Value(),
			Email:    m.emailInput.Value(),
			Password: m.passwordInput.Value(),
		}
		if err := subscription.Checkout(m.selectedPlan, payment); err != nil {
			m.paymentErr = err.Error()
			return m, nil
		}
		m.step = stepDone
		return m, nil
	}

	return m.updatePaymentInputs(msg)
}

func (m SubscriptionViewModel) updatePaymentInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.method() {
	case subscription.PaymentPayPal:
		if m.activeInput == 0 {
			m.emailInput, cmd = m.emailInput.Update(msg)
		} else {
			m.passwordInput, cmd = m.passwordInput.Update(msg)
		}
	default:
		m.codeInput, cmd = m.codeInput.Update(msg)
	}
	return m, cmd
}

func (m SubscriptionViewModel) method() subscription.PaymentMethod {
	return subscription.PaymentMethods[m.methodIndex]
}

func (m *SubscriptionViewModel) focusPaymentInput() {
	m.codeInput.Blur()
	m.emailInput.Blur()
	m.passwordInput.Blur()

	switch m.method() {
	case subscription.PaymentPayPal:
		if m.activeInput == 0 {
			m.emailInput.Focus()
		} else {
			m.passwordInput.Focus()
		}
	default:
		m.codeInput.Focus()
	}
}

func (m SubscriptionViewModel) View() string {
	switch m.step {
	case stepPayment:
		return m.viewPayment()
	case stepDone:
		return m.viewDone()
	default:
		return m.viewPlans()
	}
}

func (m SubscriptionViewModel) viewPlans() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Scegli il tuo piano") + "\n")
	b.WriteString(MetadataStyle.Render("Sblocca tutto il potenziale di SimonAI") + "\n\n")

	cardWidth := 34
	cards := make([]string, 0, len(subscription.Plans))
	for i, plan := range subscription.Plans {
		var card strings.Builder

		name := plan.Name
		if plan.Popular {
			name += " " + PopularBadgeStyle.Render("Più popolare")
		}
		card.WriteString(DialogTitleStyle.Render(name) + "\n")
		card.WriteString(DialogMessageStyle.Render(plan.PriceLabel()) + "\n\n")
		for _, feature := range plan.Features {
			card.WriteString(DialogNormalItemStyle.Render("✓ "+feature) + "\n")
		}

		style := GetDialogBorderStyle(cardWidth)
		if i == m.planIndex {
			style = style.BorderForeground(TitleStyle.GetForeground())
		}
		cards = append(cards, style.Render(card.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	b.WriteString(MetadataStyle.Render("Ti servono più funzioni? Opta per l'abbonamento adatto a te!") + "\n")

	helpText := "←/→: Naviga • Enter: Scegli • Esc: Indietro • Ctrl+X: Esci"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

func (m SubscriptionViewModel) viewPayment() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Metodo di pagamento") + "\n")
	b.WriteString(MetadataStyle.Render("Piano "+m.selectedPlan.Name) + "\n\n")

	for i, method := range subscription.PaymentMethods {
		state := "normal"
		if i == m.methodIndex {
			state = "selected"
		}
		b.WriteString(GetDialogItemStyle(30, state).Render("  "+method.Label()) + "\n")
	}
	b.WriteString("\n")

	if m.methodChosen {
		switch m.method() {
		case subscription.PaymentPayPal:
			b.WriteString(RenderFieldLabel("Email PayPal:", m.activeInput == 0) + "\n")
			b.WriteString(m.emailInput.View() + "\n\n")
			b.WriteString(RenderFieldLabel("Password PayPal:", m.activeInput == 1) + "\n")
			b.WriteString(m.passwordInput.View() + "\n\n")
		case subscription.PaymentXbox:
			b.WriteString(RenderFieldLabel("Inserisci codice Xbox:", true) + "\n")
			b.WriteString(m.codeInput.View() + "\n\n")
		default:
			b.WriteString(RenderFieldLabel("Inserisci codice:", true) + "\n")
			b.WriteString(m.codeInput.View() + "\n\n")
		}

		if m.paymentErr != "" {
			b.WriteString(RenderError(m.paymentErr) + "\n\n")
		}
		b.WriteString(RenderButton("Completa pagamento", true) + "\n")
	}

	helpText := "↑/↓: Naviga • Enter: Conferma • Esc: Indietro • Ctrl+X: Esci"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

func (m SubscriptionViewModel) viewDone() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Abbonamento") + "\n\n")
	b.WriteString(DialogMessageStyle.Render(subscription.ConfirmationMessage) + "\n\n")
	b.WriteString(helpStyle.Render("Enter/Esc: Torna alle chat"))
	return b.String()
}
