package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// ConfirmAction names what a confirm dialog was opened for.
type ConfirmAction int

const (
	ConfirmDeleteConversation ConfirmAction = iota
	ConfirmDeleteAll
	ConfirmSignOut
)

// ConfirmAccepted is sent when the user confirms the pending action.
type ConfirmAccepted struct {
	Action ConfirmAction
	ID     string
}

// ConfirmDismissed is sent when the user cancels the dialog.
type ConfirmDismissed struct{}

// ConfirmModel is a modal yes/no prompt rendered on top of the current view.
type ConfirmModel struct {
	title    string
	question string
	action   ConfirmAction
	id       string
	yes      bool
	width    int
	height   int
}

func NewConfirmModel(title, question string, action ConfirmAction, id string, width, height int) ConfirmModel {
	return ConfirmModel{
		title:    title,
		question: question,
		action:   action,
		id:       id,
		width:    width,
		height:   height,
	}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "tab":
			m.yes = !m.yes
			return m, nil

		case "enter":
			if m.yes {
				accepted := ConfirmAccepted{Action: m.action, ID: m.id}
				return m, func() tea.Msg {
					return accepted
				}
			}
			return m, func() tea.Msg {
				return ConfirmDismissed{}
			}

		case "esc", "n":
			return m, func() tea.Msg {
				return ConfirmDismissed{}
			}

		case "y", "s":
			accepted := ConfirmAccepted{Action: m.action, ID: m.id}
			return m, func() tea.Msg {
				return accepted
			}
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	overlayWidth := m.width / 2
	if overlayWidth < 40 {
		overlayWidth = 40
	}

	var content strings.Builder
	content.WriteString(DialogTitleStyle.Render(m.title))
	content.WriteString("\n\n")
	content.WriteString(DialogMessageStyle.Render(m.question))
	content.WriteString("\n\n")
	content.WriteString(RenderButton("Sì", m.yes))
	content.WriteString("  ")
	content.WriteString(RenderButton("No", !m.yes))
	content.WriteString("\n\n")
	content.WriteString(HelpTextSimpleStyle.Render("←/→: Scegli • Enter: Conferma • Esc: Annulla"))

	return GetDialogBorderStyle(overlayWidth).Render(content.String())
}

// RenderOverlay draws the dialog centered over the background view.
func (m ConfirmModel) RenderOverlay(backgroundView string) string {
	overlayModel := overlay.New(
		m,
		&staticViewModel{content: backgroundView},
		overlay.Center, // horizontal position
		overlay.Center, // vertical position
		0,              // x offset
		0,              // y offset
	)

	return overlayModel.View()
}

// staticViewModel is a simple model that renders static content (background)
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
