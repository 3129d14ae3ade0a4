package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"simonai/internal/models"
)

type ConversationListModel struct {
	list     list.Model
	signedIn bool
	userName string
	width    int
	height   int
	err      error
}

type conversationItem struct {
	conv models.Conversation
}

func (i conversationItem) Title() string { return i.conv.Title }
func (i conversationItem) Description() string {
	return fmt.Sprintf("Creato: %s | Messaggi: %d",
		i.conv.CreatedAt.Format("2006-01-02 15:04"), len(i.conv.Messages))
}
func (i conversationItem) FilterValue() string { return i.conv.Title }

// Messages emitted towards the application model.
type ConversationSelected struct {
	ID string
}

type CreateNewChat struct{}

type DeleteConversationRequest struct {
	ID    string
	Title string
}

type DeleteAllConversationsRequest struct{}

type OpenSettings struct{}

type OpenSubscription struct{}

type OpenLogin struct{}

type SignOutRequest struct{}

func NewConversationListModel(convs []models.Conversation, signedIn bool, userName string, width, height int) ConversationListModel {
	items := make([]list.Item, len(convs))
	for i, c := range convs {
		items[i] = conversationItem{conv: c}
	}

	l := list.New(items, CreateThemedDelegate(), width, height-4)
	l.Title = "Le tue chat"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	ConfigureListStyles(&l)

	// Disable all built-in key bindings except arrows and filter
	l.KeyMap.CursorUp = key.NewBinding(key.WithKeys("up"))
	l.KeyMap.CursorDown = key.NewBinding(key.WithKeys("down"))
	l.KeyMap.NextPage = key.NewBinding()
	l.KeyMap.PrevPage = key.NewBinding()
	l.KeyMap.GoToStart = key.NewBinding()
	l.KeyMap.GoToEnd = key.NewBinding()
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("/"))
	l.KeyMap.ClearFilter = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.CancelWhileFiltering = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.AcceptWhileFiltering = key.NewBinding(key.WithKeys("enter"))
	l.KeyMap.ShowFullHelp = key.NewBinding()
	l.KeyMap.CloseFullHelp = key.NewBinding()
	l.KeyMap.Quit = key.NewBinding()
	l.KeyMap.ForceQuit = key.NewBinding()

	return ConversationListModel{
		list:     l,
		signedIn: signedIn,
		userName: userName,
		width:    width,
		height:   height,
	}
}

func (m ConversationListModel) Init() tea.Cmd {
	return nil
}

func (m ConversationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit

		case "enter":
			selectedItem := m.list.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			conv := selectedItem.(conversationItem).conv
			return m, func() tea.Msg {
				return ConversationSelected{ID: conv.ID}
			}

		case "ctrl+n":
			return m, func() tea.Msg {
				return CreateNewChat{}
			}

		case "ctrl+d":
			selectedItem := m.list.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			conv := selectedItem.(conversationItem).conv
			return m, func() tea.Msg {
				return DeleteConversationRequest{ID: conv.ID, Title: conv.Title}
			}

		case "ctrl+e":
			if len(m.list.Items()) == 0 {
				return m, nil
			}
			return m, func() tea.Msg {
				return DeleteAllConversationsRequest{}
			}

		case "ctrl+s":
			return m, func() tea.Msg {
				return OpenSettings{}
			}

		case "ctrl+b":
			return m, func() tea.Msg {
				return OpenSubscription{}
			}

		case "ctrl+l":
			if m.signedIn {
				return m, func() tea.Msg {
					return SignOutRequest{}
				}
			}
			return m, func() tea.Msg {
				return OpenLogin{}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ConversationListModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+X to exit", m.err))
	}

	account := "Ospite (la cronologia non viene salvata)"
	sessionKey := "Ctrl+L: Accedi"
	if m.signedIn {
		account = "Connesso come " + m.userName
		sessionKey = "Ctrl+L: Esci"
	}

	helpText := "↑/↓: Naviga • Enter: Apri • /: Filtra • Ctrl+N: Nuova chat • Ctrl+D: Elimina • " +
		"Ctrl+E: Elimina tutte • Ctrl+S: Impostazioni • Ctrl+B: Abbonamento • " + sessionKey + " • Ctrl+X: Esci"

	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		statusBarStyle.Render(account),
		helpStyle.Render(helpText),
	)
}

func (m *ConversationListModel) RefreshConversations(convs []models.Conversation) {
	items := make([]list.Item, len(convs))
	for i, c := range convs {
		items[i] = conversationItem{conv: c}
	}
	m.list.SetItems(items)
}
