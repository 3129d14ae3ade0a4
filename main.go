package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"simonai/internal/auth"
	"simonai/internal/chat"
	"simonai/internal/config"
	"simonai/internal/logging"
	"simonai/internal/models"
	"simonai/internal/openrouter"
	"simonai/internal/settings"
	"simonai/internal/store"
	"simonai/internal/ui"
)

type appState int

const (
	stateConversationList appState = iota
	stateChat
	stateLogin
	stateSettings
	stateSubscription
)

// localUserID keys settings saved while no account is signed in.
const localUserID = "local"

type model struct {
	state       appState
	reconciler  *chat.Reconciler
	authService *auth.Service
	settingsSvc *settings.Service

	session *auth.Session

	// UI models
	listModel         ui.ConversationListModel
	chatModel         ui.ChatViewModel
	loginModel        ui.LoginModel
	settingsModel     ui.SettingsViewModel
	subscriptionModel ui.SubscriptionViewModel

	// Pending modal confirmation, nil when none
	confirm *ui.ConfirmModel

	// Screen size
	width  int
	height int

	// Error state
	err error
}

type sessionStarted struct {
	session *auth.Session
}

func openStore(cfg *config.Config) (store.Store, error) {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return store.NewSQLiteStore(filepath.Join(dataDir, "simonai.db"))
	default:
		return store.NewBadgerStore(filepath.Join(dataDir, "badger"))
	}
}

func main() {
	// A missing .env is fine, the config file can carry the key instead.
	godotenv.Load()

	if err := logging.InitLogger(); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	client := openrouter.NewClient(openrouter.Config{
		APIKey:      cfg.ResolveAPIKey(),
		BaseURL:     cfg.API.BaseURL,
		Referer:     cfg.API.Referer,
		ChatModel:   cfg.API.ChatModel,
		VisionModel: cfg.API.VisionModel,
		ImageModel:  cfg.API.ImageModel,
	})

	reconciler := chat.NewReconciler(st, client, nil)

	initialModel := model{
		state:       stateConversationList,
		reconciler:  reconciler,
		authService: auth.NewService(st),
		settingsSvc: settings.NewService(st),
		width:       80,
		height:      24,
	}
	initialModel.listModel = ui.NewConversationListModel(nil, false, "", 80, 24)

	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

func (m model) Init() tea.Cmd {
	return m.listModel.Init()
}

func (m *model) refreshList() {
	snapshot := m.reconciler.Snapshot()
	name := ""
	if m.session != nil {
		name = m.session.Name
	}
	m.listModel = ui.NewConversationListModel(snapshot.Conversations, m.session != nil, name, m.width, m.height)
}

func (m model) settingsUserID() string {
	if m.session != nil {
		return m.session.UserID
	}
	return localUserID
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.confirm != nil {
			newConfirm, _ := m.confirm.Update(msg)
			confirm := newConfirm.(ui.ConfirmModel)
			m.confirm = &confirm
		}
		return m.delegate(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// A pending confirmation swallows all keys.
		if m.confirm != nil {
			newConfirm, cmd := m.confirm.Update(msg)
			confirm := newConfirm.(ui.ConfirmModel)
			m.confirm = &confirm
			return m, cmd
		}

	case ui.ConfirmDismissed:
		m.confirm = nil
		return m, nil

	case ui.ConfirmAccepted:
		m.confirm = nil
		switch msg.Action {
		case ui.ConfirmDeleteConversation:
			if err := m.reconciler.DeleteConversation(context.Background(), msg.ID); err != nil {
				logging.Error("delete conversation: %v", err)
			}
		case ui.ConfirmDeleteAll:
			if err := m.reconciler.DeleteAllConversations(context.Background()); err != nil {
				logging.Error("delete all conversations: %v", err)
			}
		case ui.ConfirmSignOut:
			m.reconciler.SignOut()
			m.session = nil
		}
		m.refreshList()
		return m, nil

	case ui.ConversationSelected:
		m.reconciler.SelectConversation(msg.ID)
		m.state = stateChat
		m.chatModel = ui.NewChatViewModel(m.reconciler, m.width, m.height)
		return m, m.chatModel.Init()

	case ui.CreateNewChat:
		m.reconciler.NewChat()
		m.state = stateChat
		m.chatModel = ui.NewChatViewModel(m.reconciler, m.width, m.height)
		return m, m.chatModel.Init()

	case ui.DeleteConversationRequest:
		confirm := ui.NewConfirmModel(
			"Elimina chat",
			fmt.Sprintf("Vuoi eliminare \"%s\"?", msg.Title),
			ui.ConfirmDeleteConversation, msg.ID, m.width, m.height)
		m.confirm = &confirm
		return m, nil

	case ui.DeleteAllConversationsRequest:
		if m.session == nil {
			// Deleting everything needs an account to delete from.
			m.state = stateLogin
			m.loginModel = ui.NewLoginModel(m.width, m.height)
			return m, m.loginModel.Init()
		}
		confirm := ui.NewConfirmModel(
			"Elimina tutte le chat",
			"Vuoi eliminare tutte le conversazioni? L'operazione non si può annullare.",
			ui.ConfirmDeleteAll, "", m.width, m.height)
		m.confirm = &confirm
		return m, nil

	case ui.SignOutRequest:
		confirm := ui.NewConfirmModel(
			"Esci",
			"Vuoi disconnetterti? Le chat non salvate andranno perse.",
			ui.ConfirmSignOut, "", m.width, m.height)
		m.confirm = &confirm
		return m, nil

	case ui.OpenLogin:
		m.state = stateLogin
		m.loginModel = ui.NewLoginModel(m.width, m.height)
		return m, m.loginModel.Init()

	case ui.LoginSubmit:
		return m, m.runLogin(msg)

	case sessionStarted:
		m.session = msg.session
		m.state = stateConversationList
		m.refreshList()
		return m, m.listModel.Init()

	case ui.OpenSettings:
		current, err := m.settingsSvc.Load(context.Background(), m.settingsUserID())
		if err != nil {
			logging.Error("load settings: %v", err)
			current = models.DefaultSettings(m.settingsUserID())
		}
		m.state = stateSettings
		m.settingsModel = ui.NewSettingsViewModel(*current, m.session != nil, m.width, m.height)
		return m, m.settingsModel.Init()

	case ui.SettingsSaved:
		saved := msg.Settings
		if err := m.settingsSvc.Save(context.Background(), &saved); err != nil {
			logging.Error("save settings: %v", err)
		}
		m.state = stateConversationList
		m.refreshList()
		return m, m.listModel.Init()

	case ui.OpenSubscription:
		m.state = stateSubscription
		m.subscriptionModel = ui.NewSubscriptionViewModel(m.width, m.height)
		return m, m.subscriptionModel.Init()

	case ui.BackToConversationList:
		m.state = stateConversationList
		m.refreshList()
		return m, m.listModel.Init()
	}

	return m.delegate(msg)
}

func (m model) runLogin(msg ui.LoginSubmit) tea.Cmd {
	authService := m.authService
	reconciler := m.reconciler
	return func() tea.Msg {
		ctx := context.Background()

		var session *auth.Session
		var err error
		if msg.SignUp {
			session, err = authService.SignUp(ctx, msg.Email, msg.Password, msg.Name)
		} else {
			session, err = authService.SignIn(ctx, msg.Email, msg.Password)
		}
		if err != nil {
			return ui.LoginFailed{Err: err}
		}

		if err := reconciler.SignIn(ctx, session.UserID); err != nil {
			return ui.LoginFailed{Err: err}
		}
		return sessionStarted{session: session}
	}
}

func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateConversationList:
		newModel, cmd := m.listModel.Update(msg)
		m.listModel = newModel.(ui.ConversationListModel)
		return m, cmd

	case stateChat:
		newModel, cmd := m.chatModel.Update(msg)
		m.chatModel = newModel.(ui.ChatViewModel)
		return m, cmd

	case stateLogin:
		newModel, cmd := m.loginModel.Update(msg)
		m.loginModel = newModel.(ui.LoginModel)
		return m, cmd

	case stateSettings:
		newModel, cmd := m.settingsModel.Update(msg)
		m.settingsModel = newModel.(ui.SettingsViewModel)
		return m, cmd

	case stateSubscription:
		newModel, cmd := m.subscriptionModel.Update(msg)
		m.subscriptionModel = newModel.(ui.SubscriptionViewModel)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err)
	}

	var view string
	switch m.state {
	case stateConversationList:
		view = m.listModel.View()
	case stateChat:
		view = m.chatModel.View()
	case stateLogin:
		view = m.loginModel.View()
	case stateSettings:
		view = m.settingsModel.View()
	case stateSubscription:
		view = m.subscriptionModel.View()
	default:
		view = "Loading..."
	}

	if m.confirm != nil {
		return m.confirm.RenderOverlay(view)
	}
	return view
}
