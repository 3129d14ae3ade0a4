package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"simonai/internal/models"
)

type settingsField int

const (
	settingDarkMode settingsField = iota
	settingNotifications
	settingSaveHistory
	settingSaveButton
)

type SettingsViewModel struct {
	settings     models.Settings
	signedIn     bool
	currentField settingsField
	width        int
	height       int
}

// SettingsSaved carries the edited settings back to the application.
type SettingsSaved struct {
	Settings models.Settings
}

func NewSettingsViewModel(settings models.Settings, signedIn bool, width, height int) SettingsViewModel {
	return SettingsViewModel{
		settings: settings,
		signedIn: signedIn,
		width:    width,
		height:   height,
	}
}

func (m SettingsViewModel) Init() tea.Cmd {
	return nil
}

func (m SettingsViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			return m, func() tea.Msg {
				return BackToConversationList{}
			}

		case "tab", "down":
			m.currentField++
			if m.currentField > settingSaveButton {
				m.currentField = settingDarkMode
			}
			return m, nil

		case "shift+tab", "up":
			m.currentField--
			if m.currentField < settingDarkMode {
				m.currentField = settingSaveButton
			}
			return m, nil

		case " ":
			m.toggle()
			return m, nil

		case "enter":
			if m.currentField == settingSaveButton {
				saved := SettingsSaved{Settings: m.settings}
				return m, func() tea.Msg {
					return saved
				}
			}
			m.toggle()
			return m, nil
		}
	}

	return m, nil
}

func (m *SettingsViewModel) toggle() {
	switch m.currentField {
	case settingDarkMode:
		m.settings.DarkMode = !m.settings.DarkMode
	case settingNotifications:
		m.settings.NotificationsEnabled = !m.settings.NotificationsEnabled
	case settingSaveHistory:
		m.settings.SaveHistory = !m.settings.SaveHistory
	}
}

func checkbox(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

func (m SettingsViewModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Impostazioni") + "\n\n")

	b.WriteString(RenderFieldLabel("Tema scuro:", m.currentField == settingDarkMode))
	b.WriteString(" " + checkbox(m.settings.DarkMode) + "\n\n")

	b.WriteString(RenderFieldLabel("Notifiche:", m.currentField == settingNotifications))
	b.WriteString(" " + checkbox(m.settings.NotificationsEnabled) + "\n\n")

	b.WriteString(RenderFieldLabel("Salva cronologia:", m.currentField == settingSaveHistory))
	b.WriteString(" " + checkbox(m.settings.SaveHistory) + "\n\n")

	if !m.signedIn {
		b.WriteString(MetadataStyle.Render("Accedi per conservare le impostazioni tra le sessioni.") + "\n\n")
	}

	b.WriteString(RenderButton("Salva", m.currentField == settingSaveButton) + "\n\n")

	helpText := "Tab/↑/↓: Naviga • Spazio: Attiva/Disattiva • Enter: Salva • Esc: Indietro • Ctrl+X: Esci"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}
