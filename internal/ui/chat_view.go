package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"simonai/internal/chat"
	"simonai/internal/logging"
	"simonai/internal/models"
)

const (
	titleHeight    = 4
	textareaHeight = 5
	helpHeight     = 2
	padding        = 2
)

type ChatViewModel struct {
	reconciler *chat.Reconciler
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	width      int
	height     int
	sending    bool
	warning    string
	err        error
	ctx        context.Context
	cancelFunc context.CancelFunc
	mdRenderer *glamour.TermRenderer
}

type SendFinished struct {
	Err error
}

type BackToConversationList struct{}

// createMarkdownRenderer creates a markdown renderer with fallback handling
func createMarkdownRenderer(width int) *glamour.TermRenderer {
	// Try auto style first
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-10),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with auto style: %v, trying fallback", err)

	renderer, err = glamour.NewTermRenderer(
		glamour.WithWordWrap(width - 10),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with basic style: %v, using no style", err)

	renderer, err = glamour.NewTermRenderer()
	if err != nil {
		logging.Error("Critical: Failed to create basic markdown renderer: %v", err)
		return nil
	}

	return renderer
}

// safeRenderMarkdown safely renders markdown with panic recovery and fallback
func (m *ChatViewModel) safeRenderMarkdown(content string) string {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Panic in markdown rendering: %v", r)
		}
	}()

	if m.mdRenderer == nil {
		return content
	}
	if content == "" {
		return content
	}

	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		logging.Error("Markdown rendering error: %v, falling back to plain text", err)
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

func NewChatViewModel(reconciler *chat.Reconciler, width, height int) ChatViewModel {
	ta := textarea.New()
	ta.Placeholder = "Scrivi un messaggio, oppure allega un'immagine col suo percorso..."
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Configure textarea key bindings - keep only essential editing keys
	ta.KeyMap.CharacterForward = key.NewBinding(key.WithKeys("right"))
	ta.KeyMap.CharacterBackward = key.NewBinding(key.WithKeys("left"))
	ta.KeyMap.LineStart = key.NewBinding(key.WithKeys("home"))
	ta.KeyMap.LineEnd = key.NewBinding(key.WithKeys("end"))
	ta.KeyMap.DeleteCharacterBackward = key.NewBinding(key.WithKeys("backspace"))
	ta.KeyMap.DeleteCharacterForward = key.NewBinding(key.WithKeys("delete"))
	ta.KeyMap.LineNext = key.NewBinding()
	ta.KeyMap.LinePrevious = key.NewBinding()
	ta.KeyMap.WordForward = key.NewBinding()
	ta.KeyMap.WordBackward = key.NewBinding()
	ta.KeyMap.DeleteWordBackward = key.NewBinding()
	ta.KeyMap.DeleteWordForward = key.NewBinding()
	ta.KeyMap.DeleteAfterCursor = key.NewBinding()
	ta.KeyMap.DeleteBeforeCursor = key.NewBinding()
	ta.KeyMap.InsertNewline = key.NewBinding()

	viewportHeight := height - titleHeight - textareaHeight - helpHeight - padding
	vp := viewport.New(width-6, viewportHeight)
	vp.SetContent("")
	vp.MouseWheelDelta = 2

	// Configure viewport key bindings - keep arrows and page up/down
	vp.KeyMap.Down = key.NewBinding(key.WithKeys("down"))
	vp.KeyMap.Up = key.NewBinding(key.WithKeys("up"))
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup"))
	vp.KeyMap.HalfPageDown = key.NewBinding()
	vp.KeyMap.HalfPageUp = key.NewBinding()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	mdRenderer := createMarkdownRenderer(width)

	m := ChatViewModel{
		reconciler: reconciler,
		viewport:   vp,
		textarea:   ta,
		spinner:    sp,
		width:      width,
		height:     height,
		ctx:        ctx,
		cancelFunc: cancel,
		mdRenderer: mdRenderer,
	}
	m.renderMessages()
	m.viewport.GotoBottom()
	return m
}

func (m ChatViewModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func (m ChatViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := msg.Height - titleHeight - textareaHeight - helpHeight - padding
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = viewportHeight
		m.textarea.SetWidth(msg.Width - 4)
		m.mdRenderer = createMarkdownRenderer(msg.Width)
		m.renderMessages()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+x":
			m.cancelFunc()
			return m, tea.Quit

		case "esc":
			return m, func() tea.Msg {
				return BackToConversationList{}
			}

		case "enter":
			if !m.sending && strings.TrimSpace(m.textarea.Value()) != "" {
				input := m.textarea.Value()
				m.textarea.Reset()
				m.sending = true
				m.warning = ""
				return m, tea.Batch(m.sendMessage(input), m.spinner.Tick)
			}
		}

	case SendFinished:
		m.sending = false
		switch {
		case msg.Err == nil:
		case errors.Is(msg.Err, chat.ErrPersistence):
			m.warning = "Salvataggio non riuscito, la chat resta solo in locale"
		case errors.Is(msg.Err, chat.ErrBusy):
			// Input is disabled while sending, so this should not happen.
		default:
			m.warning = msg.Err.Error()
		}
		m.renderMessages()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.sending {
			// The user message lands in the thread as soon as the send
			// starts; pick it up on the next tick.
			m.renderMessages()
			m.viewport.GotoBottom()
		}
		return m, cmd
	}

	if !m.sending {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatViewModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Esc to go back", m.err))
	}

	snapshot := m.reconciler.Snapshot()

	var b strings.Builder

	title := "Nuova chat"
	for _, conv := range snapshot.Conversations {
		if conv.ID == snapshot.Selected {
			title = conv.Title
			break
		}
	}
	b.WriteString(TitleWithPaddingStyle.Render("SimonAI — "+title) + "\n")

	statusLine := fmt.Sprintf("Messaggi: %d", len(snapshot.Thread))
	if m.sending {
		statusLine += " | " + m.spinner.View() + " Simon sta scrivendo..."
	}
	if m.warning != "" {
		statusLine += " | " + WarningMessageStyle.Render(m.warning)
	}
	b.WriteString(statusBarStyle.Render(statusLine) + "\n\n")

	viewportWithBorder := RenderViewportWithBorder(m.viewport.View())
	b.WriteString(viewportWithBorder)
	b.WriteString("\n")

	scrollInfo := m.renderScrollIndicator()
	if scrollInfo != "" {
		b.WriteString(scrollInfo)
	}
	b.WriteString("\n\n")

	b.WriteString(m.textarea.View() + "\n")

	helpText := "Enter: Invia • ↑/↓: Scorri • PgUp/PgDn: Pagina • Esc: Indietro • Ctrl+X: Esci"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

func (m ChatViewModel) sendMessage(input string) tea.Cmd {
	ctx := m.ctx
	rec := m.reconciler
	return func() tea.Msg {
		text, imageDataURL, err := chat.ExtractImageAttachment(input)
		if err != nil {
			logging.Error("failed to read attachment: %v", err)
			return SendFinished{Err: err}
		}
		return SendFinished{Err: rec.Send(ctx, text, imageDataURL)}
	}
}

func (m *ChatViewModel) renderMessages() {
	snapshot := m.reconciler.Snapshot()

	var b strings.Builder
	for _, msg := range snapshot.Thread {
		if msg.Role == models.RoleUser {
			label := UserMessageLabelStyle.Render("Tu:")
			content := m.safeRenderMarkdown(msg.Content)
			if msg.ImageURL != "" {
				content += "\n" + ImageLinkStyle.Render("[immagine allegata]")
			}
			ts := TimestampStyle.Render(msg.Timestamp.Format(time.Kitchen))
			b.WriteString(GetUserMessageContentStyle(m.width).Render(label + " " + ts + "\n" + content))
		} else {
			label := AssistantMessageLabelStyle.Render("Simon:")
			content := m.safeRenderMarkdown(msg.Content)
			if msg.ImageURL != "" {
				content += "\n" + ImageLinkStyle.Render(msg.ImageURL)
			}
			ts := TimestampStyle.Render(msg.Timestamp.Format(time.Kitchen))
			b.WriteString(GetAssistantMessageContentStyle(m.width).Render(label + " " + ts + "\n" + content))
		}
		b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

func (m ChatViewModel) renderScrollIndicator() string {
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		return ""
	}

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	indicator := fmt.Sprintf("Scroll: %d%% ↕", scrollPercent)

	return ScrollIndicatorStyle.Render(indicator)
}
