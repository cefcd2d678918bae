package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/perch-ai/perch/internal/config"
	"github.com/perch-ai/perch/internal/llm"
	"github.com/perch-ai/perch/internal/models"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeInput       Mode = iota
	ModeLoading          // Waiting for an answer
	ModeAnswer           // Display conversation
	ModeModelSelect      // Model selection menu
)

const inputPlaceholder = "Ask anything..."

var errNoResolver = errors.New("no provider resolver configured")

// ResolveFunc maps a chat model to the endpoint, key and upstream name used
// to reach it
type ResolveFunc func(models.ChatModel) (llm.ProviderConfig, error)

// Options configures a new Model
type Options struct {
	Store        *config.Store
	Resolve      ResolveFunc
	InitialQuery string
	Version      string
}

// Model is the main Bubble Tea model
type Model struct {
	mode      Mode
	textInput textinput.Model
	spinner   spinner.Model
	store     *config.Store
	version   string

	// Provider for the currently selected model, built lazily
	resolve     ResolveFunc
	build       func(llm.ProviderConfig) (llm.Provider, error)
	provider    llm.Provider
	providerCfg llm.ProviderConfig
	providerFor models.ChatModel

	err error

	// Display dimensions
	width  int
	height int

	// Startup state
	initialQuery string

	// Loading state
	loadingMessage string

	// Conversation history for multi-turn chat
	conversationID      string
	conversationHistory []llm.ConversationMessage

	// Markdown renderer for answers
	markdownRenderer *glamour.TermRenderer

	// Viewport for scrollable conversation
	answerViewport viewport.Model
	viewportReady  bool

	// Starter questions; -1 when none is highlighted
	starterCursor int

	// Model selection state
	selector  selector
	showLocal bool // local models offered in the selector this session

	// Slash command menu state
	showSlashMenu bool
	slashCommands []SlashCommand
	slashCursor   int
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = PromptStyle
	ti.Prompt = "❯ "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	store := opts.Store
	if store == nil {
		store = config.NewStore(nil, "")
	}

	m := Model{
		mode:             ModeInput,
		textInput:        ti,
		spinner:          s,
		store:            store,
		version:          opts.Version,
		resolve:          opts.Resolve,
		build:            llm.NewProvider,
		initialQuery:     opts.InitialQuery,
		conversationID:   uuid.NewString(),
		markdownRenderer: newMarkdownRenderer(80),
		starterCursor:    -1,
		showLocal:        store.ShowLocalModels(),
	}

	if opts.InitialQuery != "" {
		m.textInput.SetValue(opts.InitialQuery)
	}

	return m
}

// newMarkdownRenderer returns a glamour renderer wrapping at width, or nil
// if one cannot be built. Answers then render as plain wrapped text.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	// WithAutoStyle() sends OSC escape sequences that conflict with Bubble Tea
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		zlog.Warn().Err(err).Int("width", width).Msg("failed to create markdown renderer")
		return nil
	}
	return renderer
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.initialQuery != "" {
		return func() tea.Msg { return submitMsg{query: m.initialQuery} }
	}
	return textinput.Blink
}

// submitMsg asks a question from outside the key handlers
type submitMsg struct {
	query string
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := ContentWidth(msg.Width)
		if renderer := newMarkdownRenderer(contentWidth); renderer != nil {
			m.markdownRenderer = renderer
		}

		// total - frame border/padding - header - input area - footer
		viewportHeight := msg.Height - 14
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.viewportReady {
			m.answerViewport = viewport.New(contentWidth, viewportHeight)
			m.viewportReady = true
		} else {
			m.answerViewport.Width = contentWidth
			m.answerViewport.Height = viewportHeight
		}

		if m.mode == ModeAnswer {
			m.answerViewport.SetContent(m.renderConversationContent())
		}
		return m, nil

	case submitMsg:
		return m.submit(msg.query)

	case AnswerMsg:
		m.mode = ModeAnswer
		m.conversationHistory = append(m.conversationHistory,
			llm.ConversationMessage{Role: "user", Content: msg.Query},
			llm.ConversationMessage{Role: "assistant", Content: msg.Result.Text},
		)
		m.textInput.SetValue("")
		m.textInput.Focus()
		if m.viewportReady {
			m.answerViewport.SetContent(m.renderConversationContent())
			m.answerViewport.GotoBottom()
		}
		return m, textinput.Blink

	case ErrorMsg:
		m.err = msg.Err
		if len(m.conversationHistory) > 0 {
			m.mode = ModeAnswer
		} else {
			m.mode = ModeInput
		}
		return m, nil

	case SelectionSavedMsg:
		if msg.Err != nil {
			zlog.Warn().Err(msg.Err).Str("model", string(msg.Model)).Msg("failed to save model selection")
			m.err = msg.Err
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// submit asks query with the selected model
func (m Model) submit(query string) (tea.Model, tea.Cmd) {
	if err := m.ensureProvider(); err != nil {
		m.err = err
		return m, nil
	}
	m.mode = ModeLoading
	m.loadingMessage = "Asking " + m.store.Descriptor().Name + "..."
	m.starterCursor = -1
	m.showSlashMenu = false
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.ask(query))
}

// ensureProvider makes m.provider talk to the selected model. A provider for
// the same endpoint is retargeted with SetModel; otherwise a new one is built.
func (m *Model) ensureProvider() error {
	selected := m.store.Model()
	if m.provider != nil && m.providerFor == selected {
		return nil
	}
	if m.resolve == nil {
		return errNoResolver
	}
	cfg, err := m.resolve(selected)
	if err != nil {
		return err
	}

	if m.provider != nil && sameEndpoint(m.providerCfg, cfg) {
		m.provider.SetModel(cfg.Model)
	} else {
		p, err := m.build(cfg)
		if err != nil {
			return err
		}
		m.provider = p
	}
	m.providerCfg = cfg
	m.providerFor = selected
	zlog.Info().Str("model", string(selected)).Str("upstream", cfg.Model).Msg("provider ready")
	return nil
}

func sameEndpoint(a, b llm.ProviderConfig) bool {
	return a.Kind == b.Kind && a.BaseURL == b.BaseURL && a.APIKey == b.APIKey
}

// selectModel makes model the current selection. The store is updated
// before this returns; persisting happens in the background.
func (m Model) selectModel(model models.ChatModel) (tea.Model, tea.Cmd) {
	if err := m.store.SetModel(model); err != nil {
		m.err = err
		return m, nil
	}
	zlog.Info().Str("model", string(model)).Msg("model selected")
	m.err = nil
	m = m.leaveModelSelect()
	return m, tea.Batch(textinput.Blink, m.saveSelection(model))
}

// openModelSelect switches to the model picker
func (m Model) openModelSelect() Model {
	m.selector = newSelector(m.showLocal, m.store.Model())
	m.mode = ModeModelSelect
	m.showSlashMenu = false
	m.textInput.SetValue("")
	m.textInput.Placeholder = "Filter models..."
	m.textInput.Focus()
	m.err = nil
	return m
}

// leaveModelSelect returns from the picker to the conversation
func (m Model) leaveModelSelect() Model {
	if len(m.conversationHistory) > 0 {
		m.mode = ModeAnswer
	} else {
		m.mode = ModeInput
	}
	m.textInput.SetValue("")
	m.textInput.Placeholder = inputPlaceholder
	m.textInput.Focus()
	return m
}

// clearConversation starts a fresh conversation
func (m Model) clearConversation() Model {
	m.conversationHistory = nil
	m.conversationID = uuid.NewString()
	m.mode = ModeInput
	m.starterCursor = -1
	m.err = nil
	m.textInput.SetValue("")
	if m.viewportReady {
		m.answerViewport.SetContent("")
	}
	return m
}

// Mode returns the current mode
func (m Model) Mode() Mode {
	return m.mode
}
