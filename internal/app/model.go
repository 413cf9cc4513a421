package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Harshodai/askmukthiguru/internal/breath"
	"github.com/Harshodai/askmukthiguru/internal/chat"
	"github.com/Harshodai/askmukthiguru/internal/db"
	"github.com/Harshodai/askmukthiguru/internal/log"
	"github.com/Harshodai/askmukthiguru/internal/voice"

	tea "github.com/charmbracelet/bubbletea"
)

// PanelFocus tracks which panel has keyboard focus.
type PanelFocus int

const (
	FocusInput PanelFocus = iota
	FocusConversations
)

const meditationHint = "Press ctrl+t for a Serene Mind meditation"

// Store is the persistence the TUI needs.
type Store interface {
	breath.Store
	CreateConversation(ctx context.Context, title string) (chat.Conversation, error)
	Conversations(ctx context.Context) ([]chat.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, conversationID string, role chat.Role, content string) (chat.Message, error)
	Messages(ctx context.Context, conversationID string) ([]chat.Message, error)
	MeditationStats(ctx context.Context) (db.MeditationStats, error)
}

// Options wires the model's collaborators.
type Options struct {
	Store    Store
	Provider chat.Provider
	Voice    *voice.Controller
	Events   *VoiceEvents
}

// Model is the root bubbletea model.
type Model struct {
	store    Store
	provider chat.Provider
	voice    *voice.Controller
	events   *VoiceEvents
	breath   *breath.Controller

	// Conversations
	conversations []chat.Conversation
	selected      int
	currentID     string
	messages      []chat.Message
	pending       string // question awaiting its answer
	thinking      bool

	// Input
	input textinput.Model

	// Voice
	voiceState voice.State

	// Meditation
	meditating bool
	tickID     int
	bar        progress.Model
	stats      *db.MeditationStats

	// UI state
	focusedPanel PanelFocus
	width        int
	height       int

	// Errors
	errorMessage   string
	errorTransient bool

	// Status
	statusText string
}

// New creates a model with an empty conversation focused on the input.
func New(opts Options) Model {
	input := textinput.New()
	input.Placeholder = "Ask Mukthi Guru..."
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Focus()

	provider := opts.Provider
	if provider == nil {
		provider = chat.PlaceholderProvider{}
	}

	m := Model{
		store:        opts.Store,
		provider:     provider,
		voice:        opts.Voice,
		events:       opts.Events,
		breath:       breath.NewController(opts.Store),
		input:        input,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		focusedPanel: FocusInput,
		statusText:   "Ready",
	}
	if m.voice != nil {
		m.voiceState = m.voice.State()
	}
	return m
}

// Init loads conversations and starts listening for voice events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		loadConversationsCmd(m.store, true),
		waitVoiceCmd(m.events),
	)
}

// loadConversationsCmd reads the conversation list.
func loadConversationsCmd(store Store, initial bool) tea.Cmd {
	return func() tea.Msg {
		convs, err := store.Conversations(context.Background())
		return ConversationsLoadedMsg{Conversations: convs, Initial: initial, Err: err}
	}
}

// loadMessagesCmd reads the messages of a conversation.
func loadMessagesCmd(store Store, id string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := store.Messages(context.Background(), id)
		return MessagesLoadedMsg{ConversationID: id, Messages: msgs, Err: err}
	}
}

// askCmd stores the question, asks the provider and stores the answer. An
// empty conversationID starts a new conversation.
func askCmd(store Store, provider chat.Provider, conversationID string, history []chat.Message, text string) tea.Cmd {
	history = append([]chat.Message(nil), history...)
	return func() tea.Msg {
		ctx := context.Background()

		if conversationID == "" {
			conv, err := store.CreateConversation(ctx, "")
			if err != nil {
				return AnswerMsg{Err: err}
			}
			conversationID = conv.ID
		}

		question, err := store.AppendMessage(ctx, conversationID, chat.RoleUser, text)
		if err != nil {
			return AnswerMsg{ConversationID: conversationID, Err: err}
		}

		reply, err := provider.Answer(ctx, history, text)
		if err != nil {
			return AnswerMsg{ConversationID: conversationID, Question: question, Err: err}
		}

		answer, err := store.AppendMessage(ctx, conversationID, chat.RoleAssistant, reply)
		if err != nil {
			return AnswerMsg{ConversationID: conversationID, Question: question, Err: err}
		}

		return AnswerMsg{
			ConversationID: conversationID,
			Question:       question,
			Answer:         answer,
			Distress:       chat.IsDistress(text),
		}
	}
}

// deleteConversationCmd removes a conversation.
func deleteConversationCmd(store Store, id string) tea.Cmd {
	return func() tea.Msg {
		return ConversationDeletedMsg{ID: id, Err: store.DeleteConversation(context.Background(), id)}
	}
}

// statsCmd reads meditation totals.
func statsCmd(store Store) tea.Cmd {
	return func() tea.Msg {
		stats, err := store.MeditationStats(context.Background())
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// breathTickCmd schedules the next one-second meditation tick.
func breathTickCmd(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return BreathTickMsg{ID: id}
	})
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.width-4)
		m.bar.Width = min(48, max(10, m.width-20))
		return m, nil

	case ConversationsLoadedMsg:
		if msg.Err != nil {
			return m, m.showError(msg.Err.Error(), true)
		}
		m.conversations = msg.Conversations
		if m.selected >= len(m.conversations) {
			m.selected = max(0, len(m.conversations)-1)
		}
		if msg.Initial && m.currentID == "" && len(m.conversations) > 0 {
			m.currentID = m.conversations[0].ID
			m.selected = 0
			return m, loadMessagesCmd(m.store, m.currentID)
		}
		return m, nil

	case MessagesLoadedMsg:
		if msg.ConversationID != m.currentID {
			return m, nil
		}
		if msg.Err != nil {
			return m, m.showError(msg.Err.Error(), true)
		}
		m.messages = msg.Messages
		return m, nil

	case AnswerMsg:
		m.thinking = false
		m.pending = ""
		if msg.ConversationID != "" && msg.ConversationID != m.currentID {
			m.currentID = msg.ConversationID
			m.messages = nil
		}
		if msg.Question.ID != "" {
			m.messages = append(m.messages, msg.Question)
		}
		if msg.Err != nil {
			if errors.Is(msg.Err, chat.ErrEmptyQuestion) {
				return m, nil
			}
			return m, tea.Batch(m.showError(msg.Err.Error(), true), loadConversationsCmd(m.store, false))
		}
		m.messages = append(m.messages, msg.Answer)
		m.statusText = "Ready"
		if msg.Distress {
			m.statusText = meditationHint
		}
		return m, loadConversationsCmd(m.store, false)

	case ConversationDeletedMsg:
		if msg.Err != nil {
			return m, m.showError(msg.Err.Error(), true)
		}
		if msg.ID == m.currentID {
			m.currentID = ""
			m.messages = nil
		}
		return m, loadConversationsCmd(m.store, false)

	case StatsLoadedMsg:
		if msg.Err != nil {
			log.WithComponent("app").Warn().Err(msg.Err).Msg("load meditation stats")
			return m, nil
		}
		stats := msg.Stats
		m.stats = &stats
		return m, nil

	case BreathTickMsg:
		return m.handleBreathTick(msg)

	case VoiceTranscriptMsg:
		if msg.IsFinal {
			m.appendInput(msg.Text)
		}
		return m, waitVoiceCmd(m.events)

	case VoiceErrorMsg:
		return m, tea.Batch(m.showError(msg.Message, true), waitVoiceCmd(m.events))

	case VoiceStateMsg:
		m.voiceState = msg.State
		return m, waitVoiceCmd(m.events)

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleBreathTick(msg BreathTickMsg) (tea.Model, tea.Cmd) {
	if msg.ID != m.tickID || !m.breath.State().Running {
		return m, nil
	}

	err := m.breath.Tick(context.Background())
	st := m.breath.State()
	if st.Phase == breath.PhaseComplete {
		m.tickID++
		m.statusText = "Meditation complete"
		if err != nil {
			return m, tea.Batch(m.showError(err.Error(), false), statsCmd(m.store))
		}
		return m, statsCmd(m.store)
	}
	return m, breathTickCmd(m.tickID)
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		if m.meditating {
			m.endMeditation()
		}
		if m.voice != nil {
			m.voice.StopListening()
		}
		return m, tea.Quit
	}

	if m.meditating {
		return m.handleMeditationKey(msg)
	}

	switch msg.String() {
	case KeyMeditation:
		m.meditating = true
		m.tickID++
		m.breath.Reset()
		if m.voice != nil && m.voiceState.IsListening {
			m.voice.StopListening()
		}
		return m, statsCmd(m.store)

	case KeyVoice:
		if m.voice == nil {
			return m, m.showError(voice.MsgNotSupported, true)
		}
		if m.voice.State().IsListening {
			m.voice.StopListening()
		} else {
			m.voice.StartListening()
		}
		m.voiceState = m.voice.State()
		return m, nil

	case KeyLanguage:
		if m.voice == nil {
			return m, nil
		}
		m.voice.SetLanguage(voice.NextLanguage(m.voice.State().Language))
		m.voiceState = m.voice.State()
		return m, nil

	case KeyNewChat:
		m.currentID = ""
		m.messages = nil
		m.pending = ""
		m.focusInput()
		m.statusText = "New conversation"
		return m, nil

	case KeyTab:
		if m.focusedPanel == FocusInput {
			m.focusedPanel = FocusConversations
			m.input.Blur()
		} else {
			m.focusInput()
		}
		return m, nil
	}

	if m.focusedPanel == FocusConversations {
		return m.handleListKey(msg)
	}

	if msg.String() == KeyEnter {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyJ, KeyDown:
		if m.selected < len(m.conversations)-1 {
			m.selected++
		}

	case KeyK, KeyUp:
		if m.selected > 0 {
			m.selected--
		}

	case KeyEnter:
		if m.selected < len(m.conversations) {
			m.currentID = m.conversations[m.selected].ID
			m.messages = nil
			m.focusInput()
			return m, loadMessagesCmd(m.store, m.currentID)
		}

	case KeyDelete:
		if m.selected < len(m.conversations) {
			return m, deleteConversationCmd(m.store, m.conversations[m.selected].ID)
		}
	}
	return m, nil
}

func (m Model) handleMeditationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case KeySpace:
		st := m.breath.State()
		if st.Running {
			m.breath.Pause()
			m.tickID++
			m.statusText = "Paused"
			return m, nil
		}
		if err := m.breath.Start(ctx); err != nil {
			return m, m.showError(err.Error(), true)
		}
		if !m.breath.State().Running {
			return m, nil
		}
		m.tickID++
		m.statusText = "Breathing"
		return m, breathTickCmd(m.tickID)

	case KeyBreathStop:
		m.tickID++
		if err := m.breath.Stop(ctx); err != nil {
			return m, m.showError(err.Error(), false)
		}
		m.statusText = "Stopped"
		return m, statsCmd(m.store)

	case KeyBreathReset:
		m.tickID++
		m.breath.Reset()
		m.statusText = "Ready"
		return m, nil

	case KeyEsc:
		cmd := m.endMeditation()
		m.meditating = false
		m.statusText = "Ready"
		return m, cmd
	}
	return m, nil
}

// endMeditation persists an unfinished session and returns to idle.
func (m *Model) endMeditation() tea.Cmd {
	m.tickID++
	var cmd tea.Cmd
	if err := m.breath.Stop(context.Background()); err != nil {
		cmd = m.showError(err.Error(), false)
	}
	m.breath.Reset()
	return cmd
}

// submit sends the input as a question.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.thinking {
		return m, nil
	}

	m.input.Reset()
	if m.voice != nil {
		m.voice.StopListening()
		m.voice.ResetTranscript()
		m.voiceState = m.voice.State()
	}

	m.thinking = true
	m.pending = text
	m.statusText = "Contemplating..."
	return m, askCmd(m.store, m.provider, m.currentID, m.messages, text)
}

func (m *Model) appendInput(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	cur := strings.TrimSpace(m.input.Value())
	if cur != "" {
		text = cur + " " + text
	}
	m.input.SetValue(text)
	m.input.CursorEnd()
}

func (m *Model) focusInput() {
	m.focusedPanel = FocusInput
	m.input.Focus()
}

func (m *Model) showError(message string, transient bool) tea.Cmd {
	m.errorMessage = message
	m.errorTransient = transient
	if transient {
		return clearTransientErrorCmd()
	}
	return nil
}
