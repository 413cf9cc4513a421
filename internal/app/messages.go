package app

import (
	"github.com/Harshodai/askmukthiguru/internal/chat"
	"github.com/Harshodai/askmukthiguru/internal/db"
	"github.com/Harshodai/askmukthiguru/internal/voice"
)

// ConversationsLoadedMsg carries the conversation list read from the store.
type ConversationsLoadedMsg struct {
	Conversations []chat.Conversation
	Initial       bool // first load after startup; opens the most recent conversation
	Err           error
}

// MessagesLoadedMsg carries the messages of one conversation.
type MessagesLoadedMsg struct {
	ConversationID string
	Messages       []chat.Message
	Err            error
}

// AnswerMsg is sent once a question and its answer have been stored.
type AnswerMsg struct {
	ConversationID string
	Question       chat.Message
	Answer         chat.Message
	Distress       bool
	Err            error
}

// ConversationDeletedMsg is sent after a conversation is removed.
type ConversationDeletedMsg struct {
	ID  string
	Err error
}

// StatsLoadedMsg carries meditation totals for the modal footer.
type StatsLoadedMsg struct {
	Stats db.MeditationStats
	Err   error
}

// BreathTickMsg advances the meditation timer. Ticks whose ID is not the
// model's current tick ID are stale and ignored.
type BreathTickMsg struct {
	ID int
}

// VoiceTranscriptMsg carries a recognized text fragment.
type VoiceTranscriptMsg struct {
	Text    string
	IsFinal bool
}

// VoiceErrorMsg carries a user-facing speech recognition error.
type VoiceErrorMsg struct {
	Message string
}

// VoiceStateMsg carries a voice controller snapshot.
type VoiceStateMsg struct {
	State voice.State
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
