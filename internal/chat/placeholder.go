package chat

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyQuestion is returned for blank input.
var ErrEmptyQuestion = errors.New("empty question")

// DistressResponse acknowledges pain, offers the Serene Mind meditation and
// lists crisis helplines.
const DistressResponse = "I hear you, and your feelings are valid. 🙏\n\n" +
	"In moments like these, the teachings remind us that suffering can be a doorway " +
	"to transformation. It may not feel like it now, but pain can be a catalyst for " +
	"deeper awareness.\n\n" +
	"Would you like to try a Serene Mind meditation to find some inner peace right now? " +
	"Press ctrl+t to begin.\n\n" +
	"If you are in immediate crisis, please reach out:\n" +
	"- National Suicide Prevention Lifeline: 988 (US)\n" +
	"- iCall: 9152987821 (India)\n" +
	"- Crisis Text Line: text HOME to 741741"

var distressKeywords = []string{
	"suicide", "kill myself", "end my life", "want to die", "hopeless",
	"depressed", "can't go on", "cannot go on", "worthless", "panic",
	"anxious", "anxiety", "overwhelmed", "stressed",
}

// IsDistress reports whether text signals emotional distress.
func IsDistress(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range distressKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type cannedReply struct {
	keywords []string
	reply    string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"hello", "hi ", "namaste", "hey"},
		reply:    "Namaste 🙏 I am here to walk with you. What is on your heart today?",
	},
	{
		keywords: []string{"meditat", "breath", "calm"},
		reply: "The Serene Mind practice is a gentle place to begin. Breathe in for four, " +
			"hold for two and breathe out for six. Press ctrl+t whenever you are ready.",
	},
	{
		keywords: []string{"beautiful state", "suffering", "consciousness", "teaching"},
		reply: "Sri Preethaji and Sri Krishnaji teach that every moment of life is lived either " +
			"in a suffering state or a beautiful state. Simply observing your inner state, without " +
			"judgement, is the first step towards freedom.",
	},
}

var defaultReplies = []string{
	"Thank you for sharing. Take a slow breath and notice what you are feeling right now, without trying to change it.",
	"That is a profound question. Awareness is the greatest agent of change; let us look at it together, gently.",
	"I am still learning to answer that fully. For now, stay with the question and observe what arises within you.",
}

// PlaceholderProvider answers from canned replies until a real answer
// backend is connected.
type PlaceholderProvider struct{}

var _ Provider = PlaceholderProvider{}

// Answer returns a deterministic canned reply for text.
func (PlaceholderProvider) Answer(ctx context.Context, history []Message, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyQuestion
	}
	if IsDistress(text) {
		return DistressResponse, nil
	}

	lower := strings.ToLower(text) + " "
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.reply, nil
			}
		}
	}

	var asked int
	for _, m := range history {
		if m.Role == RoleUser {
			asked++
		}
	}
	return defaultReplies[asked%len(defaultReplies)], nil
}
