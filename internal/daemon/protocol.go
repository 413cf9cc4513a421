// Package daemon provides the client, protocol types and voice.Recognizer
// binding for the local speech daemon, spoken to over a Unix socket using NDJSON.
package daemon

// Command names understood by the speech daemon.
const (
	CmdStart     = "start"
	CmdStop      = "stop"
	CmdAbort     = "abort"
	CmdStatus    = "status"
	CmdSubscribe = "subscribe"
)

// Event names streamed to subscribers.
const (
	EventStatus  = "status"
	EventPartial = "partial"
	EventSegment = "segment"
	EventError   = "error"
	EventLevel   = "level"
)

// ErrCodeAlreadyStarted is the error a start command answers with while a
// capture is still running.
const ErrCodeAlreadyStarted = "already-started"

// Command is sent from a client to the daemon.
type Command struct {
	Cmd             string   `json:"cmd"`
	Locale          string   `json:"locale,omitempty"`
	Continuous      *bool    `json:"continuous,omitempty"`
	InterimResults  *bool    `json:"interimResults,omitempty"`
	MaxAlternatives int      `json:"maxAlternatives,omitempty"`
	Events          []string `json:"events,omitempty"`
}

// Response is returned by the daemon after processing a command.
type Response struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"sessionId,omitempty"`
	Recording *bool  `json:"recording,omitempty"`
	Locale    string `json:"locale,omitempty"`
	Error     string `json:"error,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Event is streamed from the daemon to subscribed clients.
type Event struct {
	Event          string   `json:"event"`
	Text           string   `json:"text,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Code           string   `json:"code,omitempty"`
	Message        string   `json:"message,omitempty"`
	SessionID      string   `json:"sessionId,omitempty"`
	SequenceNumber *int     `json:"sequenceNumber,omitempty"`
	Recording      *bool    `json:"recording,omitempty"`
}

// BoolPtr returns a pointer to a bool value. Convenience for building commands.
func BoolPtr(b bool) *bool { return &b }
