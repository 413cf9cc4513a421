// Package voice wraps a speech-recognition capability in a stable
// start/stop/reset interface.
package voice

import (
	"errors"
	"strings"
)

// ErrAlreadyStarted is returned by Recognizer.Start when a capture is
// already running on the instance.
var ErrAlreadyStarted = errors.New("recognition already started")

// Options are fixed when a Recognizer is constructed.
type Options struct {
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

// Alternative is one candidate transcription of a result.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Result is one recognized fragment.
type Result struct {
	IsFinal      bool
	Alternatives []Alternative
}

// Transcript returns the text of the best alternative.
func (r Result) Transcript() string {
	if len(r.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Alternatives[0].Transcript)
}

// ResultEvent delivers the incremental result list of the current capture.
// Entries before ResultIndex were delivered by earlier events.
type ResultEvent struct {
	ResultIndex int
	Results     []Result
}

// Handlers are the callback slots of a Recognizer. Calls for one instance
// never overlap.
type Handlers struct {
	OnStart  func()
	OnResult func(ResultEvent)
	OnError  func(code string)
	OnEnd    func()
}

// Recognizer is a platform speech-recognition instance.
type Recognizer interface {
	SetLang(locale string)
	SetHandlers(h Handlers)
	Start() error
	Stop() error
	Abort() error
}

// Factory constructs a Recognizer. A nil Factory means the platform has no
// speech-recognition capability.
type Factory func(Options) (Recognizer, error)
