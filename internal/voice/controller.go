package voice

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Harshodai/askmukthiguru/internal/log"
)

// restartDelay is how long to wait before retrying a start that raced with a
// capture that was still running.
const restartDelay = 100 * time.Millisecond

// Config is the caller-supplied configuration.
type Config struct {
	Language   string
	Continuous bool
}

// Callbacks receive controller output. They are invoked without the controller
// lock held and may call back into the controller.
type Callbacks struct {
	OnTranscript  func(text string, isFinal bool)
	OnError       func(message string)
	OnStateChange func(State)
}

// State is a snapshot of the controller.
type State struct {
	Transcript        string
	InterimTranscript string
	IsListening       bool
	IsSupported       bool
	Error             string
	Language          string
	Locale            string
}

// Option configures a Controller.
type Option func(*Controller)

// WithAfterFunc replaces time.AfterFunc for the already-started retry.
func WithAfterFunc(fn func(time.Duration, func())) Option {
	return func(c *Controller) { c.afterFunc = fn }
}

// Controller presents a stable listening interface over a Recognizer.
type Controller struct {
	mu        sync.Mutex
	factory   Factory
	afterFunc func(time.Duration, func())
	cb        Callbacks

	rec        Recognizer
	supported  bool
	closed     bool
	language   string
	continuous bool

	intent     bool // listening intent
	listening  bool
	transcript string
	interim    string
	errMsg     string
	committed  int // results of the current capture already appended
}

// NewController detects platform support once and builds the recognizer.
func NewController(factory Factory, cfg Config, cb Callbacks, opts ...Option) *Controller {
	lang := cfg.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	c := &Controller{
		factory:    factory,
		cb:         cb,
		language:   lang,
		continuous: cfg.Continuous,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if factory == nil {
		return c
	}
	rec, err := factory(c.options())
	if err != nil {
		log.WithComponent("voice").Warn().Err(err).Msg("speech recognition unavailable")
		return c
	}
	c.supported = true
	c.rec = rec
	c.bind(rec)
	return c
}

// notifier collects callback invocations to run after the lock is released.
type notifier struct {
	deferred  []func()
	fragments []fragment
	errors    []string
	changed   bool
}

type fragment struct {
	text    string
	isFinal bool
}

func (c *Controller) do(fn func(n *notifier)) {
	var n notifier
	c.mu.Lock()
	fn(&n)
	cb := c.cb
	st := c.stateLocked()
	c.mu.Unlock()

	for _, f := range n.deferred {
		f()
	}
	for _, f := range n.fragments {
		if cb.OnTranscript != nil {
			cb.OnTranscript(f.text, f.isFinal)
		}
	}
	for _, msg := range n.errors {
		if cb.OnError != nil {
			cb.OnError(msg)
		}
	}
	if (n.changed || len(n.fragments) > 0 || len(n.errors) > 0) && cb.OnStateChange != nil {
		cb.OnStateChange(st)
	}
}

// StartListening clears the transcript and begins capturing.
func (c *Controller) StartListening() {
	c.do(func(n *notifier) {
		if c.closed {
			return
		}
		if !c.supported {
			c.errMsg = MsgNotSupported
			n.errors = append(n.errors, MsgNotSupported)
			return
		}
		if c.rec == nil {
			c.errMsg = MsgUnavailable
			n.errors = append(n.errors, MsgUnavailable)
			return
		}

		c.transcript, c.interim, c.errMsg = "", "", ""
		c.committed = 0
		c.intent = true
		c.listening = true
		n.changed = true
		c.startLocked(c.rec, n)
	})
}

func (c *Controller) startLocked(rec Recognizer, n *notifier) {
	rec.SetLang(Locale(c.language))
	err := rec.Start()
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyStarted):
		_ = rec.Stop()
		n.deferred = append(n.deferred, func() {
			c.afterFunc(restartDelay, func() { c.retryStart(rec) })
		})
	default:
		c.failLocked(err.Error(), n)
	}
}

func (c *Controller) retryStart(rec Recognizer) {
	c.do(func(n *notifier) {
		if c.rec != rec || !c.intent {
			return
		}
		rec.SetLang(Locale(c.language))
		if err := rec.Start(); err != nil && !errors.Is(err, ErrAlreadyStarted) {
			c.failLocked(err.Error(), n)
		}
	})
}

// StopListening clears listening intent and stops capturing. The accumulated
// transcript is kept.
func (c *Controller) StopListening() {
	c.do(func(n *notifier) {
		c.intent = false
		if c.listening {
			n.changed = true
		}
		c.listening = false
		c.interim = ""
		if c.rec != nil {
			if err := c.rec.Stop(); err != nil {
				log.WithComponent("voice").Debug().Err(err).Msg("stop")
			}
		}
	})
}

// ResetTranscript clears the finalized and interim text.
func (c *Controller) ResetTranscript() {
	c.do(func(n *notifier) {
		c.transcript, c.interim = "", ""
		n.changed = true
	})
}

// SetLanguage switches the recognition language. A running capture is
// stopped; the end-of-session handler restarts it under the new locale.
func (c *Controller) SetLanguage(code string) {
	c.do(func(n *notifier) {
		if code == "" || code == c.language {
			return
		}
		c.language = code
		n.changed = true
		if c.listening && c.rec != nil {
			_ = c.rec.Stop()
		}
	})
}

// SetCallbacks replaces the callbacks without touching the recognizer.
func (c *Controller) SetCallbacks(cb Callbacks) {
	c.mu.Lock()
	c.cb = cb
	c.mu.Unlock()
}

// SetContinuous rebuilds the recognizer when the continuous flag changes.
// Listening intent carries over to the new instance.
func (c *Controller) SetContinuous(continuous bool) {
	c.mu.Lock()
	if c.closed || continuous == c.continuous {
		c.mu.Unlock()
		return
	}
	c.continuous = continuous
	if !c.supported {
		c.mu.Unlock()
		return
	}
	old := c.rec
	c.rec = nil
	opts := c.options()
	c.mu.Unlock()

	if old != nil {
		_ = old.Abort()
	}
	rec, err := c.factory(opts)

	c.do(func(n *notifier) {
		if err != nil {
			log.WithComponent("voice").Error().Err(err).Msg("rebuild recognizer")
			c.intent, c.listening = false, false
			c.errMsg = MsgUnavailable
			n.errors = append(n.errors, MsgUnavailable)
			return
		}
		if c.closed {
			_ = rec.Abort()
			return
		}
		c.rec = rec
		c.bind(rec)
		c.committed = 0
		if c.intent {
			c.startLocked(rec, n)
		}
	})
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Close aborts the recognizer. The controller is unusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	rec := c.rec
	c.rec = nil
	c.closed = true
	c.intent, c.listening = false, false
	c.mu.Unlock()

	if rec != nil {
		_ = rec.Abort()
	}
}

func (c *Controller) stateLocked() State {
	return State{
		Transcript:        c.transcript,
		InterimTranscript: c.interim,
		IsListening:       c.listening,
		IsSupported:       c.supported,
		Error:             c.errMsg,
		Language:          c.language,
		Locale:            Locale(c.language),
	}
}

func (c *Controller) options() Options {
	return Options{
		Continuous:      c.continuous,
		InterimResults:  true,
		MaxAlternatives: 1,
	}
}

func (c *Controller) failLocked(msg string, n *notifier) {
	c.errMsg = msg
	c.intent = false
	c.listening = false
	c.interim = ""
	n.errors = append(n.errors, msg)
}

// bind routes recognizer events to the controller. Events from a replaced
// instance are dropped.
func (c *Controller) bind(rec Recognizer) {
	rec.SetHandlers(Handlers{
		OnStart: func() {
			c.do(func(n *notifier) {
				if c.rec != rec {
					return
				}
				c.listening = true
				c.errMsg = ""
				c.committed = 0
				n.changed = true
			})
		},
		OnResult: func(ev ResultEvent) {
			c.do(func(n *notifier) {
				if c.rec != rec {
					return
				}
				c.handleResult(ev, n)
			})
		},
		OnError: func(code string) {
			c.do(func(n *notifier) {
				if c.rec != rec {
					return
				}
				c.failLocked(Describe(code), n)
			})
		},
		OnEnd: func() {
			c.do(func(n *notifier) {
				if c.rec != rec {
					return
				}
				c.handleEnd(rec, n)
			})
		},
	})
}

func (c *Controller) handleResult(ev ResultEvent, n *notifier) {
	var interim []string
	for i := max(ev.ResultIndex, 0); i < len(ev.Results); i++ {
		r := ev.Results[i]
		text := r.Transcript()
		if !r.IsFinal {
			if text != "" {
				interim = append(interim, text)
			}
			continue
		}
		if i < c.committed {
			continue
		}
		c.committed = i + 1
		if text == "" {
			continue
		}
		if c.transcript != "" {
			c.transcript += " "
		}
		c.transcript += text
		n.fragments = append(n.fragments, fragment{text: text, isFinal: true})
	}

	c.interim = strings.Join(interim, " ")
	if c.interim != "" {
		n.fragments = append(n.fragments, fragment{text: c.interim, isFinal: false})
	}
	n.changed = true
}

func (c *Controller) handleEnd(rec Recognizer, n *notifier) {
	if c.intent {
		locale := Locale(c.language)
		rec.SetLang(locale)
		if err := rec.Start(); err != nil {
			log.WithComponent("voice").Debug().Err(err).Str("locale", locale).Msg("restart after end")
		}
		return
	}
	c.listening = false
	c.interim = ""
	n.changed = true
}
