package daemon

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/Harshodai/askmukthiguru/internal/log"
	"github.com/Harshodai/askmukthiguru/internal/voice"
)

var subscribedEvents = []string{EventStatus, EventPartial, EventSegment, EventError}

// NewFactory returns a voice.Factory backed by the daemon at socketPath, or
// nil when no daemon socket exists.
func NewFactory(socketPath string) voice.Factory {
	if _, err := os.Stat(socketPath); err != nil {
		return nil
	}
	return func(opts voice.Options) (voice.Recognizer, error) {
		return Dial(socketPath, opts)
	}
}

// Recognizer implements voice.Recognizer over two daemon connections: one
// for commands and one subscribed to the event stream.
type Recognizer struct {
	cmd  *Client
	ev   *Client
	opts voice.Options

	mu       sync.Mutex
	lang     string
	handlers voice.Handlers

	// results is the result list of the current capture; only the pump touches it.
	results []voice.Result

	aborting  atomic.Bool
	abortOnce sync.Once
	done      chan struct{}
}

var _ voice.Recognizer = (*Recognizer)(nil)

// Dial connects to the daemon and starts the event pump.
func Dial(socketPath string, opts voice.Options) (*Recognizer, error) {
	cmd, err := Connect(socketPath)
	if err != nil {
		return nil, err
	}
	ev, err := Connect(socketPath)
	if err != nil {
		cmd.Close()
		return nil, err
	}
	if err := ev.Subscribe(subscribedEvents...); err != nil {
		cmd.Close()
		ev.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	r := &Recognizer{
		cmd:  cmd,
		ev:   ev,
		opts: opts,
		lang: voice.DefaultLocale,
		done: make(chan struct{}),
	}
	go r.pump()
	return r, nil
}

// SetLang sets the locale used by the next Start.
func (r *Recognizer) SetLang(locale string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lang = locale
}

// SetHandlers replaces the callback slots.
func (r *Recognizer) SetHandlers(h voice.Handlers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = h
}

// Start asks the daemon to begin a capture.
func (r *Recognizer) Start() error {
	r.mu.Lock()
	locale := r.lang
	r.mu.Unlock()

	_, err := r.cmd.Call(Command{
		Cmd:             CmdStart,
		Locale:          locale,
		Continuous:      BoolPtr(r.opts.Continuous),
		InterimResults:  BoolPtr(r.opts.InterimResults),
		MaxAlternatives: r.opts.MaxAlternatives,
	})
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == ErrCodeAlreadyStarted {
		return voice.ErrAlreadyStarted
	}
	return err
}

// Stop asks the daemon to finish the capture; the daemon still delivers
// pending results before the end-of-session status.
func (r *Recognizer) Stop() error {
	_, err := r.cmd.Call(Command{Cmd: CmdStop})
	return err
}

// Abort cancels any capture, closes both connections and waits for the event
// pump to exit. No handler runs after Abort returns.
func (r *Recognizer) Abort() error {
	var err error
	r.abortOnce.Do(func() {
		r.aborting.Store(true)
		if _, callErr := r.cmd.Call(Command{Cmd: CmdAbort}); callErr != nil {
			log.WithComponent("daemon").Debug().Err(callErr).Msg("abort")
		}
		err = errors.Join(r.ev.Close(), r.cmd.Close())
		<-r.done
	})
	return err
}

func (r *Recognizer) pump() {
	defer close(r.done)
	logger := log.WithComponent("daemon")
	for {
		ev, err := r.ev.ReadEvent()
		if err != nil {
			if r.aborting.Load() {
				return
			}
			logger.Warn().Err(err).Msg("event stream lost")
			h := r.currentHandlers()
			if h.OnError != nil {
				h.OnError(voice.CodeNetwork)
			}
			if h.OnEnd != nil {
				h.OnEnd()
			}
			return
		}
		if r.aborting.Load() {
			return
		}
		r.dispatch(ev)
	}
}

func (r *Recognizer) currentHandlers() voice.Handlers {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handlers
}

func (r *Recognizer) dispatch(ev Event) {
	h := r.currentHandlers()
	switch ev.Event {
	case EventStatus:
		if ev.Recording == nil {
			return
		}
		if *ev.Recording {
			r.results = r.results[:0]
			if h.OnStart != nil {
				h.OnStart()
			}
		} else if h.OnEnd != nil {
			h.OnEnd()
		}

	case EventPartial, EventSegment:
		idx := r.record(ev)
		if h.OnResult != nil {
			results := make([]voice.Result, len(r.results))
			copy(results, r.results)
			h.OnResult(voice.ResultEvent{ResultIndex: idx, Results: results})
		}

	case EventError:
		code := ev.Code
		if code == "" {
			code = ev.Message
		}
		if h.OnError != nil {
			h.OnError(code)
		}
	}
}

// record folds a partial or segment event into the result list and returns
// the index of the entry it changed. A partial replaces the trailing interim
// entry; a segment finalizes it.
func (r *Recognizer) record(ev Event) int {
	alt := voice.Alternative{Transcript: ev.Text}
	if ev.Confidence != nil {
		alt.Confidence = *ev.Confidence
	}
	res := voice.Result{
		IsFinal:      ev.Event == EventSegment,
		Alternatives: []voice.Alternative{alt},
	}

	n := len(r.results)
	if n > 0 && !r.results[n-1].IsFinal {
		r.results[n-1] = res
		return n - 1
	}
	r.results = append(r.results, res)
	return n
}
