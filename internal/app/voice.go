package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Harshodai/askmukthiguru/internal/log"
	"github.com/Harshodai/askmukthiguru/internal/voice"
)

const voiceBuffer = 256

// VoiceEvents carries voice controller callbacks into the update loop.
// Callbacks may fire from Update itself, so they never block. Final
// transcript text that finds the buffer full is held back and delivered
// once the reader catches up.
type VoiceEvents struct {
	ch chan tea.Msg

	mu      sync.Mutex
	pending string // final text waiting for buffer space
}

// NewVoiceEvents returns an empty bridge.
func NewVoiceEvents() *VoiceEvents {
	return &VoiceEvents{ch: make(chan tea.Msg, voiceBuffer)}
}

// Callbacks returns voice controller callbacks that feed the bridge.
func (e *VoiceEvents) Callbacks() voice.Callbacks {
	return voice.Callbacks{
		OnTranscript: func(text string, isFinal bool) {
			if isFinal {
				e.pushFinal(text)
				return
			}
			e.push(VoiceTranscriptMsg{Text: text})
		},
		OnError: func(message string) {
			e.push(VoiceErrorMsg{Message: message})
		},
		OnStateChange: func(st voice.State) {
			e.push(VoiceStateMsg{State: st})
		},
	}
}

func (e *VoiceEvents) push(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
		log.WithComponent("app").Warn().Msgf("voice event dropped: %T", msg)
	}
}

// pushFinal queues final text, coalescing it with earlier held-back text
// so the order of fragments is kept.
func (e *VoiceEvents) pushFinal(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending != "" {
		e.pending += " " + text
		return
	}
	select {
	case e.ch <- VoiceTranscriptMsg{Text: text, IsFinal: true}:
	default:
		e.pending = text
	}
}

// flush moves held-back final text into the buffer if there is room.
func (e *VoiceEvents) flush() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == "" {
		return
	}
	select {
	case e.ch <- VoiceTranscriptMsg{Text: e.pending, IsFinal: true}:
		e.pending = ""
	default:
	}
}

// next blocks for the next event, then makes room for held-back text.
func (e *VoiceEvents) next() tea.Msg {
	msg := <-e.ch
	e.flush()
	return msg
}

// waitVoiceCmd reads the next voice event.
func waitVoiceCmd(e *VoiceEvents) tea.Cmd {
	if e == nil {
		return nil
	}
	return e.next
}
