package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Harshodai/askmukthiguru/internal/app"
	"github.com/Harshodai/askmukthiguru/internal/chat"
	"github.com/Harshodai/askmukthiguru/internal/daemon"
	"github.com/Harshodai/askmukthiguru/internal/log"
	"github.com/Harshodai/askmukthiguru/internal/voice"
)

func runTUI(ctx context.Context, a *wiring) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	logger := log.WithComponent("cli")
	factory := daemon.NewFactory(a.cfg.SpeechSocket)
	if factory == nil {
		logger.Info().Str("socket", a.cfg.SpeechSocket).Msg("speech daemon not found; voice input disabled")
	}

	events := app.NewVoiceEvents()
	vc := voice.NewController(factory, voice.Config{
		Language:   a.cfg.SpeechLanguage,
		Continuous: a.cfg.SpeechContinuous,
	}, events.Callbacks())
	defer vc.Close()

	m := app.New(app.Options{
		Store:    store,
		Provider: chat.PlaceholderProvider{},
		Voice:    vc,
		Events:   events,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
