package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Harshodai/askmukthiguru/internal/daemon"
	"github.com/Harshodai/askmukthiguru/internal/voice"
)

func newDoctorCmd(a *wiring) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, database and speech daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			cfgFile := a.cfg.File
			if cfgFile == "" {
				cfgFile = "(defaults)"
			}
			fmt.Fprintf(out, "config:   %s\n", cfgFile)

			ok := true
			store, err := a.openStore()
			if err == nil {
				err = store.Ping()
			}
			ok = report(out, "database", a.cfg.DatabasePath, err) && ok

			// Voice input is optional, so a missing daemon is reported but not fatal.
			report(out, "speech", a.cfg.SpeechSocket, checkSpeech(a.cfg.SpeechSocket))

			lang := a.cfg.SpeechLanguage
			fmt.Fprintf(out, "language: %s (%s)\n", lang, voice.Locale(lang))

			if !ok {
				return errors.New("some checks failed")
			}
			return nil
		},
	}
}

// checkSpeech verifies the daemon socket exists and answers a status command.
func checkSpeech(socketPath string) error {
	if _, err := os.Stat(socketPath); err != nil {
		return fmt.Errorf("socket not found (voice input disabled)")
	}
	client, err := daemon.Connect(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()
	_, err = client.Call(daemon.Command{Cmd: daemon.CmdStatus})
	return err
}

func report(out io.Writer, name, target string, err error) bool {
	if err != nil {
		fmt.Fprintf(out, "%-9s FAIL %s: %v\n", name+":", target, err)
		return false
	}
	fmt.Fprintf(out, "%-9s ok   %s\n", name+":", target)
	return true
}
