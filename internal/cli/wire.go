package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/Harshodai/askmukthiguru/internal/config"
	"github.com/Harshodai/askmukthiguru/internal/db"
	"github.com/Harshodai/askmukthiguru/internal/log"
)

type wiring struct {
	cfg     config.Config
	store   *db.Store
	logFile *os.File
}

func wireApp() (*wiring, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &wiring{cfg: cfg}

	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := log.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		a.logFile = f
		out = f
	}
	log.Configure(log.Config{Level: cfg.LogLevel, Output: out})

	return a, nil
}

// openStore opens the database on first use.
func (a *wiring) openStore() (*db.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := db.Open(a.cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", a.cfg.DatabasePath, err)
	}
	a.store = store
	return store, nil
}

func (a *wiring) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}
