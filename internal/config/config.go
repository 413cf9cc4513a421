// Package config loads settings from config.toml and MUKTHIGURU_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Harshodai/askmukthiguru/internal/daemon"
	"github.com/Harshodai/askmukthiguru/internal/db"
	"github.com/Harshodai/askmukthiguru/internal/voice"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "MUKTHIGURU"

	keyDatabasePath     = "database.path"
	keySpeechSocket     = "speech.socket"
	keySpeechLanguage   = "speech.language"
	keySpeechContinuous = "speech.continuous"
	keyLogLevel         = "log.level"
	keyLogFile          = "log.file"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the resolved application configuration.
type Config struct {
	DatabasePath     string
	SpeechSocket     string
	SpeechLanguage   string
	SpeechContinuous bool
	LogLevel         string
	LogFile          string

	// File is the config file that was read, empty when none was found.
	File string
}

// Dir returns the directory searched for config.toml.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mukthiguru")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mukthiguru")
}

// Load reads configuration into v. A nil v uses a fresh instance; a missing
// config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(Dir())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyDatabasePath, db.DefaultDBPath())
	v.SetDefault(keySpeechSocket, daemon.SocketPath())
	v.SetDefault(keySpeechLanguage, voice.DefaultLanguage)
	v.SetDefault(keySpeechContinuous, true)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFile, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		DatabasePath:     v.GetString(keyDatabasePath),
		SpeechSocket:     v.GetString(keySpeechSocket),
		SpeechLanguage:   voice.Normalize(v.GetString(keySpeechLanguage)),
		SpeechContinuous: v.GetBool(keySpeechContinuous),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel))),
		LogFile:          v.GetString(keyLogFile),
		File:             v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalid, keyDatabasePath)
	}
	if strings.TrimSpace(c.SpeechSocket) == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalid, keySpeechSocket)
	}
	if !voice.Supported(c.SpeechLanguage) {
		return fmt.Errorf("%w: %s %q is not supported", ErrInvalid, keySpeechLanguage, c.SpeechLanguage)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("%w: %s %q", ErrInvalid, keyLogLevel, c.LogLevel)
	}
	return nil
}
