package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultBaseURL = "https://api.pmprep.app"

// Config is the fully resolved client configuration. A missing config file is
// not an error; every field has a usable default.
type Config struct {
	DataDir        string
	BaseURL        string
	RequestTimeout time.Duration
	RecorderCmd    []string
	PlayerCmd      []string
	Currency       string
	DBPath         string
	LogPath        string
}

type fileConfig struct {
	BaseURL        string   `yaml:"base_url"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	RecorderCmd    []string `yaml:"recorder_cmd"`
	PlayerCmd      []string `yaml:"player_cmd"`
	Currency       string   `yaml:"currency"`
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".pmprep")
	}

	cfg := Config{
		DataDir:        dataDir,
		BaseURL:        defaultBaseURL,
		RequestTimeout: 60 * time.Second,
		RecorderCmd:    []string{"arecord", "-f", "cd", "-t", "wav"},
		PlayerCmd:      []string{"aplay"},
		Currency:       "usd",
		DBPath:         filepath.Join(dataDir, "pmprep.db"),
		LogPath:        filepath.Join(dataDir, "debug.log"),
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config.yaml: %w", err)
		}
		if fc.BaseURL != "" {
			cfg.BaseURL = fc.BaseURL
		}
		if fc.TimeoutSeconds > 0 {
			cfg.RequestTimeout = time.Duration(fc.TimeoutSeconds) * time.Second
		}
		if len(fc.RecorderCmd) > 0 {
			cfg.RecorderCmd = fc.RecorderCmd
		}
		if len(fc.PlayerCmd) > 0 {
			cfg.PlayerCmd = fc.PlayerCmd
		}
		if fc.Currency != "" {
			cfg.Currency = fc.Currency
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config.yaml: %w", err)
	}

	if v := os.Getenv("PMPREP_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	return cfg, nil
}
