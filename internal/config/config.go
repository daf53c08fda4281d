package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type Config struct {
	Log      LogConfig      `json:"log"`
	Minimax  MinimaxConfig  `json:"minimax"`
	MCTS     MCTSConfig     `json:"mcts"`
	Model    ModelConfig    `json:"model"`
	Server   ServerConfig   `json:"server"`
	SelfPlay SelfPlayConfig `json:"selfplay"`
	Arena    ArenaConfig    `json:"arena"`
}

type LogConfig struct {
	// zerolog level name: trace, debug, info, warn, error
	Level string `json:"level"`
	// Human readable console output instead of JSON lines
	Console bool `json:"console"`
}

type MinimaxConfig struct {
	Depth int `json:"depth"`
	Sims  int `json:"sims"`
}

type MCTSConfig struct {
	Simulations int     `json:"simulations"`
	Exploration float64 `json:"exploration"`
}

type ModelConfig struct {
	// Empty path means the uniform evaluator is used
	Path        string `json:"path"`
	LibraryPath string `json:"library_path"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
	// Engine answering the human: "minimax", "mcts" or "random"
	Engine string `json:"engine"`
}

type SelfPlayConfig struct {
	Games   int    `json:"games"`
	Workers int    `json:"workers"`
	Out     string `json:"out"`
}

type ArenaConfig struct {
	Games   int `json:"games"`
	Workers int `json:"workers"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Console: true},

		// Same strength as the web bot: depth 2, 250 rollouts per leaf
		Minimax: MinimaxConfig{Depth: 2, Sims: 250},
		MCTS:    MCTSConfig{Simulations: 100, Exploration: 1},

		Server:   ServerConfig{Addr: ":8080", Engine: "minimax"},
		SelfPlay: SelfPlayConfig{Games: 100, Workers: 4, Out: "selfplay.jsonl.zst"},
		Arena:    ArenaConfig{Games: 100, Workers: 4},
	}
}

// Read a JSON config file on top of the defaults, fields missing in the file
// keep their default values. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Minimax.Depth < 1:
		return fmt.Errorf("config: minimax.depth must be positive, got %d", c.Minimax.Depth)
	case c.Minimax.Sims < 0:
		return fmt.Errorf("config: minimax.sims must not be negative, got %d", c.Minimax.Sims)
	case c.MCTS.Simulations < 1:
		return fmt.Errorf("config: mcts.simulations must be positive, got %d", c.MCTS.Simulations)
	case c.MCTS.Exploration <= 0:
		return fmt.Errorf("config: mcts.exploration must be positive, got %v", c.MCTS.Exploration)
	case c.Server.Engine != "minimax" && c.Server.Engine != "mcts" && c.Server.Engine != "random":
		return fmt.Errorf("config: unknown server.engine %q", c.Server.Engine)
	}
	return nil
}

func (c Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
