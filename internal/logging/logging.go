package logging

import (
	"io"
	"os"
	"time"

	"github.com/IlikeChooros/go-uttt/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure the global zerolog logger, unknown levels fall back to info
func Setup(cfg config.LogConfig) {
	SetupWriter(cfg, os.Stderr)
}

func SetupWriter(cfg config.LogConfig, w io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
