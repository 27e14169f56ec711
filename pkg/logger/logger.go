// Package logx configures the global zerolog logger. Import
// pkg/logger/autoload for environment-driven setup at process start.
package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

// Init replaces the global logger. JSON to stdout by default; the
// pretty console writer is for local runs only.
func Init(conf Config) {
	var base zerolog.Logger
	if conf.PrettyFormat {
		base = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		base = zerolog.New(os.Stdout)
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = base.Level(level).With().
		Timestamp().
		Caller().
		Stack().
		Logger()
}
