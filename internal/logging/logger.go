package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger
func Setup(appEnv, logLevel string) {
	// Pretty console logging in development
	if appEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	zerolog.SetGlobalLevel(ParseLevel(logLevel))

	log.Debug().
		Str("level", zerolog.GlobalLevel().String()).
		Msg("Logger initialized")
}

// ParseLevel returns the zerolog level for lvl, falling back to info
func ParseLevel(lvl string) zerolog.Level {
	if lvl == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(lvl)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// CronLogger adapts zerolog to robfig/cron's Logger interface
type CronLogger struct{}

// Info logs routine scheduler messages at debug level
func (CronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

// Error logs scheduler failures (including recovered panics)
func (CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
