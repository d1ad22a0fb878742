package logging

import (
	"strings"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
)

var levelMap = map[string]levels.Level{
	"silent":  levels.LevelSilent,
	"fatal":   levels.LevelFatal,
	"error":   levels.LevelError,
	"info":    levels.LevelInfo,
	"warning": levels.LevelWarning,
	"warn":    levels.LevelWarning,
	"debug":   levels.LevelDebug,
	"verbose": levels.LevelVerbose,
}

// Logger provides logging functionality
type Logger struct{}

// NewLogger creates a new logger
func NewLogger() *Logger {
	return &Logger{}
}

// ParseLevel maps a level name to a gologger level
func ParseLevel(logLevel string) (levels.Level, bool) {
	level, ok := levelMap[strings.ToLower(logLevel)]
	return level, ok
}

// SetupLogging configures gologger based on the log level
func (l *Logger) SetupLogging(logLevel string) {
	level, ok := ParseLevel(logLevel)
	if !ok {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelInfo)
		gologger.Warning().Msgf("Unknown log level '%s', defaulting to 'info'", logLevel)
		return
	}

	gologger.DefaultLogger.SetMaxLevel(level)
	gologger.Debug().Msgf("Log level configured to: %s", logLevel)
}
