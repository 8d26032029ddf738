package types

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger represents a logger
type Logger struct {
	*zap.SugaredLogger
	LogsPath string
	Name     string
}

// Log represents a log entry
type Log struct {
	Timestamp  time.Time
	Caller     string
	LoggerName string
	Level      zapcore.Level
	Message    string
}

// String renders the entry the way it is forwarded to the log channel.
func (l Log) String() string {
	return l.Timestamp.UTC().Format("2006-01-02 15:04:05") + " [" + l.Level.CapitalString() + "] " +
		l.LoggerName + " " + l.Caller + ": " + l.Message
}

// LogHook is a function that will be called for each log entry
type LogHook func(log Log)
