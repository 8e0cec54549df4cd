package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a text logger at the given level
func NewLogger(level string) *logrus.Logger {
	return NewLoggerWithFormat(level, "text")
}

// NewLoggerWithFormat creates a logger writing "text" or "json" lines to stdout.
// Unknown levels fall back to info.
func NewLoggerWithFormat(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
