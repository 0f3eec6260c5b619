// Package log holds the structured logger shared by proxyflow components.
//
// Components obtain a child entry with WithComponent and attach their own
// fields; the process-wide level and output are controlled here.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	return l
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logger
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(name string) *logrus.Entry {
	return logger.WithField("component", name)
}

// SetOutput redirects the shared logger.
func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

// SetLevel sets the shared logger level.
func SetLevel(level logrus.Level) {
	logger.SetLevel(level)
}

// ParseLevel parses a level name such as "debug" or "warning".
// An empty name yields info.
func ParseLevel(name string) (logrus.Level, error) {
	if strings.TrimSpace(name) == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(name)
}

// Discard returns an entry that drops everything, for components that were
// configured without a logger.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

// SetFile sends the shared logger's output to a size-rotated file. An empty
// path leaves the output unchanged. Sizes are in megabytes, ages in days.
func SetFile(path string, maxSize, maxBackups, maxAge int, compress bool) {
	if path == "" {
		return
	}
	logger.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   compress,
	})
}
