package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger adapts logrus to ports.Logger.
type Logger struct {
	log *logrus.Logger
}

// NewWithWriter creates a Logger writing to w. Only warnings and errors are
// emitted unless verbose is set.
func NewWithWriter(verbose bool, w io.Writer) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return &Logger{log: log}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	l := NewWithWriter(false, io.Discard)
	l.log.SetLevel(logrus.PanicLevel)
	return l
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.log.WithFields(fields).Warn(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	l.log.WithFields(fields).WithError(err).Error(msg)
}
