package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type utcFormatter struct {
	logrus.Formatter
}

func (f utcFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Time = entry.Time.UTC()
	return f.Formatter.Format(entry)
}

// Setup configures the standard logrus logger for a Lambda function: JSON
// lines on stdout, UTC timestamps and the given level. An unparseable level
// falls back to info and is reported once.
func Setup(level string) *logrus.Logger {
	return configure(logrus.StandardLogger(), os.Stdout, level)
}

// New returns a separate logger writing to w, used by tests and the CLI
func New(w io.Writer, level string) *logrus.Logger {
	return configure(logrus.New(), w, level)
}

func configure(logger *logrus.Logger, w io.Writer, level string) *logrus.Logger {
	logger.SetFormatter(&utcFormatter{&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000 Z07:00",
	}})
	logger.SetOutput(w)

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
		logger.WithField("log_level", level).Warn("Unknown log level, using info")
		return logger
	}
	logger.SetLevel(lvl)
	return logger
}
