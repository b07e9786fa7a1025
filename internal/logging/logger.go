package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/petasbytes/datagen-agent/internal/config"
)

const serviceName = "datagen-agent"

// New creates a structured logger writing to stderr so the REPL's stdout stays clean.
func New(cfg *config.Config) *logrus.Logger {
	return newWithOutput(cfg, os.Stderr)
}

func newWithOutput(cfg *config.Config, w io.Writer) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("Invalid log level, defaulting to info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "msg",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	logger.SetOutput(w)
	logger.AddHook(serviceHook{version: getVersion()})

	return logger
}

// Discard returns a logger that drops everything; used as the zero-value default.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func getVersion() string {
	if version := os.Getenv("APP_VERSION"); version != "" {
		return version
	}
	return "dev"
}

// serviceHook stamps every entry with the service identity.
type serviceHook struct {
	version string
}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = serviceName
	}
	if _, ok := e.Data["version"]; !ok {
		e.Data["version"] = h.version
	}
	return nil
}

// WithTurnID adds the conversation turn id to the logger context.
func WithTurnID(logger logrus.FieldLogger, turnID string) logrus.FieldLogger {
	return logger.WithField("turn_id", turnID)
}
