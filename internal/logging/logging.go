package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the process logger. Unknown levels fall back to info;
// config validation rejects them before this point.
func SetupLogging(level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:      os.Stdout,
		Hooks:    make(logrus.LevelHooks),
		Level:    lvl,
		ExitFunc: os.Exit,
	}

	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(lvl)

	return &logger
}
