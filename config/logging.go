package config

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ConfigureLogger applies the level and formatter from cfg to logger and
// directs its output to out.
func ConfigureLogger(logger *logrus.Logger, cfg LogConfig, out io.Writer) {
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		logger.WithField("log_level", cfg.Level).Warn("unknown log level, ignoring")
	} else {
		logger.SetLevel(level)
	}

	if out != nil {
		logger.SetOutput(out)
	}
}
