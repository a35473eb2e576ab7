// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"agcbo/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup points the standard logrus logger at stdout and, when LOG_FILE is set,
// at a size-rotated file. The returned closer flushes the file writer.
func Setup(cfg config.Config) io.Closer {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(parseLevel(cfg.LogLevel, cfg.Debug))

	writers := []io.Writer{os.Stdout}
	var rotator *lumberjack.Logger
	if file := strings.TrimSpace(cfg.LogFile); file != "" {
		rotator = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, rotator)
	}
	logrus.SetOutput(io.MultiWriter(writers...))

	logrus.WithFields(logrus.Fields{
		"level": logrus.GetLevel().String(),
		"file":  cfg.LogFile,
	}).Info("logger initialised")

	if rotator == nil {
		return nopCloser{}
	}
	return rotator
}

func parseLevel(value string, debug bool) logrus.Level {
	if debug {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(strings.TrimSpace(value))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
