package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/techmaster-vietnam/blogcounter/config"
	"github.com/techmaster-vietnam/goerrorkit"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits shared by the operational log and the goerrorkit error log
const (
	maxFileSizeMB = 10
	maxBackups    = 5
	maxAgeDays    = 30
)

// NewLogger builds the operational logger. Output goes to stdout and, when
// cfg.FilePath is set, to a size-rotated file.
func NewLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if cfg.FilePath != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		})
	}
	log.SetOutput(out)
	return log
}

// InitErrorLogger configures goerrorkit, which logs every unexpected error
// with its stack trace. File output is enabled together with LOG_FILE.
func InitErrorLogger(cfg config.LogConfig) {
	goerrorkit.InitLogger(goerrorkit.LoggerOptions{
		ConsoleOutput: true,
		FileOutput:    cfg.FilePath != "",
		FilePath:      errorLogPath(cfg.FilePath),
		JSONFormat:    cfg.JSON,
		MaxFileSize:   maxFileSizeMB,
		MaxBackups:    maxBackups,
		MaxAge:        maxAgeDays,
		LogLevel:      cfg.Level,
	})

	goerrorkit.ConfigureForApplication("main")
}

// errorLogPath đặt error log cạnh operational log: logs/app.log -> logs/app.errors.log
func errorLogPath(path string) string {
	if path == "" {
		return "logs/errors.log"
	}
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ".errors" + path[i:]
		}
	}
	return path + ".errors"
}
