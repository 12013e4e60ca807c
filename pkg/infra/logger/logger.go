package logger

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger for one server role. Entries go to
// the role's log file through the async writer and are mirrored to stdout
// by a console hook. The LOG_LEVEL environment variable overrides the
// configured level.
func NewLogger(role string, cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	logger.SetLevel(resolveLevel(cfg.Level))

	logFile := cfg.File
	if logFile == "" {
		if role == "admin" || role == "token" {
			logFile = "logs/admin.log"
		} else {
			logFile = "logs/trap.log"
		}
	}
	logFile = filepath.Clean(logFile)

	if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	asyncWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		log.Fatalf("failed to initialize async log writer: %v", err)
	}
	logger.SetOutput(asyncWriter)

	// The trap listener takes attacker-driven bursts; its console mirror is
	// asynchronous and may drop lines rather than stall a response. The
	// admin roles log little and keep the synchronous hook.
	if role == "admin" || role == "token" {
		logger.AddHook(NewConsoleHook())
	} else {
		logger.AddHook(NewAsyncConsoleHook(1000))
	}

	return logger
}

func resolveLevel(configured string) logrus.Level {
	name := os.Getenv("LOG_LEVEL")
	if name == "" {
		name = configured
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
