package logger

import (
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logDir = "logs"

var serverTypePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NewLogger builds the JSON logger shared by every component. Entries go to
// logs/<serverType>.log through an AsyncFileWriter and are mirrored to stdout.
// LOG_OUTPUT=stdout skips the file.
func NewLogger(serverType string) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(levelFromEnv(os.Getenv("LOG_LEVEL")))

	if strings.EqualFold(os.Getenv("LOG_OUTPUT"), "stdout") {
		logger.SetOutput(os.Stdout)
		return logger
	}

	if !serverTypePattern.MatchString(serverType) {
		serverType = "throttlegate"
	}
	logFile := filepath.Join(logDir, serverType+".log")

	if err := os.MkdirAll(logDir, 0750); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}

	asyncWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		log.Fatalf("Failed to initialize async log writer: %v", err)
	}

	logger.SetOutput(asyncWriter)
	logger.AddHook(NewConsoleHook(os.Stdout))

	return logger
}

func levelFromEnv(value string) logrus.Level {
	switch strings.ToLower(value) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
