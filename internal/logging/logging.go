package logging

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu    sync.RWMutex
	level = logrus.InfoLevel
)

// SetLevel changes the level used by loggers created afterwards.
func SetLevel(name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	mu.Lock()
	level = lvl
	mu.Unlock()
	return nil
}

// New returns a logger with the text format shared by all components.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	mu.RLock()
	logger.SetLevel(level)
	mu.RUnlock()

	return logger
}
