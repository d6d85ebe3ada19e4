// Package logging writes debug output to a timestamped file. The terminal
// belongs to the TUI, so nothing is ever printed to stdout from here.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// DefaultDir is ~/.musicality/logs.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".musicality", "logs"), nil
}

// Enable opens musicality_<timestamp>.log in dir and routes Debugf there.
// Calling it again while a log is open is a no-op.
func Enable(dir string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile.Name(), nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(dir, fmt.Sprintf("musicality_%s.log",
		time.Now().Format("2006-01-02_15-04-05")))

	f, err := tea.LogToFile(logPath, "musicality")
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	logFile = f
	return logPath, nil
}

// Enabled reports whether Debugf writes anywhere.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return logFile != nil
}

// Debugf writes a debug line when logging is enabled.
func Debugf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return
	}
	log.Printf(format, args...)
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	log.SetOutput(os.Stderr)
	log.SetPrefix("")
	return err
}
