package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "execution.log")

	logger, closeLog, err := New(Options{File: path, Level: "info"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.WithField("service", "translate").Info("Endpoint resolved")
	logger.Debug("hidden")
	if err := closeLog(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "Endpoint resolved") || !strings.Contains(out, "service=translate") {
		t.Errorf("unexpected log content: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
	if !strings.Contains(out, "time=") {
		t.Error("expected timestamped lines")
	}
}

func TestNew_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "execution.log")

	for _, msg := range []string{"first run", "second run"} {
		logger, closeLog, err := New(Options{File: path, Level: "info"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Info(msg)
		closeLog()
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "first run") || !strings.Contains(string(data), "second run") {
		t.Errorf("expected both runs in log, got %q", string(data))
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	logger, closeLog, err := New(Options{Level: "verbose"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeLog()

	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info fallback, got %v", logger.GetLevel())
	}
}

func TestNew_DebugLevel(t *testing.T) {
	logger, closeLog, err := New(Options{Level: "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeLog()

	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug, got %v", logger.GetLevel())
	}
}

func TestNew_UnwritableFile(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened for appending.
	_, _, err := New(Options{File: dir, Level: "info"})
	if err == nil {
		t.Error("expected error opening a directory as log file")
	}
}
