package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tabtime.log")

	logger, closer, err := New(path, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("first run")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening must append, not truncate.
	logger, closer, err = New(path, false)
	if err != nil {
		t.Fatalf("New (reopen): %v", err)
	}
	logger.Info("second run")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"first run", "second run"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}
}

func TestVerboseKeepsDebugRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabtime.log")
	logger, closer, err := New(path, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("noisy detail")
	closer.Close()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "noisy detail") {
		t.Errorf("verbose logger dropped debug record:\n%s", data)
	}
}

func TestDefaultPathHonorsXDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/tmp/state/tabtime/tabtime.log" {
		t.Errorf("DefaultPath = %q", path)
	}
}
