// Package session persists tracker snapshots as one JSON file per named
// session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kwasow/tabtime/internal/track"
)

// ErrSessionNotFound is returned when the named session has no file on disk.
var ErrSessionNotFound = errors.New("session not found")

// NameMismatchError is returned by Load when a session file's embedded name
// does not match the name it was requested under. This catches manually
// renamed or copied files masquerading as a different session.
type NameMismatchError struct {
	Requested string
	Found     string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("session name mismatch: expected %q, found %q (if restoring a backup, rename the file to match the session name)", e.Requested, e.Found)
}

// Store is a stateless gateway to the session directory. It holds no session
// state between calls.
type Store struct {
	dir string
}

// DefaultDir returns the default session directory:
// $XDG_DATA_HOME/tabtime/sessions or ~/.local/share/tabtime/sessions.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "tabtime", "sessions"), nil
}

// NewStore returns a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory sessions are stored in.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the snapshot under its embedded session name. The file is
// written to a temp sibling, synced, then renamed, so a partially-written
// session is never visible under its real name.
func (s *Store) Save(snap *track.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding session %q: %w", snap.SessionName, err)
	}

	tmp, err := os.CreateTemp(s.dir, snap.SessionName+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("saving session %q: %w", snap.SessionName, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving session %q: %w", snap.SessionName, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("saving session %q: %w", snap.SessionName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("saving session %q: %w", snap.SessionName, err)
	}
	if err = os.Rename(tmpName, s.path(snap.SessionName)); err != nil {
		return fmt.Errorf("saving session %q: %w", snap.SessionName, err)
	}
	return nil
}

// Load reads the named session. Returns ErrSessionNotFound if no file
// exists, and a NameMismatchError if the file's embedded name differs.
func (s *Store) Load(name string) (*track.Snapshot, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, name)
		}
		return nil, fmt.Errorf("reading session %q: %w", name, err)
	}

	var snap track.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing session %q: %w", name, err)
	}
	if snap.SessionName != name {
		return nil, &NameMismatchError{Requested: name, Found: snap.SessionName}
	}
	return &snap, nil
}

// Exists reports whether a file for the named session is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// List returns the names of all stored sessions, sorted ascending.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named session file. Returns ErrSessionNotFound if it
// does not exist.
func (s *Store) Delete(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("deleting session %q: %w", name, err)
	}
	return nil
}

// Backup copies the named session file into a timestamped file under the
// backups subdirectory and returns the backup path.
func (s *Store) Backup(name string) (string, error) {
	if !s.Exists(name) {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}

	backupDir := filepath.Join(s.dir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	backupPath := filepath.Join(backupDir, fmt.Sprintf("%s_%s.json", name, stamp))
	if err := copyFile(s.path(name), backupPath); err != nil {
		return "", fmt.Errorf("backing up session %q: %w", name, err)
	}
	return backupPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
