package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"pgregory.net/rapid"

	"github.com/kwasow/tabtime/internal/session"
	"github.com/kwasow/tabtime/internal/track"
)

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// testEnv points the data dir at a temp directory and isolates HOME so no
// real config file leaks into the run.
func testEnv(t testing.TB) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("TABTIME_DATA_DIR", tmp)
	t.Setenv("HOME", t.TempDir())
	return tmp
}

// seedSession writes a small snapshot into dir. rapid.TB is the common
// subset of *testing.T and *rapid.T, so both plain and property tests can
// seed through it.
func seedSession(t rapid.TB, dir, name string) {
	t.Helper()
	store, err := session.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	snap := &track.Snapshot{
		SessionName: name,
		Data: map[string]*track.SnapshotNode{
			"example.com": {
				SubPart:       "example.com",
				AggregateTime: 65_000,
				Children: map[string]*track.SnapshotNode{
					"docs": {
						SubPart:       "docs",
						AggregateTime: 1_500,
						Children:      map[string]*track.SnapshotNode{},
					},
				},
			},
		},
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestSessionsEmpty(t *testing.T) {
	testEnv(t)

	out, err := executeCommand(rootCmd, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(out, "no sessions") {
		t.Errorf("expected %q in output, got:\n%s", "no sessions", out)
	}
}

func TestSessionsListsAllStored(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")

		tmp := t.TempDir()
		t.Setenv("TABTIME_DATA_DIR", tmp)
		t.Setenv("HOME", t.TempDir())

		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("session%02d", i)
			seedSession(rt, tmp, names[i])
		}

		out, err := executeCommand(rootCmd, "sessions")
		if err != nil {
			rt.Fatalf("sessions: %v", err)
		}
		for _, name := range names {
			if !strings.Contains(out, name) {
				rt.Errorf("expected %q in output, got:\n%s", name, out)
			}
		}
	})
}

func TestSessionsSortedOutput(t *testing.T) {
	tmp := testEnv(t)
	seedSession(t, tmp, "zeta")
	seedSession(t, tmp, "alpha")

	out, err := executeCommand(rootCmd, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if strings.Index(out, "alpha") > strings.Index(out, "zeta") {
		t.Errorf("expected alphabetical order, got:\n%s", out)
	}
}

func TestDeleteSession(t *testing.T) {
	tmp := testEnv(t)
	seedSession(t, tmp, "work")

	out, err := executeCommand(rootCmd, "delete", "work")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "deleted work") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(tmp, "work.json")); !os.IsNotExist(err) {
		t.Errorf("session file still present after delete")
	}
}

func TestDeleteMissingSession(t *testing.T) {
	testEnv(t)

	_, err := executeCommand(rootCmd, "delete", "ghost")
	if err == nil {
		t.Fatal("expected an error for a missing session")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the session: %v", err)
	}
}

func TestBackupSession(t *testing.T) {
	tmp := testEnv(t)
	seedSession(t, tmp, "work")

	out, err := executeCommand(rootCmd, "backup", "work")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if !strings.Contains(out, "backed up to") {
		t.Errorf("unexpected output:\n%s", out)
	}

	entries, err := os.ReadDir(filepath.Join(tmp, "backups"))
	if err != nil {
		t.Fatalf("reading backups dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "work_") {
		t.Errorf("expected one work_* backup, got %v", entries)
	}
}

func TestViewPlain(t *testing.T) {
	tmp := testEnv(t)
	seedSession(t, tmp, "work")

	out, err := executeCommand(rootCmd, "view", "work", "--plain")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	for _, want := range []string{"example.com", "docs", "1m 05s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestViewMissingSession(t *testing.T) {
	testEnv(t)

	_, err := executeCommand(rootCmd, "view", "nope", "--plain")
	if err == nil {
		t.Fatal("expected an error for a missing session")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error should name the session: %v", err)
	}
}
