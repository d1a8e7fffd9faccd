package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/deskfolio-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, "/deskfolio.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}
}

func TestDataPaths_UseXDGDataHome(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_DATA_HOME", td)

	prefs, err := PrefsPath()
	if err != nil {
		t.Fatalf("PrefsPath() error: %v", err)
	}
	if want := filepath.Join(td, "deskfolio", "prefs.db"); prefs != want {
		t.Fatalf("PrefsPath() = %q, want %q", prefs, want)
	}

	logPath, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath() error: %v", err)
	}
	if want := filepath.Join(td, "deskfolio", "deskfolio.log"); logPath != want {
		t.Fatalf("LogPath() = %q, want %q", logPath, want)
	}
}

func TestDataDir_FallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(home, ".local", "share", "deskfolio"); got != want {
		t.Fatalf("DataDir() = %q, want %q", got, want)
	}
}
