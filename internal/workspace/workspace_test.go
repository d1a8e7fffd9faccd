package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskfolio/internal/desktop"
)

var savedAt = time.Date(2024, time.March, 8, 14, 30, 0, 0, time.UTC)

func newManager(ids ...string) *desktop.Manager {
	mgr := desktop.New()
	for _, id := range ids {
		mgr.Register(desktop.Spec{
			ID:       id,
			Title:    id,
			Position: desktop.Point{X: 10, Y: 10},
			Size:     desktop.Size{Width: 300, Height: 200},
		})
	}
	return mgr
}

func TestCaptureOrdersByStacking(t *testing.T) {
	mgr := newManager("about", "projects", "skills")
	mgr.Open("projects")
	mgr.Open("about")
	mgr.Maximize("projects")
	mgr.UpdatePosition("about", 40, 60)

	ws, err := Capture("work", mgr.Snapshot(), savedAt)
	require.NoError(t, err)

	ids := make([]string, len(ws.Windows))
	for i, w := range ws.Windows {
		ids[i] = w.ID
	}
	assert.Equal(t, []string{"skills", "about", "projects"}, ids)
	assert.Equal(t, "projects", ws.ActiveID)
	assert.Equal(t, 2, ws.OpenCount())
	assert.True(t, ws.Windows[2].IsMaximized)
	assert.Equal(t, desktop.Point{X: 40, Y: 60}, ws.Windows[1].Position)

	_, err = Capture("../escape", mgr.Snapshot(), savedAt)
	require.Error(t, err)
}

func TestRestoreReplaysState(t *testing.T) {
	src := newManager("about", "projects", "skills", "contact")
	src.Open("about")
	src.Open("projects")
	src.Open("skills")
	src.Minimize("skills")
	src.Maximize("about")
	src.UpdatePosition("projects", 100, 120)
	src.UpdateSize("projects", 640, 480)
	src.SetActive("projects")

	ws, err := Capture("demo", src.Snapshot(), savedAt)
	require.NoError(t, err)
	ws.Windows = append(ws.Windows, WindowState{ID: "retired", IsOpen: true})

	dst := newManager("about", "projects", "skills", "contact")
	dst.Open("contact")
	dst.Open("projects")
	dst.Maximize("projects")

	skipped, err := Restore(dst, ws)
	require.NoError(t, err)
	assert.Equal(t, []string{"retired"}, skipped)

	contact, _ := dst.Window("contact")
	assert.False(t, contact.IsOpen, "contact was closed when saved")

	about, _ := dst.Window("about")
	assert.True(t, about.IsOpen)
	assert.True(t, about.IsMaximized)

	projects, _ := dst.Window("projects")
	assert.False(t, projects.IsMaximized)
	assert.Equal(t, desktop.Point{X: 100, Y: 120}, projects.Position)
	assert.Equal(t, desktop.Size{Width: 640, Height: 480}, projects.Size)

	skills, _ := dst.Window("skills")
	assert.True(t, skills.IsOpen)
	assert.True(t, skills.IsMinimized)

	assert.Equal(t, "projects", dst.ActiveID())
	assert.Greater(t, projects.ZIndex, about.ZIndex)
}

func TestRestoreRejectsNil(t *testing.T) {
	_, err := Restore(nil, &Workspace{})
	require.Error(t, err)
	_, err = Restore(newManager(), nil)
	require.Error(t, err)
}

func TestStoreRoundTripAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ws")
	store, err := NewStore(dir, 0)
	require.NoError(t, err)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names, "missing directory lists nothing")

	mgr := newManager("about")
	mgr.Open("about")
	ws, err := Capture("morning", mgr.Snapshot(), savedAt)
	require.NoError(t, err)
	require.NoError(t, store.Write(ws))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	got, err := store.Read("morning")
	require.NoError(t, err)
	assert.Equal(t, ws.Windows, got.Windows)
	assert.True(t, savedAt.Equal(got.SavedAt))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"morning"}, names)

	require.NoError(t, store.Delete("morning"))
	_, err = store.Read("morning")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("morning"), ErrNotFound)
}

func TestStoreLimit(t *testing.T) {
	store, err := NewStore(t.TempDir(), 2)
	require.NoError(t, err)

	for _, name := range []string{"a", "b"} {
		require.NoError(t, store.Write(&Workspace{Name: name}))
	}
	err = store.Write(&Workspace{Name: "c"})
	assert.ErrorIs(t, err, ErrLimit)

	// Overwriting an existing name is always allowed.
	require.NoError(t, store.Write(&Workspace{Name: "a", ActiveID: "about"}))
	got, err := store.Read("a")
	require.NoError(t, err)
	assert.Equal(t, "about", got.ActiveID)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"work", "demo-2", "Morning Layout"} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "  ", " padded", "a/b", "..", "x..y"} {
		assert.Error(t, ValidateName(name), name)
	}
}

func TestDefaultDirUsesDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/data/deskfolio/workspaces", dir)
}
