package desktop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskfolio/internal/prefs"
)

func spec(id string) Spec {
	return Spec{
		ID:       id,
		Title:    "Title " + id,
		Icon:     "/icons/" + id + ".png",
		Content:  id + "-panel",
		Position: Point{X: 100, Y: 50},
		Size:     Size{Width: 700, Height: 500},
	}
}

func newManager(t *testing.T, ids ...string) *Manager {
	t.Helper()
	m := New()
	for _, id := range ids {
		m.Register(spec(id))
	}
	return m
}

func mustWindow(t *testing.T, m *Manager, id string) Window {
	t.Helper()
	w, ok := m.Window(id)
	require.True(t, ok, "window %q not registered", id)
	return w
}

func TestRegister_InsertsClosedWindowAtBaseZ(t *testing.T) {
	m := newManager(t, "about")

	w := mustWindow(t, m, "about")
	assert.False(t, w.IsOpen)
	assert.False(t, w.IsMinimized)
	assert.False(t, w.IsMaximized)
	assert.Equal(t, DefaultBaseZIndex, w.ZIndex)
	assert.Equal(t, "about-panel", w.Content)
	assert.Equal(t, StateClosed, w.State())
	assert.Empty(t, m.ActiveID())
}

func TestRegister_DuplicateKeepsFirstSpec(t *testing.T) {
	m := newManager(t, "about")
	dup := spec("about")
	dup.Title = "Other"
	dup.Position = Point{X: 1, Y: 2}
	m.Register(dup)

	snap := m.Snapshot()
	require.Len(t, snap.Windows, 1)
	assert.Equal(t, "Title about", snap.Windows[0].Title)
	assert.Equal(t, Point{X: 100, Y: 50}, snap.Windows[0].Position)
}

func TestRegister_DistinctIDsCount(t *testing.T) {
	m := New()
	ids := []string{"a", "b", "a", "c", "b", "d"}
	for _, id := range ids {
		m.Register(spec(id))
	}
	snap := m.Snapshot()
	require.Len(t, snap.Windows, 4)
	var got []string
	for _, w := range snap.Windows {
		got = append(got, w.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestOpen_UnknownIDIsNoop(t *testing.T) {
	m := newManager(t, "about")
	m.Open("about")
	before := m.Snapshot()

	m.Open("ghost")

	after := m.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, "about", after.ActiveID)
}

func TestOpen_SecondWindowTakesFocusAndHigherZ(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	m.Open("b")

	assert.Equal(t, "b", m.ActiveID())
	assert.Greater(t, mustWindow(t, m, "b").ZIndex, mustWindow(t, m, "a").ZIndex)
}

func TestOpen_AlreadyOpenRefocuses(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	m.Open("b")
	m.Open("a")

	a := mustWindow(t, m, "a")
	assert.Equal(t, "a", m.ActiveID())
	assert.Equal(t, 103, a.ZIndex)
	assert.True(t, a.IsOpen)
}

func TestOpen_ClearsMinimized(t *testing.T) {
	m := newManager(t, "a")
	m.Open("a")
	m.Minimize("a")
	m.Open("a")

	a := mustWindow(t, m, "a")
	assert.False(t, a.IsMinimized)
	assert.Equal(t, "a", m.ActiveID())
}

func TestClose_ActiveFallsBackToNextHighest(t *testing.T) {
	m := newManager(t, "a", "b", "c")
	m.Open("a")
	m.Open("b")
	m.Open("c")

	m.Close("c")

	assert.Equal(t, "b", m.ActiveID())
	c := mustWindow(t, m, "c")
	assert.False(t, c.IsOpen)
	assert.Equal(t, Point{X: 100, Y: 50}, c.Position)
}

func TestClose_SkipsMinimizedCandidates(t *testing.T) {
	m := newManager(t, "a", "b", "c")
	m.Open("a")
	m.Open("b")
	m.Open("c")
	m.SetActive("b")
	m.Minimize("b")
	require.Equal(t, "c", m.ActiveID())

	m.Close("c")
	assert.Equal(t, "a", m.ActiveID())
}

func TestClose_InactiveWindowKeepsFocus(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	m.Open("b")

	m.Close("a")
	assert.Equal(t, "b", m.ActiveID())
}

func TestClose_KeepsMinimizedFlag(t *testing.T) {
	m := newManager(t, "a")
	m.Open("a")
	m.Minimize("a")
	m.Close("a")

	a := mustWindow(t, m, "a")
	assert.False(t, a.IsOpen)
	assert.True(t, a.IsMinimized)
	assert.Equal(t, StateClosed, a.State())
}

func TestMinimize_LastVisibleClearsFocus(t *testing.T) {
	m := newManager(t, "a")
	m.Open("a")
	m.Minimize("a")

	assert.Empty(t, m.ActiveID())
	assert.Equal(t, StateMinimized, mustWindow(t, m, "a").State())
}

func TestMinimize_ActiveReassignsToHighestVisible(t *testing.T) {
	m := newManager(t, "a", "b", "c")
	m.Open("a")
	m.Open("b")
	m.Open("c")
	m.Close("b")

	m.Minimize("c")
	assert.Equal(t, "a", m.ActiveID())
}

func TestMaximize_TwiceRestoresFlagAndRaisesBothTimes(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	m.Open("b")

	z0 := mustWindow(t, m, "a").ZIndex
	m.Maximize("a")
	first := mustWindow(t, m, "a")
	assert.True(t, first.IsMaximized)
	assert.Equal(t, StateMaximized, first.State())
	assert.Greater(t, first.ZIndex, z0)
	assert.Equal(t, "a", m.ActiveID())

	m.Maximize("a")
	second := mustWindow(t, m, "a")
	assert.False(t, second.IsMaximized)
	assert.Greater(t, second.ZIndex, first.ZIndex)
	assert.Equal(t, "a", m.ActiveID())
}

func TestRestore_UnminimizesAndFocuses(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	m.Open("b")
	m.Minimize("a")

	m.Restore("a")
	a := mustWindow(t, m, "a")
	assert.False(t, a.IsMinimized)
	assert.Equal(t, "a", m.ActiveID())
	assert.Equal(t, 103, a.ZIndex)
}

func TestRestore_NotMinimizedActsAsFocus(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	m.Open("b")

	m.Restore("a")
	assert.Equal(t, "a", m.ActiveID())
	assert.Greater(t, mustWindow(t, m, "a").ZIndex, mustWindow(t, m, "b").ZIndex)
}

func TestSetActive_DoesNotTouchFlags(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	m.Maximize("a")
	m.Open("b")

	m.SetActive("a")
	a := mustWindow(t, m, "a")
	assert.True(t, a.IsOpen)
	assert.True(t, a.IsMaximized)
	assert.False(t, a.IsMinimized)
	assert.Equal(t, "a", m.ActiveID())
}

func TestActivate_DockRule(t *testing.T) {
	m := newManager(t, "a", "b")

	m.Activate("a")
	assert.True(t, mustWindow(t, m, "a").IsOpen)
	assert.Equal(t, "a", m.ActiveID())

	m.Open("b")
	rev := m.Snapshot().Revision
	m.Activate("a")
	assert.Equal(t, rev, m.Snapshot().Revision, "activating an open window changes nothing")
	assert.Equal(t, "b", m.ActiveID())

	m.Minimize("b")
	m.Activate("b")
	b := mustWindow(t, m, "b")
	assert.False(t, b.IsMinimized)
	assert.Equal(t, "b", m.ActiveID())
}

func TestGeometry_OverwritesWithoutClamping(t *testing.T) {
	m := newManager(t, "a")
	m.UpdatePosition("a", -500, 99999)
	m.UpdateSize("a", 0, -3)

	a := mustWindow(t, m, "a")
	assert.Equal(t, Point{X: -500, Y: 99999}, a.Position)
	assert.Equal(t, Size{Width: 0, Height: -3}, a.Size)
	assert.False(t, a.IsOpen, "geometry is independent of open state")

	m.UpdatePosition("ghost", 1, 1)
	m.UpdateSize("ghost", 1, 1)
	_, ok := m.Window("ghost")
	assert.False(t, ok)
}

func TestPlace_SingleRevisionAndSkipsUnknown(t *testing.T) {
	m := newManager(t, "a", "b")
	m.Open("a")
	before := m.Snapshot()

	var fired int
	cancel := m.Subscribe(func(Snapshot) { fired++ })
	defer cancel()

	m.Place(map[string]Bounds{
		"a":     {Position: Point{X: 16, Y: 16}, Size: Size{Width: 300, Height: 200}},
		"b":     {Position: Point{X: 332, Y: 16}, Size: Size{Width: 300, Height: 200}},
		"ghost": {Position: Point{X: 1, Y: 1}},
	})
	assert.Equal(t, 1, fired)

	after := m.Snapshot()
	assert.Equal(t, before.Revision+1, after.Revision)
	a := mustWindow(t, m, "a")
	assert.Equal(t, Point{X: 16, Y: 16}, a.Position)
	assert.Equal(t, Size{Width: 300, Height: 200}, a.Size)
	assert.Equal(t, before.ActiveID, after.ActiveID)
	assert.Equal(t, mustWindow(t, m, "a").ZIndex, a.ZIndex)
	_, ok := m.Window("ghost")
	assert.False(t, ok)

	m.Place(map[string]Bounds{"a": {Position: Point{X: 16, Y: 16}, Size: Size{Width: 300, Height: 200}}})
	assert.Equal(t, 1, fired, "unchanged geometry is not a mutation")
}

func TestZIndex_StrictlyIncreasing(t *testing.T) {
	m := newManager(t, "a", "b", "c")
	ops := []func(){
		func() { m.Open("a") },
		func() { m.Open("b") },
		func() { m.SetActive("a") },
		func() { m.Maximize("c") },
		func() { m.Minimize("a") },
		func() { m.Restore("a") },
		func() { m.Open("c") },
		func() { m.Maximize("c") },
	}
	seen := map[int]bool{}
	last := DefaultBaseZIndex
	for i, op := range ops {
		op()
		snap := m.Snapshot()
		if snap.HighestZIndex != last {
			assert.Greater(t, snap.HighestZIndex, last, "op %d", i)
			assert.False(t, seen[snap.HighestZIndex], "z %d reused", snap.HighestZIndex)
			seen[snap.HighestZIndex] = true
			last = snap.HighestZIndex
		}
	}
}

func TestScenario_AboutProjects(t *testing.T) {
	m := newManager(t, "about", "projects")

	m.Open("about")
	about := mustWindow(t, m, "about")
	assert.True(t, about.IsOpen)
	assert.Equal(t, 101, about.ZIndex)
	assert.Equal(t, "about", m.ActiveID())

	m.Open("projects")
	projects := mustWindow(t, m, "projects")
	assert.Equal(t, 102, projects.ZIndex)
	assert.Equal(t, "projects", m.ActiveID())
	assert.Equal(t, 101, mustWindow(t, m, "about").ZIndex)

	m.Minimize("projects")
	assert.Equal(t, "about", m.ActiveID())

	m.Close("about")
	assert.Empty(t, m.ActiveID())
}

func TestSubscribe_FiresAfterEachMutation(t *testing.T) {
	m := newManager(t, "a", "b")

	var got []Snapshot
	cancel := m.Subscribe(func(s Snapshot) {
		got = append(got, s)
	})

	m.Open("a")
	m.Open("ghost")
	m.Register(spec("a"))
	m.Open("b")
	m.Close("b")

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ActiveID)
	assert.Equal(t, "b", got[1].ActiveID)
	assert.Equal(t, "a", got[2].ActiveID)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Revision, got[i-1].Revision)
	}

	cancel()
	cancel()
	m.Open("b")
	assert.Len(t, got, 3)
}

func TestSubscribe_ListenerCanReadManager(t *testing.T) {
	m := newManager(t, "a")
	var title string
	m.Subscribe(func(s Snapshot) {
		title = m.Snapshot().ActiveTitle("fallback")
	})
	m.Open("a")
	assert.Equal(t, "Title a", title)
}

func TestSubscribe_ListenerReadsWhileAnotherMutationWaits(t *testing.T) {
	m := newManager(t, "a", "b")

	entered := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	var active []string
	m.Subscribe(func(Snapshot) {
		once.Do(func() {
			close(entered)
			time.Sleep(50 * time.Millisecond)
		})
		id := m.Snapshot().ActiveID
		mu.Lock()
		active = append(active, id)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.Open("a")
	}()
	go func() {
		defer wg.Done()
		<-entered
		m.Open("b")
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener reading the manager blocked a concurrent mutation")
	}

	assert.Equal(t, "b", m.ActiveID())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, active, 2)
	assert.Equal(t, "b", active[1])
}

func TestSubscribe_CancelKeepsRemainingOrder(t *testing.T) {
	m := newManager(t, "a")
	var calls []string
	cancels := make([]func(), 0, 3)
	for _, name := range []string{"first", "second", "third"} {
		name := name
		cancels = append(cancels, m.Subscribe(func(Snapshot) {
			calls = append(calls, name)
		}))
	}

	cancels[1]()
	m.Open("a")
	assert.Equal(t, []string{"first", "third"}, calls)

	cancels[0]()
	cancels[2]()
	m.Minimize("a")
	assert.Equal(t, []string{"first", "third"}, calls)
}

func TestSubscribe_SnapshotIsACopy(t *testing.T) {
	m := newManager(t, "a")
	var snap Snapshot
	m.Subscribe(func(s Snapshot) { snap = s })
	m.Open("a")

	snap.Windows[0].Title = "mutated"
	assert.Equal(t, "Title a", mustWindow(t, m, "a").Title)
}

func TestSubscribe_ConcurrentMutationsDeliverInOrder(t *testing.T) {
	m := New()
	for i := 0; i < 8; i++ {
		m.Register(spec(fmt.Sprintf("w%d", i)))
	}

	var mu sync.Mutex
	var revs []uint64
	m.Subscribe(func(s Snapshot) {
		mu.Lock()
		revs = append(revs, s.Revision)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				m.Open(id)
				m.Minimize(id)
			}
		}(fmt.Sprintf("w%d", i))
	}
	wg.Wait()

	require.Len(t, revs, 8*25*2)
	for i := 1; i < len(revs); i++ {
		require.Equal(t, revs[i-1]+1, revs[i])
	}
}

func TestToggleDarkMode_PersistsEachFlip(t *testing.T) {
	store := prefs.NewMemoryStore()
	m := New(WithPreferences(store))
	require.False(t, m.DarkMode())

	m.ToggleDarkMode()
	v, ok, err := store.GetBool(context.Background(), DarkModeKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, v)
	assert.True(t, m.DarkMode())

	m.ToggleDarkMode()
	v, _, err = store.GetBool(context.Background(), DarkModeKey)
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, m.DarkMode())
}

func TestNew_ReadsDarkModeOnce(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.SetBool(context.Background(), DarkModeKey, true))

	m := New(WithPreferences(store))
	assert.True(t, m.DarkMode())
	assert.True(t, m.Snapshot().DarkMode)
}

type failingPrefs struct{}

func (failingPrefs) GetBool(context.Context, string) (bool, bool, error) {
	return false, false, errors.New("boom")
}

func (failingPrefs) SetBool(context.Context, string, bool) error {
	return errors.New("boom")
}

func TestToggleDarkMode_StoreFailureStillFlips(t *testing.T) {
	m := New(WithPreferences(failingPrefs{}))
	m.ToggleDarkMode()
	assert.True(t, m.DarkMode())
}

func TestWithBaseZIndex(t *testing.T) {
	m := New(WithBaseZIndex(10))
	m.Register(spec("a"))
	assert.Equal(t, 10, mustWindow(t, m, "a").ZIndex)
	m.Open("a")
	assert.Equal(t, 11, mustWindow(t, m, "a").ZIndex)
}

func TestSnapshotHelpers(t *testing.T) {
	m := newManager(t, "a", "b", "c")
	m.Open("a")
	m.Open("c")
	m.Open("b")
	m.Minimize("c")

	snap := m.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, snap.Running())
	assert.Equal(t, "Title b", snap.ActiveTitle("Mac Portfolio"))

	var order []string
	for _, w := range snap.Stacked() {
		order = append(order, w.ID)
	}
	assert.Equal(t, []string{"a", "b"}, order)

	m.Close("a")
	m.Close("b")
	assert.Equal(t, "Mac Portfolio", m.Snapshot().ActiveTitle("Mac Portfolio"))
}
