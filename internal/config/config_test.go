package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.BaseZIndex != desktop.DefaultBaseZIndex {
		t.Fatalf("expected base z-index %d, got %d", desktop.DefaultBaseZIndex, cfg.BaseZIndex)
	}
	if cfg.FallbackTitle != "Mac Portfolio" {
		t.Fatalf("unexpected fallback title %q", cfg.FallbackTitle)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
	if res.Config.ClockFormat != DefaultClockFormat {
		t.Fatalf("expected default clock format, got %q", res.Config.ClockFormat)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Screen.Width != DefaultScreenWidth {
		t.Fatalf("expected default width, got %d", res.Config.Screen.Width)
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"base_z_index: 10",
		"fallback_title: Portfolio",
		"screen:",
		"  width: 200",
		"windows:",
		"  about:",
		"    x: 5",
		"    width: 80",
		"arrange:",
		"  mode: Master",
		"palette:",
		"  backend: Rofi",
		"logging:",
		"  level: WARNING",
		"  format: json",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.BaseZIndex != 10 {
		t.Fatalf("expected base_z_index 10, got %d", cfg.BaseZIndex)
	}
	if cfg.Screen.Width != 200 || cfg.Screen.Height != DefaultScreenHeight {
		t.Fatalf("unexpected screen %+v", cfg.Screen)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Arrange.Mode != "master" || cfg.Arrange.Gap != tiling.DefaultGap {
		t.Fatalf("unexpected arrange %+v", cfg.Arrange)
	}
	if cfg.Palette.Backend != "rofi" || cfg.Palette.FuzzyMatching {
		t.Fatalf("unexpected palette %+v", cfg.Palette)
	}
	if area := cfg.Screen.Area(); area.Width != 200*tiling.CellWidth || area.Height != (DefaultScreenHeight-2)*tiling.CellHeight {
		t.Fatalf("unexpected area %+v", area)
	}
	ov, ok := cfg.Windows["about"]
	if !ok || ov.X == nil || *ov.X != 5 || ov.Y != nil {
		t.Fatalf("unexpected about override %+v", ov)
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "gap_size: 4\n")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "fallback_title: ok\nbase_z_index: -1\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "base_z_index" {
		t.Fatalf("expected path base_z_index, got %q", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 2 {
		t.Fatalf("expected file source at line 2, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line in error, got %q", err.Error())
	}
}

func TestLoadFromPath_IncludesMergeInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf.d", "a.yaml"), "clock_format: \"15:04\"\nscreen:\n  height: 30\n")
	writeFile(t, filepath.Join(dir, "conf.d", "b.yaml"), "screen:\n  width: 90\n")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include: conf.d\nscreen:\n  width: 120\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
	if res.Config.ClockFormat != "15:04" {
		t.Fatalf("expected included clock format, got %q", res.Config.ClockFormat)
	}
	if res.Config.Screen.Width != 120 || res.Config.Screen.Height != 30 {
		t.Fatalf("unexpected screen %+v", res.Config.Screen)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	zero := 0
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"empty fallback", func(c *Config) { c.FallbackTitle = " " }, "fallback_title"},
		{"clock without fields", func(c *Config) { c.ClockFormat = "now" }, "clock_format"},
		{"narrow screen", func(c *Config) { c.Screen.Width = 10 }, "screen.width"},
		{"zero window width", func(c *Config) { c.Windows["about"] = WindowOverride{Width: &zero} }, "windows.about.width"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"blank icon", func(c *Config) { c.DesktopIcons = []string{""} }, "desktop_icons"},
		{"bad arrangement", func(c *Config) { c.Arrange.Mode = "spiral" }, "arrange.mode"},
		{"negative gap", func(c *Config) { c.Arrange.Gap = -1 }, "arrange.gap"},
		{"no workspaces", func(c *Config) { c.Workspaces.Max = 0 }, "workspaces.max"},
		{"unknown launcher", func(c *Config) { c.Palette.Backend = "albert" }, "palette.backend"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, verr.Path)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	x, h := 7, 99
	cfg := DefaultConfig()
	cfg.Windows["about"] = WindowOverride{Title: "Me", X: &x, Height: &h}
	cfg.Windows["ghost"] = WindowOverride{Title: "nobody"}

	specs := []desktop.Spec{
		{ID: "about", Title: "About Me", Position: desktop.Point{X: 1, Y: 2}, Size: desktop.Size{Width: 3, Height: 4}},
		{ID: "skills", Title: "Skills"},
	}
	got := cfg.ApplyOverrides(specs)

	if specs[0].Title != "About Me" {
		t.Fatalf("input slice was modified")
	}
	want := desktop.Spec{ID: "about", Title: "Me", Position: desktop.Point{X: 7, Y: 2}, Size: desktop.Size{Width: 3, Height: 99}}
	if got[0] != want {
		t.Fatalf("expected %+v, got %+v", want, got[0])
	}
	if got[1].Title != "Skills" || len(got) != 2 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "screen:\n  width: 100\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, src, err := Explain(res, "screen.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != 100 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %v %+v", value, src)
	}

	value, src, err = Explain(res, "fallback_title")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != DefaultFallbackTitle || src.Kind != SourceDefault {
		t.Fatalf("unexpected explain result %v %+v", value, src)
	}

	if _, _, err := Explain(res, "screen.depth"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Catalog = "/tmp/catalog.yaml"
	cfg.Screen.Height = 40
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Catalog != "/tmp/catalog.yaml" || res.Config.Screen.Height != 40 {
		t.Fatalf("unexpected config %+v", res.Config)
	}
}

func TestPrefsPathFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.PrefsPath("/data/prefs.db"); got != "/data/prefs.db" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("HOME", "/home/tester")
	cfg.PrefsDB = "~/prefs.db"
	if got := cfg.PrefsPath("/data/prefs.db"); got != "/home/tester/prefs.db" {
		t.Fatalf("expected expanded path, got %q", got)
	}
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "/xdg/deskfolio/config.yaml" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv(EnvConfigPath, "~/desk.yaml")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "/home/tester/desk.yaml" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", data)
	}
	for _, key := range []string{"base_z_index", "fallback_title", "screen", "windows", "logging"} {
		if _, ok := props[key]; !ok {
			t.Fatalf("schema missing %q", key)
		}
	}
}
