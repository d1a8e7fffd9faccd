package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskfolio/internal/desktop"
	"github.com/1broseidon/deskfolio/internal/tiling"
)

const (
	DefaultFallbackTitle = "Mac Portfolio"
	DefaultClockFormat   = "3:04 PM"
	DefaultDateFormat    = "Mon Jan 2"
	DefaultScreenWidth   = 160
	DefaultScreenHeight  = 48
	DefaultMaxWorkspaces = 20
)

// Screen is the desktop area the terminal desktop paints into. Maximized
// windows take the whole screen minus the menu bar and dock.
type Screen struct {
	Width  int `yaml:"width" jsonschema:"minimum=40"`
	Height int `yaml:"height" jsonschema:"minimum=12"`
}

// Area is the pixel area between the menu bar and the dock.
func (s Screen) Area() tiling.Rect {
	return tiling.ScreenArea(s.Width, s.Height-2)
}

// WindowOverride replaces parts of a catalog window at registration. Unset
// fields keep the catalog value.
type WindowOverride struct {
	Title  string `yaml:"title,omitempty"`
	X      *int   `yaml:"x,omitempty"`
	Y      *int   `yaml:"y,omitempty"`
	Width  *int   `yaml:"width,omitempty"`
	Height *int   `yaml:"height,omitempty"`
}

// ArrangeConfig sets the defaults of the arrange command.
type ArrangeConfig struct {
	Mode string `yaml:"mode" jsonschema:"enum=grid,enum=master,enum=vertical,enum=horizontal,enum=cascade"`
	Gap  int    `yaml:"gap" jsonschema:"minimum=0,description=Gap between arranged windows in pixels"`
}

// WorkspacesConfig locates saved workspaces.
type WorkspacesConfig struct {
	Dir string `yaml:"dir,omitempty" jsonschema:"description=Directory of saved workspaces (default: data dir/workspaces)"`
	Max int    `yaml:"max" jsonschema:"minimum=1"`
}

// PaletteConfig selects the external launcher behind 'deskfolio menu'.
type PaletteConfig struct {
	Backend       string `yaml:"backend" jsonschema:"enum=auto,enum=rofi,enum=fuzzel,enum=wofi,enum=dmenu"`
	FuzzyMatching bool   `yaml:"fuzzy_matching"`
}

// LoggingConfig controls the daemon log file.
type LoggingConfig struct {
	Level     string `yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Format    string `yaml:"format" jsonschema:"enum=console,enum=json"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Config holds the effective deskfolio configuration.
type Config struct {
	Catalog       string                    `yaml:"catalog,omitempty" jsonschema:"description=Path to a catalog YAML replacing the built-in portfolio"`
	PrefsDB       string                    `yaml:"prefs_db,omitempty" jsonschema:"description=SQLite database holding the theme preference"`
	BaseZIndex    int                       `yaml:"base_z_index" jsonschema:"minimum=0"`
	FallbackTitle string                    `yaml:"fallback_title"`
	ClockFormat   string                    `yaml:"clock_format" jsonschema:"description=Go time layout for the menu bar clock"`
	DateFormat    string                    `yaml:"date_format" jsonschema:"description=Go time layout for the menu bar date"`
	WatchConfig   bool                      `yaml:"watch_config"`
	Screen        Screen                    `yaml:"screen"`
	Windows       map[string]WindowOverride `yaml:"windows,omitempty"`
	DesktopIcons  []string                  `yaml:"desktop_icons,omitempty"`
	Arrange       ArrangeConfig             `yaml:"arrange"`
	Workspaces    WorkspacesConfig          `yaml:"workspaces"`
	Palette       PaletteConfig             `yaml:"palette"`
	Logging       LoggingConfig             `yaml:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseZIndex:    desktop.DefaultBaseZIndex,
		FallbackTitle: DefaultFallbackTitle,
		ClockFormat:   DefaultClockFormat,
		DateFormat:    DefaultDateFormat,
		WatchConfig:   true,
		Screen: Screen{
			Width:  DefaultScreenWidth,
			Height: DefaultScreenHeight,
		},
		Windows: map[string]WindowOverride{},
		Arrange: ArrangeConfig{
			Mode: string(tiling.ModeGrid),
			Gap:  tiling.DefaultGap,
		},
		Workspaces: WorkspacesConfig{
			Max: DefaultMaxWorkspaces,
		},
		Palette: PaletteConfig{
			Backend: "auto",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "console",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// ApplyOverrides returns specs with the configured window overrides applied.
// Overrides for ids not present in specs are ignored.
func (c *Config) ApplyOverrides(specs []desktop.Spec) []desktop.Spec {
	out := make([]desktop.Spec, len(specs))
	copy(out, specs)
	if c == nil || len(c.Windows) == 0 {
		return out
	}
	for i := range out {
		ov, ok := c.Windows[out[i].ID]
		if !ok {
			continue
		}
		if ov.Title != "" {
			out[i].Title = ov.Title
		}
		if ov.X != nil {
			out[i].Position.X = *ov.X
		}
		if ov.Y != nil {
			out[i].Position.Y = *ov.Y
		}
		if ov.Width != nil {
			out[i].Size.Width = *ov.Width
		}
		if ov.Height != nil {
			out[i].Size.Height = *ov.Height
		}
	}
	return out
}

// LogFile returns the daemon log path, or "" to log to stderr only.
func (c *Config) LogFile() string {
	if c == nil {
		return ""
	}
	return expandHome(c.Logging.File)
}

// CatalogPath returns the catalog override with "~" expanded.
func (c *Config) CatalogPath() string {
	if c == nil {
		return ""
	}
	return expandHome(c.Catalog)
}

// WorkspacesDir returns the configured workspaces directory with "~"
// expanded, or "" for the default.
func (c *Config) WorkspacesDir() string {
	if c == nil {
		return ""
	}
	return expandHome(c.Workspaces.Dir)
}

// PrefsPath returns the configured preferences database, falling back to def.
func (c *Config) PrefsPath(def string) string {
	if c == nil || strings.TrimSpace(c.PrefsDB) == "" {
		return def
	}
	return expandHome(c.PrefsDB)
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.BaseZIndex < 0 {
		return &ValidationError{Path: "base_z_index", Err: fmt.Errorf("base_z_index must be >= 0")}
	}
	if strings.TrimSpace(c.FallbackTitle) == "" {
		return &ValidationError{Path: "fallback_title", Err: fmt.Errorf("fallback_title is required")}
	}
	if err := validateLayout(c.ClockFormat); err != nil {
		return &ValidationError{Path: "clock_format", Err: err}
	}
	if err := validateLayout(c.DateFormat); err != nil {
		return &ValidationError{Path: "date_format", Err: err}
	}
	if c.Screen.Width < 40 {
		return &ValidationError{Path: "screen.width", Err: fmt.Errorf("width must be >= 40")}
	}
	if c.Screen.Height < 12 {
		return &ValidationError{Path: "screen.height", Err: fmt.Errorf("height must be >= 12")}
	}
	for _, id := range sortedKeys(c.Windows) {
		ov := c.Windows[id]
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "windows", Err: fmt.Errorf("windows contains an empty id")}
		}
		if ov.Width != nil && *ov.Width <= 0 {
			return &ValidationError{Path: "windows." + id + ".width", Err: fmt.Errorf("width must be > 0")}
		}
		if ov.Height != nil && *ov.Height <= 0 {
			return &ValidationError{Path: "windows." + id + ".height", Err: fmt.Errorf("height must be > 0")}
		}
	}
	for _, id := range c.DesktopIcons {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "desktop_icons", Err: fmt.Errorf("desktop_icons contains an empty id")}
		}
	}
	if _, err := tiling.ParseMode(c.Arrange.Mode); err != nil {
		return &ValidationError{Path: "arrange.mode", Err: err}
	}
	if c.Arrange.Gap < 0 {
		return &ValidationError{Path: "arrange.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if c.Workspaces.Max < 1 {
		return &ValidationError{Path: "workspaces.max", Err: fmt.Errorf("max must be >= 1")}
	}
	switch c.Palette.Backend {
	case "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette.backend", Err: fmt.Errorf("backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: console, json")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

// validateLayout rejects layouts that render without any reference field.
func validateLayout(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("format is required")
	}
	ref := time.Date(2001, time.February, 3, 4, 5, 6, 0, time.UTC)
	if ref.Format(layout) == layout {
		return fmt.Errorf("format %q contains no time fields", layout)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
