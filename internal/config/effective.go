package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Catalog != nil {
		cfg.Catalog = strings.TrimSpace(*raw.Catalog)
	}
	if raw.PrefsDB != nil {
		cfg.PrefsDB = strings.TrimSpace(*raw.PrefsDB)
	}
	if raw.BaseZIndex != nil {
		cfg.BaseZIndex = *raw.BaseZIndex
	}
	if raw.FallbackTitle != nil {
		cfg.FallbackTitle = *raw.FallbackTitle
	}
	if raw.ClockFormat != nil {
		cfg.ClockFormat = *raw.ClockFormat
	}
	if raw.DateFormat != nil {
		cfg.DateFormat = *raw.DateFormat
	}
	if raw.WatchConfig != nil {
		cfg.WatchConfig = *raw.WatchConfig
	}
	if raw.Screen != nil {
		if raw.Screen.Width != nil {
			cfg.Screen.Width = *raw.Screen.Width
		}
		if raw.Screen.Height != nil {
			cfg.Screen.Height = *raw.Screen.Height
		}
	}
	for id, ov := range raw.Windows {
		cfg.Windows[id] = ov
	}
	if raw.DesktopIcons != nil {
		cfg.DesktopIcons = append([]string(nil), raw.DesktopIcons...)
	}
	if raw.Arrange != nil {
		if raw.Arrange.Mode != nil {
			cfg.Arrange.Mode = strings.ToLower(strings.TrimSpace(*raw.Arrange.Mode))
		}
		if raw.Arrange.Gap != nil {
			cfg.Arrange.Gap = *raw.Arrange.Gap
		}
	}
	if raw.Workspaces != nil {
		if raw.Workspaces.Dir != nil {
			cfg.Workspaces.Dir = strings.TrimSpace(*raw.Workspaces.Dir)
		}
		if raw.Workspaces.Max != nil {
			cfg.Workspaces.Max = *raw.Workspaces.Max
		}
	}
	if raw.Palette != nil {
		if raw.Palette.Backend != nil {
			cfg.Palette.Backend = strings.ToLower(strings.TrimSpace(*raw.Palette.Backend))
		}
		if raw.Palette.FuzzyMatching != nil {
			cfg.Palette.FuzzyMatching = *raw.Palette.FuzzyMatching
		}
	}
	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*raw.Logging.Level))
			if cfg.Logging.Level == "warning" {
				cfg.Logging.Level = "warn"
			}
		}
		if raw.Logging.Format != nil {
			cfg.Logging.Format = strings.ToLower(strings.TrimSpace(*raw.Logging.Format))
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = strings.TrimSpace(*raw.Logging.File)
		}
		if raw.Logging.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *raw.Logging.MaxSizeMB
		}
		if raw.Logging.MaxFiles != nil {
			cfg.Logging.MaxFiles = *raw.Logging.MaxFiles
		}
	}

	return cfg
}
