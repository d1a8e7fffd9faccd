package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawScreen struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawArrange struct {
	Mode *string `yaml:"mode"`
	Gap  *int    `yaml:"gap"`
}

type RawWorkspaces struct {
	Dir *string `yaml:"dir"`
	Max *int    `yaml:"max"`
}

type RawPalette struct {
	Backend       *string `yaml:"backend"`
	FuzzyMatching *bool   `yaml:"fuzzy_matching"`
}

type RawLogging struct {
	Level     *string `yaml:"level"`
	Format    *string `yaml:"format"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors Config with optional fields so that merged files only
// override what they set.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Catalog       *string                   `yaml:"catalog"`
	PrefsDB       *string                   `yaml:"prefs_db"`
	BaseZIndex    *int                      `yaml:"base_z_index"`
	FallbackTitle *string                   `yaml:"fallback_title"`
	ClockFormat   *string                   `yaml:"clock_format"`
	DateFormat    *string                   `yaml:"date_format"`
	WatchConfig   *bool                     `yaml:"watch_config"`
	Screen        *RawScreen                `yaml:"screen"`
	Windows       map[string]WindowOverride `yaml:"windows"`
	DesktopIcons  []string                  `yaml:"desktop_icons"`
	Arrange       *RawArrange               `yaml:"arrange"`
	Workspaces    *RawWorkspaces            `yaml:"workspaces"`
	Palette       *RawPalette               `yaml:"palette"`
	Logging       *RawLogging               `yaml:"logging"`
}

func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	if other.Catalog != nil {
		out.Catalog = other.Catalog
	}
	if other.PrefsDB != nil {
		out.PrefsDB = other.PrefsDB
	}
	if other.BaseZIndex != nil {
		out.BaseZIndex = other.BaseZIndex
	}
	if other.FallbackTitle != nil {
		out.FallbackTitle = other.FallbackTitle
	}
	if other.ClockFormat != nil {
		out.ClockFormat = other.ClockFormat
	}
	if other.DateFormat != nil {
		out.DateFormat = other.DateFormat
	}
	if other.WatchConfig != nil {
		out.WatchConfig = other.WatchConfig
	}
	if other.Screen != nil {
		merged := RawScreen{}
		if out.Screen != nil {
			merged = *out.Screen
		}
		if other.Screen.Width != nil {
			merged.Width = other.Screen.Width
		}
		if other.Screen.Height != nil {
			merged.Height = other.Screen.Height
		}
		out.Screen = &merged
	}
	if other.Windows != nil {
		merged := make(map[string]WindowOverride, len(out.Windows)+len(other.Windows))
		for id, ov := range out.Windows {
			merged[id] = ov
		}
		for id, ov := range other.Windows {
			merged[id] = mergeOverride(merged[id], ov)
		}
		out.Windows = merged
	}
	if other.DesktopIcons != nil {
		out.DesktopIcons = append([]string(nil), other.DesktopIcons...)
	}
	if other.Arrange != nil {
		merged := RawArrange{}
		if out.Arrange != nil {
			merged = *out.Arrange
		}
		if other.Arrange.Mode != nil {
			merged.Mode = other.Arrange.Mode
		}
		if other.Arrange.Gap != nil {
			merged.Gap = other.Arrange.Gap
		}
		out.Arrange = &merged
	}
	if other.Workspaces != nil {
		merged := RawWorkspaces{}
		if out.Workspaces != nil {
			merged = *out.Workspaces
		}
		if other.Workspaces.Dir != nil {
			merged.Dir = other.Workspaces.Dir
		}
		if other.Workspaces.Max != nil {
			merged.Max = other.Workspaces.Max
		}
		out.Workspaces = &merged
	}
	if other.Palette != nil {
		merged := RawPalette{}
		if out.Palette != nil {
			merged = *out.Palette
		}
		if other.Palette.Backend != nil {
			merged.Backend = other.Palette.Backend
		}
		if other.Palette.FuzzyMatching != nil {
			merged.FuzzyMatching = other.Palette.FuzzyMatching
		}
		out.Palette = &merged
	}
	if other.Logging != nil {
		merged := RawLogging{}
		if out.Logging != nil {
			merged = *out.Logging
		}
		if other.Logging.Level != nil {
			merged.Level = other.Logging.Level
		}
		if other.Logging.Format != nil {
			merged.Format = other.Logging.Format
		}
		if other.Logging.File != nil {
			merged.File = other.Logging.File
		}
		if other.Logging.MaxSizeMB != nil {
			merged.MaxSizeMB = other.Logging.MaxSizeMB
		}
		if other.Logging.MaxFiles != nil {
			merged.MaxFiles = other.Logging.MaxFiles
		}
		out.Logging = &merged
	}
	return out
}

func mergeOverride(base, other WindowOverride) WindowOverride {
	if other.Title != "" {
		base.Title = other.Title
	}
	if other.X != nil {
		base.X = other.X
	}
	if other.Y != nil {
		base.Y = other.Y
	}
	if other.Width != nil {
		base.Width = other.Width
	}
	if other.Height != nil {
		base.Height = other.Height
	}
	return base
}
