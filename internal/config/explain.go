package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	catalog
//	prefs_db
//	base_z_index
//	fallback_title
//	clock_format
//	date_format
//	watch_config
//	screen.width
//	windows.<id>.x
//	desktop_icons
//	arrange.mode
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "catalog":
		return leaf(cfg.Catalog)
	case "prefs_db":
		return leaf(cfg.PrefsDB)
	case "base_z_index":
		return leaf(cfg.BaseZIndex)
	case "fallback_title":
		return leaf(cfg.FallbackTitle)
	case "clock_format":
		return leaf(cfg.ClockFormat)
	case "date_format":
		return leaf(cfg.DateFormat)
	case "watch_config":
		return leaf(cfg.WatchConfig)
	case "desktop_icons":
		return leaf(cfg.DesktopIcons)
	case "screen":
		if len(parts) == 1 {
			return cfg.Screen, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "width":
			return cfg.Screen.Width, nil
		case "height":
			return cfg.Screen.Height, nil
		}
	case "windows":
		if len(parts) == 1 {
			return cfg.Windows, nil
		}
		ov, ok := cfg.Windows[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown windows entry %q", parts[1])
		}
		if len(parts) == 2 {
			return ov, nil
		}
		if len(parts) != 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[2] {
		case "title":
			return ov.Title, nil
		case "x":
			return derefInt(ov.X), nil
		case "y":
			return derefInt(ov.Y), nil
		case "width":
			return derefInt(ov.Width), nil
		case "height":
			return derefInt(ov.Height), nil
		}
	case "arrange":
		if len(parts) == 1 {
			return cfg.Arrange, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "mode":
			return cfg.Arrange.Mode, nil
		case "gap":
			return cfg.Arrange.Gap, nil
		}
	case "workspaces":
		if len(parts) == 1 {
			return cfg.Workspaces, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "dir":
			return cfg.Workspaces.Dir, nil
		case "max":
			return cfg.Workspaces.Max, nil
		}
	case "palette":
		if len(parts) == 1 {
			return cfg.Palette, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "backend":
			return cfg.Palette.Backend, nil
		case "fuzzy_matching":
			return cfg.Palette.FuzzyMatching, nil
		}
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "level":
			return cfg.Logging.Level, nil
		case "format":
			return cfg.Logging.Format, nil
		case "file":
			return cfg.Logging.File, nil
		case "max_size_mb":
			return cfg.Logging.MaxSizeMB, nil
		case "max_files":
			return cfg.Logging.MaxFiles, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

func derefInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
