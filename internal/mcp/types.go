package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	OpenOnly bool `json:"open_only,omitempty" jsonschema:"When true, only windows that are open (including minimized) are listed"`
}

// WindowInfo describes one window.
type WindowInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	State       string `json:"state"`
	Active      bool   `json:"active"`
	IsOpen      bool   `json:"is_open"`
	IsMinimized bool   `json:"is_minimized"`
	IsMaximized bool   `json:"is_maximized"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ZIndex      int    `json:"z_index"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows  []WindowInfo `json:"windows"`
	ActiveID string       `json:"active_id"`
	DarkMode bool         `json:"dark_mode"`
	Revision uint64       `json:"revision"`
}

// WindowInput addresses a single window.
type WindowInput struct {
	ID string `json:"id" jsonschema:"Window id, for example about, projects, skills, contact, finder or settings"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"Window id"`
	X  int    `json:"x" jsonschema:"New left edge in desktop coordinates"`
	Y  int    `json:"y" jsonschema:"New top edge in desktop coordinates"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string `json:"id" jsonschema:"Window id"`
	Width  int    `json:"width" jsonschema:"New width, must be positive"`
	Height int    `json:"height" jsonschema:"New height, must be positive"`
}

// WindowOutput is returned by every single-window tool.
type WindowOutput struct {
	Window   WindowInfo `json:"window"`
	ActiveID string     `json:"active_id"`
}

// ArrangeWindowsInput is the input for the arrange_windows tool.
type ArrangeWindowsInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"Arrangement: grid, master, vertical, horizontal or cascade. Defaults to the configured mode"`
	Gap  *int   `json:"gap,omitempty" jsonschema:"Gap between windows in pixels. Defaults to the configured gap"`
}

// ArrangeWindowsOutput lists the windows that were placed.
type ArrangeWindowsOutput struct {
	Mode     string       `json:"mode"`
	Windows  []WindowInfo `json:"windows"`
	ActiveID string       `json:"active_id"`
}

// ToggleDarkModeInput is the input for the toggle_dark_mode tool.
type ToggleDarkModeInput struct{}

// ToggleDarkModeOutput is the output for the toggle_dark_mode tool.
type ToggleDarkModeOutput struct {
	DarkMode bool `json:"dark_mode"`
}
