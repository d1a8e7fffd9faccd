package tui

import "github.com/charmbracelet/lipgloss"

// palette holds the colors for one theme.
type palette struct {
	desktop     lipgloss.Color
	desktopText lipgloss.Color
	menuBar     lipgloss.Color
	menuText    lipgloss.Color
	window      lipgloss.Color
	windowText  lipgloss.Color
	frame       lipgloss.Color
	frameActive lipgloss.Color
	titleBar    lipgloss.Color
	accent      lipgloss.Color
	muted       lipgloss.Color
	dock        lipgloss.Color
}

var (
	lightPalette = palette{
		desktop:     lipgloss.Color("31"),
		desktopText: lipgloss.Color("15"),
		menuBar:     lipgloss.Color("254"),
		menuText:    lipgloss.Color("235"),
		window:      lipgloss.Color("255"),
		windowText:  lipgloss.Color("236"),
		frame:       lipgloss.Color("248"),
		frameActive: lipgloss.Color("33"),
		titleBar:    lipgloss.Color("252"),
		accent:      lipgloss.Color("33"),
		muted:       lipgloss.Color("244"),
		dock:        lipgloss.Color("252"),
	}

	darkPalette = palette{
		desktop:     lipgloss.Color("17"),
		desktopText: lipgloss.Color("252"),
		menuBar:     lipgloss.Color("236"),
		menuText:    lipgloss.Color("252"),
		window:      lipgloss.Color("235"),
		windowText:  lipgloss.Color("252"),
		frame:       lipgloss.Color("240"),
		frameActive: lipgloss.Color("75"),
		titleBar:    lipgloss.Color("238"),
		accent:      lipgloss.Color("75"),
		muted:       lipgloss.Color("243"),
		dock:        lipgloss.Color("237"),
	}
)

func paletteFor(dark bool) palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}

// paint is the style class of one canvas cell.
type paint uint8

const (
	paintDesktop paint = iota
	paintIcon
	paintWindow
	paintFrame
	paintFrameActive
	paintTitle
	paintTitleActive
	paintControls
)

// styles resolves paint classes and chrome for one theme.
type styles struct {
	cells    map[paint]lipgloss.Style
	menuBar  lipgloss.Style
	menuBold lipgloss.Style
	dock     lipgloss.Style
	dockItem lipgloss.Style
	dockSel  lipgloss.Style
	running  lipgloss.Style
	divider  lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	tag      lipgloss.Style
	overlay  lipgloss.Style
	errText  lipgloss.Style
}

func newStyles(dark bool) styles {
	p := paletteFor(dark)
	base := lipgloss.NewStyle()
	return styles{
		cells: map[paint]lipgloss.Style{
			paintDesktop:     base.Background(p.desktop).Foreground(p.desktopText),
			paintIcon:        base.Background(p.desktop).Foreground(p.desktopText).Bold(true),
			paintWindow:      base.Background(p.window).Foreground(p.windowText),
			paintFrame:       base.Background(p.window).Foreground(p.frame),
			paintFrameActive: base.Background(p.window).Foreground(p.frameActive),
			paintTitle:       base.Background(p.titleBar).Foreground(p.muted),
			paintTitleActive: base.Background(p.titleBar).Foreground(p.windowText).Bold(true),
			paintControls:    base.Background(p.titleBar).Foreground(lipgloss.Color("203")),
		},
		menuBar:  base.Background(p.menuBar).Foreground(p.menuText),
		menuBold: base.Background(p.menuBar).Foreground(p.menuText).Bold(true),
		dock:     base.Background(p.dock).Foreground(p.windowText),
		dockItem: base.Background(p.dock).Foreground(p.windowText).Padding(0, 1),
		dockSel: base.Background(p.accent).Foreground(lipgloss.Color("15")).
			Bold(true).Padding(0, 1),
		running: base.Background(p.dock).Foreground(p.accent),
		divider: base.Background(p.dock).Foreground(p.muted),
		heading: base.Foreground(p.accent).Bold(true),
		muted:   base.Foreground(p.muted),
		tag:     base.Foreground(p.accent),
		overlay: base.Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).
			Background(p.window).Foreground(p.windowText).Padding(0, 1),
		errText: base.Foreground(lipgloss.Color("203")),
	}
}
