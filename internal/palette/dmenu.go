package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Exit codes reported by the launcher.
const (
	ExitNormal    = 0
	ExitCancelled = 1
	ExitCustom1   = 10 // Alt+Return
	ExitCustom2   = 11 // Alt+d
	ExitCustom3   = 12
)

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// runResult is what a launcher process produced.
type runResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runner executes a launcher. A non-nil error means the process could not
// run at all; a non-zero exit is reported through exitCode.
type runner func(command string, args []string, stdin string) (runResult, error)

func execRunner(command string, args []string, stdin string) (runResult, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, err
		}
		res.exitCode = exitErr.ExitCode()
	}
	return res, nil
}

type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities
	run     runner

	fuzzyMatching bool
}

type rowStates struct {
	active         []int
	urgent         []int
	selectedRow    int
	hasSelectedRow bool
}

func newRofiBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "rofi",
		kind:    kindRofi,
		run:     execRunner,
		caps: Capabilities{
			Icons:         true,
			Markup:        true,
			NonSelectable: true,
			CustomKeys:    true,
			IndexOutput:   true,
			MessageBar:    true,
			RowStates:     true,
		},
	}
}

func newDmenuBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "dmenu",
		kind:    kindDmenu,
		run:     execRunner,
	}
}

func newWofiBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "wofi",
		kind:    kindWofi,
		run:     execRunner,
		caps: Capabilities{
			Icons:  true,
			Markup: true,
		},
	}
}

func newFuzzelBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "fuzzel",
		kind:    kindFuzzel,
		run:     execRunner,
		caps: Capabilities{
			Icons:       true,
			IndexOutput: true,
		},
	}
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}

	displayItems := make([]Item, len(items))
	copy(displayItems, items)

	input, states := b.formatInput(displayItems)
	args := b.buildArgs(prompt, message, states)

	res, err := b.run(b.command, args, input)
	if err != nil {
		return SelectResult{}, fmt.Errorf("%s failed: %w", b.command, err)
	}
	selection := strings.TrimSpace(res.stdout)

	switch {
	case res.exitCode == ExitNormal:
	case res.exitCode >= ExitCustom1 && res.exitCode <= ExitCustom3:
	case selection == "" && isCancelCode(res.exitCode):
		return SelectResult{}, ErrCancelled
	default:
		if msg := strings.TrimSpace(res.stderr); msg != "" {
			return SelectResult{}, fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return SelectResult{}, fmt.Errorf("%s failed: exit status %d", b.command, res.exitCode)
	}

	if selection == "" {
		return SelectResult{}, ErrCancelled
	}

	item, err := b.parseSelection(selection, displayItems)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Item: item, ExitCode: res.exitCode}, nil
}

func (b *dmenuLikeBackend) buildArgs(prompt string, message string, states rowStates) []string {
	switch b.kind {
	case kindRofi:
		return b.rofiArgs(prompt, message, states)
	case kindFuzzel:
		return withPrompt([]string{"--dmenu", "--index"}, "--prompt", prompt)
	case kindWofi:
		return withPrompt([]string{"--dmenu", "--allow-markup", "--allow-images"}, "--prompt", prompt)
	default:
		return withPrompt([]string{"-i"}, "-p", prompt)
	}
}

func withPrompt(args []string, flag, prompt string) []string {
	if prompt == "" {
		return args
	}
	return append(args, flag, prompt)
}

// rofiArgs asks rofi for the row index ("-format i") so labels with markup
// or separators never need to be matched back.
func (b *dmenuLikeBackend) rofiArgs(prompt, message string, states rowStates) []string {
	args := withPrompt([]string{"-dmenu", "-i", "-format", "i", "-no-custom"}, "-p", prompt)
	if b.fuzzyMatching {
		args = append(args, "-matching", "fuzzy")
	}
	if b.caps.Markup {
		args = append(args, "-markup-rows")
	}
	if b.caps.Icons {
		args = append(args, "-show-icons")
	}
	if len(states.active) > 0 {
		args = append(args, "-a", formatIndices(states.active))
	}
	if len(states.urgent) > 0 {
		args = append(args, "-u", formatIndices(states.urgent))
	}
	if states.hasSelectedRow {
		args = append(args, "-selected-row", strconv.Itoa(states.selectedRow))
	}
	args = append(args, "-kb-custom-1", "Alt+Return", "-kb-custom-2", "Alt+d")
	if message != "" {
		args = append(args, "-mesg", message)
	}
	return args
}

// formatInput renders one line per item and works out which rows rofi
// should highlight and preselect: the focused window, else the first
// selectable row.
func (b *dmenuLikeBackend) formatInput(items []Item) (string, rowStates) {
	if !b.caps.IndexOutput {
		disambiguate(items)
	}

	lines := make([]string, len(items))
	var states rowStates
	preselect, fallback := -1, -1
	for i, item := range items {
		lines[i] = b.formatItem(item)
		if item.IsHeader || item.IsDivider {
			continue
		}
		if fallback < 0 {
			fallback = i
		}
		if item.IsActive && preselect < 0 {
			preselect = i
		}
		if !b.caps.RowStates {
			continue
		}
		if item.IsActive {
			states.active = append(states.active, i)
		}
		if item.IsUrgent {
			states.urgent = append(states.urgent, i)
		}
	}

	if preselect < 0 {
		preselect = fallback
	}
	if preselect >= 0 {
		states.selectedRow, states.hasSelectedRow = preselect, true
	}
	return strings.Join(lines, "\n"), states
}

// disambiguate suffixes repeated labels with " (n)" so backends that print
// the chosen text can be matched back to one item.
func disambiguate(items []Item) {
	seen := make(map[string]int)
	for i := range items {
		if items[i].IsHeader || items[i].IsDivider {
			continue
		}
		key := sanitizeLabel(items[i].Label)
		if key == "" {
			continue
		}
		if n := seen[key]; n > 0 {
			items[i].Label = fmt.Sprintf("%s (%d)", key, n+1)
		}
		seen[key]++
	}
}

func (b *dmenuLikeBackend) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if b.caps.Markup {
		display = html.EscapeString(display)
		switch {
		case item.IsHeader:
			display = "<b>" + display + "</b>"
		case item.IsDivider:
			display = "<span foreground='#666666'>" + display + "</span>"
		}
	}
	if b.kind != kindRofi {
		return display
	}
	return display + rofiRowOptions(item, b.caps)
}

// rofiRowOptions encodes row properties as rofi expects them: a single NUL
// followed by key\x1fvalue pairs, themselves joined by \x1f.
func rofiRowOptions(item Item, caps Capabilities) string {
	var attrs []string
	add := func(key, value string) {
		attrs = append(attrs, key, value)
	}
	if (item.IsHeader || item.IsDivider) && caps.NonSelectable {
		add("nonselectable", "true")
	}
	if item.Icon != "" && caps.Icons {
		add("icon", sanitizeRofiField(item.Icon))
	}
	if item.Info != "" {
		add("info", sanitizeRofiField(item.Info))
	}
	if item.Meta != "" {
		add("meta", sanitizeRofiField(item.Meta))
	}
	if item.IsActive {
		add("active", "true")
	}
	if item.IsUrgent {
		add("urgent", "true")
	}
	if len(attrs) == 0 {
		return ""
	}
	return "\x00" + strings.Join(attrs, "\x1f")
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (Item, error) {
	if !b.caps.IndexOutput {
		return findByLabel(selection, items)
	}
	idx, err := strconv.Atoi(selection)
	if err != nil {
		return findByLabel(selection, items)
	}
	if idx < 0 || idx >= len(items) {
		return Item{}, fmt.Errorf("palette: index %d out of range", idx)
	}
	return items[idx], nil
}

func findByLabel(selection string, items []Item) (Item, error) {
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

// isCancelCode reports the exits launchers use for Escape and Ctrl+C.
func isCancelCode(code int) bool {
	return code == ExitCancelled || code == 130
}
