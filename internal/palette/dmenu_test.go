package palette

import (
	"errors"
	"strings"
	"testing"
)

func TestRofiFormatItem_UsesSingleNullSeparator(t *testing.T) {
	b := newRofiBackend()

	out := b.formatItem(Item{
		Label:    "Header",
		IsHeader: true,
		Icon:     "folder",
		Info:     "info",
		Meta:     "meta",
		IsActive: true,
		IsUrgent: true,
	})

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property, got %q", out)
	}
	if strings.Contains(out, "\x00icon\x1f") {
		t.Fatalf("expected icon attribute to be after the first NUL and delimited by \\x1f, got %q", out)
	}
	if !strings.Contains(out, "icon\x1ffolder") || !strings.Contains(out, "info\x1finfo") || !strings.Contains(out, "meta\x1fmeta") {
		t.Fatalf("expected icon/info/meta attributes, got %q", out)
	}
}

func TestRofiFormatItem_DimDivider(t *testing.T) {
	b := newRofiBackend()

	out := b.formatItem(Item{
		Label:     "────────",
		IsDivider: true,
	})

	if !strings.Contains(out, "<span foreground='#666666'>") {
		t.Fatalf("expected dim span for divider, got %q", out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property for divider, got %q", out)
	}
}

func TestRofiFormatItem_BoldHeader(t *testing.T) {
	b := newRofiBackend()

	out := b.formatItem(Item{
		Label:    "Section",
		IsHeader: true,
	})

	if !strings.Contains(out, "<b>Section</b>") {
		t.Fatalf("expected bold markup for header, got %q", out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property for header, got %q", out)
	}
}

func TestRofiBuildArgs_UsesIndexFormatAndNoCustom(t *testing.T) {
	b := newRofiBackend()

	_, states := b.formatInput([]Item{
		{Label: "a", IsActive: true},
		{Label: "b", IsUrgent: true},
	})
	args := b.buildArgs("prompt", "message", states)

	if !containsArgs(args, "-format", "i") {
		t.Fatalf("expected -format i in args, got %v", args)
	}
	if !containsArg(args, "-no-custom") {
		t.Fatalf("expected -no-custom in args, got %v", args)
	}
	if !containsArgs(args, "-a", "0") {
		t.Fatalf("expected -a 0 in args, got %v", args)
	}
	if !containsArgs(args, "-u", "1") {
		t.Fatalf("expected -u 1 in args, got %v", args)
	}
	if !containsArgs(args, "-selected-row", "0") {
		t.Fatalf("expected -selected-row 0 in args, got %v", args)
	}
}

func TestRofiBuildArgs_FuzzyMatching(t *testing.T) {
	b := newRofiBackend()
	b.fuzzyMatching = true

	_, states := b.formatInput([]Item{{Label: "a"}})
	args := b.buildArgs("prompt", "message", states)

	if !containsArgs(args, "-matching", "fuzzy") {
		t.Fatalf("expected -matching fuzzy in args, got %v", args)
	}
}

func TestRofiParseSelection_Index(t *testing.T) {
	b := newRofiBackend()
	items := []Item{
		{Label: "a", Action: "a"},
		{Label: "b", Action: "b"},
	}
	got, err := b.parseSelection("1", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != "b" {
		t.Fatalf("expected action b, got %q", got.Action)
	}
}

func TestFormatInput_DisambiguatesDuplicateLabels(t *testing.T) {
	b := newDmenuBackend()
	items := []Item{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
	}

	_, _ = b.formatInput(items)
	if items[0].Label != "Dup" {
		t.Fatalf("expected first label unchanged, got %q", items[0].Label)
	}
	if items[1].Label != "Dup (2)" {
		t.Fatalf("expected second label disambiguated, got %q", items[1].Label)
	}
}

func TestFormatInput_IndexBackendsDoNotDisambiguateDuplicateLabels(t *testing.T) {
	b := newRofiBackend()
	items := []Item{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
	}

	_, _ = b.formatInput(items)
	if items[0].Label != "Dup" || items[1].Label != "Dup" {
		t.Fatalf("expected labels unchanged for index backend, got %#v", items)
	}
}

func TestShow_ParsesRofiIndexAndCustomExit(t *testing.T) {
	b := newRofiBackend()
	var gotArgs []string
	var gotInput string
	b.run = func(command string, args []string, stdin string) (runResult, error) {
		if command != "rofi" {
			t.Fatalf("unexpected command %q", command)
		}
		gotArgs, gotInput = args, stdin
		return runResult{stdout: "1\n", exitCode: ExitCustom1}, nil
	}

	res, err := b.Show("deskfolio", []Item{
		{Label: "Windows", IsHeader: true},
		{Label: "About <me>", Action: "window:about"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Item.Action != "window:about" || res.ExitCode != ExitCustom1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !containsArgs(gotArgs, "-p", "deskfolio") || !containsArgs(gotArgs, "-selected-row", "1") {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	if !strings.Contains(gotInput, "About &lt;me&gt;") {
		t.Fatalf("labels should be escaped for markup rows, got %q", gotInput)
	}
}

func TestShow_Cancel(t *testing.T) {
	for _, code := range []int{ExitCancelled, 130} {
		b := newDmenuBackend()
		b.run = func(string, []string, string) (runResult, error) {
			return runResult{exitCode: code}, nil
		}
		if _, err := b.Show("", []Item{{Label: "a"}}, ""); !errors.Is(err, ErrCancelled) {
			t.Fatalf("exit %d: expected ErrCancelled, got %v", code, err)
		}
	}
}

func TestShow_ReportsLauncherFailure(t *testing.T) {
	b := newWofiBackend()
	b.run = func(string, []string, string) (runResult, error) {
		return runResult{stderr: "no display\n", exitCode: 2}, nil
	}
	_, err := b.Show("", []Item{{Label: "a"}}, "")
	if err == nil || !strings.Contains(err.Error(), "wofi failed: no display") {
		t.Fatalf("unexpected error %v", err)
	}

	if _, err := b.Show("", nil, ""); err == nil {
		t.Fatalf("expected error for empty items")
	}
}

func TestShow_DmenuMatchesDisambiguatedLabel(t *testing.T) {
	b := newDmenuBackend()
	b.run = func(_ string, args []string, stdin string) (runResult, error) {
		if !containsArg(args, "-i") {
			t.Fatalf("expected case-insensitive dmenu, got %v", args)
		}
		return runResult{stdout: "Dup (2)"}, nil
	}
	res, err := b.Show("", []Item{{Label: "Dup", Action: "a"}, {Label: "Dup", Action: "b"}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Item.Action != "b" {
		t.Fatalf("expected b, got %+v", res.Item)
	}
}

func TestNewBackend(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		if name == "fuzzel" || name == "dmenu" {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	b, err := NewBackend("auto", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Capabilities().IndexOutput {
		t.Fatalf("auto should pick fuzzel first, got %+v", b.Capabilities())
	}
	if _, err := NewBackend("rofi", Options{}); err == nil {
		t.Fatalf("expected error for missing rofi")
	}
	if _, err := NewBackend("albert", Options{}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}

	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	if _, err := DetectBackend(); err == nil {
		t.Fatalf("expected error with no launcher installed")
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a string, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
