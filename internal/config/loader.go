package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location when set.
const EnvConfigPath = "DESKFOLIO_CONFIG"

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source says where a config value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> the file that set it last
	Files   []string          // every file read, includes first
}

// DefaultConfigPath is $DESKFOLIO_CONFIG, else
// $XDG_CONFIG_HOME/deskfolio/config.yaml, else ~/.config/deskfolio/config.yaml.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return expandHome(p), nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "deskfolio", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "deskfolio", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus per-path provenance for 'config explain'.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and everything it includes, applies the result
// over the defaults and validates it. Validation errors carry the position
// of the offending key.
func LoadFromPath(path string) (*LoadResult, error) {
	top := layer{sources: map[string]Source{}}

	if _, err := os.Stat(path); err == nil {
		l := &loader{seen: map[string]bool{}}
		top, err = l.load(path)
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := BuildEffectiveConfig(top.raw)
	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			if src, ok := top.sources[verr.Path]; ok {
				verr.Source = src
			}
		}
		return nil, err
	}

	return &LoadResult{Config: cfg, Sources: top.sources, Files: top.files}, nil
}

// layer is one file merged with its includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// over applies other on top of l.
func (l *layer) over(other layer) {
	l.raw = l.raw.merge(other.raw)
	for p, src := range other.sources {
		l.sources[p] = src
	}
	l.files = append(l.files, other.files...)
}

// loader walks an include graph. Files already loaded are skipped; a file
// that includes one of its own ancestors is an error.
type loader struct {
	seen  map[string]bool
	stack []string
}

func (l *loader) load(path string) (layer, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return layer{}, err
	}
	for _, ancestor := range l.stack {
		if ancestor == canon {
			return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.stack, " -> "), canon)
		}
	}
	if l.seen[canon] {
		return layer{sources: map[string]Source{}}, nil
	}
	l.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var own RawConfig
	if err := decodeStrictYAML(data, &own); err != nil {
		return layer{}, fmt.Errorf("%s: %w", canon, err)
	}

	root := rootMapping(&doc)
	out := layer{sources: map[string]Source{}}

	l.stack = append(l.stack, canon)
	for _, ref := range includeRefs(root, canon) {
		paths, err := expandInclude(canon, ref.value)
		if err != nil {
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", ref.at.File, ref.at.Line, ref.at.Column, ref.value, err)
		}
		for _, inc := range paths {
			child, err := l.load(inc)
			if err != nil {
				return layer{}, err
			}
			out.over(child)
		}
	}
	l.stack = l.stack[:len(l.stack)-1]

	// The including file wins over what it includes.
	sources := map[string]Source{}
	collectSources(root, canon, "", sources)
	out.over(layer{raw: own, sources: sources, files: []string{canon}})
	return out, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves an include relative to the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func expandInclude(baseFile string, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path := expandHome(include)
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(baseFile), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// collectSources records the position of every mapping key under prefix.
// Sequences are recorded as a whole.
func collectSources(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		path := node.Content[i].Value
		if prefix != "" {
			path = prefix + "." + path
		}
		val := node.Content[i+1]
		out[path] = nodeSource(file, val)
		collectSources(val, file, path, out)
	}
}

type includeRef struct {
	value string
	at    Source
}

// includeRefs reads the top-level include key, a string or a list of strings.
func includeRefs(root *yaml.Node, file string) []includeRef {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		var refs []includeRef
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				refs = append(refs, includeRef{value: item.Value, at: nodeSource(file, item)})
			}
		}
		return refs
	}
	return nil
}
