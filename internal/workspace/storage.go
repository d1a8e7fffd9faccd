package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/deskfolio/internal/runtimepath"
)

// DefaultLimit caps the number of saved workspaces.
const DefaultLimit = 20

var (
	ErrNotFound = errors.New("workspace not found")
	ErrLimit    = errors.New("workspace limit reached")
)

// Store keeps one JSON file per workspace in a directory.
type Store struct {
	dir   string
	limit int
}

// NewStore returns a store rooted at dir. An empty dir means DefaultDir; a
// limit of zero or less means DefaultLimit.
func NewStore(dir string, limit int) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{dir: dir, limit: limit}, nil
}

// DefaultDir is the workspaces directory under the data dir.
func DefaultDir() (string, error) {
	dir, err := runtimepath.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces"), nil
}

func (s *Store) Dir() string { return s.dir }

// ValidateName rejects names that are empty or would escape the directory.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("workspace name is required")
	}
	if trimmed != name || strings.ContainsRune(name, os.PathSeparator) || name != filepath.Base(name) {
		return fmt.Errorf("invalid workspace name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid workspace name %q", name)
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Write saves ws, replacing a workspace of the same name. A new name is
// refused once the store holds limit workspaces.
func (s *Store) Write(ws *Workspace) error {
	if ws == nil {
		return fmt.Errorf("workspace is nil")
	}
	path, err := s.path(ws.Name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		names, err := s.List()
		if err != nil {
			return err
		}
		if len(names) >= s.limit {
			return fmt.Errorf("%w (%d/%d)", ErrLimit, len(names), s.limit)
		}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write workspace %q: %w", ws.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write workspace %q: %w", ws.Name, err)
	}
	return nil
}

func (s *Store) Read(name string) (*Workspace, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read workspace %q: %w", name, err)
	}
	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("failed to parse workspace %q: %w", name, err)
	}
	if ws.Name == "" {
		ws.Name = name
	}
	return &ws, nil
}

func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete workspace %q: %w", name, err)
	}
	return nil
}

// List returns the saved workspace names, sorted. A missing directory is an
// empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}
