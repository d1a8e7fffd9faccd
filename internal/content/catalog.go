package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskfolio/internal/desktop"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Kind selects how a panel is rendered.
type Kind string

const (
	KindAbout    Kind = "about"
	KindProjects Kind = "projects"
	KindSkills   Kind = "skills"
	KindContact  Kind = "contact"
	KindFinder   Kind = "finder"
	KindSettings Kind = "settings"
)

type Education struct {
	Degree string `yaml:"degree"`
	School string `yaml:"school"`
	Years  string `yaml:"years"`
}

type About struct {
	Name      string      `yaml:"name"`
	Role      string      `yaml:"role"`
	Bio       []string    `yaml:"bio"`
	Education []Education `yaml:"education"`
	Interests []string    `yaml:"interests"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	GithubURL   string   `yaml:"github_url,omitempty"`
	LiveURL     string   `yaml:"live_url,omitempty"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"` // 1-5
}

type SkillCategory struct {
	Name  string  `yaml:"name"`
	Items []Skill `yaml:"items"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Contact struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
	Links    []Link `yaml:"links"`
}

type File struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type Settings struct {
	Languages []string `yaml:"languages"`
}

// Panel is the content payload stored on a window. The manager never looks
// inside it.
type Panel struct {
	Kind     Kind            `yaml:"kind"`
	About    *About          `yaml:"about,omitempty"`
	Projects []Project       `yaml:"projects,omitempty"`
	Skills   []SkillCategory `yaml:"skills,omitempty"`
	Contact  *Contact        `yaml:"contact,omitempty"`
	Files    []File          `yaml:"files,omitempty"`
	Settings *Settings       `yaml:"settings,omitempty"`
}

type Window struct {
	ID       string        `yaml:"id"`
	Title    string        `yaml:"title"`
	Icon     string        `yaml:"icon"`
	Position desktop.Point `yaml:"position"`
	Size     desktop.Size  `yaml:"size"`
	Panel    Panel         `yaml:"panel"`
}

// DockItem is a dock entry: a window launcher, an external link or a divider.
type DockItem struct {
	ID      string `yaml:"id,omitempty"`
	Label   string `yaml:"label,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Divider bool   `yaml:"divider,omitempty"`
}

type DesktopIcon struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
}

// Catalog is the static portfolio: its windows, dock and desktop icons.
type Catalog struct {
	Windows      []Window      `yaml:"windows"`
	Dock         []DockItem    `yaml:"dock"`
	DesktopIcons []DesktopIcon `yaml:"desktop_icons"`
}

// Load parses the built-in catalog.
func Load() (*Catalog, error) {
	return Parse(builtinCatalog)
}

// LoadFile parses a catalog override from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadOrBuiltin reads path when set, otherwise the built-in catalog.
func LoadOrBuiltin(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Load()
	}
	return LoadFile(path)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks ids are present and unique and skill levels are in range.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Windows))
	for i, w := range c.Windows {
		if strings.TrimSpace(w.ID) == "" {
			return fmt.Errorf("windows[%d]: id is required", i)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("windows[%d]: duplicate id %q", i, w.ID)
		}
		seen[w.ID] = struct{}{}

		switch w.Panel.Kind {
		case KindAbout, KindProjects, KindSkills, KindContact, KindFinder, KindSettings:
		default:
			return fmt.Errorf("windows[%d] (%s): unknown panel kind %q", i, w.ID, w.Panel.Kind)
		}
		for _, cat := range w.Panel.Skills {
			for _, s := range cat.Items {
				if s.Level < 1 || s.Level > 5 {
					return fmt.Errorf("windows[%d] (%s): skill %q level must be between 1 and 5", i, w.ID, s.Name)
				}
			}
		}
	}
	for i, d := range c.Dock {
		if !d.Divider && d.ID == "" && d.URL == "" {
			return fmt.Errorf("dock[%d]: needs an id, a url or divider: true", i)
		}
	}
	return nil
}

// Specs converts the catalog windows to registration specs. Each spec's
// Content is the window's *Panel.
func (c *Catalog) Specs() []desktop.Spec {
	specs := make([]desktop.Spec, 0, len(c.Windows))
	for i := range c.Windows {
		w := &c.Windows[i]
		specs = append(specs, desktop.Spec{
			ID:       w.ID,
			Title:    w.Title,
			Icon:     w.Icon,
			Content:  &w.Panel,
			Position: w.Position,
			Size:     w.Size,
		})
	}
	return specs
}

// Panel looks up the panel for a window id.
func (c *Catalog) Panel(id string) (*Panel, bool) {
	for i := range c.Windows {
		if c.Windows[i].ID == id {
			return &c.Windows[i].Panel, true
		}
	}
	return nil, false
}

// RegisterAll registers every catalog window on m.
func (c *Catalog) RegisterAll(m *desktop.Manager) {
	for _, spec := range c.Specs() {
		m.Register(spec)
	}
}
