// Package content provides the static copy of the portfolio: skills,
// experience, projects and social links.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Level       int    `yaml:"level" json:"level"`
	Description string `yaml:"description" json:"description"`
}

type SkillCategory struct {
	Title  string  `yaml:"title" json:"title"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

type Experience struct {
	Role         string   `yaml:"role" json:"role"`
	Company      string   `yaml:"company" json:"company"`
	Period       string   `yaml:"period" json:"period"`
	Location     string   `yaml:"location" json:"location"`
	Logo         string   `yaml:"logo" json:"logo"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Achievements []string `yaml:"achievements" json:"achievements"`
}

type Project struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	Tech        []string `yaml:"tech" json:"tech"`
	GitHub      string   `yaml:"github" json:"github"`
	Live        string   `yaml:"live" json:"live,omitempty"`
	Featured    bool     `yaml:"featured" json:"featured"`
}

type Social struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

type Highlight struct {
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon" json:"icon"`
}

// Content is everything the page shows.
type Content struct {
	Name       string          `yaml:"name" json:"name"`
	Title      string          `yaml:"title" json:"title"`
	Tagline    string          `yaml:"tagline" json:"tagline"`
	Email      string          `yaml:"email" json:"email"`
	CV         string          `yaml:"cv" json:"cv"`
	Portrait   string          `yaml:"portrait" json:"portrait"`
	About      string          `yaml:"about" json:"about"`
	Highlights []Highlight     `yaml:"highlights" json:"highlights"`
	Skills     []SkillCategory `yaml:"skills" json:"skills"`
	Experience []Experience    `yaml:"experience" json:"experience"`
	Projects   []Project       `yaml:"projects" json:"projects"`
	Socials    []Social        `yaml:"socials" json:"socials"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return parse(defaultContent, "embedded content")
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, name string) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}
	return &c, nil
}

// Validate checks the content for values the page cannot render.
func (c *Content) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	for _, cat := range c.Skills {
		for _, s := range cat.Skills {
			if s.Level < 0 || s.Level > 100 {
				errs = append(errs, fmt.Errorf("skill %q: level %d outside 0-100", s.Name, s.Level))
			}
		}
	}
	seen := make(map[int]bool)
	for _, p := range c.Projects {
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("project %q: duplicate id %d", p.Title, p.ID))
		}
		seen[p.ID] = true
	}
	return errors.Join(errs...)
}

// FeaturedProjects returns featured projects first, keeping file order
// within each group.
func (c *Content) FeaturedProjects() []Project {
	out := make([]Project, 0, len(c.Projects))
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	for _, p := range c.Projects {
		if !p.Featured {
			out = append(out, p)
		}
	}
	return out
}
