package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultContent(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Name == "" || len(c.Skills) == 0 || len(c.Experience) == 0 || len(c.Projects) == 0 {
		t.Errorf("embedded content incomplete: %+v", c)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yml")
	data := `
name: Test Person
projects:
  - id: 1
    title: A
  - id: 2
    title: B
    featured: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	featured := c.FeaturedProjects()
	if featured[0].Title != "B" || featured[1].Title != "A" {
		t.Errorf("featured order: %v", featured)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Content
		wantErr string
	}{
		{"ok", Content{Name: "x"}, ""},
		{"no name", Content{}, "name is required"},
		{"bad level", Content{Name: "x", Skills: []SkillCategory{{Skills: []Skill{{Name: "Go", Level: 120}}}}}, "outside 0-100"},
		{"duplicate project", Content{Name: "x", Projects: []Project{{ID: 1}, {ID: 1}}}, "duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("I love **Go**.\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, "<strong>Go</strong>") {
		t.Errorf("missing emphasis: %s", s)
	}
	if strings.Contains(s, "<script>") {
		t.Errorf("raw html passed through: %s", s)
	}
}

func TestImagesResolve(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "mail.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	im, err := IndexImages(dir, "/static")
	if err != nil {
		t.Fatalf("IndexImages: %v", err)
	}
	tests := []struct {
		ref  string
		want string
	}{
		{"/static/images/mail.png", "/static/images/mail.png"},
		{"static/images/mail.png", "/static/images/mail.png"},
		{"/static/images/missing.png", PlaceholderImage},
		{"", PlaceholderImage},
		{"https://example.com/a.png", "https://example.com/a.png"},
	}
	for _, tt := range tests {
		if got := im.Resolve(tt.ref); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}

	c := &Content{Projects: []Project{{Image: "/static/images/mail.png"}, {Image: "/static/images/gone.jpg"}}}
	im.Apply(c)
	if c.Projects[0].Image != "/static/images/mail.png" || c.Projects[1].Image != PlaceholderImage {
		t.Errorf("Apply: %+v", c.Projects)
	}
}

func TestIndexImagesMissingDir(t *testing.T) {
	im, err := IndexImages(filepath.Join(t.TempDir(), "absent"), "/static")
	if err != nil {
		t.Fatal(err)
	}
	if im.Len() != 0 || im.Resolve("/static/a.png") != PlaceholderImage {
		t.Error("missing dir should resolve everything to the placeholder")
	}
}
