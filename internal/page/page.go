// Package page composes the portfolio sections: which elements each one
// owns, how tall it is in each mode, and how it animates.
package page

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/motion"
)

// Section ids, in page order.
const (
	Hero     = "hero"
	About    = "about"
	Skills   = "skills"
	Projects = "projects"
	Timeline = "timeline"
	Contact  = "contact"
	Footer   = "footer"
	Main     = "page"
	Loader   = "loader"
)

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

var navItems = []NavItem{
	{Label: "Home", ID: Hero},
	{Label: "About", ID: About},
	{Label: "Skills", ID: Skills},
	{Label: "Projects", ID: Projects},
	{Label: "Experience", ID: Timeline},
	{Label: "Contact", ID: Contact},
}

// NavItems returns the navigation entries in page order.
func NavItems() []NavItem {
	return append([]NavItem(nil), navItems...)
}

// per-mode values, indexed by motion.Mode.
type perMode [3]float64

func (p perMode) at(m motion.Mode) float64 { return p[m] }

// sizing describes a section's height: Base plus one Item per row of
// children, at least a screen tall when MinScreen is set.
type sizing struct {
	Base      perMode
	Item      perMode
	MinScreen bool
}

// Section is one block of the page.
type Section struct {
	ID       string
	Elements []string
	// Group names the child prefix whose count drives the layout, e.g.
	// "cards" for projects.
	Group  string
	Count  int
	sizing sizing
	choreo motion.Choreography
}

// Page is the ordered set of sections built from the content.
type Page struct {
	content  *content.Content
	sections []*Section
	byID     map[string]*Section
}

// New builds the page for c.
func New(c *content.Content) *Page {
	p := &Page{content: c, byID: make(map[string]*Section)}
	for _, s := range buildSections(c) {
		p.sections = append(p.sections, s)
		p.byID[s.ID] = s
	}
	return p
}

// Content returns the page content.
func (p *Page) Content() *content.Content { return p.content }

// Sections returns the scrollable sections in order.
func (p *Page) Sections() []*Section { return p.sections }

// Section looks up a section by id.
func (p *Page) Section(id string) (*Section, bool) {
	s, ok := p.byID[id]
	return s, ok
}

func group(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + "." + strconv.Itoa(i)
	}
	return out
}

// Register adds every section's elements, the main wrapper and the loading
// screen to st.
func (p *Page) Register(st *motion.Stage) {
	for _, s := range p.sections {
		for _, name := range s.Elements {
			st.Register(s.ID, name)
		}
	}
	st.Register(Main, "main")
	registerLoader(st)
}

// Choreographies returns every section's choreography with parallax
// regions read from layout at the time of each update.
func (p *Page) Choreographies(layout func() Layout) []motion.Choreography {
	out := make([]motion.Choreography, 0, len(p.sections)+1)
	for _, s := range p.sections {
		ch := s.choreo
		if ch.Parallax != nil {
			id := s.ID
			par := *ch.Parallax
			par.Region = func() motion.Region { return layout().Region(id) }
			ch.Parallax = &par
		}
		out = append(out, ch)
	}
	return append(out, mainChoreography())
}

// Placement is a section's vertical position in document pixels.
type Placement struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Layout is the document geometry for one mode and viewport height.
type Layout struct {
	Mode     motion.Mode `json:"mode"`
	Viewport float64     `json:"viewport"`
	Sections []Placement `json:"sections"`
	Height   float64     `json:"height"`
}

// Layout computes section placements.
func (p *Page) Layout(m motion.Mode, viewportHeight float64) Layout {
	l := Layout{Mode: m, Viewport: viewportHeight}
	var top float64
	for _, s := range p.sections {
		h := s.height(m, viewportHeight)
		l.Sections = append(l.Sections, Placement{ID: s.ID, Top: top, Height: h})
		top += h
	}
	l.Height = top
	return l
}

// Variant returns the section's parameters for mode m.
func (s *Section) Variant(m motion.Mode) motion.Variant { return s.choreo.Variants.For(m) }

func (s *Section) height(m motion.Mode, viewportHeight float64) float64 {
	h := s.sizing.Base.at(m)
	if s.Count > 0 {
		cols := s.choreo.Variants.For(m).Columns
		if cols < 1 {
			cols = 1
		}
		rows := math.Ceil(float64(s.Count) / float64(cols))
		h += rows * s.sizing.Item.at(m)
	}
	if s.sizing.MinScreen && h < viewportHeight {
		h = viewportHeight
	}
	return h
}

// Placement looks up a section.
func (l Layout) Placement(id string) (Placement, bool) {
	for _, pl := range l.Sections {
		if pl.ID == id {
			return pl, true
		}
	}
	return Placement{}, false
}

// Region spans a section from its top reaching the top of the viewport to
// its bottom reaching it.
func (l Layout) Region(id string) motion.Region {
	pl, ok := l.Placement(id)
	if !ok {
		return motion.Region{}
	}
	return motion.Region{Start: pl.Top, End: pl.Top + pl.Height}
}

// Plan resolves section's entrance for mode m on a fresh stage. Nothing is
// animated.
func (p *Page) Plan(section string, m motion.Mode) ([]motion.Scheduled, error) {
	s, ok := p.byID[section]
	if !ok {
		return nil, fmt.Errorf("plan %q: %w", section, ErrUnknownSection)
	}
	st := motion.NewStage()
	p.Register(st)
	return s.choreo.Plan(st.Scope(section), m), nil
}
