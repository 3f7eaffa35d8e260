package page

import (
	"errors"
	"fmt"
)

// ErrUnknownSection is returned when navigating to a section the page does
// not have.
var ErrUnknownSection = errors.New("unknown section")

const (
	// NavOffset keeps the fixed navigation bar from covering a section
	// scrolled into view.
	NavOffset = 80
	// ActiveProbe is how far below the top of the viewport the active
	// section is sampled.
	ActiveProbe = 100
	// ScrolledAfter is the scroll offset past which the bar turns solid.
	ScrolledAfter = 50
)

// ScrollTarget returns the offset that brings section id under the
// navigation bar.
func (l Layout) ScrollTarget(id string) (float64, error) {
	pl, ok := l.Placement(id)
	if !ok {
		return 0, fmt.Errorf("scroll to %q: %w", id, ErrUnknownSection)
	}
	return max(0, pl.Top-NavOffset), nil
}

// ActiveSection returns the navigation section under the probe line at
// scrollY, or "" when none is.
func (l Layout) ActiveSection(scrollY float64) string {
	probe := scrollY + ActiveProbe
	active := ""
	for _, item := range navItems {
		pl, ok := l.Placement(item.ID)
		if !ok {
			continue
		}
		if probe >= pl.Top && probe < pl.Top+pl.Height {
			active = item.ID
		}
	}
	return active
}

// Scrolled reports whether the navigation bar should show its solid style.
func Scrolled(scrollY float64) bool { return scrollY > ScrolledAfter }

// NavState tracks the navigation bar as the page scrolls.
type NavState struct {
	Active   string `json:"active"`
	Scrolled bool   `json:"scrolled"`
	MenuOpen bool   `json:"menuOpen"`
}

// Update refreshes the state for scrollY. The active section is kept when
// the probe falls between sections. It reports whether anything changed.
func (n *NavState) Update(l Layout, scrollY float64) bool {
	prev := *n
	if a := l.ActiveSection(scrollY); a != "" {
		n.Active = a
	}
	n.Scrolled = Scrolled(scrollY)
	return prev != *n
}

// Navigate returns the scroll target for id and closes the mobile menu.
func (n *NavState) Navigate(l Layout, id string) (float64, error) {
	y, err := l.ScrollTarget(id)
	if err != nil {
		return 0, err
	}
	n.MenuOpen = false
	return y, nil
}

// ToggleMenu opens or closes the mobile menu.
func (n *NavState) ToggleMenu() { n.MenuOpen = !n.MenuOpen }

// Hire jumps to the contact section.
func (n *NavState) Hire(l Layout) (float64, error) { return n.Navigate(l, Contact) }
