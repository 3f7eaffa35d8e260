package motion

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"
)

// ErrUnknownChoreography is returned when mounting an unregistered section.
var ErrUnknownChoreography = errors.New("unknown choreography")

// DirectorOptions configures a Director.
type DirectorOptions struct {
	Thresholds Thresholds
	// Debounce coalesces rapid resizes before the mode is re-evaluated.
	Debounce time.Duration
	// Smooth enables inertia scrolling; nil uses the native viewport.
	Smooth *SmoothOptions
}

// Director is the per-page facade over every section orchestrator. It owns
// the mode switch and the scroll source, and guarantees at most one
// orchestrator per section. A Director is owned by a single goroutine.
type Director struct {
	stage   *Stage
	vp      *Viewport
	modes   *ModeSwitch
	scroll  ScrollSource
	smooth  *SmoothScroller
	choreos map[string]*Choreography
	active  map[string]*Orchestrator
	closed  bool

	// OnState observes orchestrator lifecycle transitions.
	OnState func(section string, s State)
}

// NewDirector builds a director over stage and vp. A smooth scroller that
// fails to initialize is logged and replaced by native scrolling.
func NewDirector(stage *Stage, vp *Viewport, opts DirectorOptions) *Director {
	th := opts.Thresholds
	if th.Tablet <= 0 || th.Desktop <= 0 {
		th = DefaultThresholds()
	}
	d := &Director{
		stage:   stage,
		vp:      vp,
		modes:   NewModeSwitch(vp, th, opts.Debounce),
		scroll:  vp,
		choreos: make(map[string]*Choreography),
		active:  make(map[string]*Orchestrator),
	}
	if opts.Smooth != nil {
		smooth, err := NewSmoothScroller(vp, *opts.Smooth)
		if err != nil {
			log.Printf("motion: %v; falling back to native scrolling", err)
		} else {
			d.smooth = smooth
			d.scroll = smooth
		}
	}
	return d
}

// Register makes a choreography mountable. Registering the same section
// again replaces the declaration for future mounts.
func (d *Director) Register(ch Choreography) {
	c := ch
	d.choreos[ch.Section] = &c
}

// Choreography returns the registered declaration for section.
func (d *Director) Choreography(section string) (*Choreography, bool) {
	ch, ok := d.choreos[section]
	return ch, ok
}

// Mount activates section. An already active orchestrator for the same
// section is torn down first.
func (d *Director) Mount(section string) (*Orchestrator, error) {
	if d.closed {
		return nil, fmt.Errorf("mount %s: director closed", section)
	}
	ch, ok := d.choreos[section]
	if !ok {
		return nil, fmt.Errorf("mount %s: %w", section, ErrUnknownChoreography)
	}
	if prev, ok := d.active[section]; ok {
		prev.unmount()
		delete(d.active, section)
	}
	o := newOrchestrator(d, ch)
	d.active[section] = o
	o.mount()
	return o, nil
}

// Unmount tears section down. Unmounting an inactive section is a no-op.
func (d *Director) Unmount(section string) {
	o, ok := d.active[section]
	if !ok {
		return
	}
	delete(d.active, section)
	o.unmount()
}

// Orchestrator returns the active orchestrator for section.
func (d *Director) Orchestrator(section string) (*Orchestrator, bool) {
	o, ok := d.active[section]
	return o, ok
}

// Active lists mounted sections in sorted order.
func (d *Director) Active() []string {
	out := make([]string, 0, len(d.active))
	for id := range d.active {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Tick advances the frame clock: debounced resizes, smooth scrolling, then
// every orchestrator.
func (d *Director) Tick(dt time.Duration) {
	if d.closed {
		return
	}
	d.modes.Tick(dt)
	if d.smooth != nil {
		d.smooth.Tick(dt)
	}
	for _, id := range d.Active() {
		if o, ok := d.active[id]; ok {
			o.tick(dt)
		}
	}
}

// Mode returns the current viewport mode.
func (d *Director) Mode() Mode { return d.modes.Mode() }

// Modes returns the mode switch.
func (d *Director) Modes() *ModeSwitch { return d.modes }

// Scroll returns the unified scroll source.
func (d *Director) Scroll() ScrollSource { return d.scroll }

// Smooth returns the smooth scroller, or nil when scrolling natively.
func (d *Director) Smooth() *SmoothScroller { return d.smooth }

// Stage returns the element stage.
func (d *Director) Stage() *Stage { return d.stage }

// Viewport returns the native viewport.
func (d *Director) Viewport() *Viewport { return d.vp }

// Close unmounts every section and detaches from the viewport.
func (d *Director) Close() {
	if d.closed {
		return
	}
	for _, id := range d.Active() {
		d.Unmount(id)
	}
	if d.smooth != nil {
		d.smooth.Close()
	}
	d.modes.Close()
	d.closed = true
}
