package motion

import (
	"log"
	"time"
)

// State is the lifecycle state of a section's orchestrator.
type State int

const (
	Unmounted State = iota
	Mounting
	Playing
	Settled
	Unmounting
)

var stateNames = [...]string{"unmounted", "mounting", "playing", "settled", "unmounting"}

func (s State) String() string {
	if s < Unmounted || s > Unmounting {
		return "unknown"
	}
	return stateNames[s]
}

// Parallax links one element property to a scroll region:
// value = progress * Variant.Parallax.
type Parallax struct {
	Target string
	Prop   string
	Region func() Region
}

// Choreography declares how a section animates. Entrance and Ambient are
// rebuilt from the active Variant on every mount.
type Choreography struct {
	Section  string
	Delay    time.Duration
	Variants Variants
	Entrance func(v Variant) []Step
	// Ambient steps loop independently and never gate settlement.
	Ambient  func(v Variant) []Step
	Parallax *Parallax
}

func (c *Choreography) entrance(v Variant, onComplete func()) *Timeline {
	tl := NewTimeline(TimelineOptions{Delay: c.Delay, OnComplete: onComplete})
	if c.Entrance != nil {
		for _, s := range c.Entrance(v) {
			tl.Add(s)
		}
	}
	return tl
}

// Plan resolves the entrance timeline for mode m against sc without
// mutating anything.
func (c *Choreography) Plan(sc *Scope, m Mode) []Scheduled {
	return c.entrance(c.Variants.For(m), nil).Schedule(sc)
}

// Orchestrator owns one mounted section: its timelines, scroll tracker and
// subscriptions. It is created and driven by a Director.
type Orchestrator struct {
	ch      *Choreography
	d       *Director
	scope   *Scope
	state   State
	mode    Mode
	variant Variant

	entrance *Timeline
	ambient  *Timeline
	tracker  *ScrollTracker

	unsubMode   func()
	unsubResize func()
}

func newOrchestrator(d *Director, ch *Choreography) *Orchestrator {
	return &Orchestrator{ch: ch, d: d}
}

// State returns the lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Mode returns the mode the section is currently laid out for.
func (o *Orchestrator) Mode() Mode { return o.mode }

// Variant returns the active variant.
func (o *Orchestrator) Variant() Variant { return o.variant }

// Timeline returns the current entrance timeline.
func (o *Orchestrator) Timeline() *Timeline { return o.entrance }

// Progress returns the parallax progress, or 0 without a tracker.
func (o *Orchestrator) Progress() float64 {
	if o.tracker == nil {
		return 0
	}
	return o.tracker.Progress()
}

func (o *Orchestrator) setState(s State) {
	if o.state == s {
		return
	}
	o.state = s
	if o.d.OnState != nil {
		o.d.OnState(o.ch.Section, s)
	}
}

func (o *Orchestrator) mount() {
	o.setState(Mounting)
	o.scope = o.d.stage.Scope(o.ch.Section)
	o.mode = o.d.modes.Mode()
	o.variant = o.ch.Variants.For(o.mode)

	o.entrance = o.ch.entrance(o.variant, o.settle)
	o.setState(Playing)
	o.entrance.Play(o.scope)

	if o.ch.Ambient != nil {
		o.ambient = NewTimeline(TimelineOptions{})
		for _, s := range o.ch.Ambient(o.variant) {
			o.ambient.Add(s)
		}
		o.ambient.Play(o.scope)
	}

	o.startTracker()
	o.unsubMode = o.d.modes.Subscribe(o.onMode)
	o.unsubResize = o.d.vp.OnResize(o.onResize)
}

func (o *Orchestrator) settle() {
	if o.state == Playing {
		o.setState(Settled)
	}
}

func (o *Orchestrator) startTracker() {
	p := o.ch.Parallax
	if p == nil || o.variant.Parallax == 0 {
		return
	}
	els := o.scope.Resolve(p.Target)
	if len(els) == 0 {
		log.Printf("motion: %s: parallax target %q not found", o.ch.Section, p.Target)
		return
	}
	travel := o.variant.Parallax
	o.tracker = NewScrollTracker(o.d.scroll, p.Region, func(progress float64) {
		for _, el := range els {
			o.scope.Set(el, p.Prop, progress*travel)
		}
	})
	o.tracker.Start()
}

func (o *Orchestrator) stopTracker() {
	if o.tracker != nil {
		o.tracker.Stop()
		o.tracker = nil
	}
}

func (o *Orchestrator) onMode(m Mode) {
	if o.state != Playing && o.state != Settled {
		return
	}
	o.entrance.Cancel()
	o.settle()

	o.mode = m
	o.variant = o.ch.Variants.For(m)
	o.stopTracker()
	if p := o.ch.Parallax; p != nil && o.variant.Parallax == 0 {
		for _, el := range o.scope.Resolve(p.Target) {
			o.scope.Set(el, p.Prop, 0)
		}
	}
	o.startTracker()
}

func (o *Orchestrator) onResize(Size) {
	if o.tracker != nil {
		o.tracker.Refresh()
	}
}

func (o *Orchestrator) tick(dt time.Duration) {
	if o.state != Playing && o.state != Settled {
		return
	}
	o.entrance.Tick(dt)
	if o.ambient != nil {
		o.ambient.Tick(dt)
	}
}

// unmount cancels every animation, detaches every listener and closes the
// scope. Nothing mutates the section's elements afterwards.
func (o *Orchestrator) unmount() {
	if o.state == Unmounted || o.state == Unmounting {
		return
	}
	o.setState(Unmounting)
	if o.entrance != nil {
		o.entrance.Cancel()
	}
	if o.ambient != nil {
		o.ambient.Cancel()
	}
	o.stopTracker()
	if o.unsubMode != nil {
		o.unsubMode()
		o.unsubMode = nil
	}
	if o.unsubResize != nil {
		o.unsubResize()
		o.unsubResize = nil
	}
	if o.scope != nil {
		o.scope.Close()
	}
	o.ambient = nil
	o.setState(Unmounted)
}
