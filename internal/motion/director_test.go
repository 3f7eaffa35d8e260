package motion

import (
	"errors"
	"testing"
	"time"
)

func heroChoreography(region *Region) Choreography {
	return Choreography{
		Section: "hero",
		Delay:   100 * ms,
		Variants: Variants{
			Mobile:  {Distance: 10, Parallax: 0},
			Desktop: {Distance: 20, Parallax: 30},
		},
		Entrance: func(v Variant) []Step {
			return []Step{
				{Target: "headline", From: Props{PropOpacity: 0, PropY: v.Distance}, To: Props{PropOpacity: 1, PropY: 0}, Duration: 400 * ms},
				{Target: "spline", From: Props{PropOpacity: 0}, To: Props{PropOpacity: 0.3}, Duration: 500 * ms, Position: Overlap(400 * ms)},
			}
		},
		Parallax: &Parallax{Target: "spline", Prop: PropY, Region: func() Region { return *region }},
	}
}

func newTestDirector(width float64) (*Director, *Stage, *Viewport) {
	st := NewStage()
	st.Register("hero", "headline")
	st.Register("hero", "spline")
	vp := NewViewport(width, 800)
	return NewDirector(st, vp, DirectorOptions{}), st, vp
}

func TestDirectorLifecycleStates(t *testing.T) {
	d, _, _ := newTestDirector(1280)
	region := Region{Start: 0, End: 800}
	d.Register(heroChoreography(&region))

	var states []State
	d.OnState = func(section string, s State) { states = append(states, s) }

	o, err := d.Mount("hero")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if o.State() != Playing {
		t.Fatalf("state after mount %v", o.State())
	}
	d.Tick(time.Second)
	if o.State() != Settled {
		t.Fatalf("state after timeline %v", o.State())
	}
	d.Unmount("hero")

	want := []State{Mounting, Playing, Settled, Unmounting, Unmounted}
	if len(states) != len(want) {
		t.Fatalf("states %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("transition %d: %v, want %v", i, states[i], want[i])
		}
	}
}

func TestDirectorUnmountReleasesListeners(t *testing.T) {
	d, st, vp := newTestDirector(1280)
	region := Region{Start: 0, End: 800}
	d.Register(heroChoreography(&region))

	before := vp.Listeners()
	subsBefore := d.Modes().Subscribers()

	if _, err := d.Mount("hero"); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	during := vp.Listeners()
	if during.Scroll <= before.Scroll || during.Resize <= before.Resize {
		t.Fatalf("mount did not subscribe: before %+v during %+v", before, during)
	}

	d.Tick(150 * ms)
	d.Unmount("hero")

	if after := vp.Listeners(); after != before {
		t.Errorf("listeners after unmount %+v, want %+v", after, before)
	}
	if d.Modes().Subscribers() != subsBefore {
		t.Errorf("mode subscribers leaked")
	}

	spline, _ := st.Element("hero.spline")
	headline, _ := st.Element("hero.headline")
	if headline.Get(PropOpacity) != 1 || spline.Get(PropOpacity) != 0.3 {
		t.Errorf("unmount must leave elements at their target: %v %v", headline.Props(), spline.Props())
	}

	n := spline.Mutations() + headline.Mutations()
	vp.ScrollTo(400)
	vp.Resize(500, 800)
	d.Tick(time.Second)
	if spline.Mutations()+headline.Mutations() != n {
		t.Errorf("section mutated after teardown")
	}
}

func TestDirectorCloseReleasesEverything(t *testing.T) {
	st := NewStage()
	st.Register("hero", "spline")
	vp := NewViewport(1280, 800)
	d := NewDirector(st, vp, DirectorOptions{Smooth: &SmoothOptions{Lerp: 0.1}})
	if d.Smooth() == nil {
		t.Fatal("expected smooth scroller")
	}
	region := Region{Start: 0, End: 800}
	d.Register(heroChoreography(&region))
	if _, err := d.Mount("hero"); err != nil {
		t.Fatal(err)
	}
	d.Close()
	d.Close()

	if l := vp.Listeners(); l.Scroll != 0 || l.Resize != 0 {
		t.Errorf("listeners after close %+v", l)
	}
	if d.Smooth().Listeners() != 0 {
		t.Errorf("smooth scroller subscribers after close: %d", d.Smooth().Listeners())
	}
	if _, err := d.Mount("hero"); err == nil {
		t.Error("mount after close should fail")
	}
}

func TestDirectorSmoothFallback(t *testing.T) {
	vp := NewViewport(1280, 800)
	d := NewDirector(NewStage(), vp, DirectorOptions{Smooth: &SmoothOptions{Lerp: 7}})
	if d.Smooth() != nil {
		t.Fatal("invalid options should not produce a smooth scroller")
	}
	if d.Scroll() != ScrollSource(vp) {
		t.Error("expected native viewport as scroll source")
	}
}

func TestDirectorRemountReplacesOrchestrator(t *testing.T) {
	d, _, vp := newTestDirector(1280)
	region := Region{Start: 0, End: 800}
	d.Register(heroChoreography(&region))
	before := vp.Listeners()

	first, _ := d.Mount("hero")
	d.Tick(50 * ms)
	second, _ := d.Mount("hero")
	third, _ := d.Mount("hero")

	if first.State() != Unmounted || second.State() != Unmounted {
		t.Errorf("replaced orchestrators still live: %v %v", first.State(), second.State())
	}
	if third.State() != Playing {
		t.Errorf("current orchestrator %v", third.State())
	}
	if len(d.Active()) != 1 {
		t.Errorf("active %v", d.Active())
	}
	single := vp.Listeners()
	d.Unmount("hero")
	if after := vp.Listeners(); after != before {
		t.Errorf("listeners %+v, want %+v", after, before)
	}
	if single.Scroll-before.Scroll != 1 {
		t.Errorf("overlapping trackers: %d scroll listeners added", single.Scroll-before.Scroll)
	}
}

func TestDirectorUnknownSection(t *testing.T) {
	d, _, _ := newTestDirector(1280)
	if _, err := d.Mount("blog"); !errors.Is(err, ErrUnknownChoreography) {
		t.Errorf("expected ErrUnknownChoreography, got %v", err)
	}
	d.Unmount("blog")
}

func TestOrchestratorParallax(t *testing.T) {
	d, st, vp := newTestDirector(1280)
	region := Region{Start: 0, End: 800}
	d.Register(heroChoreography(&region))
	o, _ := d.Mount("hero")

	spline, _ := st.Element("hero.spline")
	vp.ScrollTo(400)
	if spline.Get(PropY) != 15 {
		t.Errorf("parallax y %v, want 15", spline.Get(PropY))
	}
	if o.Progress() != 0.5 {
		t.Errorf("progress %v", o.Progress())
	}

	// The region grows on resize; the tracker follows it.
	region.End = 1600
	vp.Resize(1300, 800)
	if spline.Get(PropY) != 7.5 {
		t.Errorf("after refresh y %v, want 7.5", spline.Get(PropY))
	}
}

func TestOrchestratorModeChange(t *testing.T) {
	d, st, vp := newTestDirector(1280)
	region := Region{Start: 0, End: 800}
	d.Register(heroChoreography(&region))
	o, _ := d.Mount("hero")
	vp.ScrollTo(400)
	d.Tick(150 * ms)

	scrollBefore := vp.Listeners().Scroll
	vp.Resize(600, 800)

	if o.Mode() != Mobile || o.Variant().Parallax != 0 {
		t.Fatalf("mode %v variant %+v", o.Mode(), o.Variant())
	}
	if o.State() != Settled {
		t.Errorf("mode change should cancel the entrance, state %v", o.State())
	}
	headline, _ := st.Element("hero.headline")
	spline, _ := st.Element("hero.spline")
	if headline.Get(PropOpacity) != 1 || spline.Get(PropY) != 0 {
		t.Errorf("headline %v spline %v", headline.Props(), spline.Props())
	}
	if vp.Listeners().Scroll != scrollBefore-1 {
		t.Errorf("mobile variant should drop the parallax tracker")
	}

	vp.Resize(1280, 800)
	if vp.Listeners().Scroll != scrollBefore {
		t.Errorf("desktop variant should restore the tracker")
	}
	if spline.Get(PropY) != 15 {
		t.Errorf("restored parallax y %v", spline.Get(PropY))
	}
}

func TestOrchestratorIsolatesSections(t *testing.T) {
	st := NewStage()
	st.Register("hero", "headline")
	st.Register("about", "headline")
	vp := NewViewport(1280, 800)
	d := NewDirector(st, vp, DirectorOptions{})
	d.Register(Choreography{
		Section: "hero",
		Entrance: func(Variant) []Step {
			return []Step{{Target: "headline", To: Props{PropOpacity: 0.5}, Duration: 100 * ms}}
		},
	})
	if _, err := d.Mount("hero"); err != nil {
		t.Fatal(err)
	}
	d.Tick(time.Second)

	about, _ := st.Element("about.headline")
	if about.Mutations() != 0 {
		t.Errorf("hero orchestrator touched about's element")
	}
	if sc := st.Scope("hero"); sc.Set(about, PropOpacity, 0) {
		t.Errorf("scope accepted a foreign element")
	}
}
