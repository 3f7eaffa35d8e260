package motion

import (
	"log"
	"math"
	"time"
)

// Position places a step on its timeline. The zero value starts the step
// when everything added before it has ended.
type Position struct {
	Offset   time.Duration
	Absolute bool
}

// Overlap starts a step d before the end of the timeline so far ("-=d").
func Overlap(d time.Duration) Position { return Position{Offset: -d} }

// Gap starts a step d after the end of the timeline so far ("+=d").
func Gap(d time.Duration) Position { return Position{Offset: d} }

// At starts a step at an absolute time on the timeline.
func At(d time.Duration) Position { return Position{Offset: d, Absolute: true} }

// Step is one fromTo transition of a target selector.
type Step struct {
	Target   string
	From     Props
	To       Props
	Duration time.Duration
	Ease     string
	Position Position
	// Stagger delays the i-th element matched by Target by i*Stagger.
	Stagger time.Duration
	// Repeat is the number of extra cycles; -1 repeats forever.
	Repeat int
	Yoyo   bool
	// OnUpdate receives the step's progress in [0, 1] after each render.
	OnUpdate func(progress float64)
}

// TimelineState is the play state of a Timeline.
type TimelineState int

const (
	TimelineIdle TimelineState = iota
	TimelinePlaying
	TimelineFinished
	TimelineCancelled
)

func (s TimelineState) String() string {
	switch s {
	case TimelineIdle:
		return "idle"
	case TimelinePlaying:
		return "playing"
	case TimelineFinished:
		return "finished"
	case TimelineCancelled:
		return "cancelled"
	}
	return "unknown"
}

// TimelineOptions configures a Timeline.
type TimelineOptions struct {
	Delay      time.Duration
	OnComplete func()
}

// Scheduled describes one resolved tween, as reported by Schedule.
type Scheduled struct {
	Target   string        `json:"target"`
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
	Ease     string        `json:"ease"`
	From     Props         `json:"from"`
	To       Props         `json:"to"`
	Repeat   int           `json:"repeat,omitempty"`
	Yoyo     bool          `json:"yoyo,omitempty"`
}

type tween struct {
	el       *Element
	step     *Step
	from     Props
	to       Props
	start    time.Duration
	ease     Ease
	lead     bool // reports OnUpdate for its step
	finished bool
}

// Timeline is an ordered, cancellable sequence of steps. It is owned by a
// single goroutine and advanced by Tick.
type Timeline struct {
	opts     TimelineOptions
	steps    []Step
	starts   []time.Duration
	tweens   []*tween
	scope    *Scope
	elapsed  time.Duration
	end      time.Duration
	infinite bool
	state    TimelineState
}

// NewTimeline returns an idle timeline.
func NewTimeline(opts TimelineOptions) *Timeline {
	return &Timeline{opts: opts}
}

// Add appends a step. Steps added after Play are ignored.
func (t *Timeline) Add(step Step) *Timeline {
	if t.state != TimelineIdle {
		return t
	}
	t.steps = append(t.steps, step)
	return t
}

// Len returns the number of steps.
func (t *Timeline) Len() int { return len(t.steps) }

// State returns the play state.
func (t *Timeline) State() TimelineState { return t.state }

// Done reports whether the timeline finished or was cancelled.
func (t *Timeline) Done() bool {
	return t.state == TimelineFinished || t.state == TimelineCancelled
}

// Duration returns the length of the resolved timeline including its delay.
// Steps that repeat forever count one cycle.
func (t *Timeline) Duration() time.Duration { return t.opts.Delay + t.end }

// Elapsed returns the play cursor.
func (t *Timeline) Elapsed() time.Duration { return t.elapsed }

func stepSpan(s *Step, count int) time.Duration {
	cycles := 1
	if s.Repeat > 0 {
		cycles = s.Repeat + 1
	}
	span := s.Duration * time.Duration(cycles)
	if count > 1 {
		span += s.Stagger * time.Duration(count-1)
	}
	return span
}

// resolve binds every step to the scope's elements and computes start
// times. Missing targets keep their timing slot.
func (t *Timeline) resolve(sc *Scope) {
	t.scope = sc
	t.tweens = t.tweens[:0]
	t.starts = t.starts[:0]
	t.end = 0
	t.infinite = false

	var cursor time.Duration
	for i := range t.steps {
		s := &t.steps[i]
		start := cursor + s.Position.Offset
		if s.Position.Absolute {
			start = s.Position.Offset
		}
		if start < 0 {
			start = 0
		}
		t.starts = append(t.starts, start)

		els := sc.Resolve(s.Target)
		if len(els) == 0 {
			log.Printf("motion: %s: target %q not found, skipping", sc.Section(), s.Target)
		}
		ease := ParseEase(s.Ease)
		for j, el := range els {
			t.tweens = append(t.tweens, &tween{
				el:    el,
				step:  s,
				to:    s.To,
				start: start + s.Stagger*time.Duration(j),
				ease:  ease,
				lead:  j == 0,
			})
		}
		if len(els) == 0 && s.OnUpdate != nil {
			t.tweens = append(t.tweens, &tween{step: s, start: start, ease: ease, lead: true})
		}
		if s.Repeat < 0 {
			t.infinite = true
		}

		stepEnd := start + stepSpan(s, len(els))
		if stepEnd > cursor {
			cursor = stepEnd
		}
	}
	t.end = cursor
}

// Schedule resolves the timeline against sc without writing anything and
// reports one entry per tween.
func (t *Timeline) Schedule(sc *Scope) []Scheduled {
	saved := *t
	t.tweens = nil
	t.starts = nil
	t.resolve(sc)
	out := make([]Scheduled, 0, len(t.tweens))
	for _, tw := range t.tweens {
		if tw.el == nil {
			continue
		}
		out = append(out, Scheduled{
			Target:   tw.el.ID(),
			Start:    t.opts.Delay + tw.start,
			Duration: tw.step.Duration,
			Ease:     easeName(tw.step.Ease),
			From:     tw.step.From,
			To:       tw.step.To,
			Repeat:   tw.step.Repeat,
			Yoyo:     tw.step.Yoyo,
		})
	}
	end := t.end
	*t = saved
	t.end = end
	return out
}

func easeName(name string) string {
	if _, ok := lookupEase(name); ok && name != "" {
		return name
	}
	return DefaultEase
}

// Play resolves the steps against sc, renders every explicit From state
// immediately and starts the play cursor.
func (t *Timeline) Play(sc *Scope) {
	if t.state != TimelineIdle {
		return
	}
	t.resolve(sc)
	for _, tw := range t.tweens {
		if tw.el == nil || len(tw.step.From) == 0 {
			continue
		}
		from := make(Props, len(tw.step.From))
		for k, v := range tw.step.From {
			if _, ok := tw.to[k]; ok {
				from[k] = v
			}
		}
		sc.Apply(tw.el, from)
	}
	t.state = TimelinePlaying
	if len(t.steps) == 0 {
		t.finish()
	}
}

// Tick advances the play cursor by dt and renders every active tween.
func (t *Timeline) Tick(dt time.Duration) {
	switch {
	case t.state == TimelinePlaying:
	case t.state == TimelineFinished && t.infinite:
	default:
		return
	}
	t.elapsed += dt
	local := t.elapsed - t.opts.Delay
	if local < 0 {
		return
	}

	for _, tw := range t.tweens {
		if !tw.finished {
			t.render(tw, local)
		}
	}

	if t.state == TimelinePlaying && local >= t.finiteEnd() {
		t.finish()
	}
}

func (t *Timeline) finiteEnd() time.Duration {
	var end time.Duration
	for i := range t.steps {
		s := &t.steps[i]
		if s.Repeat < 0 {
			continue
		}
		count := 0
		for _, tw := range t.tweens {
			if tw.step == s && tw.el != nil {
				count++
			}
		}
		if e := t.starts[i] + stepSpan(s, count); e > end {
			end = e
		}
	}
	return end
}

func (t *Timeline) finish() {
	t.state = TimelineFinished
	if t.opts.OnComplete != nil {
		t.opts.OnComplete()
	}
}

// render applies tw at timeline-local time lt.
func (t *Timeline) render(tw *tween, lt time.Duration) {
	if lt < tw.start {
		return
	}
	s := tw.step
	if s.Duration <= 0 {
		t.snap(tw, true)
		return
	}
	p := float64(lt-tw.start) / float64(s.Duration)

	cycles := float64(s.Repeat + 1)
	if s.Repeat >= 0 && p >= cycles {
		t.snap(tw, true)
		return
	}

	cycle := math.Floor(p)
	frac := p - cycle
	if s.Yoyo && int(cycle)%2 == 1 {
		frac = 1 - frac
	}
	t.apply(tw, frac)
	if tw.lead && s.OnUpdate != nil {
		if s.Repeat < 0 {
			s.OnUpdate(frac)
		} else {
			s.OnUpdate(Clamp01(p / cycles))
		}
	}
}

// capture records the start values of tw when it first renders. Props
// without an explicit From start from the element's value at that moment.
func (t *Timeline) capture(tw *tween) {
	tw.from = make(Props, len(tw.to))
	for k := range tw.to {
		if v, ok := tw.step.From[k]; ok {
			tw.from[k] = v
		} else {
			tw.from[k] = tw.el.Get(k)
		}
	}
}

func (t *Timeline) apply(tw *tween, frac float64) {
	if tw.el == nil {
		return
	}
	if tw.from == nil {
		t.capture(tw)
	}
	e := tw.ease(Clamp01(frac))
	for _, k := range tw.to.Keys() {
		t.scope.Set(tw.el, k, Lerp(tw.from[k], tw.to[k], e))
	}
}

// snap moves tw to To and marks it finished. A finite yoyo that ran to
// completion with an even number of cycles rests at From instead.
func (t *Timeline) snap(tw *tween, completed bool) {
	s := tw.step
	rest := 1.0
	if completed && s.Yoyo && s.Repeat > 0 && s.Repeat%2 == 1 {
		rest = 0
	}
	if tw.el != nil {
		if tw.from == nil {
			tw.from = s.From
		}
		for _, k := range tw.to.Keys() {
			v := tw.to[k]
			if rest == 0 {
				if f, ok := tw.from[k]; ok {
					v = f
				}
			}
			t.scope.Set(tw.el, k, v)
		}
	}
	tw.finished = true
	if tw.lead && s.OnUpdate != nil {
		s.OnUpdate(1)
	}
}

// Cancel stops the timeline and snaps every unfinished tween to To. It is
// safe to call at any time and more than once.
func (t *Timeline) Cancel() {
	if t.state == TimelineCancelled {
		return
	}
	for _, tw := range t.tweens {
		if !tw.finished {
			t.snap(tw, false)
		}
	}
	t.state = TimelineCancelled
}
