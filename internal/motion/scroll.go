package motion

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Region is a scroll-linked span of the document, in scroll offsets.
type Region struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Progress maps scrollY to [0, 1] within r. A region with End <= Start
// behaves as a step at Start.
func (r Region) Progress(scrollY float64) float64 {
	span := r.End - r.Start
	if span <= 0 {
		if scrollY < r.Start {
			return 0
		}
		return 1
	}
	return Clamp01((scrollY - r.Start) / span)
}

// ScrollTracker follows one Region and reports progress changes.
// It is owned by the goroutine that drives its ScrollSource.
type ScrollTracker struct {
	src      ScrollSource
	region   func() Region
	onUpdate func(progress float64)
	progress float64
	remove   func()
	active   bool
}

// NewScrollTracker returns a stopped tracker. region is re-evaluated on
// every update, so it may follow layout changes.
func NewScrollTracker(src ScrollSource, region func() Region, onUpdate func(progress float64)) *ScrollTracker {
	return &ScrollTracker{src: src, region: region, onUpdate: onUpdate, progress: -1}
}

// Start subscribes to the source and reports the initial progress.
func (st *ScrollTracker) Start() {
	if st.active {
		return
	}
	st.active = true
	st.remove = st.src.OnScroll(st.update)
	st.update(st.src.ScrollY())
}

// Refresh recomputes progress at the current position, e.g. after a resize
// moved the region.
func (st *ScrollTracker) Refresh() {
	if st.active {
		st.update(st.src.ScrollY())
	}
}

func (st *ScrollTracker) update(y float64) {
	if !st.active {
		return
	}
	p := st.region().Progress(y)
	if p == st.progress {
		return
	}
	st.progress = p
	if st.onUpdate != nil {
		st.onUpdate(p)
	}
}

// Progress returns the last computed progress, or 0 before Start.
func (st *ScrollTracker) Progress() float64 {
	if st.progress < 0 {
		return 0
	}
	return st.progress
}

// Active reports whether the tracker is subscribed.
func (st *ScrollTracker) Active() bool { return st.active }

// Stop unsubscribes. No update is delivered after Stop returns.
func (st *ScrollTracker) Stop() {
	if !st.active {
		return
	}
	st.active = false
	if st.remove != nil {
		st.remove()
		st.remove = nil
	}
}

// ErrSmoothScroll is returned when a SmoothScroller cannot be set up.
var ErrSmoothScroll = errors.New("smooth scroll unavailable")

// SmoothOptions configures inertia scrolling.
type SmoothOptions struct {
	// Lerp is the share of the remaining distance covered per 60Hz frame.
	Lerp float64
	// Multiplier scales native scroll deltas.
	Multiplier float64
}

// SmoothScroller eases its position toward the native scroll position and
// re-publishes it as a ScrollSource. It advances on Tick.
type SmoothScroller struct {
	native     ScrollSource
	opts       SmoothOptions
	target     float64
	current    float64
	lastNative float64
	remove     func()
	out        listeners[float64]
}

// NewSmoothScroller wraps native. Invalid options return ErrSmoothScroll;
// callers fall back to the native source.
func NewSmoothScroller(native ScrollSource, opts SmoothOptions) (*SmoothScroller, error) {
	if native == nil {
		return nil, fmt.Errorf("%w: no native scroll source", ErrSmoothScroll)
	}
	if opts.Lerp <= 0 || opts.Lerp > 1 || math.IsNaN(opts.Lerp) {
		return nil, fmt.Errorf("%w: lerp %v outside (0, 1]", ErrSmoothScroll, opts.Lerp)
	}
	if opts.Multiplier == 0 {
		opts.Multiplier = 1
	}
	if opts.Multiplier < 0 || math.IsNaN(opts.Multiplier) {
		return nil, fmt.Errorf("%w: multiplier %v must be positive", ErrSmoothScroll, opts.Multiplier)
	}

	y := native.ScrollY()
	s := &SmoothScroller{native: native, opts: opts, target: y, current: y, lastNative: y}
	s.remove = native.OnScroll(s.onNative)
	return s, nil
}

// scrollLimiter is implemented by sources with a bounded document.
type scrollLimiter interface {
	MaxScroll() float64
}

func (s *SmoothScroller) onNative(y float64) {
	s.target += (y - s.lastNative) * s.opts.Multiplier
	if s.target < 0 {
		s.target = 0
	}
	if l, ok := s.native.(scrollLimiter); ok {
		if limit := l.MaxScroll(); limit >= 0 && s.target > limit {
			s.target = limit
		}
	}
	s.lastNative = y
}

// Jump moves both target and position to y without easing.
func (s *SmoothScroller) Jump(y float64) {
	s.target = y
	s.lastNative = s.native.ScrollY()
	if s.current != y {
		s.current = y
		s.out.dispatch(y)
	}
}

// Tick eases the position toward the target for dt of wall time.
func (s *SmoothScroller) Tick(dt time.Duration) {
	if s.current == s.target {
		return
	}
	frames := dt.Seconds() * 60
	k := 1 - math.Pow(1-s.opts.Lerp, frames)
	next := Lerp(s.current, s.target, k)
	if math.Abs(s.target-next) < 0.5 {
		next = s.target
	}
	s.current = next
	s.out.dispatch(next)
}

// ScrollY implements ScrollSource.
func (s *SmoothScroller) ScrollY() float64 { return s.current }

// Target returns the position being eased toward.
func (s *SmoothScroller) Target() float64 { return s.target }

// OnScroll implements ScrollSource.
func (s *SmoothScroller) OnScroll(fn func(y float64)) (remove func()) {
	return s.out.add(fn)
}

// Listeners returns the number of subscribers.
func (s *SmoothScroller) Listeners() int { return s.out.len() }

// Close detaches from the native source.
func (s *SmoothScroller) Close() {
	if s.remove != nil {
		s.remove()
		s.remove = nil
	}
}
