package motion

// listeners is an ordered set of callbacks. A callback removed while a
// dispatch is in progress is not invoked by that dispatch.
type listeners[T any] struct {
	next  int
	fns   map[int]func(T)
	order []int
}

func (l *listeners[T]) add(fn func(T)) (remove func()) {
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.order = append(l.order, id)

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		delete(l.fns, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

func (l *listeners[T]) dispatch(v T) {
	ids := append([]int(nil), l.order...)
	for _, id := range ids {
		if fn, ok := l.fns[id]; ok {
			fn(v)
		}
	}
}

func (l *listeners[T]) len() int { return len(l.fns) }

// ScrollSource is the single provider of raw scroll positions.
type ScrollSource interface {
	ScrollY() float64
	// OnScroll subscribes passively: fn cannot veto or delay the scroll.
	OnScroll(fn func(y float64)) (remove func())
}

// Size is a viewport size in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ListenerCounts reports attached listeners per event kind.
type ListenerCounts struct {
	Scroll int `json:"scroll"`
	Resize int `json:"resize"`
}

// Viewport is the native window: it owns the scroll position and size and
// dispatches scroll and resize events.
type Viewport struct {
	size          Size
	scrollY       float64
	contentHeight float64
	scroll        listeners[float64]
	resize        listeners[Size]
}

// NewViewport returns a viewport of the given size scrolled to the top.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{size: Size{Width: width, Height: height}}
}

// Size returns the current viewport size.
func (v *Viewport) Size() Size { return v.size }

// ScrollY returns the current scroll offset.
func (v *Viewport) ScrollY() float64 { return v.scrollY }

// SetContentHeight sets the document height used to bound ScrollTo.
// Zero leaves scrolling unbounded below.
func (v *Viewport) SetContentHeight(h float64) {
	v.contentHeight = h
	if limit := v.MaxScroll(); limit >= 0 && v.scrollY > limit {
		v.ScrollTo(limit)
	}
}

// MaxScroll returns the largest reachable offset, or -1 when unbounded.
func (v *Viewport) MaxScroll() float64 {
	if v.contentHeight <= 0 {
		return -1
	}
	limit := v.contentHeight - v.size.Height
	if limit < 0 {
		return 0
	}
	return limit
}

// ScrollTo moves the scroll position and notifies scroll listeners when it
// changed.
func (v *Viewport) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	if limit := v.MaxScroll(); limit >= 0 && y > limit {
		y = limit
	}
	if y == v.scrollY {
		return
	}
	v.scrollY = y
	v.scroll.dispatch(y)
}

// Resize changes the viewport size and notifies resize listeners when it
// changed.
func (v *Viewport) Resize(width, height float64) {
	next := Size{Width: width, Height: height}
	if next == v.size {
		return
	}
	v.size = next
	v.resize.dispatch(next)
}

// OnScroll implements ScrollSource.
func (v *Viewport) OnScroll(fn func(y float64)) (remove func()) {
	return v.scroll.add(fn)
}

// OnResize subscribes to size changes.
func (v *Viewport) OnResize(fn func(Size)) (remove func()) {
	return v.resize.add(fn)
}

// Listeners reports how many listeners are attached.
func (v *Viewport) Listeners() ListenerCounts {
	return ListenerCounts{Scroll: v.scroll.len(), Resize: v.resize.len()}
}
