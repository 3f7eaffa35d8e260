package motion

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Mode is a responsive presentation variant.
type Mode int

const (
	Mobile Mode = iota
	Tablet
	Desktop
)

var modeNames = [...]string{"mobile", "tablet", "desktop"}

func (m Mode) String() string {
	if m < Mobile || m > Desktop {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses "mobile", "tablet" or "desktop".
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(s, n) {
			return Mode(i), nil
		}
	}
	return Desktop, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

// Width breakpoints.
const (
	DefaultTabletWidth  = 768
	DefaultDesktopWidth = 1024
)

// Thresholds are the lowest widths of the tablet and desktop modes.
type Thresholds struct {
	Tablet  float64
	Desktop float64
}

// DefaultThresholds returns the standard 768/1024 breakpoints.
func DefaultThresholds() Thresholds {
	return Thresholds{Tablet: DefaultTabletWidth, Desktop: DefaultDesktopWidth}
}

// ModeFor classifies width.
func (th Thresholds) ModeFor(width float64) Mode {
	switch {
	case width < th.Tablet:
		return Mobile
	case width < th.Desktop:
		return Tablet
	default:
		return Desktop
	}
}

// ModeSwitch tracks the viewport mode and notifies subscribers when the
// width crosses a breakpoint. With a debounce window, evaluation waits until
// resizes have been quiet for the window, measured by Tick.
type ModeSwitch struct {
	vp       *Viewport
	th       Thresholds
	debounce time.Duration
	mode     Mode
	subs     listeners[Mode]
	remove   func()

	pending bool
	quiet   time.Duration
}

// NewModeSwitch evaluates the current width and subscribes to resizes.
func NewModeSwitch(vp *Viewport, th Thresholds, debounce time.Duration) *ModeSwitch {
	ms := &ModeSwitch{vp: vp, th: th, debounce: debounce}
	ms.mode = th.ModeFor(vp.Size().Width)
	ms.remove = vp.OnResize(ms.onResize)
	return ms
}

// Mode returns the current mode.
func (ms *ModeSwitch) Mode() Mode { return ms.mode }

// Thresholds returns the configured breakpoints.
func (ms *ModeSwitch) Thresholds() Thresholds { return ms.th }

// Subscribe registers fn for mode changes.
func (ms *ModeSwitch) Subscribe(fn func(Mode)) (unsubscribe func()) {
	return ms.subs.add(fn)
}

// Subscribers returns the number of subscribers.
func (ms *ModeSwitch) Subscribers() int { return ms.subs.len() }

func (ms *ModeSwitch) onResize(Size) {
	if ms.debounce <= 0 {
		ms.evaluate()
		return
	}
	ms.pending = true
	ms.quiet = 0
}

// Tick advances the debounce clock.
func (ms *ModeSwitch) Tick(dt time.Duration) {
	if !ms.pending {
		return
	}
	ms.quiet += dt
	if ms.quiet >= ms.debounce {
		ms.pending = false
		ms.evaluate()
	}
}

// Pending reports whether a resize is waiting for the debounce window.
func (ms *ModeSwitch) Pending() bool { return ms.pending }

func (ms *ModeSwitch) evaluate() {
	next := ms.th.ModeFor(ms.vp.Size().Width)
	if next == ms.mode {
		return
	}
	ms.mode = next
	ms.subs.dispatch(next)
}

// Close detaches from the viewport.
func (ms *ModeSwitch) Close() {
	if ms.remove != nil {
		ms.remove()
		ms.remove = nil
	}
	ms.pending = false
}
