package page

import (
	"math"
	"time"

	"github.com/Zachkp/portfolio/internal/motion"
)

func registerLoader(st *motion.Stage) {
	for _, name := range []string{"preloader", "intro.logo", "intro.percentage", "bar"} {
		st.Register(Loader, name)
	}
}

// LoadingScreen plays the intro shown before the page: the logo fades in,
// a progress bar fills with a running percentage, then the overlay fades
// out. OnComplete fires exactly once, whether the intro finishes or is
// skipped.
type LoadingScreen struct {
	tl         *motion.Timeline
	scope      *motion.Scope
	percent    int
	done       bool
	onComplete func()
}

// NewLoadingScreen returns an idle loading screen.
func NewLoadingScreen(onComplete func()) *LoadingScreen {
	ls := &LoadingScreen{onComplete: onComplete}
	ls.tl = motion.NewTimeline(motion.TimelineOptions{OnComplete: ls.complete})
	intro := motion.Props{motion.PropOpacity: 0, motion.PropY: 30, motion.PropBlur: 10}
	ls.tl.
		Add(motion.Step{
			Target: "intro.*", From: intro, To: shown(intro),
			Duration: time.Second, Ease: "power2.out", Stagger: 200 * ms,
		}).
		Add(motion.Step{
			Target:   "bar",
			From:     motion.Props{motion.PropWidth: 0},
			To:       motion.Props{motion.PropWidth: 100},
			Duration: 2500 * ms,
			Ease:     "power2.out",
			Position: motion.Overlap(500 * ms),
			OnUpdate: func(p float64) { ls.percent = int(math.Round(p * 100)) },
		}).
		Add(motion.Step{
			Target:   "intro.*",
			To:       motion.Props{motion.PropOpacity: 0, motion.PropY: -30, motion.PropBlur: 10},
			Duration: 800 * ms,
			Ease:     "power2.in",
			Position: motion.Gap(300 * ms),
		}).
		Add(motion.Step{
			Target:   "preloader",
			To:       motion.Props{motion.PropOpacity: 0, motion.PropScale: 0.9},
			Duration: time.Second,
			Ease:     "power2.inOut",
			Position: motion.Overlap(300 * ms),
		})
	return ls
}

// Start plays the intro against the loader elements of st.
func (ls *LoadingScreen) Start(st *motion.Stage) {
	ls.scope = st.Scope(Loader)
	ls.tl.Play(ls.scope)
}

// Tick advances the intro.
func (ls *LoadingScreen) Tick(dt time.Duration) { ls.tl.Tick(dt) }

// Skip jumps to the end of the intro.
func (ls *LoadingScreen) Skip() {
	if ls.done {
		return
	}
	ls.tl.Cancel()
	ls.complete()
}

func (ls *LoadingScreen) complete() {
	if ls.done {
		return
	}
	ls.done = true
	ls.percent = 100
	if ls.scope != nil {
		ls.scope.Close()
	}
	if ls.onComplete != nil {
		ls.onComplete()
	}
}

// Percent returns the progress shown under the bar.
func (ls *LoadingScreen) Percent() int { return ls.percent }

// Done reports whether the intro has completed.
func (ls *LoadingScreen) Done() bool { return ls.done }

// Duration returns the length of the intro.
func (ls *LoadingScreen) Duration() time.Duration { return ls.tl.Duration() }
