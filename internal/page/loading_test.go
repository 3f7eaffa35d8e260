package page

import (
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/motion"
)

func loaderStage() *motion.Stage {
	st := motion.NewStage()
	registerLoader(st)
	return st
}

func TestLoadingScreenRunsOnce(t *testing.T) {
	st := loaderStage()
	calls := 0
	ls := NewLoadingScreen(func() { calls++ })
	ls.Start(st)
	if ls.Duration() != 5*time.Second {
		t.Fatalf("duration %v, want 5s", ls.Duration())
	}

	ls.Tick(time.Second)
	if ls.Percent() != 12 {
		t.Errorf("percent at 1s: %d, want 12", ls.Percent())
	}
	ls.Tick(2200 * ms)
	if ls.Percent() != 100 || ls.Done() {
		t.Errorf("percent %d done %v after the bar filled", ls.Percent(), ls.Done())
	}

	ls.Tick(1800 * ms)
	if !ls.Done() || calls != 1 {
		t.Fatalf("done %v calls %d", ls.Done(), calls)
	}
	pre, _ := st.Element("loader.preloader")
	if pre.Get(motion.PropOpacity) != 0 || pre.Get(motion.PropScale) != 0.9 {
		t.Errorf("preloader %v", pre.Props())
	}

	ls.Tick(time.Second)
	ls.Skip()
	if calls != 1 {
		t.Errorf("completion fired %d times", calls)
	}
}

func TestLoadingScreenSkip(t *testing.T) {
	st := loaderStage()
	calls := 0
	ls := NewLoadingScreen(func() { calls++ })
	ls.Start(st)
	ls.Tick(500 * ms)
	ls.Skip()
	if !ls.Done() || calls != 1 || ls.Percent() != 100 {
		t.Errorf("done %v calls %d percent %d", ls.Done(), calls, ls.Percent())
	}
	logo, _ := st.Element("loader.intro.logo")
	if logo.Get(motion.PropOpacity) != 0 || logo.Get(motion.PropY) != -30 {
		t.Errorf("logo did not snap to its exit state: %v", logo.Props())
	}
	bar, _ := st.Element("loader.bar")
	before := bar.Mutations()
	ls.Tick(time.Second)
	if bar.Mutations() != before {
		t.Error("bar moved after skip")
	}
}
