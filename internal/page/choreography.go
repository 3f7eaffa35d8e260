package page

import (
	"time"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/motion"
)

const ms = time.Millisecond

// Particles is the number of ambient footer particles.
const Particles = 6

// hidden returns the usual entrance start state: transparent, offset by dy
// and optionally blurred.
func hidden(dy, blur float64) motion.Props {
	p := motion.Props{motion.PropOpacity: 0, motion.PropY: dy}
	if blur > 0 {
		p[motion.PropBlur] = blur
	}
	return p
}

// shown mirrors the keys of from at their resting values.
func shown(from motion.Props) motion.Props {
	to := make(motion.Props, len(from))
	for k := range from {
		switch k {
		case motion.PropOpacity, motion.PropScale:
			to[k] = 1
		default:
			to[k] = 0
		}
	}
	return to
}

func fade(target string, from motion.Props, d time.Duration, pos motion.Position) motion.Step {
	return motion.Step{Target: target, From: from, To: shown(from), Duration: d, Ease: "power2.out", Position: pos}
}

var (
	heroVariants = motion.Variants{
		motion.Mobile:  {Distance: 15, Blur: 0, Speed: 0.8, Parallax: 0, Columns: 1, Layout: "stacked"},
		motion.Tablet:  {Distance: 20, Blur: 3, Speed: 1, Parallax: 20, Columns: 1, Layout: "stacked"},
		motion.Desktop: {Distance: 20, Blur: 3, Speed: 1, Parallax: 30, Columns: 2, Layout: "split"},
	}
	aboutVariants = motion.Variants{
		motion.Mobile:  {Distance: 15, Blur: 0, Stagger: 40 * ms, Speed: 0.8, Columns: 1, Layout: "stacked"},
		motion.Desktop: {Distance: 20, Blur: 2, Stagger: 50 * ms, Speed: 1, Columns: 2, Layout: "split"},
	}
	gridVariants = motion.Variants{
		motion.Mobile:  {Distance: 20, Blur: 0, Stagger: 60 * ms, Speed: 0.8, Columns: 1, Layout: "stacked"},
		motion.Tablet:  {Distance: 20, Blur: 5, Stagger: 80 * ms, Speed: 1, Columns: 2, Layout: "grid"},
		motion.Desktop: {Distance: 30, Blur: 5, Stagger: 80 * ms, Speed: 1, Columns: 3, Layout: "grid"},
	}
	timelineVariants = motion.Variants{
		motion.Mobile:  {Distance: 20, Blur: 0, Stagger: 60 * ms, Speed: 0.8, Columns: 1, Layout: "stacked"},
		motion.Desktop: {Distance: 30, Blur: 5, Stagger: 80 * ms, Speed: 1, Columns: 1, Layout: "alternating"},
	}
	contactVariants = motion.Variants{
		motion.Mobile:  {Distance: 20, Blur: 0, Speed: 0.8, Columns: 1, Layout: "stacked"},
		motion.Desktop: {Distance: 30, Blur: 5, Speed: 1, Columns: 2, Layout: "split"},
	}
	footerVariants = motion.Variants{
		motion.Mobile:  {Distance: 20, Blur: 0, Stagger: 300 * ms, Speed: 1, Columns: 1},
		motion.Desktop: {Distance: 30, Blur: 5, Stagger: 300 * ms, Speed: 1, Columns: 3},
	}
)

func buildSections(c *content.Content) []*Section {
	skills := len(c.Skills)
	projects := len(c.Projects)
	items := len(c.Experience)
	return []*Section{
		{
			ID:       Hero,
			Elements: []string{"headline", "subtitle", "buttons", "spline"},
			sizing:   sizing{Base: perMode{720, 760, 800}, MinScreen: true},
			choreo:   heroChoreography(),
		},
		{
			ID:       About,
			Elements: append([]string{"image", "content"}, group("highlights", len(c.Highlights))...),
			sizing:   sizing{Base: perMode{1500, 1200, 900}},
			choreo:   aboutChoreography(),
		},
		{
			ID:       Skills,
			Elements: append([]string{"title"}, group("categories", skills)...),
			Group:    "categories",
			Count:    skills,
			sizing:   sizing{Base: perMode{240, 240, 240}, Item: perMode{420, 420, 420}},
			choreo:   gridChoreography(Skills, "categories", false),
		},
		{
			ID:       Projects,
			Elements: append([]string{"title"}, group("cards", projects)...),
			Group:    "cards",
			Count:    projects,
			sizing:   sizing{Base: perMode{240, 240, 240}, Item: perMode{520, 500, 480}},
			choreo:   gridChoreography(Projects, "cards", true),
		},
		{
			ID:       Timeline,
			Elements: append([]string{"title"}, group("items", items)...),
			Group:    "items",
			Count:    items,
			sizing:   sizing{Base: perMode{240, 240, 240}, Item: perMode{420, 300, 260}},
			choreo:   timelineChoreography(),
		},
		{
			ID:       Contact,
			Elements: []string{"title", "form", "social"},
			sizing:   sizing{Base: perMode{1300, 1000, 800}, MinScreen: true},
			choreo:   contactChoreography(),
		},
		{
			ID:       Footer,
			Elements: append([]string{"content", "social"}, group("particles", Particles)...),
			sizing:   sizing{Base: perMode{640, 480, 360}},
			choreo:   footerChoreography(),
		},
	}
}

func heroChoreography() motion.Choreography {
	return motion.Choreography{
		Section:  Hero,
		Delay:    100 * ms,
		Variants: heroVariants,
		Entrance: func(v motion.Variant) []motion.Step {
			spline := motion.Props{motion.PropOpacity: 0, motion.PropX: 30}
			if v.Blur > 0 {
				spline[motion.PropBlur] = v.Blur + 2
			}
			splineTo := shown(spline)
			splineTo[motion.PropOpacity] = 0.3
			return []motion.Step{
				fade("headline", hidden(v.Distance, v.Blur), v.Scale(400*ms), motion.Position{}),
				fade("subtitle", hidden(v.Distance, v.Blur), v.Scale(300*ms), motion.Overlap(300*ms)),
				fade("buttons", hidden(v.Distance, v.Blur), v.Scale(300*ms), motion.Overlap(200*ms)),
				{Target: "spline", From: spline, To: splineTo, Duration: v.Scale(500 * ms), Ease: "power2.out", Position: motion.Overlap(400 * ms)},
			}
		},
		Parallax: &motion.Parallax{Target: "spline", Prop: motion.PropY},
	}
}

func aboutChoreography() motion.Choreography {
	return motion.Choreography{
		Section:  About,
		Variants: aboutVariants,
		Entrance: func(v motion.Variant) []motion.Step {
			image := motion.Props{motion.PropOpacity: 0.3, motion.PropX: -v.Distance}
			text := motion.Props{motion.PropOpacity: 0, motion.PropX: v.Distance * 1.5}
			if v.Blur > 0 {
				image[motion.PropBlur] = v.Blur
				text[motion.PropBlur] = v.Blur + 1
			}
			icons := motion.Props{motion.PropOpacity: 0, motion.PropY: 15, motion.PropScale: 0.95}
			return []motion.Step{
				fade("image", image, v.Scale(600*ms), motion.Position{}),
				fade("content", text, v.Scale(600*ms), motion.Overlap(400*ms)),
				{
					Target: "highlights.*", From: icons, To: shown(icons),
					Duration: v.Scale(300 * ms), Ease: "back.out(1.4)",
					Stagger: v.Stagger, Position: motion.Overlap(200 * ms),
				},
			}
		},
	}
}

// gridChoreography reveals a title followed by a staggered grid of
// children.
func gridChoreography(section, children string, scale bool) motion.Choreography {
	return motion.Choreography{
		Section:  section,
		Variants: gridVariants,
		Entrance: func(v motion.Variant) []motion.Step {
			child := hidden(v.Distance*2/3, 0)
			if scale {
				child[motion.PropScale] = 0.95
				if v.Blur > 0 {
					child[motion.PropBlur] = v.Blur
				}
			}
			step := fade(children+".*", child, v.Scale(400*ms), motion.Overlap(200*ms))
			step.Stagger = v.Stagger
			return []motion.Step{
				fade("title", hidden(v.Distance, v.Blur), v.Scale(500*ms), motion.Position{}),
				step,
			}
		},
	}
}

func timelineChoreography() motion.Choreography {
	ch := gridChoreography(Timeline, "items", false)
	ch.Variants = timelineVariants
	return ch
}

func contactChoreography() motion.Choreography {
	return motion.Choreography{
		Section:  Contact,
		Variants: contactVariants,
		Entrance: func(v motion.Variant) []motion.Step {
			return []motion.Step{
				fade("title", hidden(v.Distance, v.Blur), v.Scale(500*ms), motion.Position{}),
				fade("form", hidden(v.Distance*2/3, v.Blur), v.Scale(400*ms), motion.Overlap(300*ms)),
				fade("social", hidden(v.Distance*2/3, v.Blur), v.Scale(400*ms), motion.Overlap(200*ms)),
			}
		},
	}
}

func footerChoreography() motion.Choreography {
	return motion.Choreography{
		Section:  Footer,
		Delay:    2500 * ms,
		Variants: footerVariants,
		Entrance: func(v motion.Variant) []motion.Step {
			social := hidden(v.Distance*2/3, 0)
			if v.Blur > 2 {
				social[motion.PropBlur] = v.Blur - 2
			}
			return []motion.Step{
				fade("content", hidden(v.Distance, v.Blur), v.Scale(1000*ms), motion.Position{}),
				fade("social", social, v.Scale(800*ms), motion.Overlap(500*ms)),
			}
		},
		Ambient: func(v motion.Variant) []motion.Step {
			steps := make([]motion.Step, 0, Particles)
			for i, target := range group("particles", Particles) {
				steps = append(steps, motion.Step{
					Target:   target,
					From:     motion.Props{motion.PropY: 0},
					To:       motion.Props{motion.PropY: -20},
					Duration: 3*time.Second + time.Duration(i%4)*500*ms,
					Ease:     "sine.inOut",
					Position: motion.At(time.Duration(i) * v.Stagger),
					Repeat:   -1,
					Yoyo:     true,
				})
			}
			return steps
		},
	}
}

// mainChoreography fades the page in once the loading screen is done.
func mainChoreography() motion.Choreography {
	return motion.Choreography{
		Section:  Main,
		Variants: motion.Variants{motion.Mobile: {}},
		Entrance: func(v motion.Variant) []motion.Step {
			return []motion.Step{{
				Target:   "main",
				From:     motion.Props{motion.PropOpacity: 0},
				To:       motion.Props{motion.PropOpacity: 1},
				Duration: 500 * ms,
				Ease:     "power2.out",
			}}
		},
	}
}
