package motion

import "time"

// Variant is the parameter set a section uses in one Mode. A single
// choreography reads its numbers from the selected variant instead of
// branching per mode.
type Variant struct {
	// Distance is the entrance travel in pixels.
	Distance float64 `json:"distance" yaml:"distance"`
	// Blur is the entrance blur radius in pixels; 0 disables blur.
	Blur float64 `json:"blur" yaml:"blur"`
	// Stagger separates the entrance of grouped children.
	Stagger time.Duration `json:"stagger" yaml:"stagger"`
	// Speed scales every entrance duration; 0 means 1.
	Speed float64 `json:"speed" yaml:"speed"`
	// Parallax is the scroll-linked travel in pixels; 0 disables the tracker.
	Parallax float64 `json:"parallax" yaml:"parallax"`
	Columns  int     `json:"columns" yaml:"columns"`
	Layout   string  `json:"layout" yaml:"layout"`
}

// Scale applies the variant's speed to d.
func (v Variant) Scale(d time.Duration) time.Duration {
	if v.Speed <= 0 {
		return d
	}
	return time.Duration(float64(d) * v.Speed)
}

// Variants holds a section's variant per mode.
type Variants map[Mode]Variant

// For returns the variant for m, falling back to the nearest smaller mode,
// then to the nearest larger one.
func (vs Variants) For(m Mode) Variant {
	if v, ok := vs[m]; ok {
		return v
	}
	for x := m - 1; x >= Mobile; x-- {
		if v, ok := vs[x]; ok {
			return v
		}
	}
	for x := m + 1; x <= Desktop; x++ {
		if v, ok := vs[x]; ok {
			return v
		}
	}
	return Variant{}
}
