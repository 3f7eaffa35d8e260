package motion

import (
	"log"
	"math"
	"strconv"
	"strings"
)

// Ease maps linear progress t ∈ [0, 1] to eased progress.
type Ease func(t float64) float64

// DefaultEase is used when a step names no curve or an unknown one.
const DefaultEase = "power2.out"

func easeNone(t float64) float64 { return t }

func powerIn(p float64) Ease {
	return func(t float64) float64 { return math.Pow(t, p) }
}

func powerOut(p float64) Ease {
	return func(t float64) float64 { return 1 - math.Pow(1-t, p) }
}

func powerInOut(p float64) Ease {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2*t, p) / 2
		}
		return 1 - math.Pow(-2*t+2, p)/2
	}
}

func backOut(overshoot float64) Ease {
	c3 := overshoot + 1
	return func(t float64) float64 {
		u := t - 1
		return 1 + c3*u*u*u + overshoot*u*u
	}
}

func sineInOut(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// ParseEase resolves a named curve such as "power2.out", "back.out(1.4)"
// or "none". Unknown names fall back to DefaultEase.
func ParseEase(name string) Ease {
	if ease, ok := lookupEase(name); ok {
		return ease
	}
	log.Printf("motion: unknown ease %q, using %s", name, DefaultEase)
	ease, _ := lookupEase(DefaultEase)
	return ease
}

func lookupEase(name string) (Ease, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEase
	}
	if name == "none" || name == "linear" {
		return easeNone, true
	}

	family, variant, _ := strings.Cut(name, ".")
	arg := ""
	if i := strings.IndexByte(variant, '('); i >= 0 && strings.HasSuffix(variant, ")") {
		arg = variant[i+1 : len(variant)-1]
		variant = variant[:i]
	}

	switch {
	case strings.HasPrefix(family, "power"):
		n, err := strconv.Atoi(strings.TrimPrefix(family, "power"))
		if err != nil || n < 0 || n > 4 {
			return nil, false
		}
		p := float64(n + 1)
		switch variant {
		case "in":
			return powerIn(p), true
		case "out", "":
			return powerOut(p), true
		case "inOut":
			return powerInOut(p), true
		}
	case family == "back" && variant == "out":
		overshoot := 1.70158
		if arg != "" {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, false
			}
			overshoot = v
		}
		return backOut(overshoot), true
	case family == "sine" && variant == "inOut":
		return sineInOut, true
	}
	return nil, false
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
