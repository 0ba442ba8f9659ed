package visualization

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Domain is a closed numeric interval [Min, Max].
type Domain struct {
	Min float64
	Max float64
}

// Clamp bounds v to d. It is total: NaN resolves to d.Min, and ±Inf to the
// nearest bound.
func Clamp(v float64, d Domain) float64 {
	if math.IsNaN(v) {
		return d.Min
	}
	return math.Max(d.Min, math.Min(d.Max, v))
}

// LogScale maps a positive domain onto a numeric range logarithmically.
// Inputs are clamped first, so the logarithm never sees a value outside
// the domain.
type LogScale struct {
	Domain   Domain
	From, To float64
}

// Map returns the scaled value of v.
func (s LogScale) Map(v float64) float64 {
	return s.From + logPosition(v, s.Domain)*(s.To-s.From)
}

// ColorScale maps a positive domain onto an RGB ramp logarithmically.
type ColorScale struct {
	Domain   Domain
	From, To colorful.Color
}

// NewColorScale builds a ramp between two hex colors.
func NewColorScale(d Domain, from, to string) ColorScale {
	return ColorScale{Domain: d, From: mustHex(from), To: mustHex(to)}
}

// mustHex parses a hex color literal and panics on malformed input.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("visualization: bad color %q: %v", s, err))
	}
	return c
}

// Map returns the hex color for v.
func (s ColorScale) Map(v float64) string {
	return s.From.BlendRgb(s.To, logPosition(v, s.Domain)).Clamped().Hex()
}

// logPosition returns where v falls in d on a log axis, in [0, 1].
func logPosition(v float64, d Domain) float64 {
	lo, hi := math.Log(d.Min), math.Log(d.Max)
	if hi == lo {
		return 0
	}
	return (math.Log(Clamp(v, d)) - lo) / (hi - lo)
}
