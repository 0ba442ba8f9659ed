package visualization

import (
	"fmt"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// ColoringMode selects how allele nodes are colored.
type ColoringMode string

const (
	// ColoringSimple paints every allele the same magenta.
	ColoringSimple ColoringMode = "simple"
	// ColoringRisk separates risk (OR > 1) from protective (OR < 1) alleles.
	ColoringRisk ColoringMode = "risk"
)

// Fixed palette
const (
	ColorCategory    = "#0fc405"
	ColorAllele      = "#e871fb"
	ColorNeutral     = "#9e9e9e"
	ColorTransparent = "rgba(0,0,0,0)"

	BorderRisk       = "red"
	BorderProtective = "blue"
)

// DefaultBaseSize is the size of category and disease nodes.
const DefaultBaseSize = 10.0

var (
	alleleCountDomain = Domain{Min: 1, Max: 38}
	pValueDomain      = Domain{Min: 1e-5, Max: 0.05}
	oddsDomain        = Domain{Min: 1, Max: 8}
	unitDomain        = Domain{Min: 0, Max: 1}

	diseaseColor    = NewColorScale(alleleCountDomain, "#eafa05", "#fa6011")
	riskColor       = NewColorScale(oddsDomain, "#fcbba1", "#cb181d")
	protectiveColor = NewColorScale(oddsDomain, "#c6dbef", "#08519c")

	// Smaller p-values draw larger nodes.
	sizeScale = LogScale{Domain: pValueDomain, From: 8, To: 2}
)

// Border is the size encoding of a node.
type Border struct {
	BaseSize    float64
	BorderSize  float64
	BorderColor string
}

// Encoder maps node attributes to visual attributes. It holds no graph
// state; the zero value uses simple coloring.
type Encoder struct {
	mode ColoringMode
}

// NewEncoder creates an encoder with the given allele coloring mode.
func NewEncoder(mode ColoringMode) *Encoder {
	return &Encoder{mode: mode}
}

// ParseColoringMode parses a config value.
func ParseColoringMode(s string) (ColoringMode, error) {
	switch ColoringMode(s) {
	case "", ColoringSimple:
		return ColoringSimple, nil
	case ColoringRisk:
		return ColoringRisk, nil
	}
	return "", fmt.Errorf("unknown allele coloring %q", s)
}

// Color returns the fill color of n.
func (e *Encoder) Color(n graph.Node) string {
	if n.Hidden {
		return ColorTransparent
	}
	switch n.Kind {
	case graph.KindCategory:
		return ColorCategory
	case graph.KindDisease:
		return diseaseColor.Map(float64(n.Disease.AlleleCount))
	case graph.KindAllele:
		if e.mode == ColoringRisk {
			return oddsColor(n.Allele.OddsRatio)
		}
		return ColorAllele
	}
	return ColorNeutral
}

func oddsColor(or float64) string {
	switch {
	case or > 1:
		return riskColor.Map(or)
	case or > 0 && or < 1:
		return protectiveColor.Map(1 / or)
	}
	return ColorNeutral
}

// Border returns the size encoding of n.
func (e *Encoder) Border(n graph.Node) Border {
	if n.Kind != graph.KindAllele {
		return Border{BaseSize: DefaultBaseSize}
	}
	base := sizeScale.Map(n.Allele.PValue)
	color := BorderProtective
	if n.Allele.OddsRatio >= 1 {
		color = BorderRisk
	}
	return Border{
		BaseSize:    base,
		BorderSize:  BorderSize(n.Allele.OddsRatio, base),
		BorderColor: color,
	}
}

// BorderSize encodes the deviation of an odds ratio from 1. The result is
// always within [0.5, base*0.5] for base >= 1.
func BorderSize(or, base float64) float64 {
	var scaled float64
	if or >= 1 {
		scaled = Clamp((or-1)/8, unitDomain)
	} else {
		scaled = Clamp(1/or-1, unitDomain)
	}
	half := base * 0.5
	return Clamp(half*scaled, Domain{Min: 0.5, Max: half})
}

// Style computes the complete style of n.
func (e *Encoder) Style(n graph.Node) graph.Style {
	b := e.Border(n)
	color := e.Color(n)
	borderColor := b.BorderColor
	if borderColor == "" {
		borderColor = color
	}
	return graph.Style{
		Size:        b.BaseSize,
		Color:       color,
		BorderSize:  b.BorderSize,
		BorderColor: borderColor,
	}
}
