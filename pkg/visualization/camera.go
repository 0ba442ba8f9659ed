package visualization

import (
	"math"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// Zoom limits
const (
	MinRatio = 0.05
	MaxRatio = 20
)

// Camera is the pan/zoom state of a viewport. X and Y are the graph-space
// point shown at the viewport center; a Ratio below 1 zooms in.
type Camera struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Ratio float64 `json:"ratio"`
}

// NewCamera returns a camera centered on the layout canvas.
func NewCamera(config LayoutConfig) Camera {
	c := config.Center()
	return Camera{X: c.X, Y: c.Y, Ratio: 1}
}

// Pan moves the camera by a graph-space offset scaled by the zoom ratio.
func (c Camera) Pan(dx, dy float64) Camera {
	c.X += dx * c.Ratio
	c.Y += dy * c.Ratio
	return c
}

// Zoom multiplies the ratio by factor, bounded by MinRatio and MaxRatio.
func (c Camera) Zoom(factor float64) Camera {
	if factor <= 0 || math.IsNaN(factor) {
		return c
	}
	c.Ratio = Clamp(c.Ratio*factor, Domain{Min: MinRatio, Max: MaxRatio})
	return c
}

// Viewport projects graph coordinates onto a cols x rows cell grid.
type Viewport struct {
	Cols, Rows int
	// Extent is the graph-space width shown at Ratio 1.
	Extent float64
}

// Project returns the cell of p and whether it lies inside the viewport.
// Terminal cells are roughly twice as tall as wide, so the vertical axis
// is compressed by half.
func (v Viewport) Project(c Camera, p graph.Point) (col, row int, ok bool) {
	if v.Cols <= 0 || v.Rows <= 0 || v.Extent <= 0 {
		return 0, 0, false
	}
	ratio := c.Ratio
	if ratio <= 0 {
		ratio = 1
	}
	scale := float64(v.Cols) / (v.Extent * ratio)
	col = int(math.Round(float64(v.Cols)/2 + (p.X-c.X)*scale))
	row = int(math.Round(float64(v.Rows)/2 + (p.Y-c.Y)*scale/2))
	ok = col >= 0 && col < v.Cols && row >= 0 && row < v.Rows
	return col, row, ok
}
