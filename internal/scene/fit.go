package scene

import (
	"math"

	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
)

// Auto-zoom parameters.
const (
	fitPadding  = 40.0 // pixels around the bounded nodes
	fitScaleMin = 1.0
	fitScaleMax = 6.0
)

// Bounds is an axis-aligned bounding box in map coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Extend grows the bounds to include a point.
func (b *Bounds) Extend(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// EmptyBounds returns bounds that any first Extend will replace.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Empty reports whether no point was ever extended into the bounds.
func (b Bounds) Empty() bool { return b.MinX > b.MaxX }

// Transform is a zoom/pan assignment: screen = map*Scale + Translate.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
}

// Identity is the unzoomed transform.
func Identity() Transform { return Transform{Scale: 1} }

// FitTransform computes the zoom-to-fit transform for the bounds in a
// viewport: padded by 40px on each side, scale clamped to [1, 6], centered.
// Empty bounds yield the identity transform.
func FitTransform(b Bounds, viewportW, viewportH float64) Transform {
	if b.Empty() || viewportW <= 0 || viewportH <= 0 {
		return Identity()
	}

	w := b.MaxX - b.MinX
	h := b.MaxY - b.MinY

	scale := fitScaleMax
	if w > 0 || h > 0 {
		sx, sy := math.Inf(1), math.Inf(1)
		if w > 0 {
			sx = (viewportW - 2*fitPadding) / w
		}
		if h > 0 {
			sy = (viewportH - 2*fitPadding) / h
		}
		scale = math.Min(sx, sy)
	}
	scale = math.Max(fitScaleMin, math.Min(fitScaleMax, scale))

	cx := (b.MinX + b.MaxX) / 2
	cy := (b.MinY + b.MaxY) / 2
	return Transform{
		Scale:      scale,
		TranslateX: viewportW/2 - scale*cx,
		TranslateY: viewportH/2 - scale*cy,
	}
}

// FitToEdges bounds the primary zone plus every visible partner node and
// computes the auto-zoom transform. The caller tracks which primaries have
// already been auto-zoomed; this function is pure.
func FitToEdges(reg *registry.Registry, primary model.ZoneID, edges []FlowEdge, viewportW, viewportH float64) Transform {
	b := EmptyBounds()
	if c, ok := reg.CentroidOf(primary); ok {
		b.Extend(c.X(), c.Y())
	}
	for _, e := range edges {
		b.Extend(e.ToX, e.ToY)
		b.Extend(e.FromX, e.FromY)
	}
	return FitTransform(b, viewportW, viewportH)
}
