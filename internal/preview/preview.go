// Package preview maps the horizontal footprint of sliced scene objects
// and placement markers into 2D screen-space draw primitives. The output
// is data for a rendering layer, not pixels.
package preview

import (
	"math"

	"github.com/avollmer/sceneslice/internal/models"
)

const (
	// Padding is the world-unit margin added on every side of the bounds.
	Padding = 0.5
	// MinSpan is the floor for either padded span, preventing a zero
	// division when everything stacks on one point.
	MinSpan = 1.0
	// MarkerWorldRadius is the nominal world-space footprint of a
	// point-only marker when computing bounds.
	MarkerWorldRadius = 0.25
	// MarkerScreenRadius is the fixed screen radius markers are drawn at.
	MarkerScreenRadius = 5.0
)

// Viewport describes the screen rectangle available for the preview.
type Viewport struct {
	OriginX float64
	OriginY float64
	Width   float64
	Height  float64
}

// Rect is a filled screen-space rectangle for a sized object. X/Y is the
// top-left corner.
type Rect struct {
	ObjectID   string  `json:"objectId"`
	ObjectType string  `json:"objectType"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Disc is a screen-space disc for a point-only marker.
type Disc struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Highlight bool    `json:"highlight"`
}

// Projection is the result of projecting a slice into a viewport.
// Empty is set when there were no positions at all; the other fields are
// only meaningful when Empty is false.
type Projection struct {
	Empty bool    `json:"empty"`
	Scale float64 `json:"scale"`
	Rects []Rect  `json:"rects,omitempty"`
	Discs []Disc  `json:"discs,omitempty"`
}

// bounds is the transient axis-aligned (x,z) rectangle the projection is
// computed from. It is never serialized.
type bounds struct {
	minX, maxX float64
	minZ, maxZ float64
	any        bool
}

func (b *bounds) add(x, z, halfW, halfD float64) {
	if !b.any {
		b.minX, b.maxX = x-halfW, x+halfW
		b.minZ, b.maxZ = z-halfD, z+halfD
		b.any = true
		return
	}
	b.minX = math.Min(b.minX, x-halfW)
	b.maxX = math.Max(b.maxX, x+halfW)
	b.minZ = math.Min(b.minZ, z-halfD)
	b.maxZ = math.Max(b.maxZ, z+halfD)
}

// Project computes the uniform-scale screen mapping for the given sliced
// objects and markers. With no positions at all it returns an explicit
// empty projection instead of a degenerate rectangle.
func Project(objects []models.SceneObject, markers []models.Marker, vp Viewport) Projection {
	var b bounds
	for _, obj := range objects {
		b.add(obj.Position.X, obj.Position.Z, obj.Dimensions.X/2, obj.Dimensions.Z/2)
	}
	for _, m := range markers {
		b.add(m.Position.X, m.Position.Z, MarkerWorldRadius, MarkerWorldRadius)
	}
	if !b.any {
		return Projection{Empty: true}
	}

	minX := b.minX - Padding
	minZ := b.minZ - Padding
	spanX := (b.maxX + Padding) - minX
	spanZ := (b.maxZ + Padding) - minZ
	if spanX < MinSpan {
		spanX = MinSpan
	}
	if spanZ < MinSpan {
		spanZ = MinSpan
	}

	// One uniform scale keeps the aspect ratio of the floor plan.
	scale := math.Min(vp.Width/spanX, vp.Height/spanZ)

	toScreen := func(x, z float64) (float64, float64) {
		sx := vp.OriginX + (x-minX)*scale
		// Screen Y grows downward while world depth does not.
		sy := vp.OriginY + vp.Height - (z-minZ)*scale
		return sx, sy
	}

	p := Projection{Scale: scale}
	for _, obj := range objects {
		cx, cy := toScreen(obj.Position.X, obj.Position.Z)
		w := obj.Dimensions.X * scale
		h := obj.Dimensions.Z * scale
		p.Rects = append(p.Rects, Rect{
			ObjectID:   obj.ID,
			ObjectType: obj.Type,
			X:          cx - w/2,
			Y:          cy - h/2,
			Width:      w,
			Height:     h,
		})
	}
	for _, m := range markers {
		cx, cy := toScreen(m.Position.X, m.Position.Z)
		p.Discs = append(p.Discs, Disc{
			ID:        m.ID,
			X:         cx,
			Y:         cy,
			Radius:    MarkerScreenRadius,
			Highlight: m.Highlight,
		})
	}
	return p
}
