package g2d

// Repeat is a texture repeat factor per axis.
// The zero value is not the default; use DefaultRepeat.
type Repeat struct {
	X, Y float32
}

// DefaultRepeat samples a texture exactly once on each axis.
var DefaultRepeat = Repeat{X: 1, Y: 1}

// NewRepeat creates a repeat factor.
func NewRepeat(x, y float32) Repeat {
	return Repeat{X: x, Y: y}
}

// IsDefault reports whether r samples the texture once, treating the zero
// value as the default as well.
func (r Repeat) IsDefault() bool {
	return r == DefaultRepeat || r == Repeat{}
}

// ZDepth is the depth of a sprite in the -1..1 range.
type ZDepth float32

// ZeroDepth is the default depth.
const ZeroDepth ZDepth = 0

// Origin selects the pivot point of a sprite.
type Origin uint8

const (
	// OriginCenter pivots around the center of the sprite. This is the
	// default.
	OriginCenter Origin = iota
	// OriginTopLeft pivots around the top-left corner.
	OriginTopLeft
	// OriginBottomLeft pivots around the bottom-left corner.
	OriginBottomLeft
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginCenter:
		return "Center"
	case OriginTopLeft:
		return "TopLeft"
	case OriginBottomLeft:
		return "BottomLeft"
	default:
		return "Unknown"
	}
}

// Pivot returns the pivot offset for a w x h sprite, measured from its
// top-left corner.
func (o Origin) Pivot(w, h float32) Point {
	switch o {
	case OriginTopLeft:
		return Point{}
	case OriginBottomLeft:
		return Point{Y: h}
	default:
		return Point{X: w / 2, Y: h / 2}
	}
}
