package g2d

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrPixelBufferLength is returned when a byte buffer cannot be viewed as
// packed 4-byte pixels.
var ErrPixelBufferLength = errors.New("g2d: pixel buffer length is not a multiple of 4")

// Rgba is a normalized floating-point color.
// Each component is in the range [0, 1]. Used for blending math and
// uniform values.
type Rgba struct {
	R, G, B, A float32
}

// Rgba8 is a color packed as four 8-bit channels in R, G, B, A order.
// It is the exact representation used in vertex attributes and
// framebuffer formats.
type Rgba8 struct {
	R, G, B, A uint8
}

// Bgra8 carries the same channel values as Rgba8 in B, G, R, A byte order,
// as required by most presentation surfaces.
type Bgra8 struct {
	B, G, R, A uint8
}

// NewRgba creates a color from float components.
func NewRgba(r, g, b, a float32) Rgba {
	return Rgba{R: r, G: g, B: b, A: a}
}

// RGB creates an opaque color from float components.
func RGB(r, g, b float32) Rgba {
	return Rgba{R: r, G: g, B: b, A: 1}
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Transparent = NewRgba(0, 0, 0, 0)
)

// Rgba8 converts to the packed representation, rounding each channel to
// the nearest integer in [0, 255].
func (c Rgba) Rgba8() Rgba8 {
	return Rgba8{
		R: unitToByte(c.R),
		G: unitToByte(c.G),
		B: unitToByte(c.B),
		A: unitToByte(c.A),
	}
}

// Alpha returns c with its alpha replaced by a.
func (c Rgba) Alpha(a float32) Rgba {
	c.A = a
	return c
}

// Rgba converts to the normalized representation by dividing each
// channel by 255.
func (c Rgba8) Rgba() Rgba {
	return Rgba{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// Bgra8 reorders the channels for presentation surfaces.
func (c Rgba8) Bgra8() Bgra8 {
	return Bgra8{B: c.B, G: c.G, R: c.R, A: c.A}
}

// Uint32 returns the color as a little-endian packed word, matching the
// byte layout of a UByte4Normalized vertex attribute.
func (c Rgba8) Uint32() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// String returns the color as #rrggbbaa.
func (c Rgba8) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Rgba8 reorders the channels back to R, G, B, A.
func (c Bgra8) Rgba8() Rgba8 {
	return Rgba8{R: c.R, G: c.G, B: c.B, A: c.A}
}

// unitToByte maps [0, 1] to [0, 255] with round-to-nearest.
func unitToByte(v float32) uint8 {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Round(v * 255))
}

// Rgba8sFromBytes converts a tightly packed RGBA byte buffer to colors.
// The buffer is copied element-wise; its length must be a multiple of 4.
func Rgba8sFromBytes(b []byte) ([]Rgba8, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrPixelBufferLength, len(b))
	}
	out := make([]Rgba8, len(b)/4)
	for i := range out {
		p := b[i*4 : i*4+4]
		out[i] = Rgba8{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return out, nil
}

// Rgba8sToBytes packs colors into an RGBA byte buffer.
func Rgba8sToBytes(px []Rgba8) []byte {
	out := make([]byte, len(px)*4)
	for i, c := range px {
		out[i*4+0] = c.R
		out[i*4+1] = c.G
		out[i*4+2] = c.B
		out[i*4+3] = c.A
	}
	return out
}

// Bgra8BytesToRgba8s converts a BGRA byte buffer, as read back from a
// presentation-format texture, to colors.
func Bgra8BytesToRgba8s(b []byte) ([]Rgba8, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrPixelBufferLength, len(b))
	}
	out := make([]Rgba8, len(b)/4)
	for i := range out {
		p := b[i*4 : i*4+4]
		out[i] = Bgra8{B: p[0], G: p[1], R: p[2], A: p[3]}.Rgba8()
	}
	return out, nil
}

// Hex parses a color in one of the forms "#rgb", "#rrggbb" or
// "#rrggbbaa". The leading '#' is optional.
func Hex(s string) (Rgba, error) {
	h := s
	if h != "" && h[0] == '#' {
		h = h[1:]
	}

	var c Rgba8
	c.A = 255

	var err error
	switch len(h) {
	case 3:
		var v [3]uint8
		for i := range v {
			if v[i], err = hexNibble(h[i]); err != nil {
				break
			}
			v[i] *= 17
		}
		c.R, c.G, c.B = v[0], v[1], v[2]
	case 6, 8:
		var v [4]uint8
		v[3] = 255
		for i := 0; i < len(h)/2; i++ {
			hi, e1 := hexNibble(h[i*2])
			lo, e2 := hexNibble(h[i*2+1])
			if err = errors.Join(e1, e2); err != nil {
				break
			}
			v[i] = hi<<4 | lo
		}
		c = Rgba8{R: v[0], G: v[1], B: v[2], A: v[3]}
	default:
		return Rgba{}, fmt.Errorf("g2d: invalid hex color %q", s)
	}
	if err != nil {
		return Rgba{}, fmt.Errorf("g2d: invalid hex color %q: %w", s, err)
	}
	return c.Rgba(), nil
}

func hexNibble(c byte) (uint8, error) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', nil
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, nil
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, fmt.Errorf("bad digit %q", c)
}
