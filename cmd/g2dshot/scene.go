package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/shape2d"
	"github.com/gogpu/g2d/sprite2d"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
	defaultSides  = 32
)

// Scene is the YAML description of one image.
type Scene struct {
	Width      uint32 `yaml:"width"`
	Height     uint32 `yaml:"height"`
	Background string `yaml:"background"`

	// Time is the playback position of animated sprites.
	Time time.Duration `yaml:"time"`

	// Textures maps texture names to image files, relative to the scene
	// file.
	Textures map[string]string `yaml:"textures"`

	Shapes  []ShapeSpec  `yaml:"shapes"`
	Sprites []SpriteSpec `yaml:"sprites"`
}

// StrokeSpec is a shape outline.
type StrokeSpec struct {
	Width float32 `yaml:"width"`
	Color string  `yaml:"color"`
}

// ShapeSpec is one shape. Exactly one of Line (x1 y1 x2 y2), Rect
// (x1 y1 x2 y2) and Circle (x y radius) is set.
type ShapeSpec struct {
	Line   []float32   `yaml:"line"`
	Rect   []float32   `yaml:"rect"`
	Circle []float32   `yaml:"circle"`
	Sides  uint32      `yaml:"sides"`
	Stroke *StrokeSpec `yaml:"stroke"`
	Fill   string      `yaml:"fill"`
}

// SpriteSpec is one sprite. Frames, when set, animate Src with Delay
// between frames.
type SpriteSpec struct {
	Texture  string        `yaml:"texture"`
	Src      []float32     `yaml:"src"`
	Frames   [][]float32   `yaml:"frames"`
	Delay    time.Duration `yaml:"delay"`
	Position []float32     `yaml:"position"`
	Size     []float32     `yaml:"size"`
	Rotation float32       `yaml:"rotation"`
	Origin   string        `yaml:"origin"`
	Depth    float32       `yaml:"depth"`
	Tint     string        `yaml:"tint"`
	Opacity  *float32      `yaml:"opacity"`
	Repeat   []float32     `yaml:"repeat"`
}

// ParseScene decodes a YAML scene and fills in defaults.
func ParseScene(data []byte) (*Scene, error) {
	var sc Scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if sc.Width == 0 {
		sc.Width = defaultWidth
	}
	if sc.Height == 0 {
		sc.Height = defaultHeight
	}
	if sc.Background == "" {
		sc.Background = "#000000"
	}
	return &sc, nil
}

// LoadScene reads and parses a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a command line argument
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

// BackgroundColor returns the parsed background color.
func (sc *Scene) BackgroundColor() (g2d.Rgba, error) {
	return g2d.Hex(sc.Background)
}

// Build returns the shapes of the scene in drawing order.
func (sc *Scene) Build() ([]shape2d.Shape, error) {
	shapes := make([]shape2d.Shape, 0, len(sc.Shapes))
	for i, s := range sc.Shapes {
		shape, err := s.shape()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

func parseColor(s string, def g2d.Rgba) (g2d.Rgba, error) {
	if s == "" {
		return def, nil
	}
	return g2d.Hex(s)
}

func (s ShapeSpec) style() (shape2d.Stroke, shape2d.Fill, error) {
	stroke := shape2d.NoStroke
	if s.Stroke != nil {
		if s.Stroke.Width < 0 {
			return stroke, shape2d.Fill{}, fmt.Errorf("negative stroke width %v", s.Stroke.Width)
		}
		c, err := parseColor(s.Stroke.Color, g2d.White)
		if err != nil {
			return stroke, shape2d.Fill{}, err
		}
		stroke = shape2d.NewStroke(s.Stroke.Width, c)
	}
	if s.Fill == "" {
		return stroke, shape2d.Empty(), nil
	}
	c, err := g2d.Hex(s.Fill)
	if err != nil {
		return stroke, shape2d.Fill{}, err
	}
	return stroke, shape2d.Solid(c), nil
}

func (s ShapeSpec) shape() (shape2d.Shape, error) {
	set := 0
	for _, v := range [][]float32{s.Line, s.Rect, s.Circle} {
		if v != nil {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of line, rect and circle must be set")
	}

	stroke, fill, err := s.style()
	if err != nil {
		return nil, err
	}
	switch {
	case s.Line != nil:
		if len(s.Line) != 4 {
			return nil, fmt.Errorf("line needs 4 coordinates, got %d", len(s.Line))
		}
		if fill.Kind != shape2d.FillEmpty {
			return nil, errors.New("lines cannot be filled")
		}
		return shape2d.NewLine(s.Line[0], s.Line[1], s.Line[2], s.Line[3], stroke), nil
	case s.Rect != nil:
		if len(s.Rect) != 4 {
			return nil, fmt.Errorf("rect needs 4 coordinates, got %d", len(s.Rect))
		}
		return shape2d.NewRectangle(s.Rect[0], s.Rect[1], s.Rect[2], s.Rect[3], stroke, fill), nil
	default:
		if len(s.Circle) != 3 {
			return nil, fmt.Errorf("circle needs x, y and radius, got %d values", len(s.Circle))
		}
		sides := s.Sides
		if sides == 0 {
			sides = defaultSides
		}
		if sides < 3 {
			return nil, fmt.Errorf("circle needs at least 3 sides, got %d", sides)
		}
		return shape2d.NewCircle(s.Circle[0], s.Circle[1], s.Circle[2], sides, stroke, fill), nil
	}
}

func rect(v []float32, what string) (g2d.Rect, error) {
	if len(v) != 4 {
		return g2d.Rect{}, fmt.Errorf("%s needs 4 coordinates, got %d", what, len(v))
	}
	return g2d.NewRect(v[0], v[1], v[2], v[3]), nil
}

func pair(v []float32, what string, def g2d.Point) (g2d.Point, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		return g2d.Pt(v[0], v[1]), nil
	default:
		return g2d.Point{}, fmt.Errorf("%s needs 2 values, got %d", what, len(v))
	}
}

func parseOrigin(s string) (g2d.Origin, error) {
	switch s {
	case "", "center":
		return g2d.OriginCenter, nil
	case "top-left":
		return g2d.OriginTopLeft, nil
	case "bottom-left":
		return g2d.OriginBottomLeft, nil
	default:
		return 0, fmt.Errorf("unknown origin %q", s)
	}
}

// sprite returns the sprite at scene time t. The source rectangle is the
// current frame of the animation when Frames is set.
func (s SpriteSpec) sprite(t time.Duration) (sprite2d.Sprite, error) {
	var src g2d.Rect
	if len(s.Frames) > 0 {
		frames := make([]g2d.Rect, len(s.Frames))
		for i, f := range s.Frames {
			r, err := rect(f, fmt.Sprintf("frame %d", i))
			if err != nil {
				return sprite2d.Sprite{}, err
			}
			frames[i] = r
		}
		anim := g2d.NewAnimation(frames, s.Delay)
		anim.Step(t)
		src = anim.Val()
	} else {
		r, err := rect(s.Src, "src")
		if err != nil {
			return sprite2d.Sprite{}, err
		}
		src = r
	}

	pos, err := pair(s.Position, "position", g2d.Point{})
	if err != nil {
		return sprite2d.Sprite{}, err
	}
	size, err := pair(s.Size, "size", g2d.Pt(src.Width(), src.Height()))
	if err != nil {
		return sprite2d.Sprite{}, err
	}
	rep, err := pair(s.Repeat, "repeat", g2d.Pt(1, 1))
	if err != nil {
		return sprite2d.Sprite{}, err
	}
	origin, err := parseOrigin(s.Origin)
	if err != nil {
		return sprite2d.Sprite{}, err
	}
	tint, err := parseColor(s.Tint, g2d.White)
	if err != nil {
		return sprite2d.Sprite{}, err
	}
	opacity := float32(1)
	if s.Opacity != nil {
		opacity = *s.Opacity
	}

	return sprite2d.Sprite{
		Src: src,
		Transform: sprite2d.Transform{
			Position: pos,
			Rotation: s.Rotation,
			Size:     size,
			Origin:   origin,
		},
		Depth:   g2d.ZDepth(s.Depth),
		Tint:    tint,
		Opacity: opacity,
		Repeat:  g2d.NewRepeat(rep.X, rep.Y),
	}, nil
}
