package main

import (
	"strings"
	"testing"
	"time"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/shape2d"
)

const testScene = `
width: 64
height: 32
background: "#102030"
time: 250ms
textures:
  sheet: sheet.png
shapes:
  - line: [0, 0, 10, 10]
    stroke: {width: 2, color: "#ff0000"}
  - rect: [0, 0, 10, 10]
    stroke: {width: 2, color: "#ff0000"}
    fill: "#0000ff"
  - circle: [32, 16, 8]
    sides: 12
    fill: "#00ff00"
sprites:
  - texture: sheet
    frames: [[0, 0, 4, 4], [4, 0, 8, 4], [8, 0, 12, 4]]
    delay: 100ms
    position: [5, 6]
    size: [8, 8]
    origin: top-left
    opacity: 0.5
`

func TestParseScene(t *testing.T) {
	sc, err := ParseScene([]byte(testScene))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if sc.Width != 64 || sc.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", sc.Width, sc.Height)
	}
	if sc.Time != 250*time.Millisecond {
		t.Errorf("time = %v, want 250ms", sc.Time)
	}
	if sc.Textures["sheet"] != "sheet.png" {
		t.Errorf("textures = %v", sc.Textures)
	}
	bg, err := sc.BackgroundColor()
	if err != nil || bg.Rgba8() != (g2d.Rgba8{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("background = %v, %v", bg, err)
	}

	shapes, err := sc.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []int{6, 30, 3*12 + 3}
	if len(shapes) != len(want) {
		t.Fatalf("got %d shapes, want %d", len(shapes), len(want))
	}
	for i, s := range shapes {
		if got := len(shape2d.Tessellate(s)); got != want[i] {
			t.Errorf("shape %d: %d vertices, want %d", i, got, want[i])
		}
	}
}

func TestSceneDefaults(t *testing.T) {
	sc, err := ParseScene([]byte("shapes: []\n"))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if sc.Width != defaultWidth || sc.Height != defaultHeight || sc.Background != "#000000" {
		t.Errorf("defaults = %dx%d %q", sc.Width, sc.Height, sc.Background)
	}

	sc, err = ParseScene([]byte("shapes:\n  - circle: [1, 2, 3]\n    fill: \"#fff\"\n"))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	shapes, err := sc.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c := shapes[0].(shape2d.Circle); c.Sides != defaultSides {
		t.Errorf("sides = %d, want %d", c.Sides, defaultSides)
	}
}

func TestInvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no kind", "shapes:\n  - fill: \"#fff\"\n", "exactly one"},
		{"two kinds", "shapes:\n  - line: [0, 0, 1, 1]\n    rect: [0, 0, 1, 1]\n", "exactly one"},
		{"short line", "shapes:\n  - line: [0, 0, 1]\n", "4 coordinates"},
		{"filled line", "shapes:\n  - line: [0, 0, 1, 1]\n    fill: \"#fff\"\n", "cannot be filled"},
		{"few sides", "shapes:\n  - circle: [0, 0, 1]\n    sides: 2\n", "at least 3 sides"},
		{"bad color", "shapes:\n  - rect: [0, 0, 1, 1]\n    fill: \"#ggg\"\n", "invalid hex color"},
		{"negative stroke", "shapes:\n  - rect: [0, 0, 1, 1]\n    stroke: {width: -1}\n", "negative stroke"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := ParseScene([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseScene: %v", err)
			}
			_, err = sc.Build()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseSceneSyntaxError(t *testing.T) {
	if _, err := ParseScene([]byte("width: [")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSpriteAnimation(t *testing.T) {
	sc, err := ParseScene([]byte(testScene))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	spec := sc.Sprites[0]

	tests := []struct {
		at   time.Duration
		want g2d.Rect
	}{
		{0, g2d.NewRect(0, 0, 4, 4)},
		{150 * time.Millisecond, g2d.NewRect(4, 0, 8, 4)},
		{250 * time.Millisecond, g2d.NewRect(8, 0, 12, 4)},
		{300 * time.Millisecond, g2d.NewRect(0, 0, 4, 4)},
	}
	for _, tt := range tests {
		sp, err := spec.sprite(tt.at)
		if err != nil {
			t.Fatalf("sprite: %v", err)
		}
		if sp.Src != tt.want {
			t.Errorf("at %v: src = %v, want %v", tt.at, sp.Src, tt.want)
		}
	}

	sp, _ := spec.sprite(0)
	if sp.Transform.Origin != g2d.OriginTopLeft || sp.Transform.Position != g2d.Pt(5, 6) || sp.Transform.Size != g2d.Pt(8, 8) {
		t.Errorf("transform = %+v", sp.Transform)
	}
	if sp.Opacity != 0.5 || sp.Tint != g2d.White || !sp.Repeat.IsDefault() {
		t.Errorf("sprite = %+v", sp)
	}
}

func TestSpriteErrors(t *testing.T) {
	tests := []struct {
		name string
		spec SpriteSpec
	}{
		{"no src", SpriteSpec{}},
		{"bad frame", SpriteSpec{Frames: [][]float32{{0, 0, 1}}}},
		{"bad origin", SpriteSpec{Src: []float32{0, 0, 1, 1}, Origin: "middle"}},
		{"bad position", SpriteSpec{Src: []float32{0, 0, 1, 1}, Position: []float32{1}}},
		{"bad tint", SpriteSpec{Src: []float32{0, 0, 1, 1}, Tint: "red"}},
	}
	for _, tt := range tests {
		if _, err := tt.spec.sprite(0); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
