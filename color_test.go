package g2d

import (
	"errors"
	"testing"
)

func TestRgba8RoundTripExhaustiveChannels(t *testing.T) {
	// Channels convert independently, so covering every value of every
	// channel covers all 256^4 colors.
	for v := 0; v < 256; v++ {
		b := uint8(v)
		c := Rgba8{R: b, G: 255 - b, B: b / 2, A: b ^ 0x5a}
		if got := c.Rgba().Rgba8(); got != c {
			t.Fatalf("Rgba8 %v -> Rgba -> Rgba8 = %v", c, got)
		}
	}
}

func TestRgbaRoundTripWithinTolerance(t *testing.T) {
	const tol = 1.0 / 255
	for i := 0; i <= 1000; i++ {
		f := float32(i) / 1000
		c := Rgba{R: f, G: 1 - f, B: f * f, A: 0.5}
		once := c.Rgba8().Rgba()
		twice := once.Rgba8().Rgba()
		if once != twice {
			t.Fatalf("float round trip not stable: %v then %v", once, twice)
		}
		if d := once.R - c.R; d > tol || d < -tol {
			t.Fatalf("R drifted by %v for %v", d, c)
		}
	}
}

func TestRgbaRounding(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want uint8
	}{
		{"zero", 0, 0},
		{"one", 1, 255},
		{"half rounds up", 0.5, 128},
		{"one step", 1.0 / 255, 1},
		{"negative clamps", -0.3, 0},
		{"above one clamps", 1.7, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rgba{R: tt.in}.Rgba8().R
			if got != tt.want {
				t.Errorf("Rgba{R:%v}.Rgba8().R = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestBgra8ReordersChannels(t *testing.T) {
	c := Rgba8{R: 1, G: 2, B: 3, A: 4}
	b := c.Bgra8()
	if b.B != 3 || b.G != 2 || b.R != 1 || b.A != 4 {
		t.Errorf("Bgra8() = %+v", b)
	}
	if b.Rgba8() != c {
		t.Errorf("Bgra8().Rgba8() = %v, want %v", b.Rgba8(), c)
	}
}

func TestRgba8Uint32(t *testing.T) {
	c := Rgba8{R: 0x11, G: 0x22, B: 0x33, A: 0x44}
	if got := c.Uint32(); got != 0x44332211 {
		t.Errorf("Uint32() = %#x, want 0x44332211", got)
	}
}

func TestRgba8sFromBytes(t *testing.T) {
	px, err := Rgba8sFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("Rgba8sFromBytes: %v", err)
	}
	if len(px) != 2 || px[1] != (Rgba8{5, 6, 7, 8}) {
		t.Errorf("got %v", px)
	}
	if back := Rgba8sToBytes(px); string(back) != string([]byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("Rgba8sToBytes = %v", back)
	}

	_, err = Rgba8sFromBytes([]byte{1, 2, 3})
	if !errors.Is(err, ErrPixelBufferLength) {
		t.Errorf("expected ErrPixelBufferLength, got %v", err)
	}
}

func TestBgra8BytesToRgba8s(t *testing.T) {
	px, err := Bgra8BytesToRgba8s([]byte{3, 2, 1, 4})
	if err != nil {
		t.Fatal(err)
	}
	if px[0] != (Rgba8{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("got %v", px[0])
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Rgba8
		wantErr bool
	}{
		{"#ff0000", Rgba8{255, 0, 0, 255}, false},
		{"00ff0080", Rgba8{0, 255, 0, 128}, false},
		{"#fff", Rgba8{255, 255, 255, 255}, false},
		{"#12", Rgba8{}, true},
		{"#zz0000", Rgba8{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Hex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Hex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && c.Rgba8() != tt.want {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, c.Rgba8(), tt.want)
			}
		})
	}
}
