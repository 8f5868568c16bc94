// Command g2dshot renders a YAML scene of shapes and sprites without a
// window and writes it as a PNG or BMP image.
//
//	g2dshot -scene scene.yaml -o out.png [-w 640 -h 480] [-v]
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
	"github.com/gogpu/gputypes"
)

func main() {
	var (
		scenePath = flag.String("scene", "scene.yaml", "scene file")
		output    = flag.String("o", "out.png", "output image (.png or .bmp)")
		width     = flag.Uint("w", 0, "image width, overrides the scene")
		height    = flag.Uint("h", 0, "image height, overrides the scene")
		timeout   = flag.Duration("timeout", 10*time.Second, "readback timeout")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		g2d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	sc, err := LoadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if *width > 0 {
		sc.Width = uint32(*width) //nolint:gosec // flag value
	}
	if *height > 0 {
		sc.Height = uint32(*height) //nolint:gosec // flag value
	}

	dev, err := render.NewDevice(
		render.WithFormat(gputypes.TextureFormatRGBA8Unorm),
		render.WithFenceTimeout(*timeout),
		render.WithLabel("g2dshot"),
	)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	img, err := renderScene(ctx, dev, sc, filepath.Dir(*scenePath))
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := writeImage(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Scene saved to %s (%dx%d)\n", *output, sc.Width, sc.Height)
}

// renderScene renders sc on an offscreen surface of dev. Texture paths are
// resolved against dir.
func renderScene(ctx context.Context, dev *render.Device, sc *Scene, dir string) (*image.RGBA, error) {
	r, err := render.NewRenderer(dev, render.NewOffscreenSurface(), sc.Width, sc.Height)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	s, err := newShot(r)
	if err != nil {
		return nil, err
	}
	defer s.close()
	return s.render(ctx, sc, dir)
}

// writeImage encodes img by the extension of path.
func writeImage(path string, img image.Image) (err error) {
	var encode func(*os.File, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = func(f *os.File, img image.Image) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}

	f, err := os.Create(path) //nolint:gosec // output path is a command line argument
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(f, img)
}
