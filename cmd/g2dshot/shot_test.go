package main

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/g2d/render"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

func newTestDevice(t *testing.T) *render.Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})

	d := render.NewDeviceFromHAL(openDev.Device, openDev.Queue, render.WithFormat(gputypes.TextureFormatRGBA8Unorm))
	t.Cleanup(d.Close)
	return d
}

func writeSheet(t *testing.T, dir string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 12, 4))
	for x := range 12 {
		for y := range 4 {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), A: 255})
		}
	}
	if err := writeImage(filepath.Join(dir, "sheet.png"), img); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
}

func TestRenderScene(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)

	sc, err := ParseScene([]byte(testScene))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	img, err := renderScene(ctx, newTestDevice(t), sc, dir)
	if err != nil {
		t.Fatalf("renderScene: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 32) {
		t.Errorf("bounds = %v, want 64x32", img.Bounds())
	}

	out := filepath.Join(dir, "out.bmp")
	if err := writeImage(out, img); err != nil {
		t.Fatalf("writeImage: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("output missing: %v", err)
	}
}

func TestRenderSceneUnknownTexture(t *testing.T) {
	sc, err := ParseScene([]byte("sprites:\n  - texture: missing\n    src: [0, 0, 1, 1]\n"))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if _, err := renderScene(context.Background(), newTestDevice(t), sc, t.TempDir()); err == nil {
		t.Error("expected an error for an unknown texture")
	}
}

func TestRenderSceneRepeatOnCrop(t *testing.T) {
	dir := t.TempDir()
	writeSheet(t, dir)
	sc, err := ParseScene([]byte("textures: {sheet: sheet.png}\nsprites:\n  - texture: sheet\n    src: [0, 0, 4, 4]\n    repeat: [2, 2]\n"))
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	if _, err := renderScene(context.Background(), newTestDevice(t), sc, dir); err == nil {
		t.Error("expected an error for repeat on a cropped texture")
	}
}

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})

	path := filepath.Join(dir, "x.png")
	if err := writeImage(path, img); err != nil {
		t.Fatalf("writeImage: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, g, _, _ := got.At(1, 1).RGBA(); g != 0xffff {
		t.Errorf("pixel (1,1) green = %#x, want 0xffff", g)
	}

	if err := writeImage(filepath.Join(dir, "x.gif"), img); err == nil {
		t.Error("expected an error for .gif")
	}
}
