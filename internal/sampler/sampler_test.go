package sampler

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	gocube "github.com/SeamusWaldron/gocube_vision"
)

var stickerRGB = map[gocube.Color]color.RGBA{
	gocube.ColorU: {240, 240, 235, 255}, // white
	gocube.ColorR: {200, 20, 30, 255},   // red
	gocube.ColorF: {20, 160, 60, 255},   // green
	gocube.ColorD: {230, 210, 20, 255},  // yellow
	gocube.ColorL: {250, 120, 10, 255},  // orange
	gocube.ColorB: {20, 60, 200, 255},   // blue
}

// faceFrame paints a frame of the given size with the nine stickers laid
// out on the default grid, scaled to the frame, and black grid lines.
func faceFrame(w, h int, stickers [9]gocube.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	sx := float64(w) / FrameWidth
	sy := float64(h) / FrameHeight

	grid := New().GridRect()
	cell := DefaultGridSize / 3
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := int(float64(x) / sx)
			fy := int(float64(y) / sy)
			c := color.RGBA{40, 40, 40, 255}
			if image.Pt(fx, fy).In(grid) {
				col := (fx - grid.Min.X) / cell
				row := (fy - grid.Min.Y) / cell
				if col > 2 {
					col = 2
				}
				if row > 2 {
					row = 2
				}
				c = stickerRGB[stickers[row*3+col]]
				if (fx-grid.Min.X)%cell == 0 || (fy-grid.Min.Y)%cell == 0 {
					c = color.RGBA{0, 0, 0, 255}
				}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func stickersOf(s gocube.State, f gocube.Face) [9]gocube.Color {
	return s.Face(f)
}

func closeTo(a gocube.HSV, c color.RGBA) bool {
	want := gocube.HSVFromRGB(c.R, c.G, c.B)
	return gocube.Distance(a, want) < 0.05
}

func TestGridRect(t *testing.T) {
	got := New().GridRect()
	want := image.Rect(220, 140, 420, 340)
	if got != want {
		t.Errorf("GridRect() = %v, want %v", got, want)
	}

	if got := New(WithGridSize(300)).GridRect(); got.Dx() != 300 || got.Min.X != 170 {
		t.Errorf("GridRect(300) = %v", got)
	}
}

func TestSampleImage(t *testing.T) {
	stickers := [9]gocube.Color{
		gocube.ColorU, gocube.ColorR, gocube.ColorF,
		gocube.ColorD, gocube.ColorL, gocube.ColorB,
		gocube.ColorR, gocube.ColorU, gocube.ColorD,
	}

	for _, size := range []image.Point{{640, 480}, {1280, 960}, {320, 240}} {
		fs, err := New().SampleImage(faceFrame(size.X, size.Y, stickers))
		if err != nil {
			t.Fatalf("%v: SampleImage error = %v", size, err)
		}
		for i, c := range stickers {
			if !closeTo(fs[i], stickerRGB[c]) {
				t.Errorf("%v: cell %d = %v, want about %v", size, i, fs[i], stickerRGB[c])
			}
		}
	}
}

func TestSampleImage_Empty(t *testing.T) {
	_, err := New().SampleImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !errors.Is(err, ErrCapture) {
		t.Errorf("error = %v, want ErrCapture", err)
	}

	_, err = New(WithGridSize(600)).SampleImage(image.NewRGBA(image.Rect(0, 0, 640, 480)))
	if !errors.Is(err, ErrCapture) {
		t.Errorf("oversized grid: error = %v, want ErrCapture", err)
	}
}

func TestSampleReader_Corrupt(t *testing.T) {
	_, err := New().SampleReader(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, ErrCapture) {
		t.Errorf("error = %v, want ErrCapture", err)
	}
}

func TestSampleFile_Missing(t *testing.T) {
	_, err := New().SampleFile(filepath.Join(t.TempDir(), "U.png"))
	if !errors.Is(err, ErrCapture) {
		t.Errorf("error = %v, want ErrCapture", err)
	}
}

func writeFrames(t *testing.T, dir string, state gocube.State, skip gocube.Face) {
	t.Helper()
	for _, f := range gocube.FaceOrder {
		if f == skip {
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, faceFrame(FrameWidth, FrameHeight, stickersOf(state, f))); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, string(f)+".png"), buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSampleDir_BuildsState(t *testing.T) {
	cube := gocube.NewCube()
	cube.ApplyMoves(gocube.TPerm)
	want := cube.State()

	dir := t.TempDir()
	writeFrames(t, dir, want, "")

	set, err := New().SampleDir(dir)
	if err != nil {
		t.Fatalf("SampleDir error = %v", err)
	}

	got, err := gocube.BuildState(set)
	if err != nil {
		t.Fatalf("BuildState error = %v", err)
	}
	if got != want {
		t.Errorf("BuildState() = %s, want %s", got, want)
	}
}

func TestSampleDir_MissingFace(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, gocube.NewCube().State(), gocube.FaceD)

	_, err := New().SampleDir(dir)
	var ise *gocube.IncompleteScanError
	if !errors.As(err, &ise) || len(ise.Missing) != 1 || ise.Missing[0] != gocube.FaceD {
		t.Errorf("error = %v, want missing D", err)
	}
}

func TestMeanHSV_RedAcrossZero(t *testing.T) {
	// Half the pixels slightly magenta-red, half slightly orange-red.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				img.SetRGBA(x, y, color.RGBA{200, 0, 10, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{200, 10, 0, 255})
			}
		}
	}
	hsv := meanHSV(img, img.Bounds())
	if math.Min(hsv.H, gocube.HueMax-hsv.H) > 3 {
		t.Errorf("mean hue = %.1f, want near 0", hsv.H)
	}
}
