// Package sampler reads captured camera frames and measures the nine
// sticker colors of the cube face held inside the scanning grid.
package sampler

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	gocube "github.com/SeamusWaldron/gocube_vision"
)

// Frame geometry. Frames of any other size are rescaled first.
const (
	FrameWidth      = 640
	FrameHeight     = 480
	DefaultGridSize = 200
)

// ErrCapture is wrapped by every failure to obtain samples from a frame.
var ErrCapture = errors.New("sampler: capture failed")

// frameExtensions are tried in order when looking up a face frame in a
// directory.
var frameExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".webp"}

// Sampler measures faces in frames.
type Sampler struct {
	gridSize int
	logger   *zap.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithGridSize sets the side of the centered grid in pixels.
func WithGridSize(px int) Option {
	return func(s *Sampler) {
		if px > 0 {
			s.gridSize = px
		}
	}
}

// WithLogger sets the logger used for per-face diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a sampler.
func New(opts ...Option) *Sampler {
	s := &Sampler{gridSize: DefaultGridSize, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GridRect returns the scanning grid within a normalized frame.
func (s *Sampler) GridRect() image.Rectangle {
	x := (FrameWidth - s.gridSize) / 2
	y := (FrameHeight - s.gridSize) / 2
	return image.Rect(x, y, x+s.gridSize, y+s.gridSize)
}

// Normalize rescales a frame to FrameWidth x FrameHeight.
func Normalize(img image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	if img.Bounds().Dx() == FrameWidth && img.Bounds().Dy() == FrameHeight {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// SampleImage returns the nine cell samples of a frame in row-major order.
// Each sample averages the inner part of its cell, leaving a tenth of the
// cell on every side to stay clear of grid lines and sticker borders.
func (s *Sampler) SampleImage(img image.Image) (gocube.FaceScan, error) {
	var fs gocube.FaceScan
	if img == nil || img.Bounds().Empty() {
		return fs, fmt.Errorf("%w: empty frame", ErrCapture)
	}
	if s.gridSize > FrameWidth || s.gridSize > FrameHeight {
		return fs, fmt.Errorf("%w: grid of %dpx does not fit the frame", ErrCapture, s.gridSize)
	}

	frame := Normalize(img)
	grid := s.GridRect()
	cell := s.gridSize / 3
	margin := cell / 10

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			x := grid.Min.X + col*cell
			y := grid.Min.Y + row*cell
			roi := image.Rect(x+margin, y+margin, x+cell-margin, y+cell-margin)
			fs[row*3+col] = meanHSV(frame, roi)
		}
	}
	return fs, nil
}

// meanHSV averages a region in RGB and converts the mean. Averaging RGB
// keeps reds that straddle hue 0 from collapsing toward cyan.
func meanHSV(img *image.RGBA, roi image.Rectangle) gocube.HSV {
	var r, g, b, n uint64
	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r += uint64(c.R)
			g += uint64(c.G)
			b += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return gocube.HSV{}
	}
	return gocube.HSVFromRGB(uint8(r/n), uint8(g/n), uint8(b/n))
}

// SampleReader decodes a frame (PNG, JPEG, BMP or WebP) and samples it.
func (s *Sampler) SampleReader(r io.Reader) (gocube.FaceScan, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return gocube.FaceScan{}, fmt.Errorf("%w: decode frame: %v", ErrCapture, err)
	}
	s.logger.Debug("frame decoded",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return s.SampleImage(img)
}

// SampleFile samples the frame stored at path.
func (s *Sampler) SampleFile(path string) (gocube.FaceScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocube.FaceScan{}, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	defer f.Close()

	fs, err := s.SampleReader(f)
	if err != nil {
		return fs, fmt.Errorf("%s: %w", path, err)
	}
	return fs, nil
}

// SampleFiles samples one frame per face, in face order. A face without a
// path is reported as an incomplete scan.
func (s *Sampler) SampleFiles(paths map[gocube.Face]string) (*gocube.ScanSet, error) {
	set := gocube.NewScanSet()
	var missing []gocube.Face

	for _, f := range gocube.FaceOrder {
		path, ok := paths[f]
		if !ok || path == "" {
			missing = append(missing, f)
			continue
		}
		fs, err := s.SampleFile(path)
		if err != nil {
			return nil, fmt.Errorf("face %s: %w", f, err)
		}
		if err := set.Add(f, fs); err != nil {
			return nil, err
		}
		s.logger.Info("face sampled", zap.String("face", string(f)), zap.String("path", path))
	}

	if len(missing) > 0 {
		return nil, &gocube.IncompleteScanError{Missing: missing}
	}
	return set, nil
}

// FindFrames looks for one frame per face in dir, named after the face
// letter (U.png, r.jpg, ...). Faces without a frame are left out.
func FindFrames(dir string) (map[gocube.Face]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			byName[strings.ToLower(e.Name())] = e.Name()
		}
	}

	paths := make(map[gocube.Face]string, 6)
	for _, f := range gocube.FaceOrder {
		for _, ext := range frameExtensions {
			if name, ok := byName[strings.ToLower(string(f))+ext]; ok {
				paths[f] = filepath.Join(dir, name)
				break
			}
		}
	}
	return paths, nil
}

// SampleDir samples the six face frames found in dir.
func (s *Sampler) SampleDir(dir string) (*gocube.ScanSet, error) {
	paths, err := FindFrames(dir)
	if err != nil {
		return nil, err
	}
	return s.SampleFiles(paths)
}
