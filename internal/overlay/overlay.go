// Package overlay renders guidance frames: the scanning grid with the
// turning layer highlighted, direction arrows and a step caption.
package overlay

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/sampler"
)

// Arrow colors: green clockwise, red counter-clockwise, yellow double.
const (
	colorCW        = "#00c800"
	colorCCW       = "#e02020"
	colorDouble    = "#f0e000"
	colorHighlight = "#00ffff"
	colorGrid      = "#ffffff"
	colorBG        = "#202020"
)

// Renderer draws overlay frames at the sampler's frame size.
type Renderer struct {
	width, height int
	grid          image.Rectangle
	background    image.Image
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithGridSize matches the grid to the sampler's grid_size.
func WithGridSize(px int) Option {
	return func(r *Renderer) {
		r.grid = sampler.New(sampler.WithGridSize(px)).GridRect()
	}
}

// WithBackground draws the overlay on top of a captured frame.
func WithBackground(img image.Image) Option {
	return func(r *Renderer) {
		if img != nil {
			r.background = sampler.Normalize(img)
		}
	}
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  sampler.FrameWidth,
		height: sampler.FrameHeight,
		grid:   sampler.New().GridRect(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Region returns the part of the grid that shows the turning layer. B has
// no visible layer and gets the whole grid outline.
func (r *Renderer) Region(face gocube.Face) image.Rectangle {
	g := r.grid
	cell := g.Dx() / 3
	switch face {
	case gocube.FaceU:
		return image.Rect(g.Min.X, g.Min.Y, g.Max.X, g.Min.Y+cell)
	case gocube.FaceD:
		return image.Rect(g.Min.X, g.Max.Y-cell, g.Max.X, g.Max.Y)
	case gocube.FaceL:
		return image.Rect(g.Min.X, g.Min.Y, g.Min.X+cell, g.Max.Y)
	case gocube.FaceR:
		return image.Rect(g.Max.X-cell, g.Min.Y, g.Max.X, g.Max.Y)
	case gocube.FaceF:
		return image.Rect(g.Min.X+cell, g.Min.Y+cell, g.Max.X-cell, g.Max.Y-cell)
	default:
		return g
	}
}

func arrowColor(cue gocube.Cue) string {
	switch {
	case cue.Arrows == 2:
		return colorDouble
	case cue.Direction == gocube.CounterClockwise:
		return colorCCW
	default:
		return colorCW
	}
}

// SVG returns the overlay for an instruction as an SVG document.
func (r *Renderer) SVG(ins gocube.Instruction) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		r.width, r.height, r.width, r.height)

	if r.background == nil {
		fmt.Fprintf(&b, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, r.width, r.height, colorBG)
	}

	g := r.grid
	cell := g.Dx() / 3
	fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="%s" stroke-width="2"/>`,
		g.Min.X, g.Min.Y, g.Dx(), g.Dy(), colorGrid)
	for i := 1; i < 3; i++ {
		x := g.Min.X + i*cell
		y := g.Min.Y + i*cell
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`, x, g.Min.Y, x, g.Max.Y, colorGrid)
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`, g.Min.X, y, g.Max.X, y, colorGrid)
	}

	region := r.Region(ins.Face)
	fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="%s" stroke-width="4"/>`,
		region.Min.X, region.Min.Y, region.Dx(), region.Dy(), colorHighlight)

	clr := arrowColor(ins.Cue)
	for i := 0; i < ins.Cue.Arrows; i++ {
		b.WriteString(r.arrow(ins.Cue.Sweep, region, i, ins.Cue.Arrows, clr))
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// arrow draws arrow i of n for a sweep over region. Straight sweeps run
// along the layer; curls are three quarters of a circle around it.
func (r *Renderer) arrow(sweep gocube.Sweep, region image.Rectangle, i, n int, clr string) string {
	cx := float64(region.Min.X+region.Max.X) / 2
	cy := float64(region.Min.Y+region.Max.Y) / 2
	// Parallel arrows are spread across the layer.
	offset := 0.0
	if n == 2 {
		offset = float64(i*2-1) * float64(r.grid.Dx()) / 18
	}
	half := float64(r.grid.Dx()) * 0.35

	var x1, y1, x2, y2 float64
	switch sweep {
	case gocube.SweepLeft:
		x1, y1, x2, y2 = cx+half, cy+offset, cx-half, cy+offset
	case gocube.SweepRight:
		x1, y1, x2, y2 = cx-half, cy+offset, cx+half, cy+offset
	case gocube.SweepUp:
		x1, y1, x2, y2 = cx+offset, cy+half, cx+offset, cy-half
	case gocube.SweepDown:
		x1, y1, x2, y2 = cx+offset, cy-half, cx+offset, cy+half
	case gocube.SweepCurlCW, gocube.SweepCurlCCW:
		return curl(cx, cy, float64(r.grid.Dx())/4+offset, sweep == gocube.SweepCurlCW, clr)
	default:
		return ""
	}

	return fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="6" stroke-linecap="round"/>`,
		x1, y1, x2, y2, clr) + arrowHead(x2, y2, x2-x1, y2-y1, clr)
}

// curl draws a 270 degree arc starting at the top of the circle.
func curl(cx, cy, radius float64, clockwise bool, clr string) string {
	sx, sy := cx, cy-radius
	var ex, ey, dx, dy float64
	sweepFlag := 1
	if clockwise {
		// Top, right, bottom, ends on the left heading up.
		ex, ey = cx-radius, cy
		dx, dy = 0, -1
	} else {
		sweepFlag = 0
		ex, ey = cx+radius, cy
		dx, dy = 0, -1
	}
	return fmt.Sprintf(`<path d="M %.1f %.1f A %.1f %.1f 0 1 %d %.1f %.1f" fill="none" stroke="%s" stroke-width="6"/>`,
		sx, sy, radius, radius, sweepFlag, ex, ey, clr) + arrowHead(ex, ey, dx, dy, clr)
}

// arrowHead draws a filled triangle at (x, y) pointing along (dx, dy).
func arrowHead(x, y, dx, dy float64, clr string) string {
	l := math.Hypot(dx, dy)
	if l == 0 {
		return ""
	}
	ux, uy := dx/l, dy/l
	const size = 18.0
	bx, by := x-ux*size, y-uy*size
	px, py := -uy*size/2, ux*size/2
	return fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`,
		x+ux*4, y+uy*4, bx+px, by+py, bx-px, by-py, clr)
}

// Caption returns the step line shown under the grid.
func Caption(ins gocube.Instruction) string {
	return fmt.Sprintf("Step %d / %d: %s", ins.Step, ins.Total, ins.Move.Notation())
}

// Render rasterizes the overlay for an instruction.
func (r *Renderer) Render(ins gocube.Instruction) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(r.SVG(ins)))
	if err != nil {
		return nil, fmt.Errorf("parse overlay svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(r.width), float64(r.height))

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if r.background != nil {
		draw.Draw(img, img.Bounds(), r.background, image.Point{}, draw.Src)
	} else {
		draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(r.width, r.height, img, img.Bounds())
	raster := rasterx.NewDasher(r.width, r.height, scanner)
	icon.Draw(raster, 1.0)

	r.drawCaption(img, Caption(ins))
	return img, nil
}

func (r *Renderer) drawCaption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(color.White), Face: face}

	width := drawer.MeasureString(text).Round()
	x := (r.width - width) / 2
	if x < 0 {
		x = 0
	}
	baseline := r.grid.Max.Y + 30

	// Backing box keeps the caption legible on a camera frame.
	box := image.Rect(x-6, baseline-face.Metrics().Ascent.Ceil()-4, x+width+6, baseline+face.Metrics().Descent.Ceil()+4)
	draw.Draw(img, box, image.NewUniform(color.RGBA{0, 0, 0, 200}), image.Point{}, draw.Over)

	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

// WritePNG renders an instruction and encodes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, ins gocube.Instruction) error {
	img, err := r.Render(ins)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteFile renders an instruction into dir as step_NN.png and returns the
// file path.
func (r *Renderer) WriteFile(dir string, ins gocube.Instruction) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create overlay directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("step_%02d.png", ins.Step))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create overlay file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := r.WritePNG(w, ins); err != nil {
		f.Close()
		return "", err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write overlay file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close overlay file: %w", err)
	}
	return path, nil
}
