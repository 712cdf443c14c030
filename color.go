package gocube

import (
	"encoding/json"
	"fmt"
	"math"
)

// HSV is one measured color sample on the OpenCV scale:
// H in [0,180), S and V in [0,255].
type HSV struct {
	H, S, V float64
}

// Scale maxima for the OpenCV HSV representation.
const (
	HueMax   = 180.0
	SatMax   = 255.0
	ValueMax = 255.0
)

// hueWeight doubles the influence of hue relative to saturation and value.
const hueWeight = 2.0

// MarshalJSON encodes the sample as [h, s, v].
func (c HSV) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.H, c.S, c.V})
}

// UnmarshalJSON decodes a [h, s, v] triplet.
func (c *HSV) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 3 {
		return fmt.Errorf("hsv sample must have 3 components, got %d", len(v))
	}
	c.H, c.S, c.V = v[0], v[1], v[2]
	return nil
}

func (c HSV) String() string {
	return fmt.Sprintf("H=%.1f S=%.1f V=%.1f", c.H, c.S, c.V)
}

// Distance is the Euclidean distance between two samples in normalized
// HSV space. Hue is circular and weighted double.
func Distance(a, b HSV) float64 {
	dh := math.Abs(a.H - b.H)
	dh = math.Min(dh, HueMax-dh) / (HueMax / 2) * hueWeight
	ds := (a.S - b.S) / SatMax
	dv := (a.V - b.V) / ValueMax
	return math.Sqrt(dh*dh + ds*ds + dv*dv)
}

// HSVFromRGB converts 8-bit RGB components to an OpenCV-scale sample.
func HSVFromRGB(r, g, b uint8) HSV {
	rf, gf, bf := float64(r), float64(g), float64(b)
	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	delta := maxC - minC

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case maxC == gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if maxC > 0 {
		s = delta / maxC * SatMax
	}

	return HSV{H: h / 2, S: s, V: maxC}
}

// RGB converts the sample back to 8-bit RGB, for display.
func (c HSV) RGB() (r, g, b uint8) {
	h := math.Mod(c.H*2, 360)
	if h < 0 {
		h += 360
	}
	s := c.S / SatMax
	v := c.V / ValueMax

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = chroma, x, 0
	case h < 120:
		rf, gf, bf = x, chroma, 0
	case h < 180:
		rf, gf, bf = 0, chroma, x
	case h < 240:
		rf, gf, bf = 0, x, chroma
	case h < 300:
		rf, gf, bf = x, 0, chroma
	default:
		rf, gf, bf = chroma, 0, x
	}

	to8 := func(f float64) uint8 {
		return uint8(math.Round((f + m) * 255))
	}
	return to8(rf), to8(gf), to8(bf)
}

// Hex returns the display color as #rrggbb.
func (c HSV) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Color is a classified facelet color. Colors carry no fixed hue: each one
// is "the color of that face's center", so ColorU is whatever the U center
// looked like during the scan.
type Color byte

const (
	ColorU Color = 0
	ColorR Color = 1
	ColorF Color = 2
	ColorD Color = 3
	ColorL Color = 4
	ColorB Color = 5

	// ColorNone is returned when no color applies. It is not Valid.
	ColorNone Color = 0xFF
)

// Face returns the face whose center defines this color.
func (c Color) Face() Face {
	if int(c) < len(FaceOrder) {
		return FaceOrder[c]
	}
	return ""
}

// Valid reports whether c is one of the six colors.
func (c Color) Valid() bool {
	return c <= ColorB
}

func (c Color) String() string {
	if f := c.Face(); f != "" {
		return string(f)
	}
	return "?"
}

// ColorOf returns the color seeded by the given face's center.
func ColorOf(f Face) Color {
	return Color(f.Index())
}

// ParseColor maps a face letter to its color.
func ParseColor(b byte) (Color, bool) {
	i := Face(string(b)).Index()
	if i < 0 {
		return 0, false
	}
	return Color(i), true
}

// Nominal returns the conventional color name of a face on a standard
// scheme. Only used for labels; classification never relies on it.
func (c Color) Nominal() string {
	switch c {
	case ColorU:
		return "white"
	case ColorR:
		return "red"
	case ColorF:
		return "green"
	case ColorD:
		return "yellow"
	case ColorL:
		return "orange"
	case ColorB:
		return "blue"
	default:
		return "unknown"
	}
}
