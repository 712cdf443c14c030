package gocube

import (
	"fmt"
	"math"
)

// tieEpsilon is the distance difference under which two references are
// considered equally close.
const tieEpsilon = 1e-9

// Reference binds a color label to the sample that defines it.
type Reference struct {
	Color  Color
	Sample HSV
}

// Classifier maps samples to the nearest of six reference colors.
// Classification is relative: references come from the scanned centers, not
// from fixed hue bins, so it tolerates cube palettes and lighting.
// A Classifier is immutable once built. Build one with NewClassifier or
// FitClassifier; the zero value has no references and classifies every
// sample as ColorNone.
type Classifier struct {
	refs []Reference
}

// NewClassifier builds a classifier from six references with distinct
// colors. The order of refs is the tie-break order.
func NewClassifier(refs []Reference) (*Classifier, error) {
	if len(refs) != 6 {
		return nil, fmt.Errorf("%w: need 6 references, got %d", ErrIncompleteScan, len(refs))
	}

	var seen [6]bool
	for _, r := range refs {
		if !r.Color.Valid() {
			return nil, fmt.Errorf("gocube: invalid reference color %d", r.Color)
		}
		if seen[r.Color] {
			return nil, fmt.Errorf("gocube: duplicate reference for color %s", r.Color)
		}
		seen[r.Color] = true
	}

	c := &Classifier{refs: make([]Reference, len(refs))}
	copy(c.refs, refs)
	return c, nil
}

// FitClassifier seeds the references from the six face centers, taken in
// FaceOrder (the order faces are captured).
func FitClassifier(set *ScanSet) (*Classifier, error) {
	if missing := set.Missing(); len(missing) > 0 {
		return nil, &IncompleteScanError{Missing: missing}
	}

	refs := make([]Reference, 0, 6)
	for _, f := range FaceOrder {
		fs, _ := set.Get(f)
		refs = append(refs, Reference{Color: ColorOf(f), Sample: fs.Center()})
	}
	return NewClassifier(refs)
}

// Classify returns the color whose reference is nearest to the sample.
// Ties resolve to the reference registered first.
func (c *Classifier) Classify(sample HSV) Color {
	best := ColorNone
	bestDist := math.Inf(1)

	for _, r := range c.refs {
		d := Distance(sample, r.Sample)
		if d < bestDist-tieEpsilon {
			best = r.Color
			bestDist = d
		}
	}

	return best
}

// ClassifyFace classifies all nine samples of a face.
func (c *Classifier) ClassifyFace(fs FaceScan) [9]Color {
	var out [9]Color
	for i, s := range fs {
		out[i] = c.Classify(s)
	}
	return out
}

// References returns a copy of the references in registration order.
func (c *Classifier) References() []Reference {
	out := make([]Reference, len(c.refs))
	copy(out, c.refs)
	return out
}

// Reference returns the sample that defines a color.
func (c *Classifier) Reference(color Color) (HSV, bool) {
	for _, r := range c.refs {
		if r.Color == color {
			return r.Sample, true
		}
	}
	return HSV{}, false
}
