package imaging

import (
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Bounds is a rectangular pixel region.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// TextRegion is a window whose edge structure looks like printed text.
type TextRegion struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
}

const (
	// analysisEdge is the longest side images are reduced to before analysis.
	analysisEdge = 1024

	// edgeThreshold is the Sobel magnitude above which a pixel counts as an edge.
	edgeThreshold = 64

	minTextDensity = 0.05
	maxTextDensity = 0.4
	idealDensity   = 0.2

	// DefaultTextConfidence is the confidence TextLikely requires.
	DefaultTextConfidence = 0.3
)

var textWindows = []struct{ w, h int }{
	{80, 25},
	{100, 30},
	{150, 40},
	{200, 50},
}

// edgeMap is a binary edge image with a summed-area table for O(1) window counts.
type edgeMap struct {
	w, h  int
	edges []bool
	sum   []int // (w+1)*(h+1)
}

func newEdgeMap(img image.Image) *edgeMap {
	if b := img.Bounds(); b.Dx() > analysisEdge || b.Dy() > analysisEdge {
		img = imaging.Fit(img, analysisEdge, analysisEdge, imaging.Box)
	}
	sobel := effect.Sobel(img)
	b := sobel.Bounds()

	m := &edgeMap{w: b.Dx(), h: b.Dy()}
	m.edges = make([]bool, m.w*m.h)
	m.sum = make([]int, (m.w+1)*(m.h+1))
	for y := 0; y < m.h; y++ {
		row := 0
		for x := 0; x < m.w; x++ {
			if sobel.GrayAt(b.Min.X+x, b.Min.Y+y).Y > edgeThreshold {
				m.edges[y*m.w+x] = true
				row++
			}
			m.sum[(y+1)*(m.w+1)+x+1] = m.sum[y*(m.w+1)+x+1] + row
		}
	}
	return m
}

func (m *edgeMap) at(x, y int) bool {
	return m.edges[y*m.w+x]
}

func (m *edgeMap) count(x, y, w, h int) int {
	s := m.w + 1
	return m.sum[(y+h)*s+x+w] - m.sum[y*s+x+w] - m.sum[(y+h)*s+x] + m.sum[y*s+x]
}

// horizontalScore is the share of edge runs that run along rows. Text lines
// produce many short row runs.
func (m *edgeMap) horizontalScore(x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if m.at(col, row) {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if m.at(col, row) {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// scanWindows slides every window size over m and calls fn for each window
// whose confidence reaches minConfidence. The scan stops when fn returns false.
func (m *edgeMap) scanWindows(minConfidence float64, fn func(TextRegion) bool) {
	for _, ws := range textWindows {
		if ws.w > m.w || ws.h > m.h {
			continue
		}
		stepX, stepY := ws.w/2, ws.h/2
		area := float64(ws.w * ws.h)

		for y := 0; y <= m.h-ws.h; y += stepY {
			for x := 0; x <= m.w-ws.w; x += stepX {
				density := float64(m.count(x, y, ws.w, ws.h)) / area
				if density < minTextDensity || density > maxTextDensity {
					continue
				}
				confidence := m.horizontalScore(x, y, ws.w, ws.h) *
					(1.0 - math.Abs(density-idealDensity)/idealDensity)
				if confidence < minConfidence {
					continue
				}
				region := TextRegion{
					Bounds:     Bounds{X1: x, Y1: y, X2: x + ws.w, Y2: y + ws.h},
					Confidence: math.Round(confidence*1000) / 1000,
				}
				if !fn(region) {
					return
				}
			}
		}
	}
}

// TextRegions finds areas of img whose edge structure looks like printed text.
//
// The image is reduced to an edge map (Sobel magnitude above a fixed
// threshold) and scanned with sliding windows of several text-line sizes at
// half-window steps. A window qualifies when its edge density lies in the
// range typical of glyphs and its edges run mostly along rows.
//
// Parameters:
//   - img: Image to analyse. Images with a side over 1024 pixels are
//     downscaled first.
//   - minConfidence: Lowest confidence (0-1) a window needs to be reported.
//
// Returns:
//   - []TextRegion: Qualifying windows, overlapping ones merged into their
//     union, sorted by descending confidence. Coordinates refer to the
//     analysed (possibly downscaled) image. Nil when nothing qualifies.
//
// # Confidence
//
// Confidence is the share of horizontal edge runs multiplied by how close the
// edge density is to the ideal for text. Photographs of foliage or gravel have
// dense edges in every direction and score low; signs, labels and screens
// score high.
//
// # Performance
//
// Window counts come from a summed-area table, so each density check is O(1).
// The orientation score is linear in the window area. Use TextLikely when
// only the presence of text matters; it stops at the first qualifying window.
func TextRegions(img image.Image, minConfidence float64) []TextRegion {
	var candidates []TextRegion
	newEdgeMap(img).scanWindows(minConfidence, func(r TextRegion) bool {
		candidates = append(candidates, r)
		return true
	})

	merged := mergeOverlapping(candidates)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	return merged
}

// TextLikely reports whether img contains at least one text-like region of
// DefaultTextConfidence or better.
func TextLikely(img image.Image) bool {
	found := false
	newEdgeMap(img).scanWindows(DefaultTextConfidence, func(TextRegion) bool {
		found = true
		return false
	})
	return found
}

func mergeOverlapping(regions []TextRegion) []TextRegion {
	merged := make([]TextRegion, 0, len(regions))
	for _, r := range regions {
		found := false
		for i := range merged {
			if overlaps(r.Bounds, merged[i].Bounds) {
				merged[i].Bounds = union(r.Bounds, merged[i].Bounds)
				merged[i].Confidence = math.Max(r.Confidence, merged[i].Confidence)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, r)
		}
	}
	return merged
}

func overlaps(a, b Bounds) bool {
	return a.X1 < b.X2 && a.X2 > b.X1 && a.Y1 < b.Y2 && a.Y2 > b.Y1
}

func union(a, b Bounds) Bounds {
	return Bounds{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}
