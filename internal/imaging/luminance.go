package imaging

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// maxLightnessSamples bounds the pixels inspected by MeanLightness.
const maxLightnessSamples = 40000

// MeanLightness returns the average CIE L* of img scaled to [0,1], where 0 is
// black and 1 is white. Large images are sampled on a regular grid. Fully
// transparent pixels are ignored; an image with none left reports 1.
func MeanLightness(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 1
	}

	step := 1
	for (b.Dx()/step)*(b.Dy()/step) > maxLightnessSamples {
		step++
	}

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return clamp01(sum / float64(n))
}

// IsDark reports whether img is predominantly dark, as in a dark-mode
// screenshot with light text.
func IsDark(img image.Image) bool {
	return MeanLightness(img) < darkThreshold
}

const darkThreshold = 0.45

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
