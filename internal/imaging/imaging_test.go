package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func fill(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// renderText draws lines of 7x13 text onto a solid background.
func renderText(width, height int, fg, bg color.Color, lines ...string) *image.RGBA {
	img := fill(width, height, bg)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		d.Dot = fixed.P(12, 24+i*16)
		d.DrawString(line)
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

var sampleLines = []string{
	"Riga Central Station  Platform 4",
	"Departures 14:05 to Jurmala",
	"Tickets must be validated",
	"before boarding the train",
	"Biletes jakomposte pirms",
	"iekapsanas vilciena",
	"Thank you for travelling",
	"with Pasazieru vilciens",
}

func size(img image.Image) (int, int) {
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestLoad(t *testing.T) {
	path := writePNG(t, fill(40, 30, color.White))

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w, h := size(img); w != 40 || h != 30 {
		t.Errorf("dimensions = %dx%d, want 40x30", w, h)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(garbage); err == nil {
		t.Error("expected error for undecodable file")
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(fill(12, 7, color.Black))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != "png" || cfg.Width != 12 || cfg.Height != 7 {
		t.Errorf("got %s %dx%d", format, cfg.Width, cfg.Height)
	}
}

func TestMeanLightness(t *testing.T) {
	tests := []struct {
		name     string
		img      image.Image
		min, max float64
	}{
		{"white", fill(50, 50, color.White), 0.99, 1},
		{"black", fill(50, 50, color.Black), 0, 0.01},
		{"mid gray", fill(50, 50, color.Gray{Y: 119}), 0.4, 0.6},
		{"transparent", fill(10, 10, color.Transparent), 1, 1},
		{"large sampled", fill(900, 900, color.White), 0.99, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeanLightness(tt.img)
			if got < tt.min || got > tt.max {
				t.Errorf("MeanLightness = %.3f, want [%.2f, %.2f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestIsDark(t *testing.T) {
	if IsDark(fill(20, 20, color.White)) {
		t.Error("white reported dark")
	}
	if !IsDark(renderText(300, 80, color.White, color.Black, "dark mode")) {
		t.Error("dark screenshot not reported dark")
	}
}

func TestPrepareGrayscale(t *testing.T) {
	src := fill(20, 20, color.RGBA{R: 200, G: 40, B: 90, A: 255})
	out := Prepare(src, PrepareOptions{})

	r, g, b, _ := out.At(5, 5).RGBA()
	if r != g || g != b {
		t.Errorf("pixel not gray: %d %d %d", r, g, b)
	}
}

func TestPrepareInvertsDarkImages(t *testing.T) {
	src := renderText(300, 80, color.White, color.Black, "dark mode text")

	out := Prepare(src, PrepareOptions{InvertDark: true})
	if IsDark(out) {
		t.Errorf("prepared image still dark: L=%.2f", MeanLightness(out))
	}

	kept := Prepare(src, PrepareOptions{})
	if !IsDark(kept) {
		t.Error("image inverted without InvertDark")
	}
}

func TestPrepareUpscales(t *testing.T) {
	src := fill(200, 100, color.White)

	out := Prepare(src, PrepareOptions{MinShortSide: 300})
	if w, h := size(out); w != 600 || h != 300 {
		t.Errorf("upscaled to %dx%d, want 600x300", w, h)
	}

	capped := Prepare(src, PrepareOptions{MinShortSide: 300, MaxScale: 2})
	if w, h := size(capped); w != 400 || h != 200 {
		t.Errorf("capped upscale %dx%d, want 400x200", w, h)
	}

	same := Prepare(src, PrepareOptions{MinShortSide: 100})
	if w, h := size(same); w != 200 || h != 100 {
		t.Errorf("image resized to %dx%d though large enough", w, h)
	}
}

func TestUpscaleSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		opts         PrepareOptions
		wantW, wantH int
		wantOK       bool
	}{
		{"disabled", 100, 100, PrepareOptions{}, 0, 0, false},
		{"portrait", 50, 120, PrepareOptions{MinShortSide: 100}, 100, 240, true},
		{"exact", 100, 300, PrepareOptions{MinShortSide: 100}, 0, 0, false},
		{"max scale below one ignored", 10, 10, PrepareOptions{MinShortSide: 40, MaxScale: 0.5}, 40, 40, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := upscaleSize(image.Rect(0, 0, tt.w, tt.h), tt.opts)
			if ok != tt.wantOK || w != tt.wantW || h != tt.wantH {
				t.Errorf("upscaleSize = %d,%d,%v want %d,%d,%v", w, h, ok, tt.wantW, tt.wantH, tt.wantOK)
			}
		})
	}
}

func TestTextLikely(t *testing.T) {
	if !TextLikely(renderText(640, 200, color.Black, color.White, sampleLines...)) {
		t.Error("rendered text not detected")
	}

	if TextLikely(fill(640, 200, color.White)) {
		t.Error("blank image reported as text")
	}

	gradient := image.NewGray(image.Rect(0, 0, 640, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 640; x++ {
			gradient.SetGray(x, y, color.Gray{Y: uint8(x * 255 / 640)})
		}
	}
	if TextLikely(gradient) {
		t.Error("smooth gradient reported as text")
	}

	rng := rand.New(rand.NewPCG(1, 2))
	noise := image.NewGray(image.Rect(0, 0, 640, 200))
	for i := range noise.Pix {
		if rng.IntN(2) == 0 {
			noise.Pix[i] = 255
		}
	}
	if TextLikely(noise) {
		t.Error("salt-and-pepper noise reported as text")
	}
}

func TestScanWindowsStopsEarly(t *testing.T) {
	m := newEdgeMap(renderText(640, 200, color.Black, color.White, sampleLines...))

	all := 0
	m.scanWindows(DefaultTextConfidence, func(TextRegion) bool {
		all++
		return true
	})
	if all < 2 {
		t.Fatalf("expected several text windows, got %d", all)
	}

	calls := 0
	m.scanWindows(DefaultTextConfidence, func(TextRegion) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("scan continued after the callback stopped it: %d calls", calls)
	}
}

func TestTextLikelyMatchesTextRegions(t *testing.T) {
	images := map[string]image.Image{
		"text":  renderText(640, 200, color.Black, color.White, sampleLines...),
		"blank": fill(640, 200, color.White),
		"small": fill(40, 10, color.White),
	}
	for name, img := range images {
		want := len(TextRegions(img, DefaultTextConfidence)) > 0
		if got := TextLikely(img); got != want {
			t.Errorf("%s: TextLikely = %v, TextRegions found text = %v", name, got, want)
		}
	}
}

func TestTextRegionsSmallImage(t *testing.T) {
	if got := TextRegions(fill(40, 10, color.White), 0); len(got) != 0 {
		t.Errorf("regions on image smaller than every window: %v", got)
	}
}

func TestTextRegionsDownscalesLargeImages(t *testing.T) {
	img := fill(3000, 2000, color.White)
	draw.Draw(img, image.Rect(0, 0, 640, 200),
		renderText(640, 200, color.Black, color.White, sampleLines...), image.Point{}, draw.Src)

	for _, r := range TextRegions(img, 0) {
		if r.Bounds.X2 > analysisEdge || r.Bounds.Y2 > analysisEdge {
			t.Fatalf("region %+v outside analysed image", r.Bounds)
		}
	}
}

func TestMergeOverlapping(t *testing.T) {
	in := []TextRegion{
		{Bounds: Bounds{0, 0, 10, 10}, Confidence: 0.4},
		{Bounds: Bounds{5, 5, 20, 20}, Confidence: 0.7},
		{Bounds: Bounds{50, 50, 60, 60}, Confidence: 0.5},
	}
	got := mergeOverlapping(in)
	if len(got) != 2 {
		t.Fatalf("got %d regions, want 2", len(got))
	}
	if got[0].Bounds != (Bounds{0, 0, 20, 20}) || got[0].Confidence != 0.7 {
		t.Errorf("merged region = %+v", got[0])
	}
}
