// Test the abstract image type and its metadata helpers.

package pix

import (
	"image/color"
	"testing"
)

func TestColorTypeChannels(t *testing.T) {
	cases := []struct {
		ct   ColorType
		want int
	}{
		{ColorRGB, 3},
		{ColorRGBA, 4},
		{ColorGray, 1},
		{ColorGrayAlpha, 2},
		{ColorIndexed, 1},
		{ColorUnknown, 0},
	}
	for _, c := range cases {
		if got := c.ct.Channels(); got != c.want {
			t.Errorf("%s.Channels() = %d, want %d", c.ct, got, c.want)
		}
	}
}

func TestFormatByName(t *testing.T) {
	names := map[string]Format{
		"png":  FormatPNG,
		"jpeg": FormatJPEG,
		"bmp":  FormatBMP,
		"ppm":  FormatPPM,
		"pgm":  FormatPGM,
		"xbm":  FormatXBM,
		"xpm":  FormatXPM,
		"jpg":  FormatUnknown, // only canonical tags map
		"PNG":  FormatUnknown,
		"":     FormatUnknown,
		"tiff": FormatUnknown,
	}
	for name, want := range names {
		if got := FormatByName(name); got != want {
			t.Errorf("FormatByName(%q) = %v, want %v", name, got, want)
		}
	}
	// The canonical tags round-trip through String.
	for _, f := range []Format{FormatPNG, FormatJPEG, FormatBMP, FormatPPM, FormatPGM, FormatXBM, FormatXPM} {
		if got := FormatByName(f.String()); got != f {
			t.Errorf("FormatByName(%q) = %v, want %v", f.String(), got, f)
		}
	}
}

func TestNewImageInvariants(t *testing.T) {
	for _, ct := range []ColorType{ColorRGB, ColorRGBA, ColorGray, ColorGrayAlpha} {
		img := NewImage(7, 5, ct)
		if img.Stride < img.Width*ct.Channels() {
			t.Errorf("%s stride %d < width*channels %d", ct, img.Stride, img.Width*ct.Channels())
		}
		if len(img.Pix) != img.Stride*img.Height {
			t.Errorf("%s buffer %d != stride*height %d", ct, len(img.Pix), img.Stride*img.Height)
		}
		if img.Depth != 8 {
			t.Errorf("%s depth = %d", ct, img.Depth)
		}
	}
}

func TestImageAt(t *testing.T) {
	img := NewImage(2, 1, ColorRGB)
	copy(img.Pix, []uint8{255, 0, 0, 0, 255, 0})
	if got := img.At(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("At(0,0) = %v", got)
	}
	if got := img.At(1, 0); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("At(1,0) = %v", got)
	}
	// Out of bounds is transparent black, not a panic.
	if got := img.At(2, 0); got != (color.RGBA{}) {
		t.Errorf("At(2,0) = %v", got)
	}

	gray := NewImage(1, 1, ColorGray)
	gray.Pix[0] = 0x42
	if got := gray.At(0, 0); got != (color.Gray{Y: 0x42}) {
		t.Errorf("gray At(0,0) = %v", got)
	}

	ga := NewImage(1, 1, ColorGrayAlpha)
	copy(ga.Pix, []uint8{0x10, 0x80})
	want := color.NRGBA64{R: 0x1010, G: 0x1010, B: 0x1010, A: 0x8080}
	if got := ga.At(0, 0); got != want {
		t.Errorf("gray+alpha At(0,0) = %v, want %v", got, want)
	}
}

func TestImageAt16(t *testing.T) {
	img := NewImage(1, 1, ColorGray)
	img.Depth = 16
	img.Stride = 2
	img.Pix = []uint8{0x12, 0x34}
	if got := img.At(0, 0); got != (color.Gray16{Y: 0x1234}) {
		t.Errorf("16-bit gray At(0,0) = %v", got)
	}
}

func TestAlphaOpaque(t *testing.T) {
	img := NewImage(2, 2, ColorRGBA)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	if !img.alphaOpaque() {
		t.Error("Fully opaque buffer reported as translucent")
	}
	img.Pix[7] = 0x7f
	if img.alphaOpaque() {
		t.Error("Translucent buffer reported as opaque")
	}
}

func TestImageBounds(t *testing.T) {
	img := NewImage(3, 4, ColorGray)
	b := img.Bounds()
	if b.Dx() != 3 || b.Dy() != 4 || b.Min.X != 0 || b.Min.Y != 0 {
		t.Errorf("Bounds = %v", b)
	}
}
