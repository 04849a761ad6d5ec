// Test XBM files: C-source parsing, bit order, and the emitted source
// form.

package pix

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const arrowXBM = `#define arrow_width 8
#define arrow_height 2
#define arrow_x_hot 0
#define arrow_y_hot 0
static unsigned char arrow_bits[] = {
   0x01, 0x80};
`

func TestXBMDecode(t *testing.T) {
	p, err := (xbmCodec{}).Decode(strings.NewReader(arrowXBM))
	if err != nil {
		t.Fatal(err)
	}
	img := p.Base()
	if img.Width != 8 || img.Height != 2 {
		t.Fatalf("Parsed %dx%d", img.Width, img.Height)
	}
	if img.Color != ColorGray || img.Depth != 1 {
		t.Fatalf("Parsed as %d-bit %v", img.Depth, img.Color)
	}
	// 0x01: bit 0 set, LSB first, so x=0 is foreground.
	if img.Pix[0] != xbmForeground || img.Pix[1] != xbmBackground {
		t.Fatalf("Row 0 = %v", img.Pix[:8])
	}
	// 0x80: bit 7 set, so x=7 of row 1 is foreground.
	if img.Pix[img.Stride+7] != xbmForeground || img.Pix[img.Stride+6] != xbmBackground {
		t.Fatalf("Row 1 = %v", img.Pix[img.Stride:img.Stride+8])
	}
	if p.(*XBMImage).Name != "arrow" {
		t.Fatalf("Name = %q", p.(*XBMImage).Name)
	}
}

// Decimal byte values and a trailing comma are accepted.
func TestXBMDecodeTolerant(t *testing.T) {
	src := "#define x_width 4\n#define x_height 1\nstatic unsigned char x_bits[] = {\n 15 ,\n};\n"
	p, err := (xbmCodec{}).Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 4; x++ {
		if p.Base().Pix[x] != xbmForeground {
			t.Fatalf("Pixel %d = %#x", x, p.Base().Pix[x])
		}
	}
}

func TestXBMRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor-shape.xbm")
	src := NewImage(10, 3, ColorGray)
	for i := range src.Pix {
		if i%3 == 0 {
			src.Pix[i] = 0x00
		} else {
			src.Pix[i] = 0xff
		}
	}
	if err := Save(NewXBM(src), path); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	img := p.Base()
	if img.Width != 10 || img.Height != 3 {
		t.Fatalf("Reloaded %dx%d", img.Width, img.Height)
	}
	if !bytes.Equal(img.Pix, src.Pix) {
		t.Fatalf("Pixels differ:\n got %v\nwant %v", img.Pix, src.Pix)
	}
	// The identifier comes from the basename with '-' mapped to '_'.
	if p.(*XBMImage).Name != "cursor_shape" {
		t.Fatalf("Name = %q", p.(*XBMImage).Name)
	}
}

func TestXBMEncodeForm(t *testing.T) {
	img := NewImage(8, 1, ColorGray)
	copy(img.Pix, []uint8{0, 255, 255, 255, 255, 255, 255, 0})
	x := NewXBM(img)
	x.Name = "glyph"
	var buf bytes.Buffer
	if err := (xbmCodec{}).Encode(&buf, x); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.Contains(s, "#define glyph_width 8") ||
		!strings.Contains(s, "#define glyph_height 1") ||
		!strings.Contains(s, "static unsigned char glyph_bits[] = {") {
		t.Fatalf("Source form:\n%s", s)
	}
	// Bits 0 and 7 set: 0x81.
	if !strings.Contains(s, "0x81};") {
		t.Fatalf("Bits:\n%s", s)
	}
	// The emitted source must parse back.
	if _, err := (xbmCodec{}).Decode(strings.NewReader(s)); err != nil {
		t.Fatal(err)
	}
}

func TestXBMConfig(t *testing.T) {
	cfg, err := (xbmCodec{}).DecodeConfig(strings.NewReader(arrowXBM))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 8 || cfg.Height != 2 || cfg.Color != ColorGray || cfg.Depth != 1 {
		t.Fatalf("Config = %+v", cfg)
	}
}

func TestXBMDecodeErrors(t *testing.T) {
	srcs := []string{
		"",
		"#define a_width 4\n",                                       // height missing
		"#define a_width 4\n#define a_height 1\n",                   // bits missing
		"#define a_width 4\n#define a_height 1\nbits[] = {0xzz};\n", // bad byte
		"#define a_width 8\n#define a_height 2\nbits[] = {0x00};\n", // too few bytes
	}
	for _, src := range srcs {
		if _, err := (xbmCodec{}).Decode(strings.NewReader(src)); !errors.Is(err, ErrDecode) {
			t.Errorf("Decode(%q) = %v, want ErrDecode", src, err)
		}
	}
}

func TestXBMEncodeWrongColorType(t *testing.T) {
	var buf bytes.Buffer
	err := (xbmCodec{}).Encode(&buf, picOf(NewImage(1, 1, ColorRGB)))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("RGB encode = %v, want ErrUnsupportedFormat", err)
	}
}
