// Test JPEG files: decode-to-RGB conversion and the encoder profile.

package pix

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"path/filepath"
	"testing"
)

func TestJPEGRoundTripGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.jpg")
	if err := Save(NewJPEG(newTestRGB(32, 24)), path); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	img := p.Base()
	if img.Width != 32 || img.Height != 24 {
		t.Fatalf("Reloaded %dx%d", img.Width, img.Height)
	}
	if img.Color != ColorRGB || img.Depth != 8 || img.Stride != 3*img.Width {
		t.Fatalf("Reloaded as %d-bit %v, stride %d", img.Depth, img.Color, img.Stride)
	}
	if img.HasAlpha || !img.Opaque {
		t.Fatal("JPEG cannot carry alpha")
	}
	jp := p.(*JPEGImage)
	if jp.Quality != DefaultJPEGQuality || jp.Subsampling != Subsampling420 || !jp.Optimize {
		t.Fatalf("Defaults = %+v", jp)
	}
}

// A flat-color image survives the lossy pipeline close to exactly.
func TestJPEGFlatColor(t *testing.T) {
	src := NewImage(16, 16, ColorRGB)
	for i := 0; i < len(src.Pix); i += 3 {
		src.Pix[i+0] = 200
		src.Pix[i+1] = 100
		src.Pix[i+2] = 50
	}
	var buf bytes.Buffer
	if err := (jpegCodec{}).Encode(&buf, NewJPEG(src)); err != nil {
		t.Fatal(err)
	}
	p, err := (jpegCodec{}).Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	pix := p.Base().Pix
	for i := 0; i < len(pix); i += 3 {
		if d := int(pix[i]) - 200; d < -8 || d > 8 {
			t.Fatalf("Red drifted to %d at %d", pix[i], i)
		}
	}
}

// Grayscale JPEG sources decode to replicated RGB.
func TestJPEGGraySourceDecodesToRGB(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 0x77
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatal(err)
	}
	p, err := (jpegCodec{}).Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	img := p.Base()
	if img.Color != ColorRGB {
		t.Fatalf("Color = %v", img.Color)
	}
	r, g, b := img.Pix[0], img.Pix[1], img.Pix[2]
	if r != g || g != b {
		t.Fatalf("Gray pixel decoded to (%d, %d, %d)", r, g, b)
	}
}

func TestJPEGProgressiveUnsupported(t *testing.T) {
	j := NewJPEG(newTestRGB(4, 4))
	j.Progressive = true
	var buf bytes.Buffer
	if err := (jpegCodec{}).Encode(&buf, j); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Progressive encode = %v, want ErrUnsupportedFormat", err)
	}
}

func TestJPEGQualityOutOfRange(t *testing.T) {
	for _, q := range []int{-1, 101} {
		j := NewJPEG(newTestRGB(4, 4))
		j.Quality = q
		var buf bytes.Buffer
		if err := (jpegCodec{}).Encode(&buf, j); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Quality %d = %v, want ErrInvalidArgument", q, err)
		}
	}
}

func TestJPEGEncodeWrongColorType(t *testing.T) {
	var buf bytes.Buffer
	err := (jpegCodec{}).Encode(&buf, picOf(NewImage(2, 2, ColorRGBA)))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("RGBA encode = %v, want ErrUnsupportedFormat", err)
	}
}

func TestJPEGDecodeGarbage(t *testing.T) {
	if _, err := (jpegCodec{}).Decode(bytes.NewReader([]byte("not a jpeg"))); !errors.Is(err, ErrDecode) {
		t.Fatalf("Decode = %v, want ErrDecode", err)
	}
}

func TestJPEGConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := (jpegCodec{}).Encode(&buf, NewJPEG(newTestRGB(20, 10))); err != nil {
		t.Fatal(err)
	}
	cfg, err := (jpegCodec{}).DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 20 || cfg.Height != 10 || cfg.Color != ColorRGB {
		t.Fatalf("Config = %+v", cfg)
	}
}

func TestSubsamplingString(t *testing.T) {
	if Subsampling420.String() != "4:2:0" || Subsampling444.String() != "4:4:4" {
		t.Fatal("Subsampling names wrong")
	}
}
