// This file provides image support for X BitMap (XBM) files: C source
// text declaring the bitmap's dimensions and a byte array of LSB-first
// pixel bits.

package pix

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// XBM pixel levels.  A set bit is foreground ink, a clear bit is
// background.
const (
	xbmForeground = 0x00
	xbmBackground = 0xff
)

// An XBMImage is a 1-bit bitmap stored one byte per pixel, with Depth
// recording the source precision.  Name is the C identifier of the
// source text; Save derives it from the target path when empty.
type XBMImage struct {
	Image
	Name string
}

// Base returns the embedded abstract image.
func (p *XBMImage) Base() *Image { return &p.Image }

func (p *XBMImage) setIdentifier(name string) {
	if p.Name == "" {
		p.Name = name
	}
}

// NewXBM wraps a base image into an XBM picture.  The pixel buffer is
// shared, not copied.
func NewXBM(img *Image) *XBMImage {
	p := &XBMImage{Image: *img}
	p.Image.Format = FormatXBM
	return p
}

// xbmDefines holds the values parsed from the #define lines.
type xbmDefines struct {
	name          string
	width, height int
}

// parseXBMDefines scans the source text for the _width and _height
// defines.  Hotspot defines are tolerated and ignored.
func parseXBMDefines(src string) (xbmDefines, error) {
	d := xbmDefines{width: -1, height: -1}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#define") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return d, decodeErr("malformed XBM define %q", line)
		}
		v, err := strconv.ParseInt(fields[2], 0, 32)
		if err != nil {
			return d, decodeErr("malformed XBM define value %q", fields[2])
		}
		switch name := fields[1]; {
		case strings.HasSuffix(name, "_width"):
			d.width = int(v)
			d.name = strings.TrimSuffix(name, "_width")
		case strings.HasSuffix(name, "_height"):
			d.height = int(v)
		}
	}
	if d.width < 1 || d.height < 1 {
		return d, decodeErr("XBM dimensions missing or impossible")
	}
	return d, nil
}

// xbmCodec is the XBM back-end.
type xbmCodec struct{}

// Format identifies the codec as serving XBM files.
func (xbmCodec) Format() Format { return FormatXBM }

// Extensions lists the filename extensions that select this codec.
func (xbmCodec) Extensions() []string { return []string{"xbm"} }

// DecodeConfig parses the dimension defines without reading the bit
// array.
func (xbmCodec) DecodeConfig(r io.Reader) (Config, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Config{}, decodeErr("reading XBM source: %v", err)
	}
	d, err := parseXBMDefines(string(src))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Width:  d.width,
		Height: d.height,
		Color:  ColorGray,
		Depth:  1,
		Format: FormatXBM,
	}, nil
}

// Decode reads a complete XBM image.  The integer list accepts decimal
// and 0x-prefixed hexadecimal literals, arbitrary whitespace, and an
// optional trailing comma.
func (xbmCodec) Decode(r io.Reader) (Pic, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, decodeErr("reading XBM source: %v", err)
	}
	src := string(raw)
	d, err := parseXBMDefines(src)
	if err != nil {
		return nil, err
	}

	open := strings.Index(src, "{")
	end := strings.LastIndex(src, "}")
	if open < 0 || end < open {
		return nil, decodeErr("XBM bits array missing")
	}
	rowBytes := (d.width + 7) / 8
	bits := make([]uint8, 0, rowBytes*d.height)
	for _, tok := range strings.FieldsFunc(src[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		v, err := strconv.ParseUint(tok, 0, 8)
		if err != nil {
			return nil, decodeErr("malformed XBM byte %q", tok)
		}
		bits = append(bits, uint8(v))
	}
	if len(bits) < rowBytes*d.height {
		return nil, decodeErr("XBM bits array has %d bytes, want %d", len(bits), rowBytes*d.height)
	}

	base := NewImage(d.width, d.height, ColorGray)
	base.Format = FormatXBM
	base.Depth = 1
	p := &XBMImage{Image: *base, Name: d.name}

	// Bits are LSB-first within each byte; a set bit is foreground.
	for y := 0; y < d.height; y++ {
		row := p.Pix[y*p.Stride:]
		for x := 0; x < d.width; x++ {
			b := bits[y*rowBytes+x/8]
			if b>>(x%8)&1 != 0 {
				row[x] = xbmForeground
			} else {
				row[x] = xbmBackground
			}
		}
	}
	return p, nil
}

// Encode writes a grayscale picture as XBM source text.  Samples below
// mid-gray become set (foreground) bits.
func (xbmCodec) Encode(w io.Writer, p Pic) error {
	img := p.Base()
	if img.Color != ColorGray || img.Depth > 8 {
		return unsupportedErr("XBM encodes grayscale images, not %d-bit %s", img.Depth, img.Color)
	}
	name := "image"
	if xp, ok := p.(*XBMImage); ok && xp.Name != "" {
		name = xp.Name
	}

	if _, err := fmt.Fprintf(w, "#define %s_width %d\n#define %s_height %d\n",
		name, img.Width, name, img.Height); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "static unsigned char %s_bits[] = {", name); err != nil {
		return err
	}

	rowBytes := (img.Width + 7) / 8
	total := rowBytes * img.Height
	n := 0
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for bx := 0; bx < rowBytes; bx++ {
			var b uint8
			for bit := 0; bit < 8; bit++ {
				x := bx*8 + bit
				if x < img.Width && row[x] < 0x80 {
					b |= 1 << bit
				}
			}
			sep := ","
			if n == total-1 {
				sep = "};\n"
			}
			lead := " "
			if n%12 == 0 {
				lead = "\n   "
			}
			if _, err := fmt.Fprintf(w, "%s0x%02x%s", lead, b, sep); err != nil {
				return err
			}
			n++
		}
	}
	return nil
}

func init() {
	Register(xbmCodec{})
}
