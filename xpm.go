// This file provides image support for X PixMap (XPM) files: C source
// text declaring a string array with a header, a character-keyed color
// table, and one string per pixel row.

package pix

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"
)

// An XPMImage is a picture decoded from or destined for XPM source
// text.  Name is the C identifier of the string array; Save derives it
// from the target path when empty.  CharsPerPixel records the palette
// key width of the source.
type XPMImage struct {
	Image
	Name          string
	CharsPerPixel int
}

// Base returns the embedded abstract image.
func (p *XPMImage) Base() *Image { return &p.Image }

func (p *XPMImage) setIdentifier(name string) {
	if p.Name == "" {
		p.Name = name
	}
}

// NewXPM wraps a base image into an XPM picture.  The pixel buffer is
// shared, not copied.
func NewXPM(img *Image) *XPMImage {
	p := &XPMImage{Image: *img}
	p.Image.Format = FormatXPM
	return p
}

// stripCComments removes /* ... */ comments so that string extraction
// cannot be confused by quoted text inside them.
func stripCComments(src string) string {
	var sb strings.Builder
	for {
		i := strings.Index(src, "/*")
		if i < 0 {
			sb.WriteString(src)
			return sb.String()
		}
		sb.WriteString(src[:i])
		j := strings.Index(src[i+2:], "*/")
		if j < 0 {
			return sb.String()
		}
		src = src[i+2+j+2:]
	}
}

// xpmStrings extracts the contents of every double-quoted string in
// the source, plus the array identifier, if present, from the
// declaration before the first brace.
func xpmStrings(src string) (name string, strs []string) {
	src = stripCComments(src)
	if open := strings.Index(src, "{"); open > 0 {
		decl := src[:open]
		if star := strings.LastIndex(decl, "*"); star >= 0 {
			if bracket := strings.Index(decl[star:], "["); bracket > 0 {
				name = strings.TrimSpace(decl[star+1 : star+bracket])
			}
		}
	}
	for {
		i := strings.IndexByte(src, '"')
		if i < 0 {
			return name, strs
		}
		j := strings.IndexByte(src[i+1:], '"')
		if j < 0 {
			return name, strs
		}
		strs = append(strs, src[i+1:i+1+j])
		src = src[i+j+2:]
	}
}

// xpmHeader is the parsed "<width> <height> <ncolors> <cpp>" string.
type xpmHeader struct {
	width, height int
	ncolors, cpp  int
}

func parseXPMHeader(s string) (xpmHeader, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return xpmHeader{}, decodeErr("malformed XPM header %q", s)
	}
	var vals [4]int
	for i := 0; i < 4; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return xpmHeader{}, decodeErr("malformed XPM header %q", s)
		}
		vals[i] = v
	}
	h := xpmHeader{width: vals[0], height: vals[1], ncolors: vals[2], cpp: vals[3]}
	if h.width < 1 || h.height < 1 || h.ncolors < 1 || h.cpp < 1 {
		return xpmHeader{}, decodeErr("impossible XPM header %q", s)
	}
	return h, nil
}

// xpmColor is one palette entry: either transparent or an opaque
// 24-bit color.
type xpmColor struct {
	transparent bool
	r, g, b     uint8
}

// parseXPMColorEntry parses one "<chars> c <token>" color string.
func parseXPMColorEntry(s string, cpp int) (key string, c xpmColor, err error) {
	if len(s) < cpp {
		return "", c, decodeErr("short XPM color entry %q", s)
	}
	key = s[:cpp]
	fields := strings.Fields(s[cpp:])
	// Scan for the color visual key; only "c" entries are used.
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] != "c" {
			continue
		}
		tok := fields[i+1]
		if strings.EqualFold(tok, "None") {
			c.transparent = true
			return key, c, nil
		}
		if len(tok) == 7 && tok[0] == '#' {
			v, err := strconv.ParseUint(tok[1:], 16, 32)
			if err == nil {
				c.r = uint8(v >> 16)
				c.g = uint8(v >> 8)
				c.b = uint8(v)
				return key, c, nil
			}
		}
		return "", c, decodeErr("malformed XPM color token %q", tok)
	}
	return "", c, decodeErr("XPM color entry %q has no c key", s)
}

// xpmCodec is the XPM back-end.
type xpmCodec struct{}

// Format identifies the codec as serving XPM files.
func (xpmCodec) Format() Format { return FormatXPM }

// Extensions lists the filename extensions that select this codec.
func (xpmCodec) Extensions() []string { return []string{"xpm"} }

// DecodeConfig parses the header string and color table to determine
// the image geometry and whether it carries transparency.
func (xpmCodec) DecodeConfig(r io.Reader) (Config, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Config{}, decodeErr("reading XPM source: %v", err)
	}
	_, strs := xpmStrings(string(src))
	if len(strs) == 0 {
		return Config{}, decodeErr("XPM string array missing")
	}
	h, err := parseXPMHeader(strs[0])
	if err != nil {
		return Config{}, err
	}
	ct := ColorRGB
	for i := 1; i <= h.ncolors && i < len(strs); i++ {
		if _, c, err := parseXPMColorEntry(strs[i], h.cpp); err == nil && c.transparent {
			ct = ColorRGBA
			break
		}
	}
	return Config{
		Width:  h.width,
		Height: h.height,
		Color:  ct,
		Depth:  8,
		Format: FormatXPM,
	}, nil
}

// Decode reads a complete XPM image.  The result is RGBA when any
// palette entry is None, RGB otherwise.
func (xpmCodec) Decode(r io.Reader) (Pic, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, decodeErr("reading XPM source: %v", err)
	}
	name, strs := xpmStrings(string(raw))
	if len(strs) == 0 {
		return nil, decodeErr("XPM string array missing")
	}
	h, err := parseXPMHeader(strs[0])
	if err != nil {
		return nil, err
	}
	if len(strs) < 1+h.ncolors+h.height {
		return nil, decodeErr("XPM has %d strings, want %d", len(strs), 1+h.ncolors+h.height)
	}

	palette := make(map[string]xpmColor, h.ncolors)
	hasAlpha := false
	for i := 1; i <= h.ncolors; i++ {
		key, c, err := parseXPMColorEntry(strs[i], h.cpp)
		if err != nil {
			return nil, err
		}
		if c.transparent {
			hasAlpha = true
		}
		palette[key] = c
	}

	ct := ColorRGB
	if hasAlpha {
		ct = ColorRGBA
	}
	base := NewImage(h.width, h.height, ct)
	base.Format = FormatXPM
	p := &XPMImage{Image: *base, Name: name, CharsPerPixel: h.cpp}
	p.HasAlpha = hasAlpha
	p.Opaque = !hasAlpha

	ch := ct.Channels()
	for y := 0; y < h.height; y++ {
		row := strs[1+h.ncolors+y]
		if len(row) != h.width*h.cpp {
			return nil, decodeErr("XPM row %d has %d characters, want %d", y, len(row), h.width*h.cpp)
		}
		dst := p.Pix[y*p.Stride:]
		for x := 0; x < h.width; x++ {
			c, ok := palette[row[x*h.cpp:(x+1)*h.cpp]]
			if !ok {
				return nil, decodeErr("XPM pixel %q has no color entry", row[x*h.cpp:(x+1)*h.cpp])
			}
			dst[x*ch+0] = c.r
			dst[x*ch+1] = c.g
			dst[x*ch+2] = c.b
			if ch == 4 {
				if c.transparent {
					dst[x*ch+3] = 0
				} else {
					dst[x*ch+3] = 0xff
				}
			}
		}
	}
	return p, nil
}

// xpmCharset is the printable, quote-safe alphabet used to key
// synthesized palettes.
const xpmCharset = " .XoO+@#$%&*=-;:>,<1234567890qwertyuipasdfghjklzxcvbnmMNBVCZASDFGHJKLPIUYTREWQ!~^/()_`'][{}|"

// Encode writes an 8-bit RGB or RGBA picture as XPM source text,
// synthesizing a palette from the distinct pixel values.  Pixels with
// zero alpha become the transparent None entry.
func (xpmCodec) Encode(w io.Writer, p Pic) error {
	img := p.Base()
	if (img.Color != ColorRGB && img.Color != ColorRGBA) || img.Depth != 8 {
		return unsupportedErr("XPM encodes 8-bit RGB or RGBA images, not %d-bit %s", img.Depth, img.Color)
	}
	name := "image"
	if xp, ok := p.(*XPMImage); ok && xp.Name != "" {
		name = xp.Name
	}
	ch := img.Channels()

	// Collect the distinct pixel values in first-seen order.
	type entry struct {
		transparent bool
		rgb         uint32
	}
	index := make(map[uint32]int)
	var colors []entry
	const transparentKey = 1 << 24 // outside the RGB range
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < img.Width; x++ {
			px := row[x*ch : x*ch+ch]
			k := uint32(px[0])<<16 | uint32(px[1])<<8 | uint32(px[2])
			if ch == 4 && px[3] == 0 {
				k = transparentKey
			}
			if _, ok := index[k]; !ok {
				index[k] = len(colors)
				colors = append(colors, entry{transparent: k == transparentKey, rgb: k})
			}
		}
	}

	// Size the palette keys: one character while the alphabet lasts,
	// and one more each time the keys of the current width run out.
	cpp := 1
	for n := len(xpmCharset); n < len(colors); n *= len(xpmCharset) {
		cpp++
	}
	key := func(i int) string {
		var sb strings.Builder
		for c := 0; c < cpp; c++ {
			sb.WriteByte(xpmCharset[i%len(xpmCharset)])
			i /= len(xpmCharset)
		}
		return sb.String()
	}

	if _, err := fmt.Fprintf(w, "/* XPM */\nstatic char *%s[] = {\n\"%d %d %d %d\",\n",
		name, img.Width, img.Height, len(colors), cpp); err != nil {
		return err
	}
	for i, c := range colors {
		var line string
		if c.transparent {
			line = fmt.Sprintf("\"%s\tc None\",\n", key(i))
		} else {
			line = fmt.Sprintf("\"%s\tc #%06X\",\n", key(i), c.rgb)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Stride:]
		var sb strings.Builder
		sb.WriteByte('"')
		for x := 0; x < img.Width; x++ {
			px := row[x*ch : x*ch+ch]
			k := uint32(px[0])<<16 | uint32(px[1])<<8 | uint32(px[2])
			if ch == 4 && px[3] == 0 {
				k = transparentKey
			}
			sb.WriteString(key(index[k]))
		}
		sb.WriteByte('"')
		if y < img.Height-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "};\n")
	return err
}

// Indicate that we can decode XPM files through the standard image
// package as well; the leading comment is the format's stable magic.
func init() {
	Register(xpmCodec{})
	image.RegisterFormat("xpm", "/* XPM */", xpmStdDecode, xpmStdConfig)
}

func xpmStdDecode(r io.Reader) (image.Image, error) {
	p, err := xpmCodec{}.Decode(r)
	if err != nil {
		return nil, err
	}
	return p.Base(), nil
}

func xpmStdConfig(r io.Reader) (image.Config, error) {
	cfg, err := xpmCodec{}.DecodeConfig(r)
	if err != nil {
		return image.Config{}, err
	}
	return cfg.imageConfig(), nil
}
