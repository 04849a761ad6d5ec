// This file provides image support for PNG files.  The DEFLATE and
// filter pipeline is delegated to the standard image/png decoder and
// encoder; this codec contributes the signature and IHDR inspection
// that preserves the source color type, bit depth, and interlacing,
// plus the translation between the stdlib image types and the shared
// pixel buffer.

package pix

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Interlace is a PNG interlace method.
type Interlace int

const (
	InterlaceNone Interlace = iota
	InterlaceAdam7
)

// pngSignature is the 8-byte file signature every PNG starts with.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// PNG color types as stored in the IHDR chunk.
const (
	pngColorGray      = 0
	pngColorRGB       = 2
	pngColorIndexed   = 3
	pngColorGrayAlpha = 4
	pngColorRGBA      = 6
)

// A PNGImage is a picture decoded from or destined for a PNG file.
// Interlace records the source interlace method; the encoder always
// writes non-interlaced output.
type PNGImage struct {
	Image
	Interlace Interlace
}

// Base returns the embedded abstract image.
func (p *PNGImage) Base() *Image { return &p.Image }

// NewPNG wraps a base image into a PNG picture.  The pixel buffer is
// shared, not copied.
func NewPNG(img *Image) *PNGImage {
	p := &PNGImage{Image: *img}
	p.Image.Format = FormatPNG
	return p
}

// pngIHDR is the parsed header chunk.
type pngIHDR struct {
	width, height int
	depth         int
	colorType     int
	interlace     Interlace
}

// parsePNGHeader validates the signature and parses the IHDR chunk,
// which the PNG specification requires to come first.
func parsePNGHeader(data []byte) (pngIHDR, error) {
	if len(data) < len(pngSignature)+8+13 || !bytes.Equal(data[:8], pngSignature) {
		return pngIHDR{}, decodeErr("not a PNG file")
	}
	chunk := data[8:]
	length := uint32(chunk[0])<<24 | uint32(chunk[1])<<16 | uint32(chunk[2])<<8 | uint32(chunk[3])
	if length != 13 || string(chunk[4:8]) != "IHDR" {
		return pngIHDR{}, decodeErr("PNG missing IHDR chunk")
	}
	f := chunk[8:21]
	var h pngIHDR
	h.width = int(uint32(f[0])<<24 | uint32(f[1])<<16 | uint32(f[2])<<8 | uint32(f[3]))
	h.height = int(uint32(f[4])<<24 | uint32(f[5])<<16 | uint32(f[6])<<8 | uint32(f[7]))
	h.depth = int(f[8])
	h.colorType = int(f[9])
	switch f[12] {
	case 0:
		h.interlace = InterlaceNone
	case 1:
		h.interlace = InterlaceAdam7
	default:
		return pngIHDR{}, decodeErr("PNG interlace method %d", f[12])
	}
	if h.width <= 0 || h.height <= 0 {
		return pngIHDR{}, decodeErr("impossible PNG dimensions %dx%d", h.width, h.height)
	}
	return h, nil
}

// colorTypeFromPNG translates an IHDR color type.
func colorTypeFromPNG(ct int) ColorType {
	switch ct {
	case pngColorGray:
		return ColorGray
	case pngColorRGB:
		return ColorRGB
	case pngColorIndexed:
		return ColorIndexed
	case pngColorGrayAlpha:
		return ColorGrayAlpha
	case pngColorRGBA:
		return ColorRGBA
	default:
		return ColorUnknown
	}
}

// pngCodec is the PNG back-end.
type pngCodec struct{}

// Format identifies the codec as serving PNG files.
func (pngCodec) Format() Format { return FormatPNG }

// Extensions lists the filename extensions that select this codec.
func (pngCodec) Extensions() []string { return []string{"png"} }

// DecodeConfig parses the signature and IHDR without decoding pixels.
func (pngCodec) DecodeConfig(r io.Reader) (Config, error) {
	var buf [len("\x89PNG\r\n\x1a\n") + 8 + 13]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Config{}, decodeErr("truncated PNG header: %v", err)
	}
	h, err := parsePNGHeader(buf[:])
	if err != nil {
		return Config{}, err
	}
	ct := colorTypeFromPNG(h.colorType)
	if ct == ColorUnknown {
		return Config{}, decodeErr("PNG color type %d", h.colorType)
	}
	return Config{
		Width:  h.width,
		Height: h.height,
		Color:  ct,
		Depth:  h.depth,
		Format: FormatPNG,
	}, nil
}

// Decode reads a complete PNG image.  The source color type is
// preserved: grayscale stays single-channel, gray+alpha is repacked to
// two channels, indexed keeps its palette, and 16-bit sources keep
// big-endian sample pairs with Depth 16.
func (pngCodec) Decode(r io.Reader) (Pic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, decodeErr("reading PNG data: %v", err)
	}
	h, err := parsePNGHeader(data)
	if err != nil {
		return nil, err
	}
	ct := colorTypeFromPNG(h.colorType)
	if ct == ColorUnknown {
		return nil, decodeErr("PNG color type %d", h.colorType)
	}
	m, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeErr("%v", err)
	}

	p := &PNGImage{Interlace: h.interlace}
	img := &p.Image
	img.Width = h.width
	img.Height = h.height
	img.Format = FormatPNG
	img.Color = ct
	img.Depth = h.depth
	img.Opaque = true

	switch ct {
	case ColorGray:
		switch src := m.(type) {
		case *image.Gray:
			img.copyRows(src.Pix, src.Stride, h.width*1)
			if h.depth > 8 {
				img.Depth = 8
			}
		case *image.Gray16:
			img.copyRows(src.Pix, src.Stride, h.width*2)
		default:
			return nil, decodeErr("unexpected PNG grayscale representation %T", m)
		}
	case ColorRGB:
		img.Stride = h.width * 3
		if h.depth == 16 {
			img.Stride *= 2
		}
		img.Pix = make([]uint8, img.Stride*h.height)
		switch src := m.(type) {
		case *image.RGBA:
			packDropAlpha(img.Pix, src.Pix, src.Stride, h.width, h.height, 1)
		case *image.RGBA64:
			packDropAlpha(img.Pix, src.Pix, src.Stride, h.width, h.height, 2)
		case *image.NRGBA:
			packDropAlpha(img.Pix, src.Pix, src.Stride, h.width, h.height, 1)
		case *image.NRGBA64:
			packDropAlpha(img.Pix, src.Pix, src.Stride, h.width, h.height, 2)
		default:
			return nil, decodeErr("unexpected PNG truecolor representation %T", m)
		}
	case ColorIndexed:
		src, ok := m.(*image.Paletted)
		if !ok {
			return nil, decodeErr("unexpected PNG indexed representation %T", m)
		}
		img.copyRows(src.Pix, src.Stride, h.width)
		img.Palette = append(color.Palette(nil), src.Palette...)
		img.HasAlpha = paletteHasAlpha(img.Palette)
		img.Opaque = !img.HasAlpha
	case ColorGrayAlpha:
		img.HasAlpha = true
		img.Stride = h.width * 2
		if h.depth == 16 {
			img.Stride *= 2
		}
		img.Pix = make([]uint8, img.Stride*h.height)
		switch src := m.(type) {
		case *image.NRGBA:
			packGrayAlpha(img.Pix, src.Pix, src.Stride, h.width, h.height, 1)
		case *image.NRGBA64:
			packGrayAlpha(img.Pix, src.Pix, src.Stride, h.width, h.height, 2)
		default:
			return nil, decodeErr("unexpected PNG gray+alpha representation %T", m)
		}
		img.Opaque = img.alphaOpaque()
	case ColorRGBA:
		img.HasAlpha = true
		switch src := m.(type) {
		case *image.NRGBA:
			img.copyRows(src.Pix, src.Stride, h.width*4)
		case *image.NRGBA64:
			img.copyRows(src.Pix, src.Stride, h.width*8)
		default:
			return nil, decodeErr("unexpected PNG truecolor+alpha representation %T", m)
		}
		img.Opaque = img.alphaOpaque()
	}
	return p, nil
}

// copyRows copies rowBytes bytes per row out of a stdlib pixel slice
// into a freshly allocated tight buffer.
func (img *Image) copyRows(src []uint8, srcStride, rowBytes int) {
	img.Stride = rowBytes
	img.Pix = make([]uint8, rowBytes*img.Height)
	for y := 0; y < img.Height; y++ {
		copy(img.Pix[y*rowBytes:(y+1)*rowBytes], src[y*srcStride:])
	}
}

// packDropAlpha packs 4-sample pixels into 3-sample pixels, dropping
// the alpha channel.  size is the bytes per sample.
func packDropAlpha(dst, src []uint8, srcStride, width, height, size int) {
	for y := 0; y < height; y++ {
		s := src[y*srcStride:]
		d := dst[y*width*3*size:]
		for x := 0; x < width; x++ {
			copy(d[x*3*size:(x*3+3)*size], s[x*4*size:])
		}
	}
}

// packGrayAlpha packs 4-sample gray pixels (G stored in R, G, and B)
// into 2-sample gray+alpha pixels.  size is the bytes per sample.
func packGrayAlpha(dst, src []uint8, srcStride, width, height, size int) {
	for y := 0; y < height; y++ {
		s := src[y*srcStride:]
		d := dst[y*width*2*size:]
		for x := 0; x < width; x++ {
			copy(d[x*2*size:(x*2+1)*size], s[x*4*size:])            // gray
			copy(d[(x*2+1)*size:(x*2+2)*size], s[(x*4+3)*size:])    // alpha
		}
	}
}

// paletteHasAlpha reports whether any palette entry is not fully
// opaque.
func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// Encode writes an 8-bit Gray, GrayAlpha, RGB, or RGBA picture as a
// PNG.  The stdlib encoder picks the matching PNG color type from the
// concrete image handed to it.
func (pngCodec) Encode(w io.Writer, p Pic) error {
	img := p.Base()
	if img.Depth != 8 {
		return unsupportedErr("PNG encodes 8-bit images, not %d-bit", img.Depth)
	}
	var m image.Image
	switch img.Color {
	case ColorGray:
		m = &image.Gray{Pix: img.Pix, Stride: img.Stride, Rect: img.Bounds()}
	case ColorRGBA:
		m = &image.NRGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Bounds()}
	case ColorRGB:
		rgba := image.NewRGBA(img.Bounds())
		for y := 0; y < img.Height; y++ {
			src := img.Pix[y*img.Stride:]
			dst := rgba.Pix[y*rgba.Stride:]
			for x := 0; x < img.Width; x++ {
				dst[x*4+0] = src[x*3+0]
				dst[x*4+1] = src[x*3+1]
				dst[x*4+2] = src[x*3+2]
				dst[x*4+3] = 0xff
			}
		}
		m = rgba
	case ColorGrayAlpha:
		nrgba := image.NewNRGBA(img.Bounds())
		for y := 0; y < img.Height; y++ {
			src := img.Pix[y*img.Stride:]
			dst := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < img.Width; x++ {
				g, a := src[x*2], src[x*2+1]
				dst[x*4+0] = g
				dst[x*4+1] = g
				dst[x*4+2] = g
				dst[x*4+3] = a
			}
		}
		m = nrgba
	default:
		return unsupportedErr("PNG encoding of %s images", img.Color)
	}
	if err := png.Encode(w, m); err != nil {
		return encodeErr("%v", err)
	}
	return nil
}

func init() {
	// image/png already registers the stdlib decoder with the image
	// package; only the codec registry entry is needed here.
	Register(pngCodec{})
}
