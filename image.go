// The abstract image shared by every codec: one DIB-style byte buffer
// plus the metadata needed to interpret it.

package pix

import (
	"image"
	"image/color"
)

// A ColorType is the semantic channel layout of a pixel.
type ColorType int

const (
	ColorUnknown ColorType = iota
	ColorRGB
	ColorRGBA
	ColorGray
	ColorGrayAlpha
	ColorIndexed
)

// Channels returns the number of samples per pixel for the color type,
// or 0 for ColorUnknown.
func (c ColorType) Channels() int {
	switch c {
	case ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	case ColorGray:
		return 1
	case ColorGrayAlpha:
		return 2
	case ColorIndexed:
		return 1
	default:
		return 0
	}
}

// String names the color type for diagnostics.
func (c ColorType) String() string {
	switch c {
	case ColorRGB:
		return "rgb"
	case ColorRGBA:
		return "rgba"
	case ColorGray:
		return "gray"
	case ColorGrayAlpha:
		return "gray+alpha"
	case ColorIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// A Format identifies an image file encoding, independent of the codec
// that implements it.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatBMP
	FormatPPM
	FormatPGM
	FormatXBM
	FormatXPM
)

// String returns the format's canonical lowercase tag.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatPPM:
		return "ppm"
	case FormatPGM:
		return "pgm"
	case FormatXBM:
		return "xbm"
	case FormatXPM:
		return "xpm"
	default:
		return "unknown"
	}
}

// FormatByName maps a canonical lowercase tag ("png", "jpeg", "bmp",
// "ppm", "pgm", "xbm", "xpm") to its Format.  Anything else, including
// mixed case and extension aliases, maps to FormatUnknown.
func FormatByName(name string) Format {
	switch name {
	case "png":
		return FormatPNG
	case "jpeg":
		return FormatJPEG
	case "bmp":
		return FormatBMP
	case "ppm":
		return FormatPPM
	case "pgm":
		return FormatPGM
	case "xbm":
		return FormatXBM
	case "xpm":
		return FormatXPM
	default:
		return FormatUnknown
	}
}

// An Image is the decoded form shared by every codec.  Pix holds
// len = Stride*Height bytes; each row starts at y*Stride and carries
// Width pixels of Color.Channels() samples.  Samples are one byte each
// except when Depth is 16, in which case they are big-endian pairs.
//
// Image implements image.Image, so a picture can be handed directly to
// the standard library's encoders and draw operations.
type Image struct {
	Pix    []uint8
	Stride int
	Width  int
	Height int

	Color ColorType
	// Depth is the bit depth of the source samples.  Sub-8-bit
	// sources are stored one byte per sample with Depth recording
	// the original precision.
	Depth int

	HasAlpha bool
	Opaque   bool

	Format Format

	// Palette is the color table of an indexed image; nil otherwise.
	Palette color.Palette
}

// NewImage returns an image of the given geometry with a zeroed,
// tightly packed 8-bit pixel buffer.
func NewImage(width, height int, c ColorType) *Image {
	stride := width * c.Channels()
	return &Image{
		Pix:    make([]uint8, stride*height),
		Stride: stride,
		Width:  width,
		Height: height,
		Color:  c,
		Depth:  8,
		Opaque: true,
	}
}

// Channels returns the number of samples per pixel, or 0 when the
// color type is unknown.
func (img *Image) Channels() int { return img.Color.Channels() }

// Bounds returns the image's pixel domain.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// ColorModel returns the color model matching the image's color type
// and depth.
func (img *Image) ColorModel() color.Model {
	if img.Color == ColorIndexed && img.Palette != nil {
		return img.Palette
	}
	return modelFor(img.Color, img.Depth)
}

// modelFor maps a color type and bit depth to a stdlib color model.
func modelFor(c ColorType, depth int) color.Model {
	switch c {
	case ColorGray:
		if depth == 16 {
			return color.Gray16Model
		}
		return color.GrayModel
	case ColorRGB:
		if depth == 16 {
			return color.RGBA64Model
		}
		return color.RGBAModel
	case ColorRGBA, ColorGrayAlpha:
		if depth == 16 {
			return color.NRGBA64Model
		}
		return color.NRGBAModel
	default:
		return color.RGBAModel
	}
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (img *Image) PixOffset(x, y int) int {
	bps := 1
	if img.Depth == 16 {
		bps = 2
	}
	return y*img.Stride + x*img.Channels()*bps
}

// sample returns the i'th sample of the pixel starting at offset,
// widened to 16 bits.
func (img *Image) sample(offset, i int) uint16 {
	if img.Depth == 16 {
		j := offset + i*2
		return uint16(img.Pix[j])<<8 | uint16(img.Pix[j+1])
	}
	return uint16(img.Pix[offset+i]) * 0x101
}

// At returns the color of the pixel at (x, y).
func (img *Image) At(x, y int) color.Color {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return color.RGBA{}
	}
	i := img.PixOffset(x, y)
	switch img.Color {
	case ColorGray:
		if img.Depth == 16 {
			return color.Gray16{Y: img.sample(i, 0)}
		}
		return color.Gray{Y: img.Pix[i]}
	case ColorGrayAlpha:
		g, a := img.sample(i, 0), img.sample(i, 1)
		return color.NRGBA64{R: g, G: g, B: g, A: a}
	case ColorRGB:
		if img.Depth == 16 {
			return color.RGBA64{
				R: img.sample(i, 0),
				G: img.sample(i, 1),
				B: img.sample(i, 2),
				A: 0xffff,
			}
		}
		return color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 0xff}
	case ColorRGBA:
		if img.Depth == 16 {
			return color.NRGBA64{
				R: img.sample(i, 0),
				G: img.sample(i, 1),
				B: img.sample(i, 2),
				A: img.sample(i, 3),
			}
		}
		return color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
	case ColorIndexed:
		if img.Palette != nil && int(img.Pix[i]) < len(img.Palette) {
			return img.Palette[img.Pix[i]]
		}
		return color.RGBA{}
	default:
		return color.RGBA{}
	}
}

// alphaOpaque scans the alpha samples of an Rgba or GrayAlpha buffer
// and reports whether every pixel is fully opaque.
func (img *Image) alphaOpaque() bool {
	ch := img.Channels()
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if img.sample(img.PixOffset(x, y), ch-1) != 0xffff {
				return false
			}
		}
	}
	return true
}

// A Config holds an image's metadata as parsed from its header alone.
type Config struct {
	Width  int
	Height int
	Color  ColorType
	Depth  int
	// MaxVal is the maximum sample value declared by a Netpbm
	// header; 0 for the other formats.
	MaxVal int
	Format Format
}

// imageConfig converts a Config into the stdlib's image.Config form.
func (c Config) imageConfig() image.Config {
	return image.Config{
		ColorModel: modelFor(c.Color, c.Depth),
		Width:      c.Width,
		Height:     c.Height,
	}
}
