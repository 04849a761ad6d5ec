// This file provides image support for JPEG (JFIF) files.  The DCT
// pipeline is delegated to the standard image/jpeg package; decode
// always produces packed 8-bit RGB regardless of the file's internal
// colorspace, and encode accepts exactly that.

package pix

import (
	"image"
	"image/color"
	"image/jpeg"
	"io"
)

// Subsampling is a JPEG chroma subsampling scheme.  The value is
// declarative: the baseline encoder back-end chooses its own
// subsampling, and decode leaves the field at the default.
type Subsampling int

const (
	Subsampling444 Subsampling = iota
	Subsampling422
	Subsampling420
	Subsampling411
)

// String names the subsampling scheme.
func (s Subsampling) String() string {
	switch s {
	case Subsampling444:
		return "4:4:4"
	case Subsampling422:
		return "4:2:2"
	case Subsampling420:
		return "4:2:0"
	case Subsampling411:
		return "4:1:1"
	default:
		return "unknown"
	}
}

// Default JPEG encoding parameters.
const (
	DefaultJPEGQuality     = 85
	defaultJPEGSubsampling = Subsampling420
)

// A JPEGImage is a picture together with its JPEG encoding parameters.
type JPEGImage struct {
	Image
	Quality     int         // 1-100
	Subsampling Subsampling
	Progressive bool // progressive scan script; not encodable by this back-end
	Optimize    bool // optimized entropy tables
}

// Base returns the embedded abstract image.
func (p *JPEGImage) Base() *Image { return &p.Image }

// NewJPEG wraps a base image into a JPEG picture with the default
// parameters {85, 4:2:0, baseline, optimized}.  The pixel buffer is
// shared, not copied.
func NewJPEG(img *Image) *JPEGImage {
	p := &JPEGImage{
		Image:       *img,
		Quality:     DefaultJPEGQuality,
		Subsampling: defaultJPEGSubsampling,
		Optimize:    true,
	}
	p.Image.Format = FormatJPEG
	return p
}

// jpegCodec is the JPEG back-end.
type jpegCodec struct{}

// Format identifies the codec as serving JPEG files.
func (jpegCodec) Format() Format { return FormatJPEG }

// Extensions lists the filename extensions that select this codec.
func (jpegCodec) Extensions() []string { return []string{"jpg", "jpeg"} }

// DecodeConfig reads the JPEG header.  The reported color type is RGB
// because that is what Decode returns for every source colorspace.
func (jpegCodec) DecodeConfig(r io.Reader) (Config, error) {
	cfg, err := jpeg.DecodeConfig(r)
	if err != nil {
		return Config{}, decodeErr("%v", err)
	}
	return Config{
		Width:  cfg.Width,
		Height: cfg.Height,
		Color:  ColorRGB,
		Depth:  8,
		Format: FormatJPEG,
	}, nil
}

// Decode reads a complete JPEG image and converts it to packed 8-bit
// RGB rows, whatever the file's internal colorspace.
func (jpegCodec) Decode(r io.Reader) (Pic, error) {
	m, err := jpeg.Decode(r)
	if err != nil {
		return nil, decodeErr("%v", err)
	}
	b := m.Bounds()
	base := NewImage(b.Dx(), b.Dy(), ColorRGB)
	base.Format = FormatJPEG
	p := &JPEGImage{
		Image:       *base,
		Quality:     DefaultJPEGQuality,
		Subsampling: defaultJPEGSubsampling,
		Optimize:    true,
	}
	img := &p.Image

	switch src := m.(type) {
	case *image.YCbCr:
		for y := 0; y < img.Height; y++ {
			dst := img.Pix[y*img.Stride:]
			for x := 0; x < img.Width; x++ {
				yi := src.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := src.COffset(b.Min.X+x, b.Min.Y+y)
				r8, g8, b8 := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				dst[x*3+0] = r8
				dst[x*3+1] = g8
				dst[x*3+2] = b8
			}
		}
	case *image.Gray:
		for y := 0; y < img.Height; y++ {
			dst := img.Pix[y*img.Stride:]
			srow := src.Pix[y*src.Stride:]
			for x := 0; x < img.Width; x++ {
				g := srow[x]
				dst[x*3+0] = g
				dst[x*3+1] = g
				dst[x*3+2] = g
			}
		}
	case *image.CMYK:
		for y := 0; y < img.Height; y++ {
			dst := img.Pix[y*img.Stride:]
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < img.Width; x++ {
				s := src.Pix[i+x*4 : i+x*4+4]
				r8, g8, b8 := color.CMYKToRGB(s[0], s[1], s[2], s[3])
				dst[x*3+0] = r8
				dst[x*3+1] = g8
				dst[x*3+2] = b8
			}
		}
	default:
		for y := 0; y < img.Height; y++ {
			dst := img.Pix[y*img.Stride:]
			for x := 0; x < img.Width; x++ {
				r16, g16, b16, _ := m.At(b.Min.X+x, b.Min.Y+y).RGBA()
				dst[x*3+0] = uint8(r16 >> 8)
				dst[x*3+1] = uint8(g16 >> 8)
				dst[x*3+2] = uint8(b16 >> 8)
			}
		}
	}
	return p, nil
}

// Encode writes an 8-bit RGB picture as a baseline JPEG at the
// picture's quality.  Progressive output is outside the back-end's
// profile.
func (jpegCodec) Encode(w io.Writer, p Pic) error {
	img := p.Base()
	if img.Color != ColorRGB || img.Depth != 8 {
		return unsupportedErr("JPEG encodes 8-bit RGB images, not %d-bit %s", img.Depth, img.Color)
	}
	quality := DefaultJPEGQuality
	if jp, ok := p.(*JPEGImage); ok {
		if jp.Progressive {
			return unsupportedErr("progressive JPEG encoding")
		}
		if jp.Quality != 0 {
			quality = jp.Quality
		}
	}
	if quality < 1 || quality > 100 {
		return invalidErr("JPEG quality %d out of range", quality)
	}

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
	if err := jpeg.Encode(w, rgba, &jpeg.Options{Quality: quality}); err != nil {
		return encodeErr("%v", err)
	}
	return nil
}

func init() {
	// image/jpeg already registers the stdlib decoder with the
	// image package; only the codec registry entry is needed here.
	Register(jpegCodec{})
}
