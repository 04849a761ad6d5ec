// This file provides image support for both "raw" (binary) and
// "plain" (ASCII) Portable PixMap (PPM) files.

package pix

import (
	"fmt"
	"image"
	"io"
)

// A PPMImage is a color picture together with its PPM encoding
// parameters.  After a load, Plain and MaxVal reflect the file that
// was read; on save they select the variant and the declared maximum
// sample value.
type PPMImage struct {
	Image
	Plain  bool // true = plain (ASCII, P3); false = raw (binary, P6)
	MaxVal int  // maximum sample value to declare on save (1-65535)
}

// Base returns the embedded abstract image.
func (p *PPMImage) Base() *Image { return &p.Image }

// NewPPM wraps a base image into a PPM picture with the default
// parameters (raw variant, maximum value 255).  The pixel buffer is
// shared, not copied.
func NewPPM(img *Image) *PPMImage {
	p := &PPMImage{Image: *img, MaxVal: 255}
	p.Image.Format = FormatPPM
	return p
}

// ppmCodec is the PPM back-end.
type ppmCodec struct{}

// Format identifies the codec as serving PPM files.
func (ppmCodec) Format() Format { return FormatPPM }

// Extensions lists the filename extensions that select this codec.
func (ppmCodec) Extensions() []string { return []string{"ppm"} }

// DecodeConfig reads and parses a PPM header, either raw or plain.
func (ppmCodec) DecodeConfig(r io.Reader) (Config, error) {
	nr := newPnmReader(r)
	header, ok := nr.GetHeader()
	if !ok || (header.Magic != "P3" && header.Magic != "P6") {
		return Config{}, decodeErr("invalid PPM header")
	}
	depth := 8
	if header.MaxVal > 255 {
		depth = 16
	}
	return Config{
		Width:  header.Width,
		Height: header.Height,
		Color:  ColorRGB,
		Depth:  depth,
		MaxVal: header.MaxVal,
		Format: FormatPPM,
	}, nil
}

// Decode reads a complete PPM image, raw or plain.  Samples are
// rescaled from the file's maximum value to the 8-bit pipeline.
func (ppmCodec) Decode(r io.Reader) (Pic, error) {
	nr := newPnmReader(r)
	header, ok := nr.GetHeader()
	if !ok || (header.Magic != "P3" && header.Magic != "P6") {
		return nil, decodeErr("invalid PPM header")
	}
	base := NewImage(header.Width, header.Height, ColorRGB)
	base.Format = FormatPPM
	p := &PPMImage{Image: *base, Plain: header.Magic == "P3", MaxVal: header.MaxVal}
	if p.Plain {
		if !p.Image.fillASCII(nr, header.MaxVal) {
			return nil, decodeErr("malformed PPM sample data")
		}
	} else if err := p.Image.fillRaw(nr, header.MaxVal); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode writes an 8-bit RGB picture in PPM form.  Pictures of other
// concrete types are encoded with the default parameters, which is how
// cross-format conversion reaches this codec.
func (ppmCodec) Encode(w io.Writer, p Pic) error {
	img := p.Base()
	if img.Color != ColorRGB || img.Depth != 8 {
		return unsupportedErr("PPM encodes 8-bit RGB images, not %d-bit %s", img.Depth, img.Color)
	}
	plain, maxVal := false, 255
	if pp, ok := p.(*PPMImage); ok {
		plain = pp.Plain
		if pp.MaxVal != 0 {
			maxVal = pp.MaxVal
		}
	}
	if maxVal < 1 || maxVal > 65535 {
		return invalidErr("PPM maximum value %d out of range", maxVal)
	}

	// Write the PPM header.
	if plain {
		fmt.Fprintln(w, "P3")
	} else {
		fmt.Fprintln(w, "P6")
	}
	fmt.Fprintf(w, "%d %d\n", img.Width, img.Height)
	fmt.Fprintf(w, "%d\n", maxVal)

	// In the background, write each rescaled sample into a channel.
	samples := make(chan uint16, img.Width*3)
	go img.pourSamples(samples, 3, maxVal)

	// In the foreground, consume samples and write them to the file.
	if plain {
		return writePlainData(w, samples)
	}
	size := 1
	if maxVal > 255 {
		size = 2
	}
	return writeRawData(w, samples, size)
}

// fillASCII reads plain samples into the image buffer row by row.
func (img *Image) fillASCII(nr *pnmReader, maxVal int) bool {
	n := img.Width * img.Channels()
	for y := 0; y < img.Height; y++ {
		if !nr.GetASCIIData(maxVal, img.Pix[y*img.Stride:y*img.Stride+n]) {
			return false
		}
	}
	return true
}

// fillRaw reads raw samples into the image buffer row by row.
func (img *Image) fillRaw(nr *pnmReader, maxVal int) error {
	n := img.Width * img.Channels()
	for y := 0; y < img.Height; y++ {
		if err := nr.GetRawData(maxVal, img.Pix[y*img.Stride:y*img.Stride+n]); err != nil {
			return err
		}
	}
	return nil
}

// pourSamples feeds every sample of the image, rescaled from 0-255 to
// 0-maxVal, into a channel and closes it.
func (img *Image) pourSamples(samples chan<- uint16, channels, maxVal int) {
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < img.Width*channels; x++ {
			samples <- uint16(int(row[x]) * maxVal / 255)
		}
	}
	close(samples)
}

// Indicate that we can decode both raw and plain PPM files through the
// standard image package as well.
func init() {
	Register(ppmCodec{})
	image.RegisterFormat("ppm", "P6", ppmStdDecode, ppmStdConfig)
	image.RegisterFormat("ppm", "P3", ppmStdDecode, ppmStdConfig)
}

func ppmStdDecode(r io.Reader) (image.Image, error) {
	p, err := ppmCodec{}.Decode(r)
	if err != nil {
		return nil, err
	}
	return p.Base(), nil
}

func ppmStdConfig(r io.Reader) (image.Config, error) {
	cfg, err := ppmCodec{}.DecodeConfig(r)
	if err != nil {
		return image.Config{}, err
	}
	return cfg.imageConfig(), nil
}
