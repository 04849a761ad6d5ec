// This file provides image support for both "raw" (binary) and
// "plain" (ASCII) Portable GrayMap (PGM) files.

package pix

import (
	"fmt"
	"image"
	"io"
)

// A PGMImage is a grayscale picture together with its PGM encoding
// parameters, mirroring PPMImage for the single-channel case.
type PGMImage struct {
	Image
	Plain  bool // true = plain (ASCII, P2); false = raw (binary, P5)
	MaxVal int  // maximum sample value to declare on save (1-65535)
}

// Base returns the embedded abstract image.
func (p *PGMImage) Base() *Image { return &p.Image }

// NewPGM wraps a base image into a PGM picture with the default
// parameters (raw variant, maximum value 255).  The pixel buffer is
// shared, not copied.
func NewPGM(img *Image) *PGMImage {
	p := &PGMImage{Image: *img, MaxVal: 255}
	p.Image.Format = FormatPGM
	return p
}

// pgmCodec is the PGM back-end.
type pgmCodec struct{}

// Format identifies the codec as serving PGM files.
func (pgmCodec) Format() Format { return FormatPGM }

// Extensions lists the filename extensions that select this codec.
func (pgmCodec) Extensions() []string { return []string{"pgm"} }

// DecodeConfig reads and parses a PGM header, either raw or plain.
func (pgmCodec) DecodeConfig(r io.Reader) (Config, error) {
	nr := newPnmReader(r)
	header, ok := nr.GetHeader()
	if !ok || (header.Magic != "P2" && header.Magic != "P5") {
		return Config{}, decodeErr("invalid PGM header")
	}
	depth := 8
	if header.MaxVal > 255 {
		depth = 16
	}
	return Config{
		Width:  header.Width,
		Height: header.Height,
		Color:  ColorGray,
		Depth:  depth,
		MaxVal: header.MaxVal,
		Format: FormatPGM,
	}, nil
}

// Decode reads a complete PGM image, raw or plain.  Samples are
// rescaled from the file's maximum value to the 8-bit pipeline.
func (pgmCodec) Decode(r io.Reader) (Pic, error) {
	nr := newPnmReader(r)
	header, ok := nr.GetHeader()
	if !ok || (header.Magic != "P2" && header.Magic != "P5") {
		return nil, decodeErr("invalid PGM header")
	}
	base := NewImage(header.Width, header.Height, ColorGray)
	base.Format = FormatPGM
	p := &PGMImage{Image: *base, Plain: header.Magic == "P2", MaxVal: header.MaxVal}
	if p.Plain {
		if !p.Image.fillASCII(nr, header.MaxVal) {
			return nil, decodeErr("malformed PGM sample data")
		}
	} else if err := p.Image.fillRaw(nr, header.MaxVal); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode writes an 8-bit grayscale picture in PGM form.
func (pgmCodec) Encode(w io.Writer, p Pic) error {
	img := p.Base()
	if img.Color != ColorGray || img.Depth > 8 {
		return unsupportedErr("PGM encodes 8-bit grayscale images, not %d-bit %s", img.Depth, img.Color)
	}
	plain, maxVal := false, 255
	if pp, ok := p.(*PGMImage); ok {
		plain = pp.Plain
		if pp.MaxVal != 0 {
			maxVal = pp.MaxVal
		}
	}
	if maxVal < 1 || maxVal > 65535 {
		return invalidErr("PGM maximum value %d out of range", maxVal)
	}

	// Write the PGM header.
	if plain {
		fmt.Fprintln(w, "P2")
	} else {
		fmt.Fprintln(w, "P5")
	}
	fmt.Fprintf(w, "%d %d\n", img.Width, img.Height)
	fmt.Fprintf(w, "%d\n", maxVal)

	// In the background, write each rescaled sample into a channel.
	samples := make(chan uint16, img.Width)
	go img.pourSamples(samples, 1, maxVal)

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

// Indicate that we can decode both raw and plain PGM files through the
// standard image package as well.
func init() {
	Register(pgmCodec{})
	image.RegisterFormat("pgm", "P5", pgmStdDecode, pgmStdConfig)
	image.RegisterFormat("pgm", "P2", pgmStdDecode, pgmStdConfig)
}

func pgmStdDecode(r io.Reader) (image.Image, error) {
	p, err := pgmCodec{}.Decode(r)
	if err != nil {
		return nil, err
	}
	return p.Base(), nil
}

func pgmStdConfig(r io.Reader) (image.Config, error) {
	cfg, err := pgmCodec{}.DecodeConfig(r)
	if err != nil {
		return image.Config{}, err
	}
	return cfg.imageConfig(), nil
}
