// This file provides image support for Windows BMP files.  The
// supported profile is 24 bits per pixel, uncompressed (BI_RGB), with
// a BITMAPFILEHEADER immediately followed by a BITMAPINFOHEADER; the
// byte layout is implemented here rather than delegated to a library
// so that it stays bit-exact.

package pix

import (
	"image"
	"io"
)

// BMP compression methods as stored in the info header.
type BMPCompression uint32

const (
	BMPCompressionRGB       BMPCompression = 0 // BI_RGB, the only profile that round-trips
	BMPCompressionRLE8      BMPCompression = 1
	BMPCompressionRLE4      BMPCompression = 2
	BMPCompressionBitfields BMPCompression = 3
)

const (
	bmpFileHeaderLen = 14
	bmpInfoHeaderLen = 40
	// Pixels per meter declared on save; roughly 72 DPI.  Ignored
	// on load.
	bmpPelsPerMeter = 2835
)

// A BMPImage is a picture together with its BMP header parameters.
// Only the {BMPCompressionRGB, 24 bpp} combination is encodable.
type BMPImage struct {
	Image
	Compression     BMPCompression
	BPP             int // bits per pixel on disk: 1, 4, 8, 16, 24, or 32
	ColorsUsed      uint32
	ImportantColors uint32
	TopDown         bool // rows stored top-down (negative height on disk)
}

// Base returns the embedded abstract image.
func (p *BMPImage) Base() *Image { return &p.Image }

// NewBMP wraps a base image into a BMP picture with the default
// parameters (uncompressed 24 bpp, bottom-up).  The pixel buffer is
// shared, not copied.
func NewBMP(img *Image) *BMPImage {
	p := &BMPImage{Image: *img, BPP: 24}
	p.Image.Format = FormatBMP
	return p
}

// bmpRowBytes returns the padded on-disk size of one row.
func bmpRowBytes(width, bpp int) int {
	return ((width*bpp+7)/8 + 3) &^ 3
}

// Little-endian field helpers.  BMP files are little-endian
// throughout.
func bmpU16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func bmpU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func bmpPutU16(b []byte, v uint16) { b[0], b[1] = byte(v), byte(v>>8) }
func bmpPutU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

// bmpHeader is the parsed file and info header pair.
type bmpHeader struct {
	dataOffset  uint32
	width       int
	height      int
	topDown     bool
	bpp         int
	compression BMPCompression
	colorsUsed  uint32
	important   uint32
}

// readBMPHeader parses the BITMAPFILEHEADER and BITMAPINFOHEADER.
func readBMPHeader(r io.Reader) (bmpHeader, error) {
	var b [bmpFileHeaderLen + bmpInfoHeaderLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return bmpHeader{}, decodeErr("truncated BMP header: %v", err)
	}
	if b[0] != 'B' || b[1] != 'M' {
		return bmpHeader{}, decodeErr("not a BMP file")
	}
	if size := bmpU32(b[14:]); size != bmpInfoHeaderLen {
		return bmpHeader{}, unsupportedErr("BMP DIB header size %d", size)
	}
	var h bmpHeader
	h.dataOffset = bmpU32(b[10:])
	h.width = int(int32(bmpU32(b[18:])))
	h.height = int(int32(bmpU32(b[22:])))
	if h.height < 0 {
		h.height, h.topDown = -h.height, true
	}
	if h.width <= 0 || h.height == 0 {
		return bmpHeader{}, decodeErr("impossible BMP dimensions %dx%d", h.width, h.height)
	}
	if planes := bmpU16(b[26:]); planes != 1 {
		return bmpHeader{}, decodeErr("BMP plane count %d", planes)
	}
	h.bpp = int(bmpU16(b[28:]))
	h.compression = BMPCompression(bmpU32(b[30:]))
	h.colorsUsed = bmpU32(b[46:])
	h.important = bmpU32(b[50:])
	return h, nil
}

// bmpCodec is the BMP back-end.
type bmpCodec struct{}

// Format identifies the codec as serving BMP files.
func (bmpCodec) Format() Format { return FormatBMP }

// Extensions lists the filename extensions that select this codec.
func (bmpCodec) Extensions() []string { return []string{"bmp"} }

// DecodeConfig reads and parses the BMP headers.
func (bmpCodec) DecodeConfig(r io.Reader) (Config, error) {
	h, err := readBMPHeader(r)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Width:  h.width,
		Height: h.height,
		Color:  ColorRGB,
		Depth:  8,
		Format: FormatBMP,
	}, nil
}

// Decode reads a complete BMP image.  Anything outside the supported
// 24-bpp uncompressed profile is rejected as unsupported before any
// pixel data is read.
func (bmpCodec) Decode(r io.Reader) (Pic, error) {
	h, err := readBMPHeader(r)
	if err != nil {
		return nil, err
	}
	if h.compression != BMPCompressionRGB || h.bpp != 24 {
		return nil, unsupportedErr("BMP compression %d at %d bpp", h.compression, h.bpp)
	}
	// Skip any gap between the headers and the pixel data (palette
	// space, although a 24-bpp file normally has none).
	if gap := int64(h.dataOffset) - (bmpFileHeaderLen + bmpInfoHeaderLen); gap > 0 {
		if _, err := io.CopyN(io.Discard, r, gap); err != nil {
			return nil, decodeErr("truncated BMP palette area: %v", err)
		}
	} else if gap < 0 {
		return nil, decodeErr("BMP data offset %d inside the headers", h.dataOffset)
	}

	base := NewImage(h.width, h.height, ColorRGB)
	base.Format = FormatBMP
	p := &BMPImage{
		Image:           *base,
		BPP:             24,
		ColorsUsed:      h.colorsUsed,
		ImportantColors: h.important,
		TopDown:         h.topDown,
	}

	// Rows are padded to four bytes and stored in BGR order;
	// bottom-up unless the height was negative.
	row := make([]byte, bmpRowBytes(h.width, 24))
	y0, y1, yDelta := h.height-1, -1, -1
	if h.topDown {
		y0, y1, yDelta = 0, h.height, +1
	}
	for y := y0; y != y1; y += yDelta {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, decodeErr("truncated BMP pixel data: %v", err)
		}
		dst := p.Pix[y*p.Stride : y*p.Stride+3*h.width]
		for i, j := 0, 0; i < len(dst); i, j = i+3, j+3 {
			dst[i+0] = row[j+2]
			dst[i+1] = row[j+1]
			dst[i+2] = row[j+0]
		}
	}
	return p, nil
}

// Encode writes an 8-bit RGB picture as an uncompressed 24-bpp BMP.
func (bmpCodec) Encode(w io.Writer, p Pic) error {
	img := p.Base()
	if img.Color != ColorRGB || img.Depth != 8 {
		return unsupportedErr("BMP encodes 8-bit RGB images, not %d-bit %s", img.Depth, img.Color)
	}
	topDown := false
	if bp, ok := p.(*BMPImage); ok {
		if bp.Compression != BMPCompressionRGB || (bp.BPP != 0 && bp.BPP != 24) {
			return unsupportedErr("BMP compression %d at %d bpp", bp.Compression, bp.BPP)
		}
		topDown = bp.TopDown
	}

	rowBytes := bmpRowBytes(img.Width, 24)
	var hdr [bmpFileHeaderLen + bmpInfoHeaderLen]byte
	hdr[0], hdr[1] = 'B', 'M'
	bmpPutU32(hdr[2:], uint32(bmpFileHeaderLen+bmpInfoHeaderLen+rowBytes*img.Height))
	bmpPutU32(hdr[10:], bmpFileHeaderLen+bmpInfoHeaderLen)
	bmpPutU32(hdr[14:], bmpInfoHeaderLen)
	bmpPutU32(hdr[18:], uint32(int32(img.Width)))
	height := int32(img.Height)
	if topDown {
		height = -height
	}
	bmpPutU32(hdr[22:], uint32(height))
	bmpPutU16(hdr[26:], 1)
	bmpPutU16(hdr[28:], 24)
	bmpPutU32(hdr[30:], uint32(BMPCompressionRGB))
	bmpPutU32(hdr[34:], uint32(rowBytes*img.Height))
	bmpPutU32(hdr[38:], bmpPelsPerMeter)
	bmpPutU32(hdr[42:], bmpPelsPerMeter)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	// Rows on disk are BGR with zeroed padding.
	row := make([]byte, rowBytes)
	y0, y1, yDelta := img.Height-1, -1, -1
	if topDown {
		y0, y1, yDelta = 0, img.Height, +1
	}
	for y := y0; y != y1; y += yDelta {
		src := img.Pix[y*img.Stride : y*img.Stride+3*img.Width]
		for i, j := 0, 0; i < len(src); i, j = i+3, j+3 {
			row[j+0] = src[i+2]
			row[j+1] = src[i+1]
			row[j+2] = src[i+0]
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Indicate that we can decode BMP files through the standard image
// package as well.
func init() {
	Register(bmpCodec{})
	image.RegisterFormat("bmp", "BM", bmpStdDecode, bmpStdConfig)
}

func bmpStdDecode(r io.Reader) (image.Image, error) {
	p, err := bmpCodec{}.Decode(r)
	if err != nil {
		return nil, err
	}
	return p.Base(), nil
}

func bmpStdConfig(r io.Reader) (image.Config, error) {
	cfg, err := bmpCodec{}.DecodeConfig(r)
	if err != nil {
		return image.Config{}, err
	}
	return cfg.imageConfig(), nil
}
