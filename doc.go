/*

Package pix implements the image codec core of a Wayland client
toolkit: loading and saving of PNG, JPEG, BMP, PPM, PGM, XBM, and XPM
files through one abstract image type with pluggable per-format
back-ends.

Every decoded picture shares the same base representation, Image: a
contiguous byte buffer plus dimensions, stride, color type, and bit
depth.  Each format wraps that base in its own picture type (PNGImage,
JPEGImage, ...) carrying the parameters specific to its encoding, such
as JPEG quality or the PPM variant.  The Load and Save facade picks the
back-end by filename extension on load and by the picture's format tag
on save, so converting between formats is a matter of rewrapping the
base image:

	p, err := pix.Load("in.png")
	if err != nil {
		...
	}
	j := pix.NewJPEG(p.Base())
	j.Quality = 90
	err = pix.Save(j, "out.jpg")

PNG and JPEG pixel pipelines are delegated to the standard library's
image/png and image/jpeg packages; BMP, the Netpbm pair, and the X
source-text formats are implemented here byte for byte.  All codecs
also register with the standard image package where the format has a
stable magic, so image.Decode can read those streams too.

The region subpackage provides the rectangle-list geometry used by the
toolkit's damage tracking.

*/
package pix
