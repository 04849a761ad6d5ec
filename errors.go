// Error kinds reported by the codec layer.
//
// Every failure returned from Load, Save, and the codecs wraps exactly
// one of the sentinel errors below (or an *fs.PathError for filesystem
// failures), so callers can classify with errors.Is while the message
// carries the detail and the file path.  The exception is a write
// failure of the writer handed to the BMP, PPM, PGM, XBM, or XPM
// encoder, which is returned as that writer reported it.

package pix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports nil or empty inputs and
	// out-of-range parameters caught at the API boundary.
	ErrInvalidArgument = errors.New("pix: invalid argument")

	// ErrUnsupportedFormat reports an unrecognized file extension, a
	// format tag with no registered codec, or a file feature outside
	// the supported profile of its codec.
	ErrUnsupportedFormat = errors.New("pix: unsupported format")

	// ErrDecode reports malformed input bytes: a wrong signature, an
	// impossible header, truncated data, or an out-of-range sample.
	ErrDecode = errors.New("pix: decode error")

	// ErrEncode reports a failure inside an encoder back-end.
	ErrEncode = errors.New("pix: encode error")
)

func invalidErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func unsupportedErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, fmt.Sprintf(format, args...))
}

func decodeErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

func encodeErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEncode, fmt.Sprintf(format, args...))
}
