// Codec dispatch: the registry of per-format back-ends and the
// path-based Load/Save facade.

package pix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wlkit/pix/internal/ilist"
)

// A Pic is a decoded picture.  Every concrete picture type embeds
// Image as its first field and hands it out through Base, which is how
// a codec-specific value is passed around generically.
type Pic interface {
	Base() *Image
}

// A Codec decodes and encodes one image file format.  Codecs register
// themselves with Register from an init function and must be safe for
// concurrent use; the registry is read-only after program start.
type Codec interface {
	// Format returns the format tag this codec serves.
	Format() Format
	// Extensions lists the lowercase filename extensions, without
	// the dot, that select this codec on load.
	Extensions() []string
	// Decode reads a complete image from r.
	Decode(r io.Reader) (Pic, error)
	// DecodeConfig reads only the header metadata from r.
	DecodeConfig(r io.Reader) (Config, error)
	// Encode writes p to w.  Encoders accept any Pic whose base
	// image fits their supported profile, which is what makes
	// cross-format conversion work.
	Encode(w io.Writer, p Pic) error
}

// codecEntry links one registered codec into the registry list.
type codecEntry struct {
	codec Codec
	node  ilist.Node[codecEntry]
}

var registry ilist.List[codecEntry]

// Register adds a codec to the registry.  It is intended to be called
// from init functions; registering two codecs for the same format or
// extension is a programmer error and the first one wins.
func Register(c Codec) {
	e := &codecEntry{codec: c}
	registry.PushBack(&e.node, e)
}

// codecByFormat finds the registered codec for a format tag.
func codecByFormat(f Format) Codec {
	var found Codec
	registry.Each(func(e *codecEntry) bool {
		if e.codec.Format() == f {
			found = e.codec
			return false
		}
		return true
	})
	return found
}

// codecByExtension finds the registered codec claiming a lowercase
// extension (without the dot).
func codecByExtension(ext string) Codec {
	var found Codec
	registry.Each(func(e *codecEntry) bool {
		for _, x := range e.codec.Extensions() {
			if x == ext {
				found = e.codec
				return false
			}
		}
		return true
	})
	return found
}

// pathExtension splits the lowercase extension off a path, reporting
// failure when the path has none.
func pathExtension(path string) (string, error) {
	ext := filepath.Ext(path)
	if ext == "" || ext == "." {
		return "", invalidErr("%q has no filename extension", path)
	}
	return strings.ToLower(ext[1:]), nil
}

// Load reads the image file at path, choosing the codec by the path's
// extension (case-insensitive).  The returned picture can be inspected
// generically through Base or type-asserted to its concrete form for
// format-specific parameters.
func Load(path string) (Pic, error) {
	if path == "" {
		return nil, invalidErr("empty path")
	}
	ext, err := pathExtension(path)
	if err != nil {
		return nil, err
	}
	c := codecByExtension(ext)
	if c == nil {
		return nil, unsupportedErr("no codec for %q files", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := c.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadConfig reads only the header of the image file at path and
// returns its metadata without decoding pixels.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, invalidErr("empty path")
	}
	ext, err := pathExtension(path)
	if err != nil {
		return Config{}, err
	}
	c := codecByExtension(ext)
	if c == nil {
		return Config{}, unsupportedErr("no codec for %q files", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := c.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads an image of the given format from r.  It is the
// stream-level counterpart of Load for callers that already know the
// format and hold an open reader.
func Decode(r io.Reader, f Format) (Pic, error) {
	if r == nil {
		return nil, invalidErr("nil reader")
	}
	c := codecByFormat(f)
	if c == nil {
		return nil, unsupportedErr("no codec for format %q", f)
	}
	return c.Decode(r)
}

// Encode writes p to w using the codec registered for the picture's
// format tag.  It is the stream-level counterpart of Save.
func Encode(w io.Writer, p Pic) error {
	if p == nil || p.Base() == nil {
		return invalidErr("nil image")
	}
	if w == nil {
		return invalidErr("nil writer")
	}
	if img := p.Base(); img.Width < 1 || img.Height < 1 {
		return invalidErr("image dimensions %dx%d", img.Width, img.Height)
	}
	c := codecByFormat(p.Base().Format)
	if c == nil {
		return unsupportedErr("no codec for format %q", p.Base().Format)
	}
	return c.Encode(w, p)
}

// identified is implemented by the source-text formats (XBM, XPM) whose
// on-disk form embeds a C identifier.  Save uses it to derive a default
// identifier from the target path.
type identified interface {
	setIdentifier(name string)
}

// Save writes p to path using the codec registered for the picture's
// format tag.  The target extension is not consulted; converting
// between formats means wrapping the base image in the destination
// format's picture type first.
func Save(p Pic, path string) error {
	if p == nil || p.Base() == nil {
		return invalidErr("nil image")
	}
	if path == "" {
		return invalidErr("empty path")
	}
	if img := p.Base(); img.Width < 1 || img.Height < 1 {
		return invalidErr("image dimensions %dx%d", img.Width, img.Height)
	}
	c := codecByFormat(p.Base().Format)
	if c == nil {
		return unsupportedErr("no codec for format %q", p.Base().Format)
	}
	if id, ok := p.(identified); ok {
		id.setIdentifier(identifierFromPath(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = c.Encode(bw, p)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// identifierFromPath turns a path's basename into a C identifier:
// the extension is dropped, non-identifier runes become underscores,
// and a leading digit is prefixed with one.
func identifierFromPath(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" {
		return "image"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}
