// Test the shared Netpbm plumbing: the sticky reader and the sample
// writers.

package pix

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetNextInt(t *testing.T) {
	nr := newPnmReader(strings.NewReader("  12 # ignore 99\n 345\n"))
	if v := nr.GetNextInt(); v != 12 {
		t.Fatalf("First int = %d", v)
	}
	if v := nr.GetNextInt(); v != 345 {
		t.Fatalf("Second int = %d", v)
	}
	if nr.Err() != nil {
		t.Fatal(nr.Err())
	}
	// Exhausted input turns into the sticky error state.
	if v := nr.GetNextInt(); v != -1 || nr.Err() == nil {
		t.Fatalf("Int past EOF = %d, err = %v", v, nr.Err())
	}
}

func TestGetHeader(t *testing.T) {
	nr := newPnmReader(strings.NewReader("P6\n# c\n4 3\n255\nXYZ"))
	h, ok := nr.GetHeader()
	if !ok {
		t.Fatal("Header rejected")
	}
	if h.Magic != "P6" || h.Width != 4 || h.Height != 3 || h.MaxVal != 255 {
		t.Fatalf("Header = %+v", h)
	}
	// Exactly one whitespace byte is consumed after the header.
	if b, _ := nr.ReadByte(); b != 'X' {
		t.Fatalf("Next byte = %q", b)
	}
}

func TestGetHeaderRejects(t *testing.T) {
	for _, src := range []string{"", "P1\n1 1\n", "X6\n1 1\n255\n", "P6\n1 1\n99999\n"} {
		nr := newPnmReader(strings.NewReader(src))
		if _, ok := nr.GetHeader(); ok {
			t.Errorf("Header %q accepted", src)
		}
	}
}

func TestWritePlainDataWraps(t *testing.T) {
	samples := make(chan uint16)
	go func() {
		for i := 0; i < 100; i++ {
			samples <- 255
		}
		close(samples)
	}()
	var buf bytes.Buffer
	if err := writePlainData(&buf, samples); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatal("Missing final newline")
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len(line) > 70 {
			t.Fatalf("Line of %d characters: %q", len(line), line)
		}
	}
	if strings.Count(out, "255") != 100 {
		t.Fatalf("Wrote %d samples", strings.Count(out, "255"))
	}
}

func TestWriteRawDataSizes(t *testing.T) {
	feed := func(vals ...uint16) <-chan uint16 {
		ch := make(chan uint16, len(vals))
		for _, v := range vals {
			ch <- v
		}
		close(ch)
		return ch
	}
	var buf bytes.Buffer
	if err := writeRawData(&buf, feed(0x12, 0xff), 1); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x12, 0xff}) {
		t.Fatalf("1-byte samples = %v", buf.Bytes())
	}
	buf.Reset()
	if err := writeRawData(&buf, feed(0x1234), 2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x12, 0x34}) {
		t.Fatalf("2-byte sample = %v", buf.Bytes())
	}
}

func TestGetRawDataScaling(t *testing.T) {
	nr := newPnmReader(strings.NewReader("\x00\x32\x64")) // 0, 50, 100 of max 100
	data := make([]uint8, 3)
	if err := nr.GetRawData(100, data); err != nil {
		t.Fatal(err)
	}
	if data[0] != 0 || data[1] != 127 || data[2] != 255 {
		t.Fatalf("Scaled = %v", data)
	}
}
