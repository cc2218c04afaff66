package buffer

import (
	"bufio"
	"io"

	"weave/charset"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// bomBytes gives the literal signature to emit for a format that wants
// one, mirroring the table in charset.DetectBOM.
var bomBytes = map[charset.Encoding]map[bool][]byte{
	charset.UTF8: {false: {0xEF, 0xBB, 0xBF}},
	charset.UTF16: {
		true:  {0xFE, 0xFF},
		false: {0xFF, 0xFE},
	},
	charset.UTF32: {
		true:  {0x00, 0x00, 0xFE, 0xFF},
		false: {0xFF, 0xFE, 0x00, 0x00},
	},
}

// BufferOut is the symmetric output-side sink: it writes UTF-8, UTF-16,
// or UTF-32 text (with an optional BOM) to an underlying io.Writer,
// buffering writes and flushing on Close or Flush.
type BufferOut struct {
	w      *bufio.Writer
	format charset.DataFormat
	wrote  bool
}

// NewOut wraps w for writing in the given format. If format.HasBOM is
// true, the BOM is written before the first character.
func NewOut(w io.Writer, format charset.DataFormat) *BufferOut {
	return &BufferOut{w: bufio.NewWriter(w), format: format}
}

// Format reports the data format this sink encodes into.
func (o *BufferOut) Format() charset.DataFormat { return o.format }

func (o *BufferOut) maybeWriteBOM() error {
	if o.wrote || !o.format.HasBOM {
		o.wrote = true
		return nil
	}
	o.wrote = true
	sig := bomBytes[o.format.Encoding][o.format.BigEndian]
	if sig == nil {
		return nil
	}
	_, err := o.w.Write(sig)
	return err
}

// WriteString encodes s (already UTF-8) into the buffer's target
// encoding and writes it.
func (o *BufferOut) WriteString(s string) error {
	if err := o.maybeWriteBOM(); err != nil {
		return err
	}
	encoded, err := o.encode(s)
	if err != nil {
		return err
	}
	_, err = o.w.Write(encoded)
	return err
}

func (o *BufferOut) encode(s string) ([]byte, error) {
	switch o.format.Encoding {
	case charset.UTF8, charset.ASCII:
		return []byte(s), nil
	case charset.UTF32:
		return encodeUTF32(s, o.format.BigEndian), nil
	case charset.UTF16:
		var enc encoding.Encoding
		if o.format.BigEndian {
			enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		} else {
			enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
		}
		return enc.NewEncoder().Bytes([]byte(s))
	case charset.ISO8859_1:
		return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	default:
		return []byte(s), nil
	}
}

func encodeUTF32(s string, bigEndian bool) []byte {
	out := make([]byte, 0, len(s)*4)
	for _, r := range s {
		var b [4]byte
		if bigEndian {
			b[0] = byte(r >> 24)
			b[1] = byte(r >> 16)
			b[2] = byte(r >> 8)
			b[3] = byte(r)
		} else {
			b[0] = byte(r)
			b[1] = byte(r >> 8)
			b[2] = byte(r >> 16)
			b[3] = byte(r >> 24)
		}
		out = append(out, b[:]...)
	}
	return out
}

// Flush pushes any buffered bytes to the underlying writer.
func (o *BufferOut) Flush() error {
	return o.w.Flush()
}

// Close flushes the buffer. BufferOut has no owned resource beyond the
// wrapped writer, so Close never fails for a reason other than a final
// flush error.
func (o *BufferOut) Close() error {
	return o.Flush()
}
