// Package charset implements text encoding detection and conversion for
// the streaming buffers in package buffer: BOM recognition, byte-order
// aware decoding of UTF-8/16/32, and the ISO-8859-1 fallback.
//
// The character-category tables built here (IsNameStart, IsNameChar,
// IsBlank) are computed once at init and never mutated afterward, so
// they are safe to share read-only across goroutines.
package charset

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the byte-level text encoding of a source or sink.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16
	UTF32
	ASCII
	ISO8859_1
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16:
		return "utf-16"
	case UTF32:
		return "utf-32"
	case ASCII:
		return "us-ascii"
	case ISO8859_1:
		return "iso-8859-1"
	default:
		return "unknown"
	}
}

// DataFormat is the triple carried by BufferIn/BufferOut: which encoding
// is in effect, its byte order, and whether a BOM was (or should be)
// present on the wire.
type DataFormat struct {
	Encoding  Encoding
	BigEndian bool
	HasBOM    bool
}

// bomSignatures lists the recognized BOMs in the order they must be
// tested: UTF-32 is checked before UTF-16 LE so that a four-byte
// FF FE 00 00 sequence is never misread as a UTF-16 LE BOM followed by
// two NUL characters.
var bomSignatures = []struct {
	bytes  []byte
	format DataFormat
}{
	{[]byte{0xEF, 0xBB, 0xBF}, DataFormat{UTF8, false, true}},
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, DataFormat{UTF32, true, true}},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, DataFormat{UTF32, false, true}},
	{[]byte{0xFE, 0xFF}, DataFormat{UTF16, true, true}},
	{[]byte{0xFF, 0xFE}, DataFormat{UTF16, false, true}},
}

// DetectBOM inspects the leading bytes of b for one of the five
// recognized byte-order marks and returns the format it implies along
// with the number of bytes the mark itself occupies. ok is false when no
// signature matches.
func DetectBOM(b []byte) (format DataFormat, width int, ok bool) {
	for _, sig := range bomSignatures {
		if bytes.HasPrefix(b, sig.bytes) {
			return sig.format, len(sig.bytes), true
		}
	}
	return DataFormat{}, 0, false
}

// sniffLimit bounds how many leading bytes Sniff will trial-decode.
const sniffLimit = 1024

// Sniff guesses the encoding of b when no BOM is present, trying UTF-8,
// UTF-32 BE, UTF-32 LE, UTF-16 (native byte order), and UTF-16 (reversed
// byte order) in that priority, and falling back to ISO-8859-1 when none
// decode cleanly. The slice considered is capped to sniffLimit bytes.
func Sniff(b []byte) DataFormat {
	if len(b) > sniffLimit {
		b = b[:sniffLimit]
	}

	if isValidUTF8(b) {
		return DataFormat{UTF8, false, false}
	}
	if isValidUTF32(b, true) {
		return DataFormat{UTF32, true, false}
	}
	if isValidUTF32(b, false) {
		return DataFormat{UTF32, false, false}
	}
	if isValidUTF16(b, nativeBigEndian) {
		return DataFormat{UTF16, nativeBigEndian, false}
	}
	if isValidUTF16(b, !nativeBigEndian) {
		return DataFormat{UTF16, !nativeBigEndian, false}
	}
	return DataFormat{ISO8859_1, false, false}
}

// nativeBigEndian is a conservative default used purely to order the
// two UTF-16 trial decodes during Sniff; it does not reflect the host's
// actual CPU byte order (the wire format never depends on that).
const nativeBigEndian = false

func isValidUTF8(b []byte) bool {
	return len(b) > 0 && utf8.Valid(b)
}

func isValidUTF32(b []byte, bigEndian bool) bool {
	if len(b)%4 != 0 || len(b) == 0 {
		return false
	}
	for i := 0; i+4 <= len(b); i += 4 {
		var cp uint32
		if bigEndian {
			cp = uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
		} else {
			cp = uint32(b[i+3])<<24 | uint32(b[i+2])<<16 | uint32(b[i+1])<<8 | uint32(b[i])
		}
		if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
			return false
		}
	}
	return true
}

func isValidUTF16(b []byte, bigEndian bool) bool {
	if len(b)%2 != 0 || len(b) == 0 {
		return false
	}
	for i := 0; i+2 <= len(b); i += 2 {
		var unit uint16
		if bigEndian {
			unit = uint16(b[i])<<8 | uint16(b[i+1])
		} else {
			unit = uint16(b[i+1])<<8 | uint16(b[i])
		}
		if unit >= 0xDC00 && unit <= 0xDFFF {
			// unpaired low surrogate at i implies malformed unless
			// immediately preceded by a high surrogate; since we scan
			// forward independently of pairing, treat any stray low
			// surrogate at the first code unit as invalid
			if i == 0 {
				return false
			}
		}
	}
	return true
}

// NewDecoder returns a transform.Transformer-backed decoder for fmt,
// converting wire bytes to UTF-8. UTF-8 and UTF-32 are handled by the
// caller directly (x/text has no UTF-32 codec); only UTF-16 and
// ISO-8859-1 need a decoder here. Callers strip any BOM before
// decoding, so the decoder itself never expects one.
func NewDecoder(format DataFormat) *TextDecoder {
	switch format.Encoding {
	case UTF16:
		var enc encoding.Encoding
		if format.BigEndian {
			enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		} else {
			enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
		}
		return &TextDecoder{decoder: enc.NewDecoder()}
	case ISO8859_1:
		return &TextDecoder{decoder: charmap.ISO8859_1.NewDecoder()}
	default:
		return &TextDecoder{}
	}
}

// TextDecoder converts a chunk of wire bytes to UTF-8. A nil inner
// decoder means the encoding is already UTF-8 compatible (UTF-8 or
// UTF-32, the latter handled at a higher level by the buffer package).
type TextDecoder struct {
	decoder interface {
		Bytes([]byte) ([]byte, error)
	}
}

// Bytes converts b to UTF-8, returning the transformed bytes.
func (d *TextDecoder) Bytes(b []byte) ([]byte, error) {
	if d.decoder == nil {
		return b, nil
	}
	return d.decoder.Bytes(b)
}
