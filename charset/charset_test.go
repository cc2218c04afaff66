package charset

import "testing"

func TestDetectBOM(t *testing.T) {
	cases := []struct {
		name  string
		bom   []byte
		enc   Encoding
		big   bool
		width int
	}{
		{"utf8", []byte{0xEF, 0xBB, 0xBF}, UTF8, false, 3},
		{"utf16be", []byte{0xFE, 0xFF}, UTF16, true, 2},
		{"utf16le", []byte{0xFF, 0xFE}, UTF16, false, 2},
		{"utf32be", []byte{0x00, 0x00, 0xFE, 0xFF}, UTF32, true, 4},
		{"utf32le", []byte{0xFF, 0xFE, 0x00, 0x00}, UTF32, false, 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := append(append([]byte{}, c.bom...), []byte("hello")...)
			format, width, ok := DetectBOM(body)
			if !ok {
				t.Fatalf("expected BOM to be detected")
			}
			if width != c.width {
				t.Errorf("width = %d, want %d", width, c.width)
			}
			if format.Encoding != c.enc || format.BigEndian != c.big {
				t.Errorf("format = %+v, want encoding %v big=%v", format, c.enc, c.big)
			}
		})
	}
}

func TestDetectBOMPrefersUTF32OverUTF16LE(t *testing.T) {
	// FF FE 00 00 must be read as a UTF-32 LE BOM, not a UTF-16 LE BOM
	// followed by two NUL characters.
	format, width, ok := DetectBOM([]byte{0xFF, 0xFE, 0x00, 0x00})
	if !ok {
		t.Fatal("expected BOM match")
	}
	if format.Encoding != UTF32 || width != 4 {
		t.Fatalf("got %+v width=%d, want UTF32 width=4", format, width)
	}
}

func TestDetectBOMNone(t *testing.T) {
	_, _, ok := DetectBOM([]byte("plain text"))
	if ok {
		t.Fatal("expected no BOM match")
	}
}

func TestSniffUTF8(t *testing.T) {
	format := Sniff([]byte(`{"hello":"world"}`))
	if format.Encoding != UTF8 {
		t.Errorf("Encoding = %v, want UTF8", format.Encoding)
	}
}

func TestSniffFallsBackToISO8859_1(t *testing.T) {
	// 0xFF is not valid UTF-8, and an odd byte count rules out both
	// UTF-16 and UTF-32, so every trial decode fails.
	b := []byte{0xFF, 0x41, 0x42}
	format := Sniff(b)
	if format.Encoding != ISO8859_1 {
		t.Errorf("Encoding = %v, want ISO8859_1", format.Encoding)
	}
}

func TestEncodingString(t *testing.T) {
	if UTF8.String() != "utf-8" {
		t.Errorf("got %q", UTF8.String())
	}
	if ISO8859_1.String() != "iso-8859-1" {
		t.Errorf("got %q", ISO8859_1.String())
	}
}
