package buffer

import (
	"bytes"
	"strings"
	"testing"

	"weave/charset"
)

func TestGetPeekAdvance(t *testing.T) {
	in, err := NewFromString("ab", nil)
	if err != nil {
		t.Fatal(err)
	}
	r, w := in.Peek()
	if r != 'a' || w != 1 {
		t.Fatalf("Peek = %q/%d, want a/1", r, w)
	}
	r, w = in.Get()
	if r != 'a' || w != 1 {
		t.Fatalf("Get = %q/%d, want a/1", r, w)
	}
	r, w = in.Get()
	if r != 'b' || w != 1 {
		t.Fatalf("Get = %q/%d, want b/1", r, w)
	}
	if _, w = in.Get(); w != 0 {
		t.Fatalf("expected EOF width 0")
	}
	if !in.AtEOF() {
		t.Fatal("expected AtEOF")
	}
}

func TestRowColumnCRLFCollapse(t *testing.T) {
	in, err := NewFromString("a\r\nb\rc\nd", nil)
	if err != nil {
		t.Fatal(err)
	}
	var rows []int
	for {
		_, w := in.Get()
		if w == 0 {
			break
		}
		rows = append(rows, in.Row())
	}
	// Row() is the row of the next character, read after each Get:
	// a(1) \r(2) \n(2: second half of CRLF, no extra break) b(2) \r(3) c(3) \n(4) d(4)
	want := []int{1, 2, 2, 2, 3, 3, 4, 4}
	if len(rows) != len(want) {
		t.Fatalf("got %v rows, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row[%d] = %d, want %d", i, rows[i], want[i])
		}
	}
}

func TestRewind(t *testing.T) {
	in, err := NewFromString("hello", nil)
	if err != nil {
		t.Fatal(err)
	}
	in.Get()
	in.Get()
	if err := in.Rewind(2); err != nil {
		t.Fatal(err)
	}
	r, _ := in.Peek()
	if r != 'h' {
		t.Fatalf("Peek after rewind = %q, want h", r)
	}
	if err := in.Rewind(1); err == nil {
		t.Fatal("expected rewind past origin to fail")
	}
}

func TestFindString(t *testing.T) {
	in, err := NewFromString("prefix::target::suffix", nil)
	if err != nil {
		t.Fatal(err)
	}
	var skipped []byte
	if !in.FindString("::", &skipped, true) {
		t.Fatal("expected to find delimiter")
	}
	if string(skipped) != "prefix" {
		t.Errorf("skipped = %q, want prefix", skipped)
	}
	r, _ := in.Peek()
	if r != 't' {
		t.Errorf("cursor at %q, want t", r)
	}
}

func TestReadWord(t *testing.T) {
	in, err := NewFromString("  hello,world", nil)
	if err != nil {
		t.Fatal(err)
	}
	dividers := func(r rune) bool { return r == ' ' || r == ',' }
	word := in.ReadWord(dividers)
	if word != "hello" {
		t.Fatalf("ReadWord = %q, want hello", word)
	}
}

func TestDetectBOMFromReader(t *testing.T) {
	body := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hi")...)
	in, err := NewFromReader(bytes.NewReader(body), nil)
	if err != nil {
		t.Fatal(err)
	}
	if in.Format().Encoding != charset.UTF8 || !in.Format().HasBOM {
		t.Fatalf("format = %+v", in.Format())
	}
	r, _ := in.Get()
	if r != 'h' {
		t.Fatalf("first char = %q, want h", r)
	}
}

func TestBufferOutRoundTripUTF8(t *testing.T) {
	var buf bytes.Buffer
	out := NewOut(&buf, charset.DataFormat{Encoding: charset.UTF8})
	if err := out.WriteString("hello"); err != nil {
		t.Fatal(err)
	}
	if err := out.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello" {
		t.Errorf("got %q", buf.String())
	}
}

func TestBufferOutEmitsBOM(t *testing.T) {
	var buf bytes.Buffer
	out := NewOut(&buf, charset.DataFormat{Encoding: charset.UTF8, HasBOM: true})
	out.WriteString("x")
	out.Flush()
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
		t.Errorf("expected leading BOM, got %v", buf.Bytes())
	}
}

func TestUTF32RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	out := NewOut(&buf, charset.DataFormat{Encoding: charset.UTF32, BigEndian: true})
	out.WriteString("AB")
	out.Flush()

	in, err := NewFromBytes(buf.Bytes(), &charset.DataFormat{Encoding: charset.UTF32, BigEndian: true})
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	in.ForEach(func(r rune) bool {
		sb.WriteRune(r)
		return true
	})
	if sb.String() != "AB" {
		t.Errorf("got %q, want AB", sb.String())
	}
}
