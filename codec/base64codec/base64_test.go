package base64codec

import (
	"bytes"
	"testing"
)

func TestEncodeSpecVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello world", "aGVsbG8gd29ybGQ="},
		{"f", "Zg=="},
		{"", ""},
	}
	for _, c := range cases {
		got := Encode([]byte(c.in))
		if got != c.want {
			t.Errorf("Encode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeSpecVectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"aGVsbG8gd29ybGQ=", "hello world"},
		{"Zg==", "f"},
	}
	for _, c := range cases {
		got, err := Decode(c.in)
		if err != nil {
			t.Fatalf("Decode(%q): %v", c.in, err)
		}
		if string(got) != c.want {
			t.Errorf("Decode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeUnpaddedShortLengthFails(t *testing.T) {
	// "Zg" (no padding, length 2) must fail with bad-value.
	if _, err := Decode("Zg"); err == nil {
		t.Fatal("expected bad-value error for length-2 unpadded input")
	}
}

func TestDecodeRejectsNonAlphabet(t *testing.T) {
	if _, err := Decode("!@#$"); err == nil {
		t.Fatal("expected bad-value error")
	}
}

func TestRoundTrip(t *testing.T) {
	for n := 0; n < 10; n++ {
		b := bytes.Repeat([]byte{byte(n), byte(n + 1), byte(n + 2)}, n+1)
		enc := Encode(b)
		if len(enc)%4 != 0 {
			t.Fatalf("encoded length %d not a multiple of 4", len(enc))
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(dec, b) {
			t.Errorf("round trip mismatch for n=%d", n)
		}
	}
}

func TestEncodedLengthFormula(t *testing.T) {
	for n := 0; n < 20; n++ {
		b := make([]byte, n)
		want := 4 * ((n + 2) / 3)
		if got := len(Encode(b)); got != want {
			t.Errorf("len(Encode(%d bytes)) = %d, want %d", n, got, want)
		}
	}
}
