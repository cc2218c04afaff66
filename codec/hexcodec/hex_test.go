package hexcodec

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x00},
		{0xDE, 0xAD, 0xBE, 0xEF},
		[]byte("hello world"),
	}
	for _, b := range cases {
		enc := Encode(b)
		if len(enc) != 2*len(b) {
			t.Errorf("Encode(%v) length = %d, want %d", b, len(enc), 2*len(b))
		}
		dec, err := Decode(enc, -1)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(dec, b) && !(len(dec) == 0 && len(b) == 0) {
			t.Errorf("round trip = %v, want %v", dec, b)
		}
	}
}

func TestEncodeUppercase(t *testing.T) {
	got := Encode([]byte{0xab, 0xcd})
	if got != "ABCD" {
		t.Errorf("Encode = %q, want ABCD", got)
	}
}

func TestDecodeToleratesLowercase(t *testing.T) {
	got, err := Decode("abcd", -1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xab, 0xcd}) {
		t.Errorf("got %v", got)
	}
}

func TestDecodeOddLengthRequiresCap(t *testing.T) {
	if _, err := Decode("abc", -1); err == nil {
		t.Fatal("expected error for odd-length input with no cap")
	}
	got, err := Decode("abc", 2)
	if err != nil {
		t.Fatalf("Decode with cap: %v", err)
	}
	if !bytes.Equal(got, []byte{0x0a, 0xbc}) {
		t.Errorf("got %v, want odd leading nibble as low nibble of a zero-padded first byte", got)
	}
}

func TestDecodeRejectsBadValue(t *testing.T) {
	if _, err := Decode("zz", -1); err == nil {
		t.Fatal("expected bad-value error")
	}
}

func TestDecodeUint32PadsShortInput(t *testing.T) {
	got, err := DecodeUint32("1")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x10000000 {
		t.Errorf("got %x, want %x", got, 0x10000000)
	}
}

func TestDecodeUint32TruncatesLongInput(t *testing.T) {
	got, err := DecodeUint32("DEADBEEF00")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %x, want deadbeef", got)
	}
}
