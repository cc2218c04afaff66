// Package base64codec implements the base64 byte-to-text transport:
// the standard alphabet with '=' padding, used by the JSON and XML
// transports for opaque byte payloads.
package base64codec

import "fmt"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i, c := range alphabet {
		decodeTable[byte(c)] = int8(i)
	}
}

// Encode renders b using the standard base64 alphabet, padding the
// final group with one or two '=' characters when len(b) % 3 is 2 or 1
// respectively.
func Encode(b []byte) string {
	n := len(b)
	out := make([]byte, 4*((n+2)/3))
	oi := 0
	for i := 0; i < n; i += 3 {
		var chunk [3]byte
		rem := n - i
		if rem > 3 {
			rem = 3
		}
		copy(chunk[:], b[i:i+rem])

		out[oi] = alphabet[chunk[0]>>2]
		out[oi+1] = alphabet[(chunk[0]&0x03)<<4|chunk[1]>>4]
		switch rem {
		case 1:
			out[oi+2] = '='
			out[oi+3] = '='
		case 2:
			out[oi+2] = alphabet[(chunk[1]&0x0F)<<2]
			out[oi+3] = '='
		default:
			out[oi+2] = alphabet[(chunk[1]&0x0F)<<2|chunk[2]>>6]
			out[oi+3] = alphabet[chunk[2]&0x3F]
		}
		oi += 4
	}
	return string(out)
}

// Decode parses a base64 string. Either exact '=' padding is present, or
// the stream is unpadded and its total length is a multiple of four;
// any other shape, or any non-alphabet character, is a bad-value error.
func Decode(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return nil, fmt.Errorf("base64codec: bad-value: length %d is not a multiple of 4", len(s))
	}
	if len(s) == 0 {
		return nil, nil
	}

	padding := 0
	body := s
	if len(s) >= 2 && s[len(s)-2:] == "==" {
		padding = 2
		body = s[:len(s)-2]
	} else if len(s) >= 1 && s[len(s)-1:] == "=" {
		padding = 1
		body = s[:len(s)-1]
	}

	out := make([]byte, 0, len(s)/4*3)
	groups := len(s) / 4
	pos := 0
	for g := 0; g < groups; g++ {
		var quad [4]int8
		lastGroup := g == groups-1
		for k := 0; k < 4; k++ {
			if lastGroup && padding > 0 && pos >= len(body) {
				if s[pos] != '=' {
					return nil, fmt.Errorf("base64codec: bad-value: expected padding character")
				}
				pos++
				quad[k] = 0
				continue
			}
			if pos >= len(s) {
				return nil, fmt.Errorf("base64codec: bad-value: unexpected padding")
			}
			ch := s[pos]
			pos++
			if ch == '=' {
				return nil, fmt.Errorf("base64codec: bad-value: padding character inside data")
			}
			v := decodeTable[ch]
			if v < 0 {
				return nil, fmt.Errorf("base64codec: bad-value: invalid character %q", ch)
			}
			quad[k] = v
		}

		out = append(out, byte(quad[0])<<2|byte(quad[1])>>4)
		if lastGroup && padding == 2 {
			break
		}
		out = append(out, byte(quad[1])<<4|byte(quad[2])>>2)
		if lastGroup && padding == 1 {
			break
		}
		out = append(out, byte(quad[2])<<6|byte(quad[3]))
	}

	return out, nil
}
