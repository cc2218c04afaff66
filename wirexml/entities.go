package wirexml

import (
	"strconv"
	"strings"

	"weave/cargo"
)

// namedEntities are the five XML 1.0 predefined entities.
var namedEntities = map[string]rune{
	"lt":   '<',
	"amp":  '&',
	"gt":   '>',
	"quot": '"',
	"apos": '\'',
}

// unescapeEntities decodes XML entity references in s: the five named
// entities plus decimal (&#NN;) and hex (&#xHH;) character references.
// An unrecognized entity name fails with unknownEscapeChar; a character
// reference decoding outside the valid Unicode range (or into a
// surrogate half) fails with badEncoding.
func unescapeEntities(s string) (string, error) {
	if !strings.ContainsRune(s, '&') {
		return s, nil
	}
	var sb strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '&' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return "", cargo.NewFault(cargo.UnknownEscapeChar, 0, 0, "unterminated entity reference")
		}
		ref := s[i+1 : i+end]
		i += end + 1

		if strings.HasPrefix(ref, "#") {
			cp, err := parseCharRef(ref)
			if err != nil {
				return "", err
			}
			sb.WriteRune(cp)
			continue
		}
		r, ok := namedEntities[ref]
		if !ok {
			return "", cargo.NewFault(cargo.UnknownEscapeChar, 0, 0, "unknown entity &%s;", ref)
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

func parseCharRef(ref string) (rune, error) {
	digits := ref[1:]
	base := 10
	if strings.HasPrefix(digits, "x") || strings.HasPrefix(digits, "X") {
		digits = digits[1:]
		base = 16
	}
	cp, err := strconv.ParseInt(digits, base, 32)
	if err != nil || cp < 0 || cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
		return 0, cargo.NewFault(cargo.BadEncoding, 0, 0, "character reference &%s; out of range", ref)
	}
	return rune(cp), nil
}

// escapeEntities substitutes the five reserved characters with their
// named entity forms, the form the writer always uses regardless of
// which form (if any) the reader saw.
func escapeEntities(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		case '\'':
			sb.WriteString("&apos;")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
