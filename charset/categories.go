package charset

import "unicode"

// XML 1.0 name character classes, approximated with the Unicode range
// tables closest to the production rules in the XML 1.0 recommendation.
// Full conformance to every historical Unicode version is not
// attempted.
var nameStartRanges = []*unicode.RangeTable{
	unicode.L,
}

var nameCharExtra = []*unicode.RangeTable{
	unicode.Mn,
	unicode.Mc,
	unicode.Nd,
	unicode.Pc,
}

// blankTable marks the ASCII characters treated as insignificant
// whitespace by the JSON and XML tokenizers.
var blankTable [256]bool

func init() {
	for _, c := range []byte{' ', '\t', '\n', '\r'} {
		blankTable[c] = true
	}
}

// IsBlank reports whether ch is tokenizer whitespace.
func IsBlank(ch byte) bool {
	return blankTable[ch]
}

// IsNameStart reports whether r may begin an XML name: a letter,
// underscore, colon, or a Unicode letter from the name-start ranges.
func IsNameStart(r rune) bool {
	if r == '_' || r == ':' {
		return true
	}
	return unicode.IsOneOf(nameStartRanges, r)
}

// IsNameChar reports whether r may occur after the first character of
// an XML name: everything IsNameStart allows, plus digits, hyphen,
// period, and the combining/extender ranges.
func IsNameChar(r rune) bool {
	if IsNameStart(r) || r == '-' || r == '.' {
		return true
	}
	return unicode.IsOneOf(nameCharExtra, r)
}
