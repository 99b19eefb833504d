// Package norm implements the Japanese text normalizer: a pre-map /
// surrogate / combining pipeline, rule-driven katakana and ASCII run
// rewriting with meta character classes, a post-map, synonym expansion
// and the Both-mode original/normalized interleaving.
package norm

import "unicode/utf16"

// The normalizer works on UTF-16 code units throughout; surrogate pairs
// are first-class and never decomposed.

const (
	// mapDecompose in a per-code-unit map redirects to the
	// decomposition table.
	mapDecompose uint16 = 0xFFFF
	// mapCombiningKeep marks a combining mark that must not delete.
	mapCombiningKeep uint16 = 0x077F

	// combine sentinels: a probe yielding these may still extend but
	// rolls back if no full composition forms.
	combineHalf1 uint16 = 0xFFFE
	combineHalf2 uint16 = 0xFFFF

	// Default delimiters of the Both output mode and their escape.
	DefaultDelimiter0 uint16 = 0xEE7B
	DefaultDelimiter1 uint16 = 0xEE2C
	DefaultDelimiter2 uint16 = 0xEE7D
	DefaultEscape     uint16 = 0xEE5C

	// DefaultMaxBufferLength is the chunking threshold for long inputs.
	DefaultMaxBufferLength = 100000

	// englishDummy brackets an ASCII run before rule lookup.
	englishDummy uint16 = '_'
)

// rule-application delimiters: the rule engine emits X{A,B}Y forms.
const (
	ruleOpen  uint16 = '{'
	ruleComma uint16 = ','
	ruleClose uint16 = '}'
)

func isHighSurrogate(c uint16) bool { return c >= 0xD800 && c <= 0xDBFF }
func isLowSurrogate(c uint16) bool  { return c >= 0xDC00 && c <= 0xDFFF }

// isKatakana covers the full-width katakana block including the long
// sound mark.
func isKatakana(c uint16) bool {
	return (c >= 0x30A1 && c <= 0x30FA) || c == 0x30FC || c == 0x30FD || c == 0x30FE
}

// isHankakuKana covers the half-width katakana block.
func isHankakuKana(c uint16) bool { return c >= 0xFF66 && c <= 0xFF9F }

func isHiragana(c uint16) bool { return c >= 0x3041 && c <= 0x309F }

func isASCIIAlphabet(c uint16) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// isKanji covers the unified CJK ideograph blocks.
func isKanji(c uint16) bool {
	return (c >= 0x4E00 && c <= 0x9FFF) || (c >= 0x3400 && c <= 0x4DBF) ||
		(c >= 0xF900 && c <= 0xFAFF)
}

func isControl(c uint16) bool { return c < 0x20 || c == 0x7F }

func isSpace(c uint16) bool {
	return c == 0x20 || c == 0x09 || c == 0x3000 || c == 0xA0
}

func isLine(c uint16) bool { return c == 0x0A || c == 0x0D || c == 0x2028 || c == 0x2029 }

func isDigit(c uint16) bool { return c >= '0' && c <= '9' }

// isBreakpoint marks characters at which a long input may be clipped
// into pieces; none of these can sit inside a combining sequence.
func isBreakpoint(c uint16) bool {
	return isKanji(c) || isControl(c) || isSpace(c) || isLine(c) || isDigit(c)
}

// encodeUTF16 converts a Go string to code units.
func encodeUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// decodeUTF16 converts code units back to a Go string.
func decodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}

// contains reports membership in a small meta table.
func contains(table []uint16, c uint16) bool {
	for _, t := range table {
		if t == c {
			return true
		}
	}
	return false
}
