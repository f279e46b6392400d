// charmap.go maps legacy single-byte hex escapes to runes.
package rtf

import "golang.org/x/text/encoding/charmap"

// decodeLegacyByte converts a \'hh escape value to a rune. The 0x80-0x9F
// range goes through the Windows-1252 table (smart quotes, dashes,
// ellipsis, trademark and friends); everything else passes through as the
// same code point.
func decodeLegacyByte(v int) rune {
	if v >= 0x80 && v <= 0x9F {
		return charmap.Windows1252.DecodeByte(byte(v))
	}
	return rune(v)
}
