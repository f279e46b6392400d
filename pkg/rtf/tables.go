// tables.go extracts the font and color tables from the RTF header.
// This is a header-only parse: it walks tokens looking for the fonttbl
// and colortbl groups and never interprets document content.
package rtf

import (
	"errors"
	"strings"
)

// ErrNotRTF is returned when the input does not start with an {\rtf group.
var ErrNotRTF = errors.New("input is not an RTF document")

// ParseHeader extracts the font table, color table, and default font index
// from an RTF document without walking its content.
func ParseHeader(input string) (*DocumentMeta, error) {
	tokens := Tokenize(input)
	if !isRTFStream(tokens) {
		return nil, ErrNotRTF
	}
	meta := parseHeaderTokens(tokens)
	return &meta, nil
}

// isRTFStream reports whether the token stream opens with {\rtf.
func isRTFStream(tokens []Token) bool {
	return len(tokens) >= 2 &&
		tokens[0].Kind == TokenGroupOpen &&
		tokens[1].Kind == TokenControl &&
		tokens[1].Word == "rtf"
}

func parseHeaderTokens(tokens []Token) DocumentMeta {
	meta := DocumentMeta{}
	depth := 0

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TokenGroupOpen:
			depth++
			if next, ok := peekControl(tokens, i+1); ok {
				switch next.Word {
				case "fonttbl":
					i = parseFontTable(tokens, i+2, &meta)
					depth--
				case "colortbl":
					i = parseColorTable(tokens, i+2, &meta)
					depth--
				}
			}
		case TokenGroupClose:
			depth--
		case TokenControl:
			if tok.Word == "deff" && tok.HasParam && depth == 1 {
				meta.DefaultFont = tok.Param
			}
		}
	}

	return meta
}

// peekControl returns the control token at index i, if there is one.
func peekControl(tokens []Token, i int) (Token, bool) {
	if i < len(tokens) && tokens[i].Kind == TokenControl {
		return tokens[i], true
	}
	return Token{}, false
}

// parseFontTable consumes a {\fonttbl ...} group starting just after the
// fonttbl control word and fills meta.Fonts. Returns the index of the
// group's closing brace. Entries appear either inline or wrapped in
// subgroups like {\f0\fswiss Arial;}.
func parseFontTable(tokens []Token, i int, meta *DocumentMeta) int {
	depth := 1
	cur := -1 // position in meta.Fonts of the entry being filled

	flush := func() { cur = -1 }

	for ; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TokenGroupOpen:
			// Skip \*-prefixed subgroups (\falt alternative names and the
			// like); they are not font entries.
			if next, ok := peekControl(tokens, i+1); ok && next.Word == "*" {
				i = skipGroup(tokens, i)
				continue
			}
			depth++
		case TokenGroupClose:
			depth--
			if depth == 0 {
				return i
			}
			flush()
		case TokenControl:
			switch tok.Word {
			case "f":
				if tok.HasParam {
					meta.Fonts = append(meta.Fonts, FontTableEntry{Index: tok.Param})
					cur = len(meta.Fonts) - 1
				}
			case "fnil", "froman", "fswiss", "fmodern", "fscript", "fdecor", "ftech", "fbidi":
				if cur >= 0 {
					meta.Fonts[cur].Family = strings.TrimPrefix(tok.Word, "f")
				}
			}
		case TokenText:
			if cur < 0 {
				continue
			}
			name := tok.Raw
			terminated := false
			if idx := strings.IndexByte(name, ';'); idx >= 0 {
				name = name[:idx]
				terminated = true
			}
			meta.Fonts[cur].Name += strings.TrimSpace(name)
			if terminated {
				flush()
			}
		}
	}
	return i - 1
}

// parseColorTable consumes a {\colortbl ...} group starting just after the
// colortbl control word and fills meta.Colors. A ';' in text terminates an
// entry; a terminator with no preceding color components is the auto slot.
func parseColorTable(tokens []Token, i int, meta *DocumentMeta) int {
	depth := 1
	var cur RGB
	seen := false

	for ; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TokenGroupOpen:
			depth++
		case TokenGroupClose:
			depth--
			if depth == 0 {
				return i
			}
		case TokenControl:
			if !tok.HasParam {
				continue
			}
			switch tok.Word {
			case "red":
				cur.R = uint8(tok.Param)
				seen = true
			case "green":
				cur.G = uint8(tok.Param)
				seen = true
			case "blue":
				cur.B = uint8(tok.Param)
				seen = true
			}
		case TokenText:
			for j := 0; j < len(tok.Raw); j++ {
				if tok.Raw[j] != ';' {
					continue
				}
				if seen {
					meta.Colors = append(meta.Colors, ColorTableEntry{RGB: cur})
				} else {
					meta.Colors = append(meta.Colors, ColorTableEntry{Auto: true})
				}
				cur = RGB{}
				seen = false
			}
		}
	}
	return i - 1
}

// skipGroup returns the index of the closing brace matching the group
// opened at index i.
func skipGroup(tokens []Token, i int) int {
	depth := 0
	for ; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case TokenGroupOpen:
			depth++
		case TokenGroupClose:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return i - 1
}
