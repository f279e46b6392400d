// tokenizer.go lexes raw RTF text into a flat token stream.
package rtf

import "strconv"

// Tokenize scans input and returns a flat token stream.
//
// Lexical rules:
//   - '{' and '}' are always structural group tokens.
//   - `\'hh` is a four-character hex-escape control token.
//   - '\' followed by any other non-letter is a one-character control symbol.
//   - '\' followed by letters is a control word, optionally followed by a
//     signed decimal parameter and one delimiting space. The space is
//     consumed into Raw but is not part of the stored word or parameter.
//   - Any run containing none of '{', '}', '\' coalesces into one text token.
//
// Tokenize never fails: a truncated control sequence (for example a trailing
// lone backslash) still yields a best-effort token.
func Tokenize(input string) []Token {
	var tokens []Token
	pos := 0

	for pos < len(input) {
		switch input[pos] {
		case '{':
			tokens = append(tokens, Token{Kind: TokenGroupOpen, Raw: "{"})
			pos++
		case '}':
			tokens = append(tokens, Token{Kind: TokenGroupClose, Raw: "}"})
			pos++
		case '\\':
			tok, end := lexControl(input, pos)
			tokens = append(tokens, tok)
			pos = end
		default:
			start := pos
			for pos < len(input) && input[pos] != '{' && input[pos] != '}' && input[pos] != '\\' {
				pos++
			}
			tokens = append(tokens, Token{Kind: TokenText, Raw: input[start:pos]})
		}
	}

	return tokens
}

// lexControl lexes a control word, control symbol, or hex escape starting at
// the backslash at pos. Returns the token and the position after it.
func lexControl(input string, pos int) (Token, int) {
	start := pos
	pos++ // skip '\'

	// Trailing lone backslash: degrade to a bare control token.
	if pos >= len(input) {
		return Token{Kind: TokenControl, Raw: input[start:]}, len(input)
	}

	c := input[pos]

	// Hex escape \'hh. Fewer than two hex digits degrades to whatever is there.
	if c == '\'' {
		pos++
		hexStart := pos
		for pos < len(input) && pos-hexStart < 2 && isHexDigit(input[pos]) {
			pos++
		}
		tok := Token{Kind: TokenControl, Raw: input[start:pos], Word: "'"}
		if v, err := strconv.ParseInt(input[hexStart:pos], 16, 32); err == nil {
			tok.Param = int(v)
			tok.HasParam = true
		}
		return tok, pos
	}

	// Control symbol: a single non-letter character.
	if !isASCIILetter(c) {
		pos++
		return Token{Kind: TokenControl, Raw: input[start:pos], Word: string(c)}, pos
	}

	// Control word: letters, then an optional signed decimal parameter.
	wordStart := pos
	for pos < len(input) && isASCIILetter(input[pos]) {
		pos++
	}
	word := input[wordStart:pos]

	paramStart := pos
	if pos < len(input) && input[pos] == '-' {
		pos++
	}
	for pos < len(input) && isASCIIDigit(input[pos]) {
		pos++
	}
	paramText := input[paramStart:pos]
	if paramText == "-" {
		// A bare minus is not a parameter; put it back.
		pos--
		paramText = ""
	}

	// One delimiting space is consumed with the word.
	if pos < len(input) && input[pos] == ' ' {
		pos++
	}

	tok := Token{Kind: TokenControl, Raw: input[start:pos], Word: word}
	if paramText != "" {
		if v, err := strconv.Atoi(paramText); err == nil {
			tok.Param = v
			tok.HasParam = true
		}
	}
	return tok, pos
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isASCIIDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
