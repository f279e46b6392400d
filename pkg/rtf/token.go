// Package rtf implements a pragmatic Rich Text Format codec: a tokenizer
// and formatting-state machine that convert RTF documents to and from an
// in-memory rich-text model (plain text plus style spans), and a patch
// engine that applies a plain-text edit back into an existing document
// while leaving all untouched formatting byte-for-byte intact.
//
// Only a documented subset of RTF 1.x control words is understood;
// unrecognized words are inert and embedded binary objects are treated as
// ignorable destinations.
package rtf

// TokenKind classifies a lexed RTF token.
type TokenKind int

const (
	TokenGroupOpen  TokenKind = iota // {
	TokenGroupClose                  // }
	TokenControl                     // control word, control symbol, or \'hh hex escape
	TokenText                        // a run of document text
)

// Token is a single lexed RTF token.
//
// Raw always holds the exact source bytes the token was lexed from,
// including any trailing delimiter space of a control word. Concatenating
// Raw across a token stream reproduces the input byte for byte, which is
// what the patch engine relies on. Raw is mutated destructively (shrunk or
// split) during patching; all other uses treat tokens as immutable.
type Token struct {
	Kind TokenKind
	Raw  string

	// Word is set for TokenControl: the control word without the leading
	// backslash, a single-character control symbol, or "'" for a hex escape.
	Word string

	// Param is the signed decimal parameter of a control word, or the
	// decoded byte value of a \'hh hex escape. HasParam reports whether a
	// parameter was present in the source.
	Param    int
	HasParam bool
}

// isHexEscape reports whether the token is a \'hh hex escape.
func (t Token) isHexEscape() bool {
	return t.Kind == TokenControl && t.Word == "'"
}

// serializeTokens reassembles a token stream into RTF source text.
func serializeTokens(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Raw)
	}
	out := make([]byte, 0, n)
	for _, t := range tokens {
		out = append(out, t.Raw...)
	}
	return string(out)
}
