// patch.go applies a plain-text edit back into an existing RTF document
// while leaving all untouched formatting byte-for-byte intact.
//
// RTF state is positional and stateful, so an off-by-one in slice
// bookkeeping could silently corrupt formatting far from the edit. The
// engine therefore re-decodes its own output and refuses to return a
// document whose text does not exactly match the request.
package rtf

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
)

// PatchError is the typed failure returned when an edit cannot be applied
// safely: the edit range is out of bounds against the recorded position
// map, or the patched document failed post-edit verification. Callers may
// surface it and fall back to a full re-encode, accepting formatting loss.
type PatchError struct {
	Reason string
}

func (e *PatchError) Error() string {
	return "rtf patch: " + e.Reason
}

// Patch updates an RTF document so that its decoded plain text equals
// desired, preserving every byte of formatting outside the edited span.
// The edit is computed by common prefix/suffix trimming, so a single
// contiguous edit region per call is assumed; callers making several
// edits apply them sequentially.
//
// If the document's text already equals desired the input is returned
// unchanged.
func Patch(input, desired string) (string, error) {
	tokens := Tokenize(input)
	if !isRTFStream(tokens) {
		return "", ErrNotRTF
	}

	_, plain, refs := decodeWithMap(tokens)
	if string(plain) == desired {
		return input, nil
	}

	start, end, insert := trimEdit(plain, []rune(desired))

	patched, err := applyEdit(tokens, refs, start, end, insert)
	if err != nil {
		return "", err
	}

	out := serializeTokens(patched)

	// Never return a document whose decoded text differs from the request.
	doc, err := Decode(out)
	if err != nil {
		return "", &PatchError{Reason: fmt.Sprintf("patched document no longer parses: %v", err)}
	}
	if doc.PlainText() != desired {
		return "", &PatchError{Reason: "verification failed: patched text does not match the requested text"}
	}

	return out, nil
}

// trimEdit reduces an old/new text pair to a single contiguous edit by
// trimming the longest common prefix and suffix. It returns the half-open
// range [start, end) to delete from old and the replacement runes.
func trimEdit(old, new []rune) (start, end int, insert []rune) {
	start = 0
	for start < len(old) && start < len(new) && old[start] == new[start] {
		start++
	}

	oldEnd, newEnd := len(old), len(new)
	for oldEnd > start && newEnd > start && old[oldEnd-1] == new[newEnd-1] {
		oldEnd--
		newEnd--
	}

	return start, oldEnd, new[start:newEnd]
}

// spliceCursor addresses the insertion point as a token index plus a byte
// offset into that token's Raw text.
type spliceCursor struct {
	token  int
	offset int
}

// applyEdit deletes the token slices behind the characters in [start, end)
// and splices the encoded insert text at the resulting cursor. It mutates
// only tokens the edit touches; everything else is passed through intact.
func applyEdit(tokens []Token, refs []charRef, start, end int, insert []rune) ([]Token, error) {
	if start < 0 || end < start || end > len(refs) {
		return nil, &PatchError{Reason: fmt.Sprintf("edit range [%d, %d) is out of bounds for a document of %d characters", start, end, len(refs))}
	}

	cur := findCursor(tokens, refs, start)

	// Group the slices to delete by token.
	deletions := make(map[int][]tokenSlice)
	for i := start; i < end; i++ {
		for _, s := range refs[i].slices {
			deletions[s.token] = append(deletions[s.token], s)
		}
	}

	fragment := encodeInsert(insert)

	var out []Token
	appendTok := func(t Token) {
		if t.Raw != "" {
			out = append(out, t)
		}
	}

	// A fragment starting with a literal space spliced right after a '{'
	// would lose that space to group-open delimiter handling; shield it
	// with an extra delimiter space.
	spliceFragment := func() {
		if len(fragment) > 0 && fragment[0].Kind == TokenText && strings.HasPrefix(fragment[0].Raw, " ") {
			if n := len(out); n > 0 && out[n-1].Kind == TokenGroupOpen {
				appendTok(Token{Kind: TokenText, Raw: " "})
			}
		}
		for _, ft := range fragment {
			appendTok(ft)
		}
	}

	for i, tok := range tokens {
		raw := tok.Raw
		if del, ok := deletions[i]; ok {
			raw = deleteSlices(raw, del)
		}

		if i != cur.token {
			appendTok(Token{Kind: tok.Kind, Raw: raw, Word: tok.Word, Param: tok.Param, HasParam: tok.HasParam})
			continue
		}

		// Deletions within the cursor token all sit at or after the cursor
		// offset (highest-offset-first keeps earlier offsets valid), so the
		// prefix is untouched and the offset still addresses the right spot.
		appendTok(Token{Kind: tok.Kind, Raw: raw[:cur.offset]})
		spliceFragment()
		appendTok(Token{Kind: tok.Kind, Raw: raw[cur.offset:]})
	}

	if cur.token >= len(tokens) {
		spliceFragment()
	}

	return repairDelimiters(out), nil
}

// findCursor maps the first edited character position to a token cursor.
// With no anchor character (an empty or fully appended document) the
// cursor lands before the final group-close token.
func findCursor(tokens []Token, refs []charRef, start int) spliceCursor {
	if start < len(refs) {
		s := refs[start].slices[0]
		return spliceCursor{token: s.token, offset: s.start}
	}
	if len(refs) > 0 {
		s := refs[len(refs)-1].slices[0]
		return spliceCursor{token: s.token, offset: s.end}
	}
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind == TokenGroupClose {
			return spliceCursor{token: i, offset: 0}
		}
	}
	return spliceCursor{token: len(tokens), offset: 0}
}

// deleteSlices removes the given byte ranges from raw, applying the
// highest offset first within the token so earlier offsets stay valid.
func deleteSlices(raw string, slices []tokenSlice) string {
	sort.Slice(slices, func(a, b int) bool {
		return slices[a].start > slices[b].start
	})
	for _, s := range slices {
		if s.start < 0 || s.end > len(raw) || s.start > s.end {
			continue
		}
		raw = raw[:s.start] + raw[s.end:]
	}
	return raw
}

// encodeInsert converts insert text into an escape-only token fragment.
// No style control words are emitted: inserted text inherits whatever
// formatting is ambient at the splice point.
func encodeInsert(insert []rune) []Token {
	var frag []Token
	var run strings.Builder

	flush := func() {
		if run.Len() > 0 {
			frag = append(frag, Token{Kind: TokenText, Raw: run.String()})
			run.Reset()
		}
	}
	control := func(raw, word string) {
		flush()
		frag = append(frag, Token{Kind: TokenControl, Raw: raw, Word: word})
	}

	for _, r := range insert {
		switch {
		case r == '\\' || r == '{' || r == '}':
			control("\\"+string(r), string(r))
		case r == '\t':
			control("\\tab ", "tab")
		case r == '\n':
			control("\\par ", "par")
		case r > 0xFFFF:
			flush()
			hi, lo := utf16.EncodeRune(r)
			frag = append(frag, unicodeEscapeToken(hi), unicodeEscapeToken(lo))
		case r > 0x7E:
			flush()
			frag = append(frag, unicodeEscapeToken(r))
		default:
			run.WriteRune(r)
		}
	}
	flush()

	return frag
}

// unicodeEscapeToken builds one \uN escape token carrying its '?' ANSI
// fallback, with the code unit wrapped into the signed 16-bit range.
func unicodeEscapeToken(r rune) Token {
	v := int(r)
	if v > 32767 {
		v -= 65536
	}
	return Token{
		Kind: TokenControl, Raw: fmt.Sprintf("\\u%d?", v),
		Word: "u", Param: v, HasParam: true,
	}
}

// repairDelimiters inserts a delimiting space wherever the edit left a
// control word butted directly against following text that would merge
// into it. Pairs the tokenizer produced from intact source never match
// (the tokenizer would have consumed such characters into the word), so
// this only ever fires at the edit boundary.
func repairDelimiters(tokens []Token) []Token {
	var out []Token
	for i, tok := range tokens {
		out = append(out, tok)
		if i+1 < len(tokens) && needsDelimiter(tok, tokens[i+1]) {
			out = append(out, Token{Kind: TokenText, Raw: " "})
		}
	}
	return out
}

// needsDelimiter reports whether text following a control word token would
// be absorbed into the word, its parameter, or its delimiter.
func needsDelimiter(a, b Token) bool {
	if a.Kind != TokenControl || len(a.Raw) < 2 || len(b.Raw) == 0 {
		return false
	}
	// Only word-type controls are at risk; symbols and \'hh escapes are
	// self-delimiting.
	if a.Word == "'" || !isASCIILetter(a.Raw[1]) {
		return false
	}
	last := a.Raw[len(a.Raw)-1]
	if !isASCIILetter(last) && !isASCIIDigit(last) {
		return false
	}
	c := b.Raw[0]
	return isASCIILetter(c) || isASCIIDigit(c) || c == ' '
}
