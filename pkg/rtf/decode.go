// decode.go converts tokenized RTF into the rich-text model: a linear walk
// over the token stream driving the format state machine, with group-scoped
// save/restore, ignorable destinations, hex escapes, and \uc/\u Unicode
// skip semantics.
package rtf

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// ignorableDestinations are group destinations whose content is never
// document text. Any \*-prefixed group is ignorable as well.
var ignorableDestinations = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"object":     true,
	"datastore":  true,
}

// tokenSlice addresses a byte range within one token's Raw text.
type tokenSlice struct {
	token int
	start int
	end   int
}

// charRef lists the token slices that produced one decoded character.
// A Unicode escape's fallback bytes are grouped with the escape itself so
// a deletion removes them together.
type charRef struct {
	slices []tokenSlice
}

// Decode converts an RTF document to paragraphs of plain text with style
// spans plus the header metadata. Unrecognized control words are inert;
// Decode only fails when the input is not an RTF document at all.
func Decode(input string) (*Document, error) {
	tokens := Tokenize(input)
	if !isRTFStream(tokens) {
		return nil, ErrNotRTF
	}
	doc, _, _ := decodeTokens(tokens, false)
	return doc, nil
}

// decodeWithMap is the patch-engine entry point: it decodes and
// additionally records, per output character, the token slices that
// produced it. The returned plain text covers the whole document with
// paragraphs separated by '\n', aligned rune-for-rune with refs.
func decodeWithMap(tokens []Token) (doc *Document, plain []rune, refs []charRef) {
	return decodeTokens(tokens, true)
}

// spanOrder fixes the order attributes open at the same position.
var spanOrder = []SpanAttr{
	AttrBold, AttrItalic, AttrUnderline, AttrStrikethrough,
	AttrSuperscript, AttrSubscript, AttrFontSize,
	AttrTextColor, AttrBackgroundColor, AttrFontFamily,
}

// attrValue is the concrete value an attribute span carries.
type attrValue struct {
	size  float64
	color RGB
	font  string
}

type openSpan struct {
	start int
	value attrValue
}

type decoder struct {
	tokens    []Token
	meta      DocumentMeta
	recording bool

	state       formatState
	stateStack  []formatState
	ignore      bool
	ignoreStack []bool
	uc          int
	ucStack     []int
	depth       int

	// pendingSkip counts ANSI fallback characters still to consume after a
	// \uN escape; skipAnchor is the refs index of the character they belong
	// to, or -1 when not recording.
	pendingSkip int
	skipAnchor  int

	// justOpened is set right after a '{' so the next token can be checked
	// for a destination marker and a leading delimiter space.
	justOpened bool

	dirty bool
	open  map[SpanAttr]openSpan

	paragraphs []Paragraph
	curText    []rune
	curSpans   []StyleSpan

	plain []rune
	refs  []charRef
}

func decodeTokens(tokens []Token, record bool) (*Document, []rune, []charRef) {
	d := &decoder{
		tokens:     tokens,
		meta:       parseHeaderTokens(tokens),
		recording:  record,
		state:      defaultFormatState(),
		uc:         1,
		skipAnchor: -1,
		open:       make(map[SpanAttr]openSpan),
	}
	d.run()

	doc := &Document{Paragraphs: d.paragraphs, Meta: d.meta}
	return doc, d.plain, d.refs
}

func (d *decoder) run() {
	for i, tok := range d.tokens {
		switch tok.Kind {
		case TokenGroupOpen:
			d.enterGroup()
		case TokenGroupClose:
			d.exitGroup()
		case TokenControl:
			d.control(i, tok)
		case TokenText:
			d.text(i, tok)
		}
	}
	d.finishParagraph()
}

func (d *decoder) enterGroup() {
	d.stateStack = append(d.stateStack, d.state)
	d.ignoreStack = append(d.ignoreStack, d.ignore)
	d.ucStack = append(d.ucStack, d.uc)
	d.depth++
	d.pendingSkip = 0
	d.justOpened = true
}

func (d *decoder) exitGroup() {
	if n := len(d.stateStack); n > 0 {
		d.state = d.stateStack[n-1]
		d.ignore = d.ignoreStack[n-1]
		d.uc = d.ucStack[n-1]
		d.stateStack = d.stateStack[:n-1]
		d.ignoreStack = d.ignoreStack[:n-1]
		d.ucStack = d.ucStack[:n-1]
	}
	if d.depth > 0 {
		d.depth--
	}
	d.pendingSkip = 0
	d.justOpened = false
	d.dirty = true
}

func (d *decoder) control(i int, tok Token) {
	justOpened := d.justOpened
	d.justOpened = false

	if d.depth == 0 {
		return
	}

	// Destination detection: \* right after '{', or a known destination
	// name as the group's first control word.
	if justOpened {
		if tok.Word == "*" || ignorableDestinations[tok.Word] {
			d.ignore = true
			return
		}
	}

	switch tok.Word {
	case "par", "line":
		if !d.ignore {
			d.breakParagraph(i, tok)
		}
	case "tab":
		d.emit('\t', tokenSlice{i, 0, len(tok.Raw)})
	case "uc":
		if tok.HasParam {
			d.uc = tok.Param
		}
	case "u":
		if !tok.HasParam {
			return
		}
		v := tok.Param
		if v < 0 {
			v += 65536
		}
		slice := tokenSlice{i, 0, len(tok.Raw)}
		if !d.combineSurrogate(rune(v), slice) {
			d.emit(rune(v), slice)
		}
		d.pendingSkip = d.uc
		d.skipAnchor = -1
		if d.recording && !d.ignore && d.pendingSkip > 0 {
			d.skipAnchor = len(d.refs) - 1
		}
	case "'":
		if !tok.HasParam {
			return
		}
		if d.pendingSkip > 0 {
			d.consumeFallback(tokenSlice{i, 0, len(tok.Raw)})
			return
		}
		d.emit(decodeLegacyByte(tok.Param), tokenSlice{i, 0, len(tok.Raw)})
	case "\\", "{", "}":
		d.emit(rune(tok.Word[0]), tokenSlice{i, 0, len(tok.Raw)})
	case "~":
		d.emit('\u00a0', tokenSlice{i, 0, len(tok.Raw)}) // non-breaking space
	case "-", "_":
		// Optional and non-breaking hyphen markers carry no text.
	default:
		if d.state.apply(tok.Word, tok.Param, tok.HasParam) {
			d.dirty = true
		}
	}
}

func (d *decoder) text(i int, tok Token) {
	justOpened := d.justOpened
	d.justOpened = false

	if d.depth == 0 {
		return
	}

	pos := 0
	// One leading space right after a group-open is a delimiter, not text.
	if justOpened && len(tok.Raw) > 0 && tok.Raw[0] == ' ' {
		pos = 1
	}

	for pos < len(tok.Raw) {
		r, size := utf8.DecodeRuneInString(tok.Raw[pos:])
		switch r {
		case '\r', '\n', '\t':
			// Raw line breaks and tabs are RTF source formatting, not text.
		default:
			if d.pendingSkip > 0 {
				d.consumeFallback(tokenSlice{i, pos, pos + size})
			} else {
				d.emit(r, tokenSlice{i, pos, pos + size})
			}
		}
		pos += size
	}
}

// combineSurrogate merges a low-surrogate \uN escape with an immediately
// preceding high surrogate into one supplementary-plane character, the
// UTF-16 form word processors use for text above U+FFFF. The low half's
// slice joins the high half's position map entry so the pair is edited as
// one character.
func (d *decoder) combineSurrogate(r rune, slice tokenSlice) bool {
	if d.ignore || d.depth == 0 {
		return false
	}
	if r < 0xDC00 || r > 0xDFFF {
		return false
	}
	n := len(d.curText)
	if n == 0 {
		return false
	}
	hi := d.curText[n-1]
	if hi < 0xD800 || hi > 0xDBFF {
		return false
	}

	d.curText[n-1] = utf16.DecodeRune(hi, r)
	if d.recording {
		d.plain[len(d.plain)-1] = d.curText[n-1]
		ref := &d.refs[len(d.refs)-1]
		ref.slices = append(ref.slices, slice)
	}
	return true
}

// consumeFallback discards one ANSI fallback character after a \uN escape,
// attaching its slice to the escape's character so they are deleted as one.
func (d *decoder) consumeFallback(slice tokenSlice) {
	d.pendingSkip--
	if d.recording && d.skipAnchor >= 0 {
		ref := &d.refs[d.skipAnchor]
		ref.slices = append(ref.slices, slice)
	}
}

// emit appends one character to the current paragraph, synchronizing style
// spans first if the format state changed since the last character.
func (d *decoder) emit(r rune, slice tokenSlice) {
	if d.ignore || d.depth == 0 {
		return
	}
	if d.dirty {
		d.syncSpans()
		d.dirty = false
	}
	d.curText = append(d.curText, r)
	if d.recording {
		d.plain = append(d.plain, r)
		d.refs = append(d.refs, charRef{slices: []tokenSlice{slice}})
	}
}

// breakParagraph finalizes the current paragraph on \par or \line.
func (d *decoder) breakParagraph(i int, tok Token) {
	d.finishParagraph()
	if d.recording {
		d.plain = append(d.plain, '\n')
		d.refs = append(d.refs, charRef{slices: []tokenSlice{{i, 0, len(tok.Raw)}}})
	}
}

// finishParagraph closes dangling spans and appends the paragraph, empty or
// not. Active formatting reopens at position 0 of the next paragraph.
func (d *decoder) finishParagraph() {
	end := len(d.curText)
	for _, attr := range spanOrder {
		os, ok := d.open[attr]
		if !ok {
			continue
		}
		if os.start < end {
			d.curSpans = append(d.curSpans, makeSpan(attr, os.start, end, os.value))
		}
		delete(d.open, attr)
	}

	spans := d.curSpans
	sort.SliceStable(spans, func(a, b int) bool {
		if spans[a].Start != spans[b].Start {
			return spans[a].Start < spans[b].Start
		}
		return spans[a].Attr < spans[b].Attr
	})

	d.paragraphs = append(d.paragraphs, Paragraph{Text: string(d.curText), Spans: spans})
	d.curText = nil
	d.curSpans = nil
	d.dirty = true
}

// syncSpans closes spans whose attribute is no longer active (or changed
// value) at the current position and opens spans for newly active ones.
func (d *decoder) syncSpans() {
	pos := len(d.curText)
	want := d.activeAttrs()

	for _, attr := range spanOrder {
		os, isOpen := d.open[attr]
		val, isWanted := want[attr]

		if isOpen && (!isWanted || os.value != val) {
			if os.start < pos {
				d.curSpans = append(d.curSpans, makeSpan(attr, os.start, pos, os.value))
			}
			delete(d.open, attr)
			isOpen = false
		}
		if isWanted && !isOpen {
			d.open[attr] = openSpan{start: pos, value: val}
		}
	}
}

// activeAttrs resolves the current format state into concrete span
// attributes, mapping font and color indices through the parsed tables.
// Unresolvable indices and the auto color slot produce no span.
func (d *decoder) activeAttrs() map[SpanAttr]attrValue {
	m := make(map[SpanAttr]attrValue)
	s := d.state

	if s.bold {
		m[AttrBold] = attrValue{}
	}
	if s.italic {
		m[AttrItalic] = attrValue{}
	}
	if s.underline {
		m[AttrUnderline] = attrValue{}
	}
	if s.strike {
		m[AttrStrikethrough] = attrValue{}
	}
	switch s.script {
	case scriptSuper:
		m[AttrSuperscript] = attrValue{}
	case scriptSub:
		m[AttrSubscript] = attrValue{}
	}
	if s.fontSize > 0 {
		m[AttrFontSize] = attrValue{size: s.fontSize}
	}
	if s.fontIndex >= 0 {
		if f, ok := d.meta.fontByIndex(s.fontIndex); ok && f.Name != "" {
			m[AttrFontFamily] = attrValue{font: f.Name}
		}
	}
	if s.colorIndex >= 0 {
		if c, ok := d.meta.colorByIndex(s.colorIndex); ok && !c.Auto {
			m[AttrTextColor] = attrValue{color: c.RGB}
		}
	}
	if s.highlightIndex >= 0 {
		if c, ok := d.meta.colorByIndex(s.highlightIndex); ok && !c.Auto {
			m[AttrBackgroundColor] = attrValue{color: c.RGB}
		}
	}
	return m
}

func makeSpan(attr SpanAttr, start, end int, val attrValue) StyleSpan {
	return StyleSpan{
		Attr:  attr,
		Start: start,
		End:   end,
		Size:  val.size,
		Color: val.color,
		Font:  val.font,
	}
}
