// encode.go serializes the rich-text model back to RTF, emitting the
// minimal set of control words via per-character state diffing.
package rtf

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Encode serializes a document to RTF. The header carries the document's
// font and color tables positionally unchanged (other systems reference
// both by index); when the metadata has no fonts a single default font is
// written. Color and font lookup misses fall back to the auto/default
// slot rather than failing: a lossy edge, not an error.
func Encode(doc *Document) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(`{\rtf1\ansi\deff%d`, doc.Meta.DefaultFont))
	writeFontTable(&b, &doc.Meta)
	writeColorTable(&b, &doc.Meta)
	b.WriteString("\n")

	for i, p := range doc.Paragraphs {
		if i > 0 {
			b.WriteString("\\par\n")
		}
		encodeParagraph(&b, p, &doc.Meta)
	}

	b.WriteString("}")
	return b.String(), nil
}

func writeFontTable(b *strings.Builder, meta *DocumentMeta) {
	fonts := meta.Fonts
	if len(fonts) == 0 {
		fonts = []FontTableEntry{{Index: 0, Name: "Helvetica", Family: "swiss"}}
	}
	b.WriteString(`{\fonttbl`)
	for _, f := range fonts {
		family := f.Family
		if family == "" {
			family = "nil"
		}
		fmt.Fprintf(b, `{\f%d\f%s %s;}`, f.Index, family, f.Name)
	}
	b.WriteString("}")
}

func writeColorTable(b *strings.Builder, meta *DocumentMeta) {
	if len(meta.Colors) == 0 {
		return
	}
	b.WriteString(`{\colortbl`)
	for _, c := range meta.Colors {
		if c.Auto {
			b.WriteString(";")
			continue
		}
		fmt.Fprintf(b, `\red%d\green%d\blue%d;`, c.RGB.R, c.RGB.G, c.RGB.B)
	}
	b.WriteString("}")
}

// encodeParagraph walks the paragraph character by character, computing the
// active format state at each position and emitting only the control words
// that change it. A \plain closes whatever formatting is still open at the
// end of the paragraph.
func encodeParagraph(b *strings.Builder, p Paragraph, meta *DocumentMeta) {
	runes := []rune(p.Text)
	states := paragraphStates(p, meta, len(runes))

	w := &rtfWriter{b: b, colorAuto: colorSlotZeroAuto(meta)}
	prev := defaultFormatState()

	for i, r := range runes {
		cur := states[i]
		if cur != prev {
			w.writeStateDelta(prev, cur)
			prev = cur
		}
		w.writeChar(r)
	}

	if prev != defaultFormatState() {
		w.writeControl("plain")
	}
}

// paragraphStates projects the paragraph's spans onto a per-character
// format state, resolving concrete span values back to table indices.
func paragraphStates(p Paragraph, meta *DocumentMeta, n int) []formatState {
	states := make([]formatState, n)
	for i := range states {
		states[i] = defaultFormatState()
	}

	for _, span := range p.Spans {
		start, end := span.Start, span.End
		if start < 0 {
			start = 0
		}
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			applySpanToState(&states[i], span, meta)
		}
	}
	return states
}

func applySpanToState(s *formatState, span StyleSpan, meta *DocumentMeta) {
	switch span.Attr {
	case AttrBold:
		s.bold = true
	case AttrItalic:
		s.italic = true
	case AttrUnderline:
		s.underline = true
	case AttrStrikethrough:
		s.strike = true
	case AttrSuperscript:
		s.script = scriptSuper
	case AttrSubscript:
		s.script = scriptSub
	case AttrFontSize:
		s.fontSize = span.Size
	case AttrTextColor:
		idx, ok := meta.colorIndexByValue(span.Color)
		if !ok {
			idx = 0 // auto slot: documented lossy fallback
		}
		s.colorIndex = idx
	case AttrBackgroundColor:
		idx, ok := meta.colorIndexByValue(span.Color)
		if !ok {
			idx = 0
		}
		s.highlightIndex = idx
	case AttrFontFamily:
		idx, ok := meta.fontIndexByName(span.Font)
		if !ok {
			idx = meta.DefaultFont
		}
		s.fontIndex = idx
	}
}

// colorSlotZeroAuto reports whether \cf0 and \highlight0 are safe run
// terminators: index 0 either resolves to nothing or names the auto slot.
func colorSlotZeroAuto(meta *DocumentMeta) bool {
	return len(meta.Colors) == 0 || meta.Colors[0].Auto
}

// rtfWriter tracks whether the last thing written was a control word so a
// single delimiting space can be inserted before adjacent literal text.
type rtfWriter struct {
	b            *strings.Builder
	pendingDelim bool
	colorAuto    bool
}

func (w *rtfWriter) writeControl(word string) {
	w.b.WriteString("\\")
	w.b.WriteString(word)
	w.pendingDelim = true
}

func (w *rtfWriter) writeControlN(word string, n int) {
	fmt.Fprintf(w.b, "\\%s%d", word, n)
	w.pendingDelim = true
}

// writeStateDelta emits the control words taking the writer from state
// prev to state cur. Attribute removals RTF cannot express directly
// degrade to \plain plus a full re-emission of the remaining state.
func (w *rtfWriter) writeStateDelta(prev, cur formatState) {
	if w.needsPlain(prev, cur) {
		w.writeControl("plain")
		prev = defaultFormatState()
		if cur == prev {
			return
		}
	}

	if prev.bold != cur.bold {
		w.toggle("b", cur.bold)
	}
	if prev.italic != cur.italic {
		w.toggle("i", cur.italic)
	}
	if prev.underline != cur.underline {
		if cur.underline {
			w.writeControl("ul")
		} else {
			w.writeControl("ulnone")
		}
	}
	if prev.strike != cur.strike {
		w.toggle("strike", cur.strike)
	}
	if prev.script != cur.script {
		switch cur.script {
		case scriptSuper:
			w.writeControl("super")
		case scriptSub:
			w.writeControl("sub")
		case scriptNone:
			w.writeControl("nosupersub")
		}
	}
	if prev.fontSize != cur.fontSize && cur.fontSize > 0 {
		w.writeControlN("fs", int(cur.fontSize*2))
	}
	if prev.fontIndex != cur.fontIndex && cur.fontIndex >= 0 {
		w.writeControlN("f", cur.fontIndex)
	}
	if prev.colorIndex != cur.colorIndex {
		idx := cur.colorIndex
		if idx < 0 {
			idx = 0
		}
		w.writeControlN("cf", idx)
	}
	if prev.highlightIndex != cur.highlightIndex {
		idx := cur.highlightIndex
		if idx < 0 {
			idx = 0
		}
		w.writeControlN("highlight", idx)
	}
}

// needsPlain reports attribute removals with no direct control word: an
// ended font-size or font-index run always, and an ended color or
// highlight run when index 0 names a real color rather than the auto
// slot, so \cf0/\highlight0 would re-apply it instead of clearing.
func (w *rtfWriter) needsPlain(prev, cur formatState) bool {
	if (prev.fontSize > 0 && cur.fontSize == 0) || (prev.fontIndex >= 0 && cur.fontIndex < 0) {
		return true
	}
	if w.colorAuto {
		return false
	}
	return (prev.colorIndex >= 0 && cur.colorIndex < 0) ||
		(prev.highlightIndex >= 0 && cur.highlightIndex < 0)
}

func (w *rtfWriter) toggle(word string, on bool) {
	if on {
		w.writeControl(word)
	} else {
		w.writeControl(word + "0")
	}
}

// writeChar writes one character of document text, escaping RTF syntax and
// encoding non-ASCII as \uN escapes. Characters above U+FFFF become a
// UTF-16 surrogate pair of escapes, the form word processors emit.
func (w *rtfWriter) writeChar(r rune) {
	switch r {
	case '\\', '{', '}':
		w.b.WriteString("\\")
		w.b.WriteRune(r)
		w.pendingDelim = false
	case '\t':
		w.b.WriteString("\\tab ")
		w.pendingDelim = false
	case '\n':
		w.b.WriteString("\\line ")
		w.pendingDelim = false
	default:
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			w.writeUnicodeEscape(hi)
			w.writeUnicodeEscape(lo)
			return
		}
		if r > 0x7E {
			w.writeUnicodeEscape(r)
			return
		}
		if w.pendingDelim {
			w.b.WriteString(" ")
			w.pendingDelim = false
		}
		w.b.WriteRune(r)
	}
}

// writeUnicodeEscape emits one UTF-16 code unit as \uN with the mandatory
// '?' ANSI fallback, wrapped into RTF's signed 16-bit parameter range.
func (w *rtfWriter) writeUnicodeEscape(r rune) {
	v := int(r)
	if v > 32767 {
		v -= 65536
	}
	fmt.Fprintf(w.b, "\\u%d?", v)
	w.pendingDelim = false
}
