// document.go defines the in-memory rich-text model the codec converts
// to and from: plain paragraphs plus style spans, and the font/color
// metadata carried through from the RTF header.
package rtf

import "strings"

// SpanAttr identifies the formatting attribute a StyleSpan applies.
// Each attribute kind is tracked independently; spans of the same kind
// never overlap within a paragraph.
type SpanAttr int

const (
	AttrBold SpanAttr = iota
	AttrItalic
	AttrUnderline
	AttrStrikethrough
	AttrSuperscript
	AttrSubscript
	AttrFontSize
	AttrTextColor
	AttrBackgroundColor
	AttrFontFamily
)

var spanAttrNames = map[SpanAttr]string{
	AttrBold:            "bold",
	AttrItalic:          "italic",
	AttrUnderline:       "underline",
	AttrStrikethrough:   "strikethrough",
	AttrSuperscript:     "superscript",
	AttrSubscript:       "subscript",
	AttrFontSize:        "font-size",
	AttrTextColor:       "text-color",
	AttrBackgroundColor: "background-color",
	AttrFontFamily:      "font-family",
}

// String returns a stable lowercase name for the attribute.
func (a SpanAttr) String() string {
	if s, ok := spanAttrNames[a]; ok {
		return s
	}
	return "unknown"
}

// RGB is a 24-bit color from the RTF color table.
type RGB struct {
	R, G, B uint8
}

// StyleSpan applies one formatting attribute to the half-open rune range
// [Start, End) within a paragraph. Value fields are set according to Attr:
// Size for AttrFontSize, Color for AttrTextColor/AttrBackgroundColor, and
// Font for AttrFontFamily. Colors and fonts carry resolved concrete values,
// not table indices.
type StyleSpan struct {
	Attr  SpanAttr
	Start int
	End   int

	Size  float64
	Color RGB
	Font  string
}

// Paragraph is a run of plain text plus its style spans.
type Paragraph struct {
	Text  string
	Spans []StyleSpan
}

// FontTableEntry is one font table slot from the RTF header.
type FontTableEntry struct {
	Index  int
	Name   string
	Family string // RTF family category: nil, roman, swiss, modern, script, decor, tech, bidi
}

// ColorTableEntry is one color table slot. Auto marks the empty "auto"
// slot that word processors leave at index 0.
type ColorTableEntry struct {
	Auto bool
	RGB  RGB
}

// DocumentMeta is the header metadata threaded through encode unchanged so
// that external index references into the tables stay valid.
type DocumentMeta struct {
	Fonts       []FontTableEntry
	Colors      []ColorTableEntry
	DefaultFont int
}

// fontByIndex returns the font table entry with the given index.
func (m *DocumentMeta) fontByIndex(idx int) (FontTableEntry, bool) {
	for _, f := range m.Fonts {
		if f.Index == idx {
			return f, true
		}
	}
	return FontTableEntry{}, false
}

// fontIndexByName returns the table index of the named font.
func (m *DocumentMeta) fontIndexByName(name string) (int, bool) {
	for _, f := range m.Fonts {
		if f.Name == name {
			return f.Index, true
		}
	}
	return 0, false
}

// colorByIndex returns the color at a table position. Index 0 is usually
// the auto slot.
func (m *DocumentMeta) colorByIndex(idx int) (ColorTableEntry, bool) {
	if idx < 0 || idx >= len(m.Colors) {
		return ColorTableEntry{}, false
	}
	return m.Colors[idx], true
}

// colorIndexByValue returns the table position of the first entry equal to c.
func (m *DocumentMeta) colorIndexByValue(c RGB) (int, bool) {
	for i, entry := range m.Colors {
		if !entry.Auto && entry.RGB == c {
			return i, true
		}
	}
	return 0, false
}

// Document is a decoded rich-text document.
type Document struct {
	Paragraphs []Paragraph
	Meta       DocumentMeta
}

// PlainText returns the document text with paragraphs joined by newlines.
func (d *Document) PlainText() string {
	parts := make([]string, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}
