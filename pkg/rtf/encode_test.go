package rtf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultHeader = `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}` + "\n"

func TestEncode_EmptyDocument(t *testing.T) {
	out, err := Encode(&Document{})
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+"}", out)
}

func TestEncode_PlainParagraphs(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{Text: "one"}, {Text: "two"}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+"one\\par\ntwo}", out)
}

func TestEncode_BoldRun(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{
		Text:  "Hello world",
		Spans: []StyleSpan{{Attr: AttrBold, Start: 6, End: 11}},
	}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+`Hello \b world\plain}`, out)
}

func TestEncode_ToggleOffMidParagraph(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{
		Text:  "ab cd",
		Spans: []StyleSpan{{Attr: AttrBold, Start: 0, End: 2}},
	}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+`\b ab\b0  cd}`, out)
}

func TestEncode_SyntaxEscapes(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{Text: `a{b}c\d`}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+`a\{b\}c\\d}`, out)
}

func TestEncode_TabAndLineBreak(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{Text: "a\tb\nc"}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+`a\tab b\line c}`, out)
}

func TestEncode_NonASCII(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{Text: "a\u2014b \u00e9"}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+`a\u8212?b \u233?}`, out)
}

func TestEncode_FontTableFromMeta(t *testing.T) {
	doc := &Document{
		Meta: DocumentMeta{
			DefaultFont: 1,
			Fonts: []FontTableEntry{
				{Index: 0, Name: "Arial", Family: "swiss"},
				{Index: 1, Name: "Courier", Family: "modern"},
			},
		},
		Paragraphs: []Paragraph{{Text: "x"}},
	}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, `{\rtf1\ansi\deff1{\fonttbl{\f0\fswiss Arial;}{\f1\fmodern Courier;}}`+"\nx}", out)
}

func TestEncode_ColorRun(t *testing.T) {
	doc := &Document{
		Meta: DocumentMeta{Colors: []ColorTableEntry{{Auto: true}, {RGB: RGB{R: 255}}}},
		Paragraphs: []Paragraph{{
			Text:  "red",
			Spans: []StyleSpan{{Attr: AttrTextColor, Start: 0, End: 3, Color: RGB{R: 255}}},
		}},
	}
	out, err := Encode(doc)
	require.NoError(t, err)
	want := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}{\colortbl;\red255\green0\blue0;}` + "\n" + `\cf1 red\plain}`
	assert.Equal(t, want, out)
}

func TestEncode_FontSizeEndsWithPlain(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{
		Text:  "big small",
		Spans: []StyleSpan{{Attr: AttrFontSize, Start: 0, End: 3, Size: 18}},
	}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+`\fs36 big\plain  small}`, out)
}

func TestEncode_UnknownColorFallsBackToAuto(t *testing.T) {
	doc := &Document{
		Meta: DocumentMeta{Colors: []ColorTableEntry{{Auto: true}}},
		Paragraphs: []Paragraph{{
			Text:  "x",
			Spans: []StyleSpan{{Attr: AttrTextColor, Start: 0, End: 1, Color: RGB{R: 1, G: 2, B: 3}}},
		}},
	}
	out, err := Encode(doc)
	require.NoError(t, err)
	want := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}{\colortbl;}` + "\n" + `\cf0 x\plain}`
	assert.Equal(t, want, out)
}

func TestEncode_SupplementaryPlaneChar(t *testing.T) {
	doc := &Document{Paragraphs: []Paragraph{{Text: "a\U0001F600b"}}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, defaultHeader+`a\u-10179?\u-8704?b}`, out)
}

func TestEncode_ColorRunEndsWithPlainWithoutAutoSlot(t *testing.T) {
	red := RGB{R: 255}
	doc := &Document{
		Meta: DocumentMeta{Colors: []ColorTableEntry{{RGB: red}}},
		Paragraphs: []Paragraph{{
			Text:  "ab",
			Spans: []StyleSpan{{Attr: AttrTextColor, Start: 0, End: 1, Color: red}},
		}},
	}
	out, err := Encode(doc)
	require.NoError(t, err)
	want := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}{\colortbl\red255\green0\blue0;}` + "\n" + `\cf0 a\plain b}`
	assert.Equal(t, want, out)

	// \cf0 names a real color in this table, so the run must end with
	// \plain or it would silently extend to the paragraph end.
	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Paragraphs[0].Spans, back.Paragraphs[0].Spans)
}

func TestEncode_HighlightRunEndsWithPlainWithoutAutoSlot(t *testing.T) {
	red := RGB{R: 255}
	doc := &Document{
		Meta: DocumentMeta{Colors: []ColorTableEntry{{RGB: red}}},
		Paragraphs: []Paragraph{{
			Text:  "ab",
			Spans: []StyleSpan{{Attr: AttrBackgroundColor, Start: 0, End: 1, Color: red}},
		}},
	}
	out, err := Encode(doc)
	require.NoError(t, err)
	want := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}{\colortbl\red255\green0\blue0;}` + "\n" + `\highlight0 a\plain b}`
	assert.Equal(t, want, out)

	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Paragraphs[0].Spans, back.Paragraphs[0].Spans)
}

func TestEncode_ColorRunEndingUsesCf0WithAutoSlot(t *testing.T) {
	red := RGB{R: 255}
	doc := &Document{
		Meta: DocumentMeta{Colors: []ColorTableEntry{{Auto: true}, {RGB: red}}},
		Paragraphs: []Paragraph{{
			Text:  "ab",
			Spans: []StyleSpan{{Attr: AttrTextColor, Start: 0, End: 1, Color: red}},
		}},
	}
	out, err := Encode(doc)
	require.NoError(t, err)
	want := `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss Helvetica;}}{\colortbl;\red255\green0\blue0;}` + "\n" + `\cf1 a\cf0 b}`
	assert.Equal(t, want, out)

	back, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Paragraphs[0].Spans, back.Paragraphs[0].Spans)
}
