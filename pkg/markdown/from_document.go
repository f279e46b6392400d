// Package markdown bridges the rich-text model and Markdown, for the
// cases where a human wants to read or author content that ultimately
// lives in RTF.
package markdown

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

// htmlTags maps the span attributes that have a Markdown rendering to
// their HTML element. Colors, fonts, and sizes have no Markdown
// equivalent and are dropped.
var htmlTags = []struct {
	attr rtf.SpanAttr
	tag  string
}{
	{rtf.AttrBold, "b"},
	{rtf.AttrItalic, "i"},
	{rtf.AttrStrikethrough, "s"},
	{rtf.AttrUnderline, "u"},
	{rtf.AttrSuperscript, "sup"},
	{rtf.AttrSubscript, "sub"},
}

// FromDocument renders a decoded document as Markdown by way of HTML.
func FromDocument(doc *rtf.Document) (string, error) {
	md, err := htmltomarkdown.ConvertString(renderHTML(doc))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

func renderHTML(doc *rtf.Document) string {
	var b strings.Builder
	for _, p := range doc.Paragraphs {
		b.WriteString("<p>")
		renderParagraph(&b, p)
		b.WriteString("</p>\n")
	}
	return b.String()
}

// renderParagraph emits the paragraph text with properly nested inline
// tags, closing and reopening the whole tag set whenever the active
// attributes change.
func renderParagraph(b *strings.Builder, p rtf.Paragraph) {
	runes := []rune(p.Text)

	masks := make([]uint8, len(runes))
	for _, s := range p.Spans {
		bit := -1
		for ti, ht := range htmlTags {
			if ht.attr == s.Attr {
				bit = ti
				break
			}
		}
		if bit < 0 {
			continue
		}
		for i := max(s.Start, 0); i < min(s.End, len(runes)); i++ {
			masks[i] |= 1 << bit
		}
	}

	var open uint8
	for i, r := range runes {
		if masks[i] != open {
			writeCloseTags(b, open)
			open = masks[i]
			writeOpenTags(b, open)
		}
		writeEscaped(b, r)
	}
	writeCloseTags(b, open)
}

func writeOpenTags(b *strings.Builder, mask uint8) {
	for ti := range htmlTags {
		if mask&(1<<ti) != 0 {
			b.WriteString("<" + htmlTags[ti].tag + ">")
		}
	}
}

func writeCloseTags(b *strings.Builder, mask uint8) {
	for ti := len(htmlTags) - 1; ti >= 0; ti-- {
		if mask&(1<<ti) != 0 {
			b.WriteString("</" + htmlTags[ti].tag + ">")
		}
	}
}

func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '&':
		b.WriteString("&amp;")
	case '<':
		b.WriteString("&lt;")
	case '>':
		b.WriteString("&gt;")
	default:
		b.WriteRune(r)
	}
}
