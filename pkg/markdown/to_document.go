package markdown

import (
	"sort"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

var mdParser = goldmark.New()

// ToDocument parses Markdown into a rich-text document. Paragraphs and
// headings become document paragraphs; emphasis becomes italic or bold
// spans; headings are bold with a level-dependent font size. Block
// constructs without a rich-text counterpart contribute their inline
// text as a plain paragraph.
func ToDocument(source []byte) (*rtf.Document, error) {
	root := mdParser.Parser().Parse(text.NewReader(source))

	doc := &rtf.Document{}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch b := n.(type) {
		case *ast.Heading:
			p := renderInline(b, source, inlineState{bold: true})
			if end := utf8.RuneCountInString(p.Text); end > 0 {
				p.Spans = append(p.Spans, rtf.StyleSpan{
					Attr: rtf.AttrFontSize, Start: 0, End: end, Size: headingSize(b.Level),
				})
			}
			doc.Paragraphs = append(doc.Paragraphs, sortedSpans(p))
		case *ast.Paragraph:
			doc.Paragraphs = append(doc.Paragraphs, sortedSpans(renderInline(b, source, inlineState{})))
		case *ast.ThematicBreak:
			doc.Paragraphs = append(doc.Paragraphs, rtf.Paragraph{})
		default:
			p := renderInline(n, source, inlineState{})
			if p.Text != "" {
				doc.Paragraphs = append(doc.Paragraphs, sortedSpans(p))
			}
		}
	}

	if len(doc.Paragraphs) == 0 {
		doc.Paragraphs = []rtf.Paragraph{{}}
	}
	return doc, nil
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 16
	case 3:
		return 14
	default:
		return 12
	}
}

type inlineState struct {
	bold   bool
	italic bool
}

type inlineBuilder struct {
	source []byte
	text   []rune
	spans  []rtf.StyleSpan
}

func renderInline(n ast.Node, source []byte, st inlineState) rtf.Paragraph {
	ib := &inlineBuilder{source: source}
	ib.walk(n, st)
	return rtf.Paragraph{Text: string(ib.text), Spans: ib.spans}
}

func (ib *inlineBuilder) walk(n ast.Node, st inlineState) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			ib.emit(string(v.Segment.Value(ib.source)), st)
			if v.SoftLineBreak() || v.HardLineBreak() {
				ib.emit(" ", st)
			}
		case *ast.String:
			ib.emit(string(v.Value), st)
		case *ast.Emphasis:
			next := st
			if v.Level >= 2 {
				next.bold = true
			} else {
				next.italic = true
			}
			ib.walk(v, next)
		default:
			ib.walk(c, st)
		}
	}
}

func (ib *inlineBuilder) emit(s string, st inlineState) {
	if s == "" {
		return
	}
	start := len(ib.text)
	ib.text = append(ib.text, []rune(s)...)
	end := len(ib.text)

	if st.bold {
		ib.addSpan(rtf.StyleSpan{Attr: rtf.AttrBold, Start: start, End: end})
	}
	if st.italic {
		ib.addSpan(rtf.StyleSpan{Attr: rtf.AttrItalic, Start: start, End: end})
	}
}

// addSpan extends a contiguous span of the same attribute rather than
// opening a second one.
func (ib *inlineBuilder) addSpan(s rtf.StyleSpan) {
	for i := range ib.spans {
		sp := &ib.spans[i]
		if sp.Attr == s.Attr && sp.End == s.Start {
			sp.End = s.End
			return
		}
	}
	ib.spans = append(ib.spans, s)
}

func sortedSpans(p rtf.Paragraph) rtf.Paragraph {
	sort.SliceStable(p.Spans, func(a, b int) bool {
		if p.Spans[a].Start != p.Spans[b].Start {
			return p.Spans[a].Start < p.Spans[b].Start
		}
		return p.Spans[a].Attr < p.Spans[b].Attr
	})
	return p
}
