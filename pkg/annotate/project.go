package annotate

import (
	"sort"
	"unicode/utf8"

	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

// StyleDef is one entry of the external editor's style table: the
// attributes a marker ID stands for.
type StyleDef struct {
	Name   string
	Bold   bool
	Italic bool
	Size   float64 // points; 0 means no explicit size
}

// Project strips annotation markers from every paragraph of doc and
// converts markers whose ID appears in styles into style spans.
// Existing span boundaries are shifted onto the cleaned text; markers
// with no definition are stripped silently.
func Project(doc *rtf.Document, styles map[int]StyleDef) {
	for i := range doc.Paragraphs {
		projectParagraph(&doc.Paragraphs[i], styles)
	}
}

func projectParagraph(p *rtf.Paragraph, styles map[int]StyleDef) {
	clean, tags := Scan(p.Text)
	if len(tags) == 0 {
		return
	}

	offs := origOffsets(tags)
	spans := make([]rtf.StyleSpan, 0, len(p.Spans))
	for _, s := range p.Spans {
		s.Start = toCleanIndex(tags, offs, s.Start)
		s.End = toCleanIndex(tags, offs, s.End)
		if s.Start < s.End {
			spans = append(spans, s)
		}
	}

	n := utf8.RuneCountInString(clean)
	open := map[int]int{}

	for _, tag := range tags {
		def, known := styles[tag.ID]
		switch {
		case tag.Family == FamilyParagraph:
			if known {
				spans = append(spans, defSpans(def, 0, n)...)
			}
		case tag.End:
			start, opened := open[tag.ID]
			delete(open, tag.ID)
			if opened && known && start < tag.Pos {
				spans = append(spans, defSpans(def, start, tag.Pos)...)
			}
		default:
			open[tag.ID] = tag.Pos
		}
	}

	// Unclosed character styles run to the end of the paragraph.
	ids := make([]int, 0, len(open))
	for id := range open {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if def, known := styles[id]; known && open[id] < n {
			spans = append(spans, defSpans(def, open[id], n)...)
		}
	}

	sort.SliceStable(spans, func(a, b int) bool {
		if spans[a].Start != spans[b].Start {
			return spans[a].Start < spans[b].Start
		}
		return spans[a].Attr < spans[b].Attr
	})

	p.Text = clean
	p.Spans = spans
}

// origOffsets returns each tag's rune offset in the original, marker-
// bearing text.
func origOffsets(tags []Tag) []int {
	offs := make([]int, len(tags))
	shift := 0
	for i, tag := range tags {
		offs[i] = tag.Pos + shift
		shift += tag.width()
	}
	return offs
}

// toCleanIndex maps a rune index in the original text onto the cleaned
// text. Indices inside a marker snap to the marker's position.
func toCleanIndex(tags []Tag, offs []int, orig int) int {
	removed := 0
	for i, tag := range tags {
		w := tag.width()
		if orig >= offs[i]+w {
			removed += w
			continue
		}
		if orig > offs[i] {
			orig = offs[i]
		}
		break
	}
	return orig - removed
}

func defSpans(def StyleDef, start, end int) []rtf.StyleSpan {
	var spans []rtf.StyleSpan
	if def.Bold {
		spans = append(spans, rtf.StyleSpan{Attr: rtf.AttrBold, Start: start, End: end})
	}
	if def.Italic {
		spans = append(spans, rtf.StyleSpan{Attr: rtf.AttrItalic, Start: start, End: end})
	}
	if def.Size > 0 {
		spans = append(spans, rtf.StyleSpan{Attr: rtf.AttrFontSize, Start: start, End: end, Size: def.Size})
	}
	return spans
}
