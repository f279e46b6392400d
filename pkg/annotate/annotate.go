// Package annotate handles the inline annotation markers some external
// editors embed in document text to reference their own named styles.
// Markers come in two families, paragraph-level and character-level:
//
//	<$Scr_Ps::4>     paragraph style 4 (applies to the whole paragraph)
//	<$Scr_Cs::2>     character style 2 opens
//	<!$Scr_Cs::2>    character style 2 closes
//
// Scan separates markers from text losslessly and Restore is its exact
// inverse. Project converts markers into style spans on a decoded
// document, given a table of style definitions.
//
// The package works on plain text only and knows nothing about RTF
// syntax; callers decode first and annotate second.
package annotate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Family distinguishes the two marker families.
type Family int

const (
	FamilyParagraph Family = iota
	FamilyCharacter
)

// String returns a stable lowercase name for the family.
func (f Family) String() string {
	if f == FamilyParagraph {
		return "paragraph"
	}
	return "character"
}

// Tag is one annotation marker lifted out of the text. Pos is the rune
// offset in the cleaned text where the marker sat; End marks a closing
// character-level marker.
type Tag struct {
	Family Family
	ID     int
	End    bool
	Pos    int
}

// String renders the marker exactly as it appears inline.
func (t Tag) String() string {
	bang := ""
	if t.End {
		bang = "!"
	}
	fam := "Cs"
	if t.Family == FamilyParagraph {
		fam = "Ps"
	}
	return fmt.Sprintf("<%s$Scr_%s::%d>", bang, fam, t.ID)
}

// width is the marker's rune width in the original text. Markers are
// pure ASCII, so byte length works.
func (t Tag) width() int {
	return len(t.String())
}

var tagPattern = regexp.MustCompile(`<(!?)\$Scr_(Ps|Cs)::(\d+)>`)

// Scan splits text into its clean content and the markers embedded in
// it, in document order. Restore(Scan(text)) reproduces text exactly.
func Scan(text string) (string, []Tag) {
	matches := tagPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	var tags []Tag
	last, pos := 0, 0

	for _, m := range matches {
		seg := text[last:m[0]]
		b.WriteString(seg)
		pos += utf8.RuneCountInString(seg)

		tag := Tag{End: m[3] > m[2], Pos: pos}
		if text[m[4]:m[5]] == "Ps" {
			tag.Family = FamilyParagraph
		} else {
			tag.Family = FamilyCharacter
		}
		tag.ID, _ = strconv.Atoi(text[m[6]:m[7]])
		tags = append(tags, tag)

		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String(), tags
}

// Strip returns the text with all markers removed.
func Strip(text string) string {
	clean, _ := Scan(text)
	return clean
}

// Find locates the first marker in text and returns its rune offsets
// [start, end). ok is false when the text holds no markers.
func Find(text string) (start, end int, ok bool) {
	m := tagPattern.FindStringIndex(text)
	if m == nil {
		return 0, 0, false
	}
	start = utf8.RuneCountInString(text[:m[0]])
	end = start + utf8.RuneCountInString(text[m[0]:m[1]])
	return start, end, true
}

// Restore reinserts markers into clean text at their recorded positions.
// Tags must be in the order Scan returned them.
func Restore(text string, tags []Tag) string {
	if len(tags) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	ti := 0

	for i, r := range runes {
		for ti < len(tags) && tags[ti].Pos == i {
			b.WriteString(tags[ti].String())
			ti++
		}
		b.WriteRune(r)
	}
	for ; ti < len(tags); ti++ {
		b.WriteString(tags[ti].String())
	}

	return b.String()
}
