// plaintext.go holds the one-way conversions for the case where there is
// no formatting to preserve.
package rtf

import "strings"

// ToPlainText decodes an RTF document and returns its text with paragraphs
// joined by newlines.
func ToPlainText(input string) (string, error) {
	doc, err := Decode(input)
	if err != nil {
		return "", err
	}
	return doc.PlainText(), nil
}

// FromPlainText wraps plain text in a minimal RTF document. Lines become
// paragraphs. When meta is nil a default single-font header is written.
func FromPlainText(text string, meta *DocumentMeta) string {
	doc := &Document{}
	if meta != nil {
		doc.Meta = *meta
	}

	lines := strings.Split(text, "\n")
	doc.Paragraphs = make([]Paragraph, len(lines))
	for i, line := range lines {
		doc.Paragraphs[i] = Paragraph{Text: line}
	}

	out, _ := Encode(doc)
	return out
}
