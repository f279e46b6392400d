package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_CharacterMarkers(t *testing.T) {
	clean, tags := Scan("a<$Scr_Cs::3>bold<!$Scr_Cs::3>b")
	assert.Equal(t, "aboldb", clean)
	require.Len(t, tags, 2)
	assert.Equal(t, Tag{Family: FamilyCharacter, ID: 3, Pos: 1}, tags[0])
	assert.Equal(t, Tag{Family: FamilyCharacter, ID: 3, End: true, Pos: 5}, tags[1])
}

func TestScan_ParagraphMarker(t *testing.T) {
	clean, tags := Scan("<$Scr_Ps::2>Title")
	assert.Equal(t, "Title", clean)
	require.Len(t, tags, 1)
	assert.Equal(t, Tag{Family: FamilyParagraph, ID: 2, Pos: 0}, tags[0])
}

func TestScan_NoMarkers(t *testing.T) {
	clean, tags := Scan("nothing to see here")
	assert.Equal(t, "nothing to see here", clean)
	assert.Nil(t, tags)
}

func TestScan_MalformedMarkersAreLiteralText(t *testing.T) {
	for _, text := range []string{
		"<$Scr_Xs::1>",
		"<$Scr_Cs::>",
		"<$Scr_Cs:1>",
		"<Scr_Cs::1>",
	} {
		clean, tags := Scan(text)
		assert.Equal(t, text, clean)
		assert.Nil(t, tags)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	inputs := []string{
		"a<$Scr_Cs::3>bold<!$Scr_Cs::3>b",
		"<$Scr_Ps::2>Title",
		"no markers at all",
		"<$Scr_Cs::1><$Scr_Cs::2>x<!$Scr_Cs::2><!$Scr_Cs::1>",
		"trailing<!$Scr_Cs::1>",
		"café <$Scr_Cs::1>—<!$Scr_Cs::1>",
	}

	for _, input := range inputs {
		clean, tags := Scan(input)
		assert.Equal(t, input, Restore(clean, tags))
	}
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "ab", Strip("<$Scr_Ps::1>a<$Scr_Cs::2>b<!$Scr_Cs::2>"))
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "<$Scr_Cs::7>", Tag{Family: FamilyCharacter, ID: 7}.String())
	assert.Equal(t, "<!$Scr_Cs::7>", Tag{Family: FamilyCharacter, ID: 7, End: true}.String())
	assert.Equal(t, "<$Scr_Ps::0>", Tag{Family: FamilyParagraph}.String())
}

func TestFamily_String(t *testing.T) {
	assert.Equal(t, "paragraph", FamilyParagraph.String())
	assert.Equal(t, "character", FamilyCharacter.String())
}
