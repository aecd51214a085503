package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = Columns{
	ID:         "review_id",
	Text:       "review",
	Label:      "recommend",
	Aggregates: []string{"afinn", "bing_pos"},
}

func TestRead(t *testing.T) {
	input := "review_id,review,recommend,afinn,bing_pos\n" +
		"1,\"A good, nice book\",1,3.5,2\n" +
		"2,Dull,0,-1,NA\n"

	docs, err := Read(strings.NewReader(input), testColumns)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "A good, nice book", docs[0].Text)
	assert.Equal(t, 1, docs[0].Label)
	assert.True(t, docs[0].Labeled)
	assert.Equal(t, map[string]float64{"afinn": 3.5, "bing_pos": 2}, docs[0].Features)

	// NA aggregates stay absent
	assert.Equal(t, map[string]float64{"afinn": -1}, docs[1].Features)
}

func TestReadMissingLabel(t *testing.T) {
	input := "review_id,review,afinn,bing_pos\n1,text,0,0\n"

	_, err := Read(strings.NewReader(input), testColumns)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	cols := testColumns
	cols.LabelOptional = true
	docs, err := Read(strings.NewReader(input), cols)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.False(t, docs[0].Labeled)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty input", "", ErrMissingColumn},
		{"missing aggregate", "review_id,review,recommend\n1,x,1\n", ErrMissingColumn},
		{"bad label", "review_id,review,recommend,afinn,bing_pos\n1,x,5,0,0\n", ErrInvalidLabel},
		{"duplicate id", "review_id,review,recommend,afinn,bing_pos\n1,x,1,0,0\n1,y,0,0,0\n", ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), testColumns)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestReadStripHTML(t *testing.T) {
	cols := Columns{ID: "id", Text: "text", Label: "label", StripHTML: true}
	input := "id,text,label\n7,\"loved <b>it</b><br>really\",1\n"

	docs, err := Read(strings.NewReader(input), cols)
	require.NoError(t, err)
	assert.Equal(t, "loved it really", docs[0].Text)
}

func TestReadStripFurniture(t *testing.T) {
	cols := Columns{ID: "id", Text: "text", Label: "label", StripHTML: true, StripFurniture: true}
	input := "id,text,label\n7,\"<p>Loved it.</p><p>Was this review helpful?</p><a>Report abuse</a>\",1\n"

	docs, err := Read(strings.NewReader(input), cols)
	require.NoError(t, err)
	assert.Equal(t, "Loved it.", docs[0].Text)
}

func TestByLabel(t *testing.T) {
	docs := []Document{
		{ID: "1", Label: 1, Labeled: true},
		{ID: "2", Label: 0, Labeled: true},
		{ID: "3", Label: 1, Labeled: true},
		{ID: "4"},
	}

	parts := ByLabel(docs)
	assert.Equal(t, []string{"1", "3"}, IDs(parts[1]))
	assert.Equal(t, []string{"2"}, IDs(parts[0]))
	assert.Len(t, parts, 2)
}

func TestParseLabel(t *testing.T) {
	for raw, want := range map[string]int{"0": 0, "1": 1, " true ": 1, "FALSE": 0} {
		got, err := ParseLabel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseLabel("yes")
	assert.ErrorIs(t, err, ErrInvalidLabel)
}
