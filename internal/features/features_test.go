package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriscorrea/reviewdtm/internal/corpus"
	"github.com/chriscorrea/reviewdtm/internal/counter"
)

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]string{"afinn", "afinn"})
	assert.ErrorIs(t, err, ErrDuplicateFeature)

	_, err = New([]string{""})
	assert.Error(t, err)
}

func TestFromDocuments(t *testing.T) {
	docs := []corpus.Document{
		{ID: "1", Text: "a truly great read", Label: 1, Labeled: true, Features: map[string]float64{"afinn": 3}},
		{ID: "2", Text: "meh", Label: 0, Labeled: true, Features: map[string]float64{}},
	}

	table, err := FromDocuments(docs, []string{"afinn"}, []counter.CountingMethod{counter.Words, counter.Characters})
	require.NoError(t, err)

	assert.Equal(t, []string{"afinn", "word_count", "char_count"}, table.Names())
	assert.Equal(t, []string{"1", "2"}, table.IDs())

	row, ok := table.Get("1")
	require.True(t, ok)
	assert.Equal(t, 1, row.Label)
	assert.Equal(t, 3.0, row.Value("afinn"))
	assert.Equal(t, 4.0, row.Value("word_count"))
	assert.Equal(t, 18.0, row.Value("char_count"))

	row, ok = table.Get("2")
	require.True(t, ok)
	assert.Equal(t, 0.0, row.Value("afinn"), "unavailable aggregate reads as 0")
	_, ok = row.Values["afinn"]
	assert.False(t, ok)
}

func TestFromDocumentsNameClash(t *testing.T) {
	_, err := FromDocuments(nil, []string{"word_count"}, []counter.CountingMethod{counter.Words})
	assert.ErrorIs(t, err, ErrDuplicateFeature)
}

func TestSetCopiesValues(t *testing.T) {
	table, err := New([]string{"x"})
	require.NoError(t, err)
	values := map[string]float64{"x": 1}
	table.Set("a", Row{Values: values})
	values["x"] = 2

	row, _ := table.Get("a")
	assert.Equal(t, 1.0, row.Value("x"))

	table.Set("a", Row{Values: map[string]float64{"x": 5}})
	assert.Equal(t, 1, table.Len(), "replacing a row keeps one entry")
}
