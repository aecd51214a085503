package dtm

import (
	"reflect"
	"testing"
)

func TestTableCounts(t *testing.T) {
	table := New([]string{"a", "b"})
	table.Add("a", "good", 2)
	table.Add("a", "good", 1)
	table.Add("b", "bad", 1)
	table.Add("b", "ignored", 0)

	if got := table.Count("a", "good"); got != 3 {
		t.Errorf("Count(a, good) = %d, want 3", got)
	}
	if got := table.Count("b", "good"); got != 0 {
		t.Errorf("Count(b, good) = %d, want 0", got)
	}
	if got := table.Terms(); !reflect.DeepEqual(got, []string{"bad", "good"}) {
		t.Errorf("Terms() = %v, want [bad good]", got)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestAddCreatesRow(t *testing.T) {
	table := New(nil)
	table.Add("z", "term", 1)
	if !table.Has("z") {
		t.Fatal("Add should create a missing row")
	}
	if got := table.DocIDs(); !reflect.DeepEqual(got, []string{"z"}) {
		t.Errorf("DocIDs() = %v, want [z]", got)
	}
}

func TestDocumentFrequency(t *testing.T) {
	table := New([]string{"1", "2", "3"})
	table.Add("1", "good", 2)
	table.Add("1", "nice", 1)
	table.Add("2", "good", 1)

	df := table.DocumentFrequency()
	want := map[string]int{"good": 2, "nice": 1}
	if !reflect.DeepEqual(df, want) {
		t.Errorf("DocumentFrequency() = %v, want %v", df, want)
	}
}

func TestRestrictKeepsRows(t *testing.T) {
	table := New([]string{"1", "2"})
	table.Add("1", "good", 2)
	table.Add("2", "nice", 1)

	restricted := table.Restrict([]string{"good"})
	if restricted.Len() != 2 {
		t.Errorf("Restrict() rows = %d, want 2", restricted.Len())
	}
	if got := restricted.Terms(); !reflect.DeepEqual(got, []string{"good"}) {
		t.Errorf("Restrict() terms = %v, want [good]", got)
	}
	// source table untouched
	if table.Count("2", "nice") != 1 {
		t.Error("Restrict() must not modify its input")
	}
}

func TestRowIsCopy(t *testing.T) {
	table := New([]string{"1"})
	table.Add("1", "good", 1)
	row := table.Row("1")
	row["good"] = 100
	if table.Count("1", "good") != 1 {
		t.Error("Row() must return a copy")
	}
}

func TestDensifyZeroFill(t *testing.T) {
	table := New([]string{"1", "2", "3"})
	table.Add("1", "good", 2)
	table.Add("1", "nice", 1)
	table.Add("2", "good", 1)

	got := Densify(table, []string{"good", "nice", "absent"})
	want := [][]float64{
		{2, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Densify() = %v, want %v", got, want)
	}
}

func TestDensifyNoColumns(t *testing.T) {
	table := New([]string{"1", "2"})
	got := Densify(table, nil)
	if len(got) != 2 {
		t.Fatalf("Densify() rows = %d, want 2", len(got))
	}
	for i, row := range got {
		if len(row) != 0 {
			t.Errorf("row %d has %d values, want 0", i, len(row))
		}
	}
}

func TestCompareIDs(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"7", "7", 0},
		{"abc", "abd", -1},
		{"5", "abc", -1},
		{"abc", "5", 1},
		{"07", "7", -1},
	}

	for _, tt := range tests {
		if got := CompareIDs(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareIDs(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSortRows(t *testing.T) {
	table := New([]string{"10", "2", "b", "1", "a"})
	table.SortRows()
	want := []string{"1", "2", "10", "a", "b"}
	if got := table.DocIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortRows() order = %v, want %v", got, want)
	}
}

func TestReindex(t *testing.T) {
	table := New([]string{"1", "2", "3"})
	table.Add("2", "good", 1)
	table.Add("3", "bad", 1)

	out := table.Reindex([]string{"3", "2", "9"})
	if got := out.DocIDs(); !reflect.DeepEqual(got, []string{"3", "2", "9"}) {
		t.Errorf("Reindex() rows = %v", got)
	}
	if out.Count("3", "bad") != 1 || out.Count("2", "good") != 1 || len(out.Row("9")) != 0 {
		t.Errorf("Reindex() counts wrong")
	}
	if out.Has("1") {
		t.Error("Reindex() kept an unlisted row")
	}
}
