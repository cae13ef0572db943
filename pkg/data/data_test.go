package data

import (
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadTable_ParsesHeaderAndRows(t *testing.T) {
	in := "\ufeffid, date ,unit_sales\n1,2017-08-01,3\n2,2017-08-02,\n"
	tbl, err := ReadTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if want := []string{"id", "date", "unit_sales"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Errorf("columns = %v, want %v", tbl.Columns, want)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len = %d, want 2", tbl.Len())
	}
	sales, err := tbl.Float("unit_sales")
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if sales[0] != 3 || !math.IsNaN(sales[1]) {
		t.Errorf("unit_sales = %v, want [3 NaN]", sales)
	}
}

func TestReadTable_RejectsRaggedRows(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b\n1,2\n3\n"))
	if err == nil {
		t.Fatal("expected error for a short row")
	}
}

func TestReadTable_RejectsEmptyInput(t *testing.T) {
	if _, err := ReadTable(strings.NewReader("")); err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestReadCSV_MissingFileIsError(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not report a missing file", err)
	}
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "NA", "NaN", "nan", "NULL", "None"} {
		if !IsMissing(s) {
			t.Errorf("IsMissing(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "-1", "A", "False"} {
		if IsMissing(s) {
			t.Errorf("IsMissing(%q) = true", s)
		}
	}
}

func TestTable_ConcatUnionsColumnsInOrder(t *testing.T) {
	a, _ := NewTable([]string{"id", "x"}, [][]string{{"1", "a"}})
	b, _ := NewTable([]string{"x", "id", "y"}, [][]string{{"b", "2", "z"}})

	got, err := a.Concat(b)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if want := []string{"id", "x", "y"}; !reflect.DeepEqual(got.Columns, want) {
		t.Errorf("columns = %v, want %v", got.Columns, want)
	}
	want := [][]string{{"1", "a", ""}, {"2", "b", "z"}}
	if !reflect.DeepEqual(got.Records, want) {
		t.Errorf("records = %v, want %v", got.Records, want)
	}
}

func TestTable_DropIgnoresUnknownColumns(t *testing.T) {
	a, _ := NewTable([]string{"id", "date", "x"}, [][]string{{"1", "d", "a"}})
	got := a.Drop("date", "missing")
	if want := []string{"id", "x"}; !reflect.DeepEqual(got.Columns, want) {
		t.Errorf("columns = %v, want %v", got.Columns, want)
	}
	if !reflect.DeepEqual(got.Records, [][]string{{"1", "a"}}) {
		t.Errorf("records = %v", got.Records)
	}
	if a.Len() != 1 || len(a.Columns) != 3 {
		t.Error("Drop modified the source table")
	}
}

func TestNewTable_RejectsDuplicateColumns(t *testing.T) {
	if _, err := NewTable([]string{"a", "a"}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseFloats_FillsMissingAndRejectsText(t *testing.T) {
	got, err := ParseFloats("c", []string{"1.5", "", "NA"}, -1)
	if err != nil {
		t.Fatalf("ParseFloats: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{1.5, -1, -1}) {
		t.Errorf("got %v", got)
	}
	if _, err := ParseFloats("c", []string{"GROCERY"}, -1); err == nil {
		t.Error("expected error for text value")
	}
}

func TestFrame_SelectDropAndRows(t *testing.T) {
	f, err := NewFrame([]string{"a", "b", "c"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	sel, err := f.Select([]string{"c", "a"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !reflect.DeepEqual(sel.Rows(), [][]float64{{3, 1}, {6, 4}}) {
		t.Errorf("Select rows = %v", sel.Rows())
	}

	dropped := f.Drop("b")
	if !reflect.DeepEqual(dropped.Columns, []string{"a", "c"}) {
		t.Errorf("Drop columns = %v", dropped.Columns)
	}

	rows := f.SelectRows([]int{1})
	if rows.Len() != 1 || rows.At(0, "b") != 5 {
		t.Errorf("SelectRows = %v", rows.Rows())
	}

	empty := f.SelectRows(nil)
	if empty.Len() != 0 || !empty.Has("a") {
		t.Errorf("empty SelectRows: len %d columns %v", empty.Len(), empty.Columns)
	}

	if _, err := f.Select([]string{"zzz"}); err == nil {
		t.Error("expected error selecting an unknown column")
	}
}

func TestFrame_FillNaN(t *testing.T) {
	f, _ := FromColumns([]string{"a"}, [][]float64{{1, math.NaN()}})
	f.FillNaN(-1)
	got, _ := f.Col("a")
	if !reflect.DeepEqual(got, []float64{1, -1}) {
		t.Errorf("got %v", got)
	}
}

func TestFromColumns_RejectsUnevenColumns(t *testing.T) {
	if _, err := FromColumns([]string{"a", "b"}, [][]float64{{1, 2}, {3}}); err == nil {
		t.Fatal("expected error")
	}
}

func TestIDSet(t *testing.T) {
	s := NewIDSet([]float64{1, 2})
	if !s.Contains(2) || s.Contains(3) {
		t.Errorf("unexpected membership in %v", s)
	}
}
