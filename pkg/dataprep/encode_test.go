package dataprep

import (
	"reflect"
	"strings"
	"testing"

	"github.com/eliekawerk/twde-datalab/pkg/data"
)

func mustTable(t *testing.T, csv string) *data.Table {
	t.Helper()
	tbl, err := data.ReadTable(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	return tbl
}

func col(t *testing.T, f *data.Frame, name string) []float64 {
	t.Helper()
	c, err := f.Col(name)
	if err != nil {
		t.Fatalf("Col(%s): %v", name, err)
	}
	return c
}

const (
	trainCSV = "id,date,item_nbr,store_nbr,unit_sales,perishable,family,onpromotion\n" +
		"1,2017-08-01,10,5,3,0,GROCERY,False\n" +
		"2,2017-08-01,11,5,-2,1,DAIRY,\n" +
		"3,2017-08-02,10,6,7.5,0,,True\n"
	validationCSV = "id,date,item_nbr,store_nbr,unit_sales,perishable,family,onpromotion\n" +
		"4,2017-08-10,10,5,-1,0,BREAD,False\n" +
		"5,2017-08-10,99,1,2,1,GROCERY,True\n"
)

var schema = Schema{Categorical: []string{"family", "onpromotion"}}

func TestLabelEncoder_SortedCodes(t *testing.T) {
	enc := NewLabelEncoder()
	codes := enc.FitTransform([]string{"b", "a", "b", "-1"})
	if want := []int{2, 1, 2, 0}; !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
	if want := []string{"-1", "a", "b"}; !reflect.DeepEqual(enc.Classes(), want) {
		t.Errorf("classes = %v, want %v", enc.Classes(), want)
	}
	back, err := enc.InverseTransform(codes)
	if err != nil {
		t.Fatalf("InverseTransform: %v", err)
	}
	if want := []string{"b", "a", "b", "-1"}; !reflect.DeepEqual(back, want) {
		t.Errorf("inverse = %v, want %v", back, want)
	}
}

func TestLabelEncoder_TransformRejectsUnseen(t *testing.T) {
	enc := NewLabelEncoder().Fit([]string{"a"})
	if _, err := enc.Transform([]string{"z"}); err == nil {
		t.Fatal("expected error for unseen label")
	}
	if _, err := enc.InverseTransform([]int{1}); err == nil {
		t.Fatal("expected error for out-of-range code")
	}
}

func TestEncode_RoundTripsTheSplit(t *testing.T) {
	res, err := Encode(mustTable(t, trainCSV), mustTable(t, validationCSV), schema)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := col(t, res.Train, ColID); !reflect.DeepEqual(got, []float64{1, 2, 3}) {
		t.Errorf("train ids = %v", got)
	}
	if got := col(t, res.Validate, ColID); !reflect.DeepEqual(got, []float64{4, 5}) {
		t.Errorf("validation ids = %v", got)
	}
	if got := col(t, res.Train, ColItem); !reflect.DeepEqual(got, []float64{10, 11, 10}) {
		t.Errorf("train item_nbr = %v", got)
	}
	if got := col(t, res.Validate, ColPerishable); !reflect.DeepEqual(got, []float64{0, 1}) {
		t.Errorf("validation perishable = %v", got)
	}
	if res.Train.Has(ColDate) || res.Validate.Has(ColDate) {
		t.Error("date column survived encoding")
	}
}

func TestEncode_CodesSharedVocabularyAcrossSplits(t *testing.T) {
	res, err := Encode(mustTable(t, trainCSV), mustTable(t, validationCSV), schema)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// sorted union: -1, BREAD, DAIRY, GROCERY
	if got := col(t, res.Train, "family"); !reflect.DeepEqual(got, []float64{3, 2, 0}) {
		t.Errorf("train family = %v", got)
	}
	if got := col(t, res.Validate, "family"); !reflect.DeepEqual(got, []float64{1, 3}) {
		t.Errorf("validation family = %v", got)
	}
	// sorted union: -1, False, True
	if got := col(t, res.Train, "onpromotion"); !reflect.DeepEqual(got, []float64{1, 0, 2}) {
		t.Errorf("train onpromotion = %v", got)
	}
	if want := []string{"-1", "BREAD", "DAIRY", "GROCERY"}; !reflect.DeepEqual(res.Encodings["family"].Classes(), want) {
		t.Errorf("family classes = %v, want %v", res.Encodings["family"].Classes(), want)
	}
}

func TestEncode_IsIdempotent(t *testing.T) {
	first, err := Encode(mustTable(t, trainCSV), mustTable(t, validationCSV), schema)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := Encode(mustTable(t, trainCSV), mustTable(t, validationCSV), schema)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !reflect.DeepEqual(first.Train.Rows(), second.Train.Rows()) {
		t.Error("train encodings differ between runs")
	}
	if !reflect.DeepEqual(first.Validate.Rows(), second.Validate.Rows()) {
		t.Error("validation encodings differ between runs")
	}
}

func TestEncode_ClampsNegativeSales(t *testing.T) {
	res, err := Encode(mustTable(t, trainCSV), mustTable(t, validationCSV), schema)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, f := range []*data.Frame{res.Train, res.Validate} {
		for _, v := range col(t, f, ColTarget) {
			if v < 0 {
				t.Fatalf("unit_sales %v < 0 after encoding", v)
			}
		}
	}
	if got := col(t, res.Train, ColTarget); !reflect.DeepEqual(got, []float64{3, 0, 7.5}) {
		t.Errorf("train unit_sales = %v", got)
	}
	if got := col(t, res.Validate, ColTarget); !reflect.DeepEqual(got, []float64{0, 2}) {
		t.Errorf("validation unit_sales = %v", got)
	}
}

func TestEncode_MissingNumericBecomesMinusOne(t *testing.T) {
	train := mustTable(t, "id,item_nbr,store_nbr,unit_sales,perishable\n1,10,,3,0\n")
	validate := mustTable(t, "id,item_nbr,store_nbr,unit_sales,perishable\n2,10,5,,0\n")
	res, err := Encode(train, validate, Schema{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := col(t, res.Train, ColStore); !reflect.DeepEqual(got, []float64{-1}) {
		t.Errorf("store_nbr = %v, want [-1]", got)
	}
	// missing target is filled with -1, then clamped
	if got := col(t, res.Validate, ColTarget); !reflect.DeepEqual(got, []float64{0}) {
		t.Errorf("validation unit_sales = %v, want [0]", got)
	}
}

func TestEncode_UndeclaredTextColumnIsError(t *testing.T) {
	_, err := Encode(mustTable(t, trainCSV), mustTable(t, validationCSV), Schema{Categorical: []string{"onpromotion"}})
	if err == nil {
		t.Fatal("expected error for undeclared text column family")
	}
	if !strings.Contains(err.Error(), "family") {
		t.Errorf("error %q does not name the column", err)
	}
}

func TestEncode_SharedIDIsNotDeduplicated(t *testing.T) {
	train := mustTable(t, "id,unit_sales\n1,3\n")
	validate := mustTable(t, "id,unit_sales\n1,4\n2,5\n")
	res, err := Encode(train, validate, Schema{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.Train.Len() != 2 || res.Validate.Len() != 3 {
		t.Errorf("rows = %d/%d, want 2/3", res.Train.Len(), res.Validate.Len())
	}
}

func TestEncode_MissingIDIsError(t *testing.T) {
	train := mustTable(t, "id,unit_sales\n,3\n")
	validate := mustTable(t, "id,unit_sales\n2,4\n")
	if _, err := Encode(train, validate, Schema{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestInferSchema_DetectsTextColumns(t *testing.T) {
	s := InferSchema(mustTable(t, trainCSV))
	if want := []string{"family", "onpromotion"}; !reflect.DeepEqual(s.Categorical, want) {
		t.Errorf("categorical = %v, want %v", s.Categorical, want)
	}
}

func TestSchema_IDAndTargetNeverCategorical(t *testing.T) {
	s := Schema{Categorical: []string{ColID, ColTarget, "family"}}
	if s.IsCategorical(ColID) || s.IsCategorical(ColTarget) {
		t.Error("id or target reported categorical")
	}
	if !s.IsCategorical("family") {
		t.Error("family not categorical")
	}
}

func TestImputeConstant_CopiesInput(t *testing.T) {
	in := []string{"a", "", "NA"}
	out := ImputeConstant(in, MissingMarker)
	if !reflect.DeepEqual(out, []string{"a", "-1", "-1"}) {
		t.Errorf("out = %v", out)
	}
	if in[1] != "" {
		t.Error("input modified")
	}
}
