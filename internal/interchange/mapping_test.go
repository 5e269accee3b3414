package interchange

import (
	"reflect"
	"testing"
)

func TestAnalyzeHeaders_ExactMatches(t *testing.T) {
	result := AnalyzeHeaders([]string{"name", "brand", "price"})

	if !result.Valid {
		t.Fatalf("result not valid, missing: %v", result.MissingRequired)
	}
	wantFields := []TargetField{FieldName, FieldBrand, FieldPurchasePrice}
	for i, cm := range result.Columns {
		if cm.Field != wantFields[i] {
			t.Errorf("column %d mapped to %q, want %q", i, cm.Field, wantFields[i])
		}
		if cm.Confidence != 1.0 {
			t.Errorf("column %d confidence = %v, want 1.0", i, cm.Confidence)
		}
	}
	if len(result.UnmappedColumns) != 0 {
		t.Errorf("unmapped columns = %v, want none", result.UnmappedColumns)
	}
}

func TestAnalyzeHeaders_MissingName(t *testing.T) {
	result := AnalyzeHeaders([]string{"brand", "price", "category"})

	if result.Valid {
		t.Fatal("result valid, want invalid without a name column")
	}
	if !reflect.DeepEqual(result.MissingRequired, []TargetField{FieldName}) {
		t.Errorf("MissingRequired = %v, want exactly [name]", result.MissingRequired)
	}
}

func TestAnalyzeHeaders_FuzzyName(t *testing.T) {
	result := AnalyzeHeaders([]string{"item_name"})

	if !result.Valid {
		t.Fatalf("result not valid, missing: %v", result.MissingRequired)
	}
	cm := result.Columns[0]
	if cm.Field != FieldName {
		t.Fatalf("column 0 mapped to %q, want name", cm.Field)
	}
	if cm.Confidence <= 0.5 || cm.Confidence >= 1.0 {
		t.Errorf("confidence = %v, want strictly between 0.5 and 1.0", cm.Confidence)
	}
}

func TestAnalyzeHeaders_UnmappedColumns(t *testing.T) {
	result := AnalyzeHeaders([]string{"name", "xq zv wk", "brand"})

	if !reflect.DeepEqual(result.UnmappedColumns, []int{1}) {
		t.Errorf("UnmappedColumns = %v, want [1]", result.UnmappedColumns)
	}
	if result.Columns[1].Field != FieldNone {
		t.Errorf("column 1 mapped to %q, want none", result.Columns[1].Field)
	}
}

// Two columns competing for one field: the earlier column wins and the
// later one stays unmapped.
func TestAnalyzeHeaders_DuplicateHeaders(t *testing.T) {
	result := AnalyzeHeaders([]string{"name", "item name"})

	if result.Columns[0].Field != FieldName {
		t.Fatalf("column 0 mapped to %q, want name", result.Columns[0].Field)
	}
	if result.Columns[1].Field != FieldNone {
		t.Errorf("column 1 mapped to %q, want none (field already claimed)", result.Columns[1].Field)
	}
}

func TestAnalyzeHeaders_Deterministic(t *testing.T) {
	headers := []string{"item_name", "price", "qty", "location", "condition", "mystery"}
	first := AnalyzeHeaders(headers)
	for i := 0; i < 10; i++ {
		if got := AnalyzeHeaders(headers); !reflect.DeepEqual(got, first) {
			t.Fatalf("AnalyzeHeaders unstable on run %d", i)
		}
	}
}

func TestUpdateMapping_ReassignClearsPreviousHolder(t *testing.T) {
	result := AnalyzeHeaders([]string{"name", "brand", "xq zv wk"})

	// Move brand from column 1 to column 2
	updated := UpdateMapping(result, 2, FieldBrand)

	if updated.Columns[2].Field != FieldBrand {
		t.Fatalf("column 2 mapped to %q, want brand", updated.Columns[2].Field)
	}
	if updated.Columns[2].Confidence != 1.0 {
		t.Errorf("manual assignment confidence = %v, want 1.0", updated.Columns[2].Confidence)
	}
	if updated.Columns[1].Field != FieldNone {
		t.Errorf("column 1 still mapped to %q, want cleared", updated.Columns[1].Field)
	}
	if !reflect.DeepEqual(updated.UnmappedColumns, []int{1}) {
		t.Errorf("UnmappedColumns = %v, want [1]", updated.UnmappedColumns)
	}
}

// Reassigning a column the field it already holds must not disturb any
// other column.
func TestUpdateMapping_Idempotent(t *testing.T) {
	result := AnalyzeHeaders([]string{"name", "brand", "price"})
	updated := UpdateMapping(result, 1, FieldBrand)

	for i := range result.Columns {
		if updated.Columns[i].Field != result.Columns[i].Field {
			t.Errorf("column %d changed from %q to %q", i,
				result.Columns[i].Field, updated.Columns[i].Field)
		}
	}
}

func TestUpdateMapping_UnmapColumn(t *testing.T) {
	result := AnalyzeHeaders([]string{"name", "brand"})
	updated := UpdateMapping(result, 0, FieldNone)

	if updated.Columns[0].Field != FieldNone {
		t.Fatalf("column 0 mapped to %q, want none", updated.Columns[0].Field)
	}
	if updated.Valid {
		t.Error("result valid after unmapping name, want invalid")
	}
	if !reflect.DeepEqual(updated.MissingRequired, []TargetField{FieldName}) {
		t.Errorf("MissingRequired = %v, want [name]", updated.MissingRequired)
	}
}

// No sequence of reassignments may ever leave two columns holding the same
// field.
func TestUpdateMapping_ExclusivityInvariant(t *testing.T) {
	result := AnalyzeHeaders([]string{"name", "brand", "price", "room", "notes"})

	moves := []struct {
		index int
		field TargetField
	}{
		{0, FieldBrand},
		{1, FieldName},
		{2, FieldBrand},
		{3, FieldName},
		{4, FieldPurchasePrice},
		{2, FieldNone},
		{0, FieldName},
	}

	for _, mv := range moves {
		result = UpdateMapping(result, mv.index, mv.field)

		seen := make(map[TargetField]int)
		for _, cm := range result.Columns {
			if cm.Field == FieldNone {
				continue
			}
			if prev, dup := seen[cm.Field]; dup {
				t.Fatalf("after assigning %q to column %d: field %q held by columns %d and %d",
					mv.field, mv.index, cm.Field, prev, cm.Index)
			}
			seen[cm.Field] = cm.Index
		}
	}
}

func TestUpdateMapping_OutOfRangeIndexIsNoOp(t *testing.T) {
	result := AnalyzeHeaders([]string{"name"})
	updated := UpdateMapping(result, 5, FieldBrand)

	if !reflect.DeepEqual(updated, result) {
		t.Errorf("out-of-range update changed the result")
	}
}
