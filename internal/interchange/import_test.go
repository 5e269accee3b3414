package interchange

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testCollections() Collections {
	total := 499.99
	return Collections{
		Items: []ItemExport{testItem("Camera"), testItem("Laptop")},
		Categories: []CategoryExport{
			{ID: uuid.New(), Name: "Electronics", Icon: "laptopcomputer",
				CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		},
		Rooms: []RoomExport{
			{ID: uuid.New(), Name: "Living Room", Floor: "1",
				CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		},
		Receipts: []ReceiptExport{
			{ID: uuid.New(), Vendor: "Best Buy", Total: &total, CurrencyCode: "USD",
				CreatedAt: time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// Export to JSON followed by import must reproduce every record exactly,
// including decimal price precision and UUID identity. Re-exporting the
// imported records with the same metadata must yield byte-identical output.
func TestRoundTrip_JSON(t *testing.T) {
	original := testCollections()
	exportedAt := time.Date(2024, time.July, 4, 12, 0, 0, 0, time.UTC)

	data, err := ExportJSON(original, "1.2.0", exportedAt)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	result, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("round trip produced errors: %v", result.Errors)
	}
	if len(result.Items) != 2 || len(result.Categories) != 1 || len(result.Rooms) != 1 || len(result.Receipts) != 1 {
		t.Fatalf("counts = %d/%d/%d/%d, want 2/1/1/1",
			len(result.Items), len(result.Categories), len(result.Rooms), len(result.Receipts))
	}

	for i, item := range result.Items {
		if item.ID != original.Items[i].ID {
			t.Errorf("item %d ID = %s, want %s", i, item.ID, original.Items[i].ID)
		}
		if *item.PurchasePrice != *original.Items[i].PurchasePrice {
			t.Errorf("item %d price = %v, want %v", i, *item.PurchasePrice, *original.Items[i].PurchasePrice)
		}
	}

	reexported, err := ExportJSON(Collections{
		Items:      result.Items,
		Categories: result.Categories,
		Rooms:      result.Rooms,
		Receipts:   result.Receipts,
	}, "1.2.0", exportedAt)
	if err != nil {
		t.Fatalf("re-export error = %v", err)
	}
	if !bytes.Equal(data, reexported) {
		t.Error("re-exported archive differs from original export")
	}
}

func TestImportJSON_EmptyArchiveIsValid(t *testing.T) {
	data, err := ExportJSON(Collections{}, "1.0.0", time.Now())
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	result, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if result.HasErrors() {
		t.Errorf("empty archive produced errors: %v", result.Errors)
	}
	if len(result.Items)+len(result.Categories)+len(result.Rooms)+len(result.Receipts) != 0 {
		t.Error("empty archive produced records")
	}
}

func TestImportJSON_PartialImport(t *testing.T) {
	data, err := ExportJSON(Collections{
		Items: []ItemExport{testItem("Camera"), testItem("   "), testItem("Laptop")},
	}, "1.0.0", time.Now())
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	result, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}

	if len(result.Items) != 2 {
		t.Errorf("imported %d items, want 2", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if !result.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if e := result.Errors[0]; e.Kind != ErrorInvalidRecord || !strings.Contains(e.Message, "empty name") {
		t.Errorf("error = %+v, want invalid_record referencing empty name", e)
	}
}

func TestImportJSON_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "malformed JSON", input: `{"items": [`},
		{name: "not an object", input: `[1,2,3]`},
		{name: "missing exportDate", input: `{"appVersion":"1.0","items":[]}`},
		{name: "missing appVersion", input: `{"exportDate":"2024-07-04T12:00:00Z","items":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportJSON([]byte(tt.input))
			if err == nil {
				t.Fatal("ImportJSON() error = nil, want structural error")
			}
			if !errors.Is(err, ErrInvalidArchive) {
				t.Errorf("error = %v, want ErrInvalidArchive", err)
			}
		})
	}
}

func TestImportCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Item Name,Price,Qty,Condition,Purchase Date,Tags,Location",
		`Camera,"$1,234.56",2,Brand New,2024-03-15,tech;fragile,Living Room`,
		"Lamp,40,1,damaged,03/01/2023,,Bedroom",
	}, "\n")

	mapping := AnalyzeHeaders([]string{"Item Name", "Price", "Qty", "Condition", "Purchase Date", "Tags", "Location"})
	if !mapping.Valid {
		t.Fatalf("mapping invalid, missing: %v", mapping.MissingRequired)
	}

	result, err := ImportCSV([]byte(csvData), mapping)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("imported %d items, want 2", len(result.Items))
	}

	camera := result.Items[0]
	if camera.Name != "Camera" {
		t.Errorf("name = %q", camera.Name)
	}
	if camera.PurchasePrice == nil || *camera.PurchasePrice != 1234.56 {
		t.Errorf("price = %v, want 1234.56", camera.PurchasePrice)
	}
	if camera.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", camera.Quantity)
	}
	if camera.Condition != string(ConditionNew) {
		t.Errorf("condition = %q, want new", camera.Condition)
	}
	if camera.PurchaseDate == nil || !camera.PurchaseDate.Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("purchase date = %v", camera.PurchaseDate)
	}
	if len(camera.Tags) != 2 || camera.Tags[0] != "tech" || camera.Tags[1] != "fragile" {
		t.Errorf("tags = %v", camera.Tags)
	}
	if camera.RoomName != "Living Room" {
		t.Errorf("room = %q", camera.RoomName)
	}
	if camera.ID == uuid.Nil {
		t.Error("imported item has no ID")
	}

	lamp := result.Items[1]
	if lamp.Condition != string(ConditionPoor) {
		t.Errorf("lamp condition = %q, want poor", lamp.Condition)
	}
	if lamp.Quantity != 1 {
		t.Errorf("lamp quantity = %d, want 1", lamp.Quantity)
	}
}

func TestImportCSV_RowErrorsReferenceRowNumber(t *testing.T) {
	csvData := strings.Join([]string{
		"Name,Brand",
		"Camera,Acme",
		",NoNameCo",
		"Lamp,Lux",
	}, "\n")

	mapping := AnalyzeHeaders([]string{"Name", "Brand"})
	result, err := ImportCSV([]byte(csvData), mapping)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}

	if len(result.Items) != 2 {
		t.Errorf("imported %d items, want 2", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	if e := result.Errors[0]; e.Row != 3 || !strings.Contains(e.Message, "row 3") {
		t.Errorf("error = %+v, want row 3 reference", e)
	}
}

func TestImportCSV_SkipsEmptyRows(t *testing.T) {
	csvData := "Name\nCamera\n\n   \nLamp\n"

	mapping := AnalyzeHeaders([]string{"Name"})
	result, err := ImportCSV([]byte(csvData), mapping)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if len(result.Items) != 2 || result.HasErrors() {
		t.Errorf("items = %d, errors = %v, want 2 items and no errors",
			len(result.Items), result.Errors)
	}
}

func TestImportCSV_InvalidMapping(t *testing.T) {
	mapping := AnalyzeHeaders([]string{"brand", "price"})

	_, err := ImportCSV([]byte("brand,price\nAcme,10\n"), mapping)
	if err == nil {
		t.Fatal("ImportCSV() error = nil, want ErrInvalidMapping")
	}
	if !errors.Is(err, ErrInvalidMapping) {
		t.Errorf("error = %v, want ErrInvalidMapping", err)
	}
	if !strings.Contains(err.Error(), "Name") {
		t.Errorf("error %q does not name the missing field", err)
	}
}

func TestImportResult_Summary(t *testing.T) {
	tests := []struct {
		name   string
		result ImportResult
		want   string
	}{
		{
			name:   "singular everywhere",
			result: ImportResult{Items: make([]ItemExport, 1), Categories: make([]CategoryExport, 1), Rooms: make([]RoomExport, 1), Receipts: make([]ReceiptExport, 1)},
			want:   "imported 1 item, 1 category, 1 room, 1 receipt",
		},
		{
			name:   "plural with errors",
			result: ImportResult{Items: make([]ItemExport, 8), Categories: make([]CategoryExport, 2), Errors: make([]ImportError, 2)},
			want:   "imported 8 items, 2 categories, 0 rooms, 0 receipts (2 errors)",
		},
		{
			name:   "single error",
			result: ImportResult{Items: make([]ItemExport, 2), Errors: make([]ImportError, 1)},
			want:   "imported 2 items, 0 categories, 0 rooms, 0 receipts (1 error)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func ExampleImportResult_Summary() {
	result := ImportResult{Items: make([]ItemExport, 2), Errors: make([]ImportError, 1)}
	fmt.Println(result.Summary())
	// Output: imported 2 items, 0 categories, 0 rooms, 0 receipts (1 error)
}
