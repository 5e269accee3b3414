package interchange

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testItem(name string) ItemExport {
	price := 1234.56
	purchased := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	return ItemExport{
		ID:               uuid.MustParse("6f1c6f2e-58a1-4c3f-9e51-0b3c2a1d4e5f"),
		Name:             name,
		Brand:            "Acme",
		ModelNumber:      "X-100",
		SerialNumber:     "SN-42",
		Barcode:          "0123456789012",
		PurchasePrice:    &price,
		PurchaseDate:     &purchased,
		CurrencyCode:     "USD",
		CategoryName:     "Electronics",
		RoomName:         "Living Room",
		Condition:        string(ConditionGood),
		Notes:            "bought on sale",
		Quantity:         2,
		Tags:             []string{"tech", "fragile"},
		PhotoIdentifiers: []string{"photo-1", "photo-2"},
		ReceiptIDs:       []uuid.UUID{uuid.MustParse("9a7b5c3d-1e2f-4a5b-8c9d-0e1f2a3b4c5d")},
		CreatedAt:        time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExportJSON_EmptyCollections(t *testing.T) {
	data, err := ExportJSON(Collections{}, "1.0.0", time.Now())
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	// Empty collections must encode as arrays, never null
	for _, key := range []string{"items", "categories", "rooms", "receipts"} {
		raw, ok := decoded[key]
		if !ok {
			t.Fatalf("envelope missing %q", key)
		}
		if string(raw) != "[]" {
			t.Errorf("%s = %s, want []", key, raw)
		}
	}
	for _, key := range []string{"exportDate", "appVersion", "version"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}
}

func TestExportCSV_Escaping(t *testing.T) {
	comma := testItem("Item with, comma")
	quoted := testItem(`She said "hi"`)

	data, err := ExportCSV([]ItemExport{comma, quoted})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `"Item with, comma"`) {
		t.Errorf("comma field not quoted:\n%s", out)
	}
	if !strings.Contains(out, `"She said ""hi"""`) {
		t.Errorf("quote field not doubled:\n%s", out)
	}
}

func TestExportCSV_HeaderAndValues(t *testing.T) {
	data, err := ExportCSV([]ItemExport{testItem("Camera")})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if lines[0] != strings.Join(csvHeader, ",") {
		t.Errorf("header = %q", lines[0])
	}

	row := lines[1]
	for _, want := range []string{"Camera", "Acme", "1234.56", "2024-03-15", "tech;fragile", "2"} {
		if !strings.Contains(row, want) {
			t.Errorf("row missing %q: %s", want, row)
		}
	}
}

func TestExportCSV_EmptyItems(t *testing.T) {
	data, err := ExportCSV(nil)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Errorf("got %d lines, want header only", len(lines))
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

	name := ExportFilename("json", now)
	if !strings.HasPrefix(name, ExportFilenamePrefix) {
		t.Errorf("filename %q missing prefix %q", name, ExportFilenamePrefix)
	}
	if !strings.HasSuffix(name, ".json") {
		t.Errorf("filename %q missing .json extension", name)
	}
	if !strings.Contains(name, "20240315-093000") {
		t.Errorf("filename %q missing sortable timestamp", name)
	}
}

// Repeated exports in the same second must produce distinct names that
// still sort in creation order.
func TestExportFilename_CollisionAvoidance(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	names := make([]string, 5)
	for i := range names {
		names[i] = ExportFilename("csv", now)
	}

	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Fatalf("duplicate filename %q", n)
		}
		seen[n] = true
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("filenames not lexically ordered: %v", names)
	}
}
