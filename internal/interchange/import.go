package interchange

// import.go decodes archives and mapped CSV datasets back into canonical
// records.
//
// Import is "as much as validly possible": once the envelope itself decodes,
// individual bad records are itemized and skipped instead of aborting the
// call. Only source and structural failures are fatal, and those surface as
// wrapped sentinel errors so callers can errors.Is on the kind.

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the fatal import kinds. Per-record validation failures
// are data in ImportResult, never errors.
var (
	// ErrInvalidArchive marks a structurally invalid source: malformed
	// JSON/CSV or missing required envelope fields.
	ErrInvalidArchive = errors.New("invalid archive")

	// ErrInvalidMapping marks a CSV import attempted with a mapping that
	// does not cover every required field.
	ErrInvalidMapping = errors.New("invalid column mapping")
)

// ImportErrorKind classifies one itemized import error.
type ImportErrorKind string

const (
	// ErrorInvalidRecord is a per-record validation failure, e.g. an empty
	// name. Accumulated, never fatal.
	ErrorInvalidRecord ImportErrorKind = "invalid_record"
)

// ImportError is one itemized, non-fatal import error.
type ImportError struct {
	Kind    ImportErrorKind `json:"kind"`
	Row     int             `json:"row,omitempty"` // 1-based CSV line, 0 for JSON records
	Message string          `json:"message"`
}

// ImportResult carries the successfully materialized records plus the
// ordered list of itemized errors. Counts reflect only records that passed
// validation.
type ImportResult struct {
	Items      []ItemExport     `json:"items"`
	Categories []CategoryExport `json:"categories"`
	Rooms      []RoomExport     `json:"rooms"`
	Receipts   []ReceiptExport  `json:"receipts"`
	Errors     []ImportError    `json:"errors"`
}

// HasErrors reports whether any per-record error was accumulated.
func (r ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary renders a pluralization-aware one-line description of the result,
// e.g. "imported 8 items, 2 categories, 1 room, 1 receipt (2 errors)".
func (r ImportResult) Summary() string {
	parts := []string{
		plural(len(r.Items), "item"),
		plural(len(r.Categories), "category"),
		plural(len(r.Rooms), "room"),
		plural(len(r.Receipts), "receipt"),
	}
	s := "imported " + strings.Join(parts, ", ")
	if n := len(r.Errors); n > 0 {
		s += fmt.Sprintf(" (%s)", plural(n, "error"))
	}
	return s
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// archiveEnvelope mirrors Archive with pointer metadata fields so that
// missing required envelope keys are distinguishable from zero values.
type archiveEnvelope struct {
	Version    *int             `json:"version"`
	ExportDate *time.Time       `json:"exportDate"`
	AppVersion *string          `json:"appVersion"`
	Items      []ItemExport     `json:"items"`
	Categories []CategoryExport `json:"categories"`
	Rooms      []RoomExport     `json:"rooms"`
	Receipts   []ReceiptExport  `json:"receipts"`
}

// ImportJSON decodes a JSON archive and validates every record
// individually. A decode failure or missing envelope field is fatal and
// wraps ErrInvalidArchive; per-record failures land in the result's error
// list while the remaining records import normally.
func ImportJSON(data []byte) (ImportResult, error) {
	var env archiveEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if env.ExportDate == nil {
		return ImportResult{}, fmt.Errorf("%w: missing exportDate", ErrInvalidArchive)
	}
	if env.AppVersion == nil {
		return ImportResult{}, fmt.Errorf("%w: missing appVersion", ErrInvalidArchive)
	}

	result := newImportResult()

	for i, item := range env.Items {
		if strings.TrimSpace(item.Name) == "" {
			result.Errors = append(result.Errors, ImportError{
				Kind:    ErrorInvalidRecord,
				Message: fmt.Sprintf("item %d: empty name", i+1),
			})
			continue
		}
		if item.Condition != "" && !ValidCondition(item.Condition) {
			item.Condition = string(NormalizeCondition(item.Condition))
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if item.PhotoIdentifiers == nil {
			item.PhotoIdentifiers = []string{}
		}
		if item.ReceiptIDs == nil {
			item.ReceiptIDs = []uuid.UUID{}
		}
		result.Items = append(result.Items, item)
	}

	for i, cat := range env.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			result.Errors = append(result.Errors, ImportError{
				Kind:    ErrorInvalidRecord,
				Message: fmt.Sprintf("category %d: empty name", i+1),
			})
			continue
		}
		result.Categories = append(result.Categories, cat)
	}

	for i, room := range env.Rooms {
		if strings.TrimSpace(room.Name) == "" {
			result.Errors = append(result.Errors, ImportError{
				Kind:    ErrorInvalidRecord,
				Message: fmt.Sprintf("room %d: empty name", i+1),
			})
			continue
		}
		result.Rooms = append(result.Rooms, room)
	}

	result.Receipts = append(result.Receipts, env.Receipts...)
	return result, nil
}

// ImportCSV parses a CSV dataset through a caller-finalized mapping. The
// mapping must be valid (every required field covered) or the whole call
// fails with ErrInvalidMapping before any row work. The first row is the
// header the mapping was built from and is skipped; each data row runs
// through the value parser dictated by its mapped field.
func ImportCSV(data []byte, mapping MappingResult) (ImportResult, error) {
	if !mapping.Valid {
		labels := make([]string, len(mapping.MissingRequired))
		for i, f := range mapping.MissingRequired {
			labels[i] = f.Label()
		}
		return ImportResult{}, fmt.Errorf("%w: missing required fields: %s",
			ErrInvalidMapping, strings.Join(labels, ", "))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if len(records) == 0 {
		return ImportResult{}, fmt.Errorf("%w: empty file", ErrInvalidArchive)
	}

	result := newImportResult()
	now := time.Now().UTC()

	for i, row := range records[1:] {
		rowNum := i + 2 // 1-indexed, after the header row

		if isEmptyRow(row) {
			continue
		}

		item := buildItem(row, mapping, now)
		if strings.TrimSpace(item.Name) == "" {
			result.Errors = append(result.Errors, ImportError{
				Kind:    ErrorInvalidRecord,
				Row:     rowNum,
				Message: fmt.Sprintf("row %d: empty name", rowNum),
			})
			continue
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// buildItem assembles one candidate item from a CSV row by running each
// mapped cell through the parser its target field calls for.
func buildItem(row []string, mapping MappingResult, now time.Time) ItemExport {
	item := ItemExport{
		ID:               uuid.New(),
		Quantity:         1,
		Tags:             []string{},
		PhotoIdentifiers: []string{},
		ReceiptIDs:       []uuid.UUID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, cm := range mapping.Columns {
		if cm.Field == FieldNone || cm.Index >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[cm.Index])
		if raw == "" {
			continue
		}
		assignField(&item, cm.Field, raw)
	}
	return item
}

// assignField parses one raw cell value and sets the corresponding item
// attribute. Unparseable optional values stay absent; validation belongs to
// the caller.
func assignField(item *ItemExport, field TargetField, raw string) {
	switch field {
	case FieldName:
		item.Name = raw
	case FieldBrand:
		item.Brand = raw
	case FieldModelNumber:
		item.ModelNumber = raw
	case FieldSerialNumber:
		item.SerialNumber = raw
	case FieldBarcode:
		item.Barcode = raw
	case FieldPurchasePrice:
		if v, ok := ParseAmount(raw); ok {
			item.PurchasePrice = &v
		}
	case FieldPurchaseDate:
		if t, ok := ParseDate(raw); ok {
			item.PurchaseDate = &t
		}
	case FieldCurrency:
		item.CurrencyCode = strings.ToUpper(raw)
	case FieldCategory:
		item.CategoryName = raw
	case FieldRoom:
		item.RoomName = raw
	case FieldCondition:
		item.Condition = string(NormalizeCondition(raw))
	case FieldConditionNotes:
		item.ConditionNotes = raw
	case FieldNotes:
		item.Notes = raw
	case FieldWarrantyExpiry:
		if t, ok := ParseDate(raw); ok {
			item.WarrantyExpiryDate = &t
		}
	case FieldTags:
		item.Tags = splitTags(raw)
	case FieldQuantity:
		if n, ok := ParseQuantity(raw); ok {
			item.Quantity = n
		}
	}
}

// splitTags splits a multi-value tag cell on semicolons or commas.
func splitTags(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func newImportResult() ImportResult {
	return ImportResult{
		Items:      []ItemExport{},
		Categories: []CategoryExport{},
		Rooms:      []RoomExport{},
		Receipts:   []ReceiptExport{},
		Errors:     []ImportError{},
	}
}
