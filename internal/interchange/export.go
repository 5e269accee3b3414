package interchange

// export.go serializes canonical records into archive bytes.
//
// JSON export writes the full versioned envelope; CSV export flattens items
// only (categories, rooms, and receipts have no CSV representation).
// Both succeed on empty input and produce a structurally complete document.

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ExportFilenamePrefix is the fixed prefix for generated archive filenames.
const ExportFilenamePrefix = "nestory-backup-"

// exportTimestampLayout sorts lexically in creation order.
const exportTimestampLayout = "20060102-150405"

// csvHeader is the item CSV column order. csvRow must stay in sync.
var csvHeader = []string{
	"Name", "Brand", "Model Number", "Serial Number", "Value", "Purchase Date",
	"Currency", "Category", "Room", "Condition", "Condition Notes", "Notes",
	"Warranty Expiry", "Tags", "Quantity", "Barcode",
}

// csvTagSeparator joins multiple tags inside one CSV cell. Semicolon keeps
// tag lists out of the way of the comma delimiter.
const csvTagSeparator = ";"

// ExportJSON serializes the collections into a versioned JSON archive.
// Empty collections produce a minimal but structurally complete envelope.
func ExportJSON(c Collections, appVersion string, exportedAt time.Time) ([]byte, error) {
	archive := Archive{
		Version:    ArchiveVersion,
		ExportDate: exportedAt.UTC(),
		AppVersion: appVersion,
		Items:      c.Items,
		Categories: c.Categories,
		Rooms:      c.Rooms,
		Receipts:   c.Receipts,
	}
	archive.normalize()

	b, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding archive: %w", err)
	}
	return append(b, '\n'), nil
}

// ExportCSV serializes items into a CSV table: one header row, one data row
// per item. encoding/csv applies RFC-4180 quoting, so embedded delimiters,
// quotes, and newlines survive round-trips.
func ExportCSV(items []ItemExport) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	for _, item := range items {
		if err := w.Write(csvRow(item)); err != nil {
			return nil, fmt.Errorf("writing CSV row for %s: %w", item.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return []byte(buf.String()), nil
}

// csvRow flattens one item into CSV cell values in csvHeader order.
func csvRow(item ItemExport) []string {
	return []string{
		item.Name,
		item.Brand,
		item.ModelNumber,
		item.SerialNumber,
		formatAmount(item.PurchasePrice),
		formatDate(item.PurchaseDate),
		item.CurrencyCode,
		item.CategoryName,
		item.RoomName,
		item.Condition,
		item.ConditionNotes,
		item.Notes,
		formatDate(item.WarrantyExpiryDate),
		strings.Join(item.Tags, csvTagSeparator),
		strconv.Itoa(item.Quantity),
		item.Barcode,
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// filenameMu guards the per-process duplicate-timestamp counter.
var (
	filenameMu   sync.Mutex
	lastStamp    string
	stampCounter int
)

// ExportFilename builds an archive filename: fixed prefix, sortable
// timestamp, fixed-width sequence, extension. The sequence resets each
// second and keeps repeated exports within the same process both unique and
// lexically ordered by creation.
func ExportFilename(ext string, now time.Time) string {
	stamp := now.UTC().Format(exportTimestampLayout)

	filenameMu.Lock()
	if stamp == lastStamp {
		stampCounter++
	} else {
		lastStamp = stamp
		stampCounter = 0
	}
	seq := stampCounter
	filenameMu.Unlock()

	return fmt.Sprintf("%s%s-%03d.%s", ExportFilenamePrefix, stamp, seq, strings.TrimPrefix(ext, "."))
}
