// Package interchange implements the structured data interchange engine:
// exporting inventory snapshots to JSON/CSV archives, re-importing them with
// per-record validation, and mapping arbitrary spreadsheet columns onto the
// canonical item schema with confidence scores.
//
// Everything in this package is a pure data transformation. There is no I/O,
// no shared state between calls, and no dependency on the persistence layer;
// callers feed bytes and records in and get result values back.
package interchange

import "strings"

// TargetField identifies one canonical item attribute that a spreadsheet
// column can be mapped to. The set is closed; FieldNone marks an unmapped
// column.
type TargetField string

const (
	FieldNone           TargetField = ""
	FieldName           TargetField = "name"
	FieldBrand          TargetField = "brand"
	FieldModelNumber    TargetField = "model_number"
	FieldSerialNumber   TargetField = "serial_number"
	FieldPurchasePrice  TargetField = "purchase_price"
	FieldPurchaseDate   TargetField = "purchase_date"
	FieldCurrency       TargetField = "currency"
	FieldCategory       TargetField = "category"
	FieldRoom           TargetField = "room"
	FieldCondition      TargetField = "condition"
	FieldConditionNotes TargetField = "condition_notes"
	FieldNotes          TargetField = "notes"
	FieldWarrantyExpiry TargetField = "warranty_expiry"
	FieldTags           TargetField = "tags"
	FieldQuantity       TargetField = "quantity"
	FieldBarcode        TargetField = "barcode"
)

// ValueKind selects which value parser applies to a field's cell values.
type ValueKind int

const (
	KindText ValueKind = iota
	KindAmount
	KindDate
	KindQuantity
	KindCondition
	KindTags
)

// FieldSpec carries the metadata for one target field: how it is displayed,
// whether a mapping must cover it, the header variations it is recognized
// under, and how its cell values are parsed.
type FieldSpec struct {
	Field    TargetField
	Label    string
	Required bool
	Kind     ValueKind
	Aliases  []string
}

// Fields is the full target field table in declaration order. The order is
// load-bearing: header matching resolves exact fuzzy-score ties in favor of
// the earlier entry, so it must stay stable.
var Fields = []FieldSpec{
	{Field: FieldName, Label: "Name", Required: true, Kind: KindText,
		Aliases: []string{"item name", "item", "product", "product name", "title", "description", "item description"}},
	{Field: FieldBrand, Label: "Brand", Kind: KindText,
		Aliases: []string{"make", "manufacturer", "brand name", "maker"}},
	{Field: FieldModelNumber, Label: "Model Number", Kind: KindText,
		Aliases: []string{"model", "model no", "model num", "model #"}},
	{Field: FieldSerialNumber, Label: "Serial Number", Kind: KindText,
		Aliases: []string{"serial", "serial no", "serial num", "serial #", "sn", "s/n"}},
	{Field: FieldPurchasePrice, Label: "Value", Kind: KindAmount,
		Aliases: []string{"price", "purchase price", "cost", "value", "amount", "paid", "price paid"}},
	{Field: FieldPurchaseDate, Label: "Purchase Date", Kind: KindDate,
		Aliases: []string{"date", "purchased", "date purchased", "purchase dt", "bought", "date bought", "acquired"}},
	{Field: FieldCurrency, Label: "Currency", Kind: KindText,
		Aliases: []string{"currency code", "ccy"}},
	{Field: FieldCategory, Label: "Category", Kind: KindText,
		Aliases: []string{"type", "kind", "group", "item type", "item category"}},
	{Field: FieldRoom, Label: "Room", Kind: KindText,
		Aliases: []string{"location", "where", "area", "place", "room name"}},
	{Field: FieldCondition, Label: "Condition", Kind: KindCondition,
		Aliases: []string{"state", "item condition", "cond"}},
	{Field: FieldConditionNotes, Label: "Condition Notes", Kind: KindText,
		Aliases: []string{"condition note", "condition details", "damage", "damage notes"}},
	{Field: FieldNotes, Label: "Notes", Kind: KindText,
		Aliases: []string{"note", "comments", "comment", "remarks", "details"}},
	{Field: FieldWarrantyExpiry, Label: "Warranty Expiry", Kind: KindDate,
		Aliases: []string{"warranty", "warranty expiration", "warranty expires", "warranty end", "warranty date"}},
	{Field: FieldTags, Label: "Tags", Kind: KindTags,
		Aliases: []string{"tag", "labels", "label", "keywords"}},
	{Field: FieldQuantity, Label: "Quantity", Kind: KindQuantity,
		Aliases: []string{"qty", "count", "number", "amount owned", "units"}},
	{Field: FieldBarcode, Label: "Barcode", Kind: KindText,
		Aliases: []string{"upc", "ean", "barcode number", "upc code", "sku"}},
}

// specIndex is keyed by field for O(1) metadata lookup.
var specIndex = func() map[TargetField]FieldSpec {
	m := make(map[TargetField]FieldSpec, len(Fields))
	for _, spec := range Fields {
		m[spec.Field] = spec
	}
	return m
}()

// Spec returns the metadata for a target field.
// Returns false for FieldNone or an unknown field.
func Spec(field TargetField) (FieldSpec, bool) {
	spec, ok := specIndex[field]
	return spec, ok
}

// RequiredFields returns the target fields a mapping must cover, in
// declaration order.
func RequiredFields() []TargetField {
	var req []TargetField
	for _, spec := range Fields {
		if spec.Required {
			req = append(req, spec.Field)
		}
	}
	return req
}

// Label returns the human-readable display name for a field, or the raw key
// if the field is unknown.
func (f TargetField) Label() string {
	if spec, ok := specIndex[f]; ok {
		return spec.Label
	}
	return string(f)
}

// normalizeHeader lowercases a header string and collapses punctuation,
// underscores, and runs of whitespace to single spaces, so "Item_Name" and
// "item  name" compare equal during fuzzy matching.
func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
