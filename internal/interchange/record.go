package interchange

// record.go defines the canonical export records and the archive envelope.
//
// Records are flat and self-contained: relationships are denormalized into
// names and ID lists (an item carries categoryName and roomName as strings,
// not foreign keys), so a decoded archive never depends on load order or on
// the live object graph being present.

import (
	"time"

	"github.com/google/uuid"
)

// ArchiveVersion identifies the envelope schema produced by this build.
const ArchiveVersion = 1

// ItemExport is the canonical, serialization-ready form of one inventory
// item. ID survives export/import round-trips byte for byte.
type ItemExport struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Brand              string      `json:"brand,omitempty"`
	ModelNumber        string      `json:"modelNumber,omitempty"`
	SerialNumber       string      `json:"serialNumber,omitempty"`
	Barcode            string      `json:"barcode,omitempty"`
	PurchasePrice      *float64    `json:"purchasePrice,omitempty"`
	PurchaseDate       *time.Time  `json:"purchaseDate,omitempty"`
	CurrencyCode       string      `json:"currencyCode,omitempty"`
	CategoryName       string      `json:"categoryName,omitempty"`
	RoomName           string      `json:"roomName,omitempty"`
	Condition          string      `json:"condition,omitempty"`
	ConditionNotes     string      `json:"conditionNotes,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	WarrantyExpiryDate *time.Time  `json:"warrantyExpiryDate,omitempty"`
	Quantity           int         `json:"quantity"`
	Tags               []string    `json:"tags"`
	PhotoIdentifiers   []string    `json:"photoIdentifiers"`
	ReceiptIDs         []uuid.UUID `json:"receiptIds"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// CategoryExport is the canonical form of one category.
type CategoryExport struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomExport is the canonical form of one room.
type RoomExport struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Floor     string    `json:"floor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReceiptExport is the canonical form of one receipt. The photo identifier
// is an opaque reference resolved by the host's photo storage; this engine
// never dereferences it.
type ReceiptExport struct {
	ID              uuid.UUID  `json:"id"`
	Vendor          string     `json:"vendor,omitempty"`
	Total           *float64   `json:"total,omitempty"`
	CurrencyCode    string     `json:"currencyCode,omitempty"`
	PurchaseDate    *time.Time `json:"purchaseDate,omitempty"`
	PhotoIdentifier string     `json:"photoIdentifier,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Archive is the versioned envelope bundling every exportable collection
// plus export metadata. An archive with zero records in every collection is
// valid; decoding never fails solely because a collection is empty.
type Archive struct {
	Version    int              `json:"version"`
	ExportDate time.Time        `json:"exportDate"`
	AppVersion string           `json:"appVersion"`
	Items      []ItemExport     `json:"items"`
	Categories []CategoryExport `json:"categories"`
	Rooms      []RoomExport     `json:"rooms"`
	Receipts   []ReceiptExport  `json:"receipts"`
}

// Collections groups the four canonical record collections without the
// envelope metadata. Used as the exchange shape between the engine and the
// persistence collaborator.
type Collections struct {
	Items      []ItemExport
	Categories []CategoryExport
	Rooms      []RoomExport
	Receipts   []ReceiptExport
}

// normalize replaces nil collection slices with empty ones so that JSON
// encoding always produces arrays, never null.
func (a *Archive) normalize() {
	if a.Items == nil {
		a.Items = []ItemExport{}
	}
	if a.Categories == nil {
		a.Categories = []CategoryExport{}
	}
	if a.Rooms == nil {
		a.Rooms = []RoomExport{}
	}
	if a.Receipts == nil {
		a.Receipts = []ReceiptExport{}
	}
}
