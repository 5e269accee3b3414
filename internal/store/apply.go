package store

// apply.go materializes an import result into the inventory graph under a
// caller-chosen restore strategy. All writes for one call happen inside a
// single transaction: a failed apply leaves the existing dataset untouched.

import (
	"context"
	"fmt"

	"github.com/nestory-app/nestory/internal/interchange"
)

// ApplyStats counts the records written by one Apply call.
type ApplyStats struct {
	Items      int `json:"items"`
	Categories int `json:"categories"`
	Rooms      int `json:"rooms"`
	Receipts   int `json:"receipts"`
}

// Apply writes the validated records of an import result into the database.
// StrategyReplace clears the whole dataset first; StrategyMerge upserts by
// ID and leaves unrelated records alone.
func (s *Store) Apply(ctx context.Context, result interchange.ImportResult, strategy RestoreStrategy) (ApplyStats, error) {
	var stats ApplyStats

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if strategy == StrategyReplace {
		// Child tables cascade from items
		for _, table := range []string{"items", "receipts", "categories", "rooms"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return stats, fmt.Errorf("clearing %s: %w", table, err)
			}
		}
	}

	for _, cat := range result.Categories {
		_, err := tx.Exec(ctx, `
			INSERT INTO categories (id, name, icon, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = $2, icon = $3`,
			pgUUID(cat.ID), cat.Name, pgText(cat.Icon), cat.CreatedAt)
		if err != nil {
			return stats, fmt.Errorf("writing category %s: %w", cat.ID, err)
		}
		stats.Categories++
	}

	for _, room := range result.Rooms {
		_, err := tx.Exec(ctx, `
			INSERT INTO rooms (id, name, floor, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = $2, floor = $3`,
			pgUUID(room.ID), room.Name, pgText(room.Floor), room.CreatedAt)
		if err != nil {
			return stats, fmt.Errorf("writing room %s: %w", room.ID, err)
		}
		stats.Rooms++
	}

	for _, receipt := range result.Receipts {
		_, err := tx.Exec(ctx, `
			INSERT INTO receipts (id, vendor, total, currency_code, purchase_date, photo_identifier, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				vendor = $2, total = $3, currency_code = $4,
				purchase_date = $5, photo_identifier = $6`,
			pgUUID(receipt.ID), pgText(receipt.Vendor), pgNumeric(receipt.Total),
			pgText(receipt.CurrencyCode), pgDate(receipt.PurchaseDate),
			pgText(receipt.PhotoIdentifier), receipt.CreatedAt)
		if err != nil {
			return stats, fmt.Errorf("writing receipt %s: %w", receipt.ID, err)
		}
		stats.Receipts++
	}

	for _, item := range result.Items {
		if err := writeItem(ctx, tx, item); err != nil {
			return stats, err
		}
		stats.Items++
	}

	if err := tx.Commit(ctx); err != nil {
		return stats, fmt.Errorf("commit transaction: %w", err)
	}
	return stats, nil
}

// writeItem upserts one item and rebuilds its tag, photo, and receipt link
// rows. Links are delete-and-reinsert so that merge updates cannot leave
// stale entries behind.
func writeItem(ctx context.Context, db DBTX, item interchange.ItemExport) error {
	_, err := db.Exec(ctx, `
		INSERT INTO items (
			id, name, brand, model_number, serial_number, barcode,
			purchase_price, purchase_date, currency_code, category_name,
			room_name, condition, condition_notes, notes, warranty_expiry,
			quantity, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			name = $2, brand = $3, model_number = $4, serial_number = $5,
			barcode = $6, purchase_price = $7, purchase_date = $8,
			currency_code = $9, category_name = $10, room_name = $11,
			condition = $12, condition_notes = $13, notes = $14,
			warranty_expiry = $15, quantity = $16, updated_at = $18`,
		pgUUID(item.ID), item.Name, pgText(item.Brand), pgText(item.ModelNumber),
		pgText(item.SerialNumber), pgText(item.Barcode), pgNumeric(item.PurchasePrice),
		pgDate(item.PurchaseDate), pgText(item.CurrencyCode), pgText(item.CategoryName),
		pgText(item.RoomName), pgText(item.Condition), pgText(item.ConditionNotes),
		pgText(item.Notes), pgDate(item.WarrantyExpiryDate), item.Quantity,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("writing item %s: %w", item.ID, err)
	}

	for _, table := range []string{"item_tags", "item_photos", "item_receipts"} {
		if _, err := db.Exec(ctx, "DELETE FROM "+table+" WHERE item_id = $1", pgUUID(item.ID)); err != nil {
			return fmt.Errorf("clearing %s for item %s: %w", table, item.ID, err)
		}
	}

	for i, tag := range item.Tags {
		if _, err := db.Exec(ctx,
			"INSERT INTO item_tags (item_id, position, tag) VALUES ($1, $2, $3)",
			pgUUID(item.ID), i, tag); err != nil {
			return fmt.Errorf("writing tag for item %s: %w", item.ID, err)
		}
	}
	for i, photo := range item.PhotoIdentifiers {
		if _, err := db.Exec(ctx,
			"INSERT INTO item_photos (item_id, position, photo_identifier) VALUES ($1, $2, $3)",
			pgUUID(item.ID), i, photo); err != nil {
			return fmt.Errorf("writing photo for item %s: %w", item.ID, err)
		}
	}
	for i, receiptID := range item.ReceiptIDs {
		if _, err := db.Exec(ctx,
			"INSERT INTO item_receipts (item_id, position, receipt_id) VALUES ($1, $2, $3)",
			pgUUID(item.ID), i, pgUUID(receiptID)); err != nil {
			return fmt.Errorf("writing receipt link for item %s: %w", item.ID, err)
		}
	}
	return nil
}
