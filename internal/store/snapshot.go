package store

// snapshot.go reads the whole inventory graph into canonical collections,
// ready to hand to the interchange encoders. Ordering is stable
// (created_at, then id) so that two snapshots of an unchanged database
// produce identical archives.

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nestory-app/nestory/internal/interchange"
)

// Snapshot loads every category, room, receipt, and item, with item tags,
// photos, and receipt links resolved into their canonical slice form.
func (s *Store) Snapshot(ctx context.Context) (interchange.Collections, error) {
	var c interchange.Collections

	categories, err := s.snapshotCategories(ctx)
	if err != nil {
		return c, err
	}
	rooms, err := s.snapshotRooms(ctx)
	if err != nil {
		return c, err
	}
	receipts, err := s.snapshotReceipts(ctx)
	if err != nil {
		return c, err
	}
	items, err := s.snapshotItems(ctx)
	if err != nil {
		return c, err
	}

	c.Categories = categories
	c.Rooms = rooms
	c.Receipts = receipts
	c.Items = items
	return c, nil
}

func (s *Store) snapshotCategories(ctx context.Context) ([]interchange.CategoryExport, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, icon, created_at FROM categories ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []interchange.CategoryExport{}
	for rows.Next() {
		var (
			id   pgtype.UUID
			cat  interchange.CategoryExport
			icon pgtype.Text
		)
		if err := rows.Scan(&id, &cat.Name, &icon, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		cat.ID = uuidValue(id)
		cat.Icon = textValue(icon)
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *Store) snapshotRooms(ctx context.Context) ([]interchange.RoomExport, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, floor, created_at FROM rooms ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	rooms := []interchange.RoomExport{}
	for rows.Next() {
		var (
			id    pgtype.UUID
			room  interchange.RoomExport
			floor pgtype.Text
		)
		if err := rows.Scan(&id, &room.Name, &floor, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		room.ID = uuidValue(id)
		room.Floor = textValue(floor)
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *Store) snapshotReceipts(ctx context.Context) ([]interchange.ReceiptExport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, vendor, total, currency_code, purchase_date, photo_identifier, created_at
		FROM receipts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying receipts: %w", err)
	}
	defer rows.Close()

	receipts := []interchange.ReceiptExport{}
	for rows.Next() {
		var (
			id       pgtype.UUID
			receipt  interchange.ReceiptExport
			vendor   pgtype.Text
			total    pgtype.Numeric
			currency pgtype.Text
			date     pgtype.Date
			photo    pgtype.Text
		)
		if err := rows.Scan(&id, &vendor, &total, &currency, &date, &photo, &receipt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}
		receipt.ID = uuidValue(id)
		receipt.Vendor = textValue(vendor)
		receipt.Total = numericValue(total)
		receipt.CurrencyCode = textValue(currency)
		receipt.PurchaseDate = dateValue(date)
		receipt.PhotoIdentifier = textValue(photo)
		receipts = append(receipts, receipt)
	}
	return receipts, rows.Err()
}

func (s *Store) snapshotItems(ctx context.Context) ([]interchange.ItemExport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, brand, model_number, serial_number, barcode,
		       purchase_price, purchase_date, currency_code, category_name,
		       room_name, condition, condition_notes, notes, warranty_expiry,
		       quantity, created_at, updated_at
		FROM items ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := []interchange.ItemExport{}
	for rows.Next() {
		var (
			id        pgtype.UUID
			item      interchange.ItemExport
			brand     pgtype.Text
			model     pgtype.Text
			serial    pgtype.Text
			barcode   pgtype.Text
			price     pgtype.Numeric
			purchased pgtype.Date
			currency  pgtype.Text
			category  pgtype.Text
			room      pgtype.Text
			condition pgtype.Text
			condNotes pgtype.Text
			notes     pgtype.Text
			warranty  pgtype.Date
		)
		err := rows.Scan(&id, &item.Name, &brand, &model, &serial, &barcode,
			&price, &purchased, &currency, &category, &room, &condition,
			&condNotes, &notes, &warranty, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.ID = uuidValue(id)
		item.Brand = textValue(brand)
		item.ModelNumber = textValue(model)
		item.SerialNumber = textValue(serial)
		item.Barcode = textValue(barcode)
		item.PurchasePrice = numericValue(price)
		item.PurchaseDate = dateValue(purchased)
		item.CurrencyCode = textValue(currency)
		item.CategoryName = textValue(category)
		item.RoomName = textValue(room)
		item.Condition = textValue(condition)
		item.ConditionNotes = textValue(condNotes)
		item.Notes = textValue(notes)
		item.WarrantyExpiryDate = dateValue(warranty)
		item.Tags = []string{}
		item.PhotoIdentifiers = []string{}
		item.ReceiptIDs = []uuid.UUID{}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachItemLinks(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachItemLinks fills in the tag, photo, and receipt link slices for every
// item in one pass per link table.
func (s *Store) attachItemLinks(ctx context.Context, items []interchange.ItemExport) error {
	if len(items) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]*interchange.ItemExport, len(items))
	for i := range items {
		index[items[i].ID] = &items[i]
	}

	tagRows, err := s.pool.Query(ctx,
		"SELECT item_id, tag FROM item_tags ORDER BY item_id, position")
	if err != nil {
		return fmt.Errorf("querying item tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var (
			itemID pgtype.UUID
			tag    string
		)
		if err := tagRows.Scan(&itemID, &tag); err != nil {
			return fmt.Errorf("scanning item tag: %w", err)
		}
		if item, ok := index[uuidValue(itemID)]; ok {
			item.Tags = append(item.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	photoRows, err := s.pool.Query(ctx,
		"SELECT item_id, photo_identifier FROM item_photos ORDER BY item_id, position")
	if err != nil {
		return fmt.Errorf("querying item photos: %w", err)
	}
	defer photoRows.Close()
	for photoRows.Next() {
		var (
			itemID pgtype.UUID
			photo  string
		)
		if err := photoRows.Scan(&itemID, &photo); err != nil {
			return fmt.Errorf("scanning item photo: %w", err)
		}
		if item, ok := index[uuidValue(itemID)]; ok {
			item.PhotoIdentifiers = append(item.PhotoIdentifiers, photo)
		}
	}
	if err := photoRows.Err(); err != nil {
		return err
	}

	receiptRows, err := s.pool.Query(ctx,
		"SELECT item_id, receipt_id FROM item_receipts ORDER BY item_id, position")
	if err != nil {
		return fmt.Errorf("querying item receipt links: %w", err)
	}
	defer receiptRows.Close()
	for receiptRows.Next() {
		var itemID, receiptID pgtype.UUID
		if err := receiptRows.Scan(&itemID, &receiptID); err != nil {
			return fmt.Errorf("scanning item receipt link: %w", err)
		}
		if item, ok := index[uuidValue(itemID)]; ok {
			item.ReceiptIDs = append(item.ReceiptIDs, uuidValue(receiptID))
		}
	}
	return receiptRows.Err()
}
