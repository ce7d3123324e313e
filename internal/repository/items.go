package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Item struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"imageUrl"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	Quantity      int       `json:"quantity"`
	Threshold     int       `json:"threshold"`
	Notes         string    `json:"notes"`
	CategoryID    string    `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	FamilyID      string    `json:"familyId"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LowStock reports whether the item is at or below its threshold.
func (i *Item) LowStock() bool {
	return i.Quantity <= i.Threshold
}

type CreateItemParams struct {
	Name        string
	Description string
	ImageURL    string
	Quantity    int
	Threshold   int
	Notes       string
	CategoryID  string
	FamilyID    string
	CreatedBy   string
}

func (r *Repository) CreateItem(ctx context.Context, p CreateItemParams) (*Item, error) {
	if p.Threshold < 1 {
		p.Threshold = 1
	}
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	now := time.Now().UTC()
	it := &Item{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Quantity:    p.Quantity,
		Threshold:   p.Threshold,
		Notes:       p.Notes,
		CategoryID:  p.CategoryID,
		FamilyID:    p.FamilyID,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, name, description, image_url, quantity, threshold, notes,
                            category_id, family_id, created_by, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Name, it.Description, it.ImageURL, it.Quantity, it.Threshold, it.Notes,
		it.CategoryID, it.FamilyID, it.CreatedBy, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r.GetItem(ctx, it.ID, it.FamilyID)
}

const itemColumns = `i.id, i.name, i.description, i.image_url, i.image_public_id,
       i.quantity, i.threshold, i.notes, i.category_id, c.name AS category_name,
       i.family_id, i.created_by, i.created_at, i.updated_at`

func (r *Repository) GetItem(ctx context.Context, id, familyID string) (*Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
         FROM items i JOIN categories c ON c.id = i.category_id
         WHERE i.id = ? AND i.family_id = ?`, id, familyID)

	var it Item
	if err := scanItem(row, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// ItemFilter narrows ListItems results.
type ItemFilter struct {
	CategoryID string
	Search     string
	LowStock   bool
}

// ListItems returns the family's items matching the filter, by name.
func (r *Repository) ListItems(ctx context.Context, familyID string, f ItemFilter) ([]Item, error) {
	query := `SELECT ` + itemColumns + `
         FROM items i JOIN categories c ON c.id = i.category_id
         WHERE i.family_id = ?`
	args := []any{familyID}

	if f.CategoryID != "" && f.CategoryID != "all" {
		query += ` AND i.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Search != "" {
		query += ` AND (i.name LIKE ? COLLATE NOCASE OR i.description LIKE ? COLLATE NOCASE)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.LowStock {
		query += ` AND i.quantity <= i.threshold`
	}
	query += ` ORDER BY i.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := scanItemRows(rows, &it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateItemParams carries partial updates; nil fields are left unchanged.
type UpdateItemParams struct {
	Name        *string
	Description *string
	ImageURL    *string
	Quantity    *int
	Threshold   *int
	Notes       *string
	CategoryID  *string
}

func (r *Repository) UpdateItem(ctx context.Context, id, familyID string, p UpdateItemParams) (*Item, error) {
	it, err := r.GetItem(ctx, id, familyID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
		if it.Quantity < 0 {
			it.Quantity = 0
		}
	}
	if p.Threshold != nil {
		it.Threshold = *p.Threshold
		if it.Threshold < 1 {
			it.Threshold = 1
		}
	}
	if p.Notes != nil {
		it.Notes = *p.Notes
	}
	if p.CategoryID != nil {
		it.CategoryID = *p.CategoryID
	}
	it.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, image_url = ?, quantity = ?,
                threshold = ?, notes = ?, category_id = ?, updated_at = ?
         WHERE id = ? AND family_id = ?`,
		it.Name, it.Description, it.ImageURL, it.Quantity, it.Threshold, it.Notes,
		it.CategoryID, it.UpdatedAt, id, familyID)
	if err != nil {
		return nil, err
	}
	return r.GetItem(ctx, id, familyID)
}

// ConsumeItem decrements quantity by amount with a floor of zero, returning
// the updated item. The decrement is a single statement so concurrent
// consumers cannot lose each other's updates.
func (r *Repository) ConsumeItem(ctx context.Context, id, familyID string, amount int) (*Item, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET quantity = MAX(0, quantity - ?), updated_at = ?
         WHERE id = ? AND family_id = ?`,
		amount, time.Now().UTC(), id, familyID)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return r.GetItem(ctx, id, familyID)
}

// SetItemImage records an uploaded image against the item.
func (r *Repository) SetItemImage(ctx context.Context, id, familyID, url, publicID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET image_url = ?, image_public_id = ?, updated_at = ?
         WHERE id = ? AND family_id = ?`,
		url, publicID, time.Now().UTC(), id, familyID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ClearItemImage removes the image reference from any item carrying the
// given public id within the family.
func (r *Repository) ClearItemImage(ctx context.Context, familyID, publicID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE items SET image_url = '', image_public_id = '', updated_at = ?
         WHERE family_id = ? AND image_public_id = ?`,
		time.Now().UTC(), familyID, publicID)
	return err
}

func (r *Repository) DeleteItem(ctx context.Context, id, familyID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CountLowStock returns the number of items at or below threshold.
func (r *Repository) CountLowStock(ctx context.Context, familyID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE family_id = ? AND quantity <= threshold`,
		familyID).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row *sql.Row, it *Item) error {
	err := scanItemInto(row, it)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func scanItemRows(rows *sql.Rows, it *Item) error {
	return scanItemInto(rows, it)
}

func scanItemInto(s rowScanner, it *Item) error {
	return s.Scan(&it.ID, &it.Name, &it.Description, &it.ImageURL, &it.ImagePublicID,
		&it.Quantity, &it.Threshold, &it.Notes, &it.CategoryID, &it.CategoryName,
		&it.FamilyID, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt)
}
