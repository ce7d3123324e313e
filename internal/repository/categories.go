package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FamilyID    string    `json:"familyId"`
	CreatedAt   time.Time `json:"createdAt"`

	// ItemCount is populated by list queries.
	ItemCount int `json:"itemCount"`
}

type CreateCategoryParams struct {
	Name        string
	Description string
	FamilyID    string
}

func (r *Repository) CreateCategory(ctx context.Context, p CreateCategoryParams) (*Category, error) {
	c := &Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		FamilyID:    p.FamilyID,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, family_id, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.FamilyID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return c, nil
}

func (r *Repository) GetCategory(ctx context.Context, id, familyID string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, family_id, created_at
         FROM categories WHERE id = ? AND family_id = ?`, id, familyID).
		Scan(&c.ID, &c.Name, &c.Description, &c.FamilyID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns the family's categories with item counts,
// alphabetically.
func (r *Repository) ListCategories(ctx context.Context, familyID string) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.family_id, c.created_at,
                (SELECT COUNT(*) FROM items i WHERE i.category_id = c.id) AS item_count
         FROM categories c WHERE c.family_id = ? ORDER BY c.name`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.FamilyID, &c.CreatedAt, &c.ItemCount); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

type UpdateCategoryParams struct {
	Name        *string
	Description *string
}

func (r *Repository) UpdateCategory(ctx context.Context, id, familyID string, p UpdateCategoryParams) (*Category, error) {
	c, err := r.GetCategory(ctx, id, familyID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ? AND family_id = ?`,
		c.Name, c.Description, id, familyID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes an empty category. Categories still referenced by
// items return ErrConflict.
func (r *Repository) DeleteCategory(ctx context.Context, id, familyID string) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
