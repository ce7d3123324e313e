package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Repository) CreateFamily(ctx context.Context, name string) (*Family, error) {
	f := &Family{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO families (id, name, created_at) VALUES (?, ?, ?)`,
		f.ID, f.Name, f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *Repository) GetFamily(ctx context.Context, id string) (*Family, error) {
	var f Family
	var adminID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, admin_id, created_at FROM families WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &adminID, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	f.AdminID = adminID.String
	return &f, nil
}

// SetFamilyAdmin records the admin user of a family.
func (r *Repository) SetFamilyAdmin(ctx context.Context, familyID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE families SET admin_id = ? WHERE id = ?`, userID, familyID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// FamilyAdminUsername returns the username of the family's admin, used to
// build the per-family media folder.
func (r *Repository) FamilyAdminUsername(ctx context.Context, familyID string) (string, error) {
	var username string
	err := r.db.QueryRowContext(ctx,
		`SELECT u.username FROM families f JOIN users u ON u.id = f.admin_id WHERE f.id = ?`,
		familyID).Scan(&username)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}
