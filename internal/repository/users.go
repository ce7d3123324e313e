package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FamilyID     string    `json:"familyId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	FamilyID     string
}

func (r *Repository) CreateUser(ctx context.Context, p CreateUserParams) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(p.Username),
		Email:        strings.TrimSpace(p.Email),
		PasswordHash: p.PasswordHash,
		Role:         p.Role,
		FamilyID:     p.FamilyID,
		CreatedAt:    time.Now().UTC(),
	}
	if u.Role == "" {
		u.Role = RoleUser
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, family_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, nullString(u.FamilyID), u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, family_id, created_at
         FROM users WHERE id = ?`, id))
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, family_id, created_at
         FROM users WHERE username = ?`, username))
}

// UserExists reports whether a user with the given username or email exists.
func (r *Repository) UserExists(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, username, email).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFamilyUsers returns the members of a family, newest first.
func (r *Repository) ListFamilyUsers(ctx context.Context, familyID string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, password_hash, role, family_id, created_at
         FROM users WHERE family_id = ? ORDER BY created_at DESC`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

type UpdateUserParams struct {
	Role         *string
	PasswordHash *string
	Email        *string
}

// UpdateUser applies the non-nil fields to a user within the family.
func (r *Repository) UpdateUser(ctx context.Context, id, familyID string, p UpdateUserParams) (*User, error) {
	u, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.FamilyID != familyID {
		return nil, ErrNotFound
	}

	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, password_hash = ?, email = ? WHERE id = ?`,
		u.Role, u.PasswordHash, u.Email, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user within the family.
func (r *Repository) DeleteUser(ctx context.Context, id, familyID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) scanUser(row *sql.Row) (*User, error) {
	var u User
	var familyID sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &familyID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.FamilyID = familyID.String
	return &u, nil
}

func scanUserRow(rows *sql.Rows) (*User, error) {
	var u User
	var familyID sql.NullString
	if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &familyID, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.FamilyID = familyID.String
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
