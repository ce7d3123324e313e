package repository

import (
	"context"
	"time"
)

// MediaDeletion is a queued best-effort remote image deletion.
type MediaDeletion struct {
	ID        int64
	PublicID  string
	Attempts  int
	CreatedAt time.Time
}

func (r *Repository) EnqueueMediaDeletion(ctx context.Context, publicID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO media_deletions (public_id, created_at) VALUES (?, ?)`,
		publicID, time.Now().UTC())
	return err
}

// ListPendingMediaDeletions returns queued deletions with fewer than
// maxAttempts attempts, oldest first.
func (r *Repository) ListPendingMediaDeletions(ctx context.Context, maxAttempts, limit int) ([]MediaDeletion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, public_id, attempts, created_at FROM media_deletions
         WHERE attempts < ? ORDER BY created_at LIMIT ?`, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []MediaDeletion
	for rows.Next() {
		var d MediaDeletion
		if err := rows.Scan(&d.ID, &d.PublicID, &d.Attempts, &d.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, d)
	}
	return pending, rows.Err()
}

func (r *Repository) CompleteMediaDeletion(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media_deletions WHERE id = ?`, id)
	return err
}

func (r *Repository) RecordMediaDeletionFailure(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE media_deletions SET attempts = attempts + 1 WHERE id = ?`, id)
	return err
}

// PurgeExhaustedMediaDeletions drops queue rows that hit the attempt cap.
func (r *Repository) PurgeExhaustedMediaDeletions(ctx context.Context, maxAttempts int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM media_deletions WHERE attempts >= ?`, maxAttempts)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
