package repository

import (
	"context"
	"time"
)

// ActivityEvent records a user action for dashboard stats.
type ActivityEvent struct {
	ID         int64
	EventType  string
	ItemID     string
	CategoryID string
	UserID     string
	FamilyID   string
	CreatedAt  time.Time
}

type CreateEventParams struct {
	EventType  string
	ItemID     string
	CategoryID string
	UserID     string
	FamilyID   string
}

func (r *Repository) CreateActivityEvent(ctx context.Context, p CreateEventParams) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_events (event_type, item_id, category_id, user_id, family_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		p.EventType, nullString(p.ItemID), nullString(p.CategoryID),
		nullString(p.UserID), nullString(p.FamilyID), time.Now().UTC())
	return err
}

// CountEventsSince counts events of a type for a family since a moment.
func (r *Repository) CountEventsSince(ctx context.Context, familyID, eventType string, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_events
         WHERE family_id = ? AND event_type = ? AND created_at >= ?`,
		familyID, eventType, since.UTC()).Scan(&n)
	return n, err
}

// PurgeOldEvents removes events older than the cutoff and reports how many
// were removed.
func (r *Repository) PurgeOldEvents(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_events WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
