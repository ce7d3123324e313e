// Package metrics records activity events and aggregates dashboard stats.
package metrics

import (
	"context"
	"log"
	"time"

	"pantree/internal/repository"
)

// EventType represents the type of activity event
type EventType string

const (
	EventItemCreated  EventType = "item_created"
	EventItemUpdated  EventType = "item_updated"
	EventItemDeleted  EventType = "item_deleted"
	EventItemConsumed EventType = "item_consumed"
	EventImageUpload  EventType = "image_upload"
)

// Logger handles activity event logging
type Logger struct {
	repo *repository.Repository
}

// New creates a new metrics logger
func New(repo *repository.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent inserts an activity event. Failures are logged but never
// propagate into the request path.
func (l *Logger) LogEvent(ctx context.Context, eventType EventType, familyID, userID, itemID, categoryID string) {
	err := l.repo.CreateActivityEvent(ctx, repository.CreateEventParams{
		EventType:  string(eventType),
		ItemID:     itemID,
		CategoryID: categoryID,
		UserID:     userID,
		FamilyID:   familyID,
	})
	if err != nil {
		log.Printf("metrics: failed to log event %s: %v", eventType, err)
	}
}

// Stats holds aggregated activity for a family.
type Stats struct {
	ItemsCreated7Days   int64 `json:"itemsCreated7Days"`
	ItemsCreated30Days  int64 `json:"itemsCreated30Days"`
	ItemsConsumed7Days  int64 `json:"itemsConsumed7Days"`
	ItemsConsumed30Days int64 `json:"itemsConsumed30Days"`
	Uploads7Days        int64 `json:"uploads7Days"`
	Uploads30Days       int64 `json:"uploads30Days"`
	LowStockItems       int64 `json:"lowStockItems"`
}

// GetStats retrieves activity statistics for a family's dashboard.
func (l *Logger) GetStats(ctx context.Context, familyID string) (*Stats, error) {
	now := time.Now().UTC()
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)

	stats := &Stats{}

	counts := []struct {
		dst   *int64
		event EventType
		since time.Time
	}{
		{&stats.ItemsCreated7Days, EventItemCreated, sevenDaysAgo},
		{&stats.ItemsCreated30Days, EventItemCreated, thirtyDaysAgo},
		{&stats.ItemsConsumed7Days, EventItemConsumed, sevenDaysAgo},
		{&stats.ItemsConsumed30Days, EventItemConsumed, thirtyDaysAgo},
		{&stats.Uploads7Days, EventImageUpload, sevenDaysAgo},
		{&stats.Uploads30Days, EventImageUpload, thirtyDaysAgo},
	}
	for _, c := range counts {
		n, err := l.repo.CountEventsSince(ctx, familyID, string(c.event), c.since)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	lowStock, err := l.repo.CountLowStock(ctx, familyID)
	if err != nil {
		return nil, err
	}
	stats.LowStockItems = lowStock

	return stats, nil
}
