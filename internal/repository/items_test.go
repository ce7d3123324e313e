package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pantree/internal/repository"
	"pantree/internal/testutil"
)

func TestCreateAndGetItem(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	cat := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")

	item, err := repo.CreateItem(context.Background(), repository.CreateItemParams{
		Name:       "Rice",
		Quantity:   3,
		Threshold:  2,
		CategoryID: cat.ID,
		FamilyID:   family.ID,
		CreatedBy:  admin.ID,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	got, err := repo.GetItem(context.Background(), item.ID, family.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.Name != "Rice" || got.Quantity != 3 || got.Threshold != 2 {
		t.Fatalf("unexpected item: %+v", got)
	}
	if got.CategoryName != "Pantry" {
		t.Fatalf("expected joined category name, got %q", got.CategoryName)
	}
}

func TestCreateItemFloorsValues(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	cat := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")

	item, err := repo.CreateItem(context.Background(), repository.CreateItemParams{
		Name:       "Salt",
		Quantity:   -5,
		Threshold:  0,
		CategoryID: cat.ID,
		FamilyID:   family.ID,
		CreatedBy:  admin.ID,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Quantity != 0 {
		t.Fatalf("expected quantity floored to 0, got %d", item.Quantity)
	}
	if item.Threshold != 1 {
		t.Fatalf("expected threshold floored to 1, got %d", item.Threshold)
	}
}

func TestGetItemCrossFamilyIsNotFound(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	familyA, adminA := testutil.CreateTestFamily(t, repo, "alice")
	catA := testutil.CreateTestCategory(t, repo, familyA.ID, "Pantry")
	item := testutil.CreateTestItem(t, repo, familyA.ID, catA.ID, adminA.ID, "Rice", 3)

	familyB, _ := testutil.CreateTestFamily(t, repo, "bob")

	// Another family cannot see the item at all.
	if _, err := repo.GetItem(context.Background(), item.ID, familyB.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across families, got %v", err)
	}
	if err := repo.DeleteItem(context.Background(), item.ID, familyB.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected delete across families to fail, got %v", err)
	}
}

func TestListItemsFilters(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	pantry := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")
	spices := testutil.CreateTestCategory(t, repo, family.ID, "Spices")

	testutil.CreateTestItem(t, repo, family.ID, pantry.ID, admin.ID, "Basmati Rice", 5)
	testutil.CreateTestItem(t, repo, family.ID, pantry.ID, admin.ID, "Flour", 1) // at threshold
	testutil.CreateTestItem(t, repo, family.ID, spices.ID, admin.ID, "Paprika", 2)

	ctx := context.Background()

	all, err := repo.ListItems(ctx, family.ID, repository.ItemFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}

	byCategory, err := repo.ListItems(ctx, family.ID, repository.ItemFilter{CategoryID: spices.ID})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Name != "Paprika" {
		t.Fatalf("expected only Paprika, got %+v", byCategory)
	}

	// Search is case-insensitive.
	search, err := repo.ListItems(ctx, family.ID, repository.ItemFilter{Search: "rice"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(search) != 1 || search[0].Name != "Basmati Rice" {
		t.Fatalf("expected Basmati Rice, got %+v", search)
	}

	lowStock, err := repo.ListItems(ctx, family.ID, repository.ItemFilter{LowStock: true})
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(lowStock) != 1 || lowStock[0].Name != "Flour" {
		t.Fatalf("expected Flour at threshold, got %+v", lowStock)
	}
}

func TestConsumeItemFloorsAtZero(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	cat := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")
	item := testutil.CreateTestItem(t, repo, family.ID, cat.ID, admin.ID, "Rice", 2)

	got, err := repo.ConsumeItem(context.Background(), item.ID, family.ID, 5)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if got.Quantity != 0 {
		t.Fatalf("expected quantity floored to 0, got %d", got.Quantity)
	}
}

func TestConsumeItemConcurrentDecrements(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	cat := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")
	item := testutil.CreateTestItem(t, repo, family.ID, cat.ID, admin.ID, "Rice", 10)

	// Overlapping consumers must not lose each other's decrements.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConsumeItem(context.Background(), item.ID, family.ID, 2); err != nil {
				t.Errorf("consume: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetItem(context.Background(), item.ID, family.ID)
	if err != nil {
		t.Fatalf("get after consume: %v", err)
	}
	if got.Quantity != 0 {
		t.Fatalf("expected every decrement applied, got quantity %d", got.Quantity)
	}
}

func TestConsumeItemWrongFamily(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	other, _ := testutil.CreateTestFamily(t, repo, "bob")
	cat := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")
	item := testutil.CreateTestItem(t, repo, family.ID, cat.ID, admin.ID, "Rice", 2)

	if _, err := repo.ConsumeItem(context.Background(), item.ID, other.ID, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another family's item, got %v", err)
	}
}

func TestUpdateItemPartial(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	cat := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")
	item := testutil.CreateTestItem(t, repo, family.ID, cat.ID, admin.ID, "Rice", 2)

	qty := 7
	got, err := repo.UpdateItem(context.Background(), item.ID, family.ID, repository.UpdateItemParams{
		Quantity: &qty,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", got.Quantity)
	}
	if got.Name != "Rice" {
		t.Fatalf("untouched field changed: %q", got.Name)
	}
}

func TestSetAndClearItemImage(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	family, admin := testutil.CreateTestFamily(t, repo, "alice")
	cat := testutil.CreateTestCategory(t, repo, family.ID, "Pantry")
	item := testutil.CreateTestItem(t, repo, family.ID, cat.ID, admin.ID, "Rice", 2)

	ctx := context.Background()
	if err := repo.SetItemImage(ctx, item.ID, family.ID, "https://cdn/upload/v1/pantree/alice/x.jpg", "pantree/alice/x"); err != nil {
		t.Fatalf("set image: %v", err)
	}

	got, _ := repo.GetItem(ctx, item.ID, family.ID)
	if got.ImagePublicID != "pantree/alice/x" {
		t.Fatalf("expected image public id recorded, got %q", got.ImagePublicID)
	}

	if err := repo.ClearItemImage(ctx, family.ID, "pantree/alice/x"); err != nil {
		t.Fatalf("clear image: %v", err)
	}
	got, _ = repo.GetItem(ctx, item.ID, family.ID)
	if got.ImageURL != "" || got.ImagePublicID != "" {
		t.Fatalf("expected image cleared, got %q %q", got.ImageURL, got.ImagePublicID)
	}
}

func TestMediaDeletionQueue(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := repo.EnqueueMediaDeletion(ctx, "pantree/alice/a"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := repo.EnqueueMediaDeletion(ctx, "pantree/alice/b"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pending, err := repo.ListPendingMediaDeletions(ctx, 5, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	if err := repo.CompleteMediaDeletion(ctx, pending[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Failures count up until the attempt cap hides the row.
	for i := 0; i < 5; i++ {
		if err := repo.RecordMediaDeletionFailure(ctx, pending[1].ID); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	pending, err = repo.ListPendingMediaDeletions(ctx, 5, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty queue, got %d", len(pending))
	}

	purged, err := repo.PurgeExhaustedMediaDeletions(ctx, 5)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged row, got %d", purged)
	}
}
