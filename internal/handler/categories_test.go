package handler_test

import (
	"net/http"
	"testing"

	"pantree/internal/repository"
	"pantree/internal/testutil"
)

func TestCategoryCRUD(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	_, token := app.login(t, "alice")

	w := app.do(t, "POST", "/api/categories/", token, map[string]string{
		"name":        "Pantry",
		"description": "Dry goods",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Category repository.Category `json:"category"`
	}
	decodeBody(t, w, &created)

	w = app.do(t, "PATCH", "/api/categories/"+created.Category.ID, token, map[string]string{
		"description": "Dry goods and staples",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", w.Code)
	}

	var updated struct {
		Category repository.Category `json:"category"`
	}
	decodeBody(t, w, &updated)
	if updated.Category.Name != "Pantry" {
		t.Fatalf("update without name should keep it, got %q", updated.Category.Name)
	}
	if updated.Category.Description != "Dry goods and staples" {
		t.Fatalf("update: unexpected description %q", updated.Category.Description)
	}

	w = app.do(t, "DELETE", "/api/categories/"+created.Category.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
}

func TestCreateCategoryDuplicate(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")
	testutil.CreateTestCategory(t, app.repo, admin.FamilyID, "Pantry")

	w := app.do(t, "POST", "/api/categories/", token, map[string]string{"name": "Pantry"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate, got %d", w.Code)
	}
}

func TestDeleteCategoryWithItems(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")
	cat := testutil.CreateTestCategory(t, app.repo, admin.FamilyID, "Pantry")
	testutil.CreateTestItem(t, app.repo, admin.FamilyID, cat.ID, admin.ID, "Rice", 3)

	w := app.do(t, "DELETE", "/api/categories/"+cat.ID, token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-empty category, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")
	cat := testutil.CreateTestCategory(t, app.repo, admin.FamilyID, "Pantry")

	// Creating through the API records activity.
	app.do(t, "POST", "/api/items/", token, map[string]any{
		"name":       "Rice",
		"quantity":   1,
		"categoryId": cat.ID,
	})

	w := app.do(t, "GET", "/api/stats", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Stats struct {
			ItemsCreated7Days int64 `json:"itemsCreated7Days"`
			LowStockItems     int64 `json:"lowStockItems"`
		} `json:"stats"`
	}
	decodeBody(t, w, &body)
	if body.Stats.ItemsCreated7Days != 1 {
		t.Fatalf("expected 1 item created in 7 days, got %d", body.Stats.ItemsCreated7Days)
	}
	// Quantity 1 with default threshold 1 counts as low stock.
	if body.Stats.LowStockItems != 1 {
		t.Fatalf("expected 1 low stock item, got %d", body.Stats.LowStockItems)
	}
}
