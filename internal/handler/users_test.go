package handler_test

import (
	"net/http"
	"testing"

	"pantree/internal/repository"
	"pantree/internal/testutil"
)

func TestCreateUserJoinsAdminsFamily(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")

	w := app.do(t, "POST", "/api/users/", token, map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		User repository.User `json:"user"`
	}
	decodeBody(t, w, &body)
	if body.User.Role != repository.RoleUser {
		t.Fatalf("expected USER role by default, got %s", body.User.Role)
	}
	if body.User.FamilyID != admin.FamilyID {
		t.Fatalf("expected member of admin's family %s, got %s", admin.FamilyID, body.User.FamilyID)
	}
}

func TestCreateAdminProvisionsNewFamily(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")

	w := app.do(t, "POST", "/api/users/", token, map[string]string{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "secret123",
		"role":     "ADMIN",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		User repository.User `json:"user"`
	}
	decodeBody(t, w, &body)
	if body.User.Role != repository.RoleAdmin {
		t.Fatalf("expected ADMIN role, got %s", body.User.Role)
	}
	if body.User.FamilyID == admin.FamilyID {
		t.Fatal("expected a fresh family for the new admin")
	}
}

func TestUsersRequireAdminRole(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, _ := app.login(t, "alice")
	member := testutil.CreateTestUser(t, app.repo, admin.FamilyID, "bob")
	memberToken := testutil.CreateTestSession(t, app.repo, member.ID)

	if w := app.do(t, "GET", "/api/users/", memberToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for USER role, got %d", w.Code)
	}
}

func TestDeleteUserCannotDeleteSelf(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")

	if w := app.do(t, "DELETE", "/api/users/"+admin.ID, token, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting own account, got %d", w.Code)
	}
}

func TestUpdateUserRole(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")
	member := testutil.CreateTestUser(t, app.repo, admin.FamilyID, "bob")

	w := app.do(t, "PATCH", "/api/users/"+member.ID, token, map[string]string{"role": "ADMIN"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		User repository.User `json:"user"`
	}
	decodeBody(t, w, &body)
	if body.User.Role != repository.RoleAdmin {
		t.Fatalf("expected promoted role, got %s", body.User.Role)
	}
}

func TestUpdateUserCannotDemoteSelf(t *testing.T) {
	app, cleanup := newTestApp(t)
	defer cleanup()

	admin, token := app.login(t, "alice")

	w := app.do(t, "PATCH", "/api/users/"+admin.ID, token, map[string]string{"role": "USER"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 demoting own account, got %d", w.Code)
	}
}
