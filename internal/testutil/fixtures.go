package testutil

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pantree/internal/repository"
)

// CreateTestFamily creates a family with an ADMIN user and returns both.
func CreateTestFamily(t *testing.T, repo *repository.Repository, adminUsername string) (*repository.Family, *repository.User) {
	t.Helper()

	family, err := repo.CreateFamily(context.Background(), adminUsername+"'s Family")
	if err != nil {
		t.Fatalf("failed to create test family: %v", err)
	}

	admin, err := repo.CreateUser(context.Background(), repository.CreateUserParams{
		Username:     adminUsername,
		Email:        adminUsername + "@example.com",
		PasswordHash: HashPassword(t, "password123"),
		Role:         repository.RoleAdmin,
		FamilyID:     family.ID,
	})
	if err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}

	if err := repo.SetFamilyAdmin(context.Background(), family.ID, admin.ID); err != nil {
		t.Fatalf("failed to set family admin: %v", err)
	}

	return family, admin
}

// CreateTestUser adds a USER member to an existing family.
func CreateTestUser(t *testing.T, repo *repository.Repository, familyID, username string) *repository.User {
	t.Helper()

	user, err := repo.CreateUser(context.Background(), repository.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: HashPassword(t, "password123"),
		Role:         repository.RoleUser,
		FamilyID:     familyID,
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category for the family.
func CreateTestCategory(t *testing.T, repo *repository.Repository, familyID, name string) *repository.Category {
	t.Helper()

	category, err := repo.CreateCategory(context.Background(), repository.CreateCategoryParams{
		Name:     name,
		FamilyID: familyID,
	})
	if err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestItem creates an item in the given category.
func CreateTestItem(t *testing.T, repo *repository.Repository, familyID, categoryID, createdBy, name string, quantity int) *repository.Item {
	t.Helper()

	item, err := repo.CreateItem(context.Background(), repository.CreateItemParams{
		Name:       name,
		Quantity:   quantity,
		Threshold:  1,
		CategoryID: categoryID,
		FamilyID:   familyID,
		CreatedBy:  createdBy,
	})
	if err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

// CreateTestSession creates a session for the user and returns its token.
func CreateTestSession(t *testing.T, repo *repository.Repository, userID string) string {
	t.Helper()

	token := "test-session-" + userID
	_, err := repo.CreateSession(context.Background(), token, userID, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return token
}

// HashPassword creates a bcrypt hash for testing authentication.
func HashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}
