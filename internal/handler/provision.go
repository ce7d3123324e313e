package handler

import (
	"context"
	"fmt"
	"log"

	"pantree/internal/repository"
)

// Default categories every new family starts with.
var defaultCategories = []repository.CreateCategoryParams{
	{Name: "Pantry", Description: "Dry goods and staples"},
	{Name: "Refrigerator", Description: "Cold storage items"},
	{Name: "Freezer", Description: "Frozen foods"},
	{Name: "Spices", Description: "Spices and seasonings"},
}

// provisionFamily creates a family, its ADMIN user, the default category set
// and a sample item so the inventory is not empty on first login.
func (h *Handler) provisionFamily(ctx context.Context, username, email, passwordHash string) (*repository.User, error) {
	family, err := h.repo.CreateFamily(ctx, fmt.Sprintf("%s's Family", username))
	if err != nil {
		return nil, err
	}

	user, err := h.repo.CreateUser(ctx, repository.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         repository.RoleAdmin,
		FamilyID:     family.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := h.repo.SetFamilyAdmin(ctx, family.ID, user.ID); err != nil {
		return nil, err
	}

	var spices *repository.Category
	for _, p := range defaultCategories {
		p.FamilyID = family.ID
		cat, err := h.repo.CreateCategory(ctx, p)
		if err != nil {
			log.Printf("handler: seed category %q for family %s: %v", p.Name, family.ID, err)
			continue
		}
		if cat.Name == "Spices" {
			spices = cat
		}
	}

	if spices != nil {
		_, err := h.repo.CreateItem(ctx, repository.CreateItemParams{
			Name:        "Black Pepper",
			Description: "Ground black pepper",
			Quantity:    1,
			Threshold:   1,
			CategoryID:  spices.ID,
			FamilyID:    family.ID,
			CreatedBy:   user.ID,
		})
		if err != nil {
			log.Printf("handler: seed sample item for family %s: %v", family.ID, err)
		}
	}

	return user, nil
}
