package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pantree/internal/repository"
	"pantree/internal/security"
)

// ListUsers returns every member of the admin's family.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	users, err := h.repo.ListFamilyUsers(r.Context(), user.FamilyID)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser adds a member to the admin's family. Creating another ADMIN
// provisions a brand-new family for them instead.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	admin := currentUser(r)

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = repository.RoleUser
	}
	if role != repository.RoleAdmin && role != repository.RoleUser {
		respondError(w, http.StatusBadRequest, "Role must be ADMIN or USER")
		return
	}

	exists, err := h.repo.UserExists(r.Context(), req.Username, req.Email)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	if exists {
		respondError(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		log.Printf("handler: hash password: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var user *repository.User
	if role == repository.RoleAdmin {
		user, err = h.provisionFamily(r.Context(), req.Username, req.Email, hash)
	} else {
		user, err = h.repo.CreateUser(r.Context(), repository.CreateUserParams{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         role,
			FamilyID:     admin.FamilyID,
		})
	}
	if err != nil {
		respondRepoError(w, err, "Username or email already exists")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type updateUserRequest struct {
	Role     *string `json:"role"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateUser changes role, email, or password for a family member.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	admin := currentUser(r)
	id := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params := repository.UpdateUserParams{Email: req.Email}
	if req.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*req.Role))
		if role != repository.RoleAdmin && role != repository.RoleUser {
			respondError(w, http.StatusBadRequest, "Role must be ADMIN or USER")
			return
		}
		if id == admin.ID && role != repository.RoleAdmin {
			respondError(w, http.StatusBadRequest, "Cannot demote your own account")
			return
		}
		params.Role = &role
	}
	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			log.Printf("handler: hash password: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		params.PasswordHash = &hash
	}

	user, err := h.repo.UpdateUser(r.Context(), id, admin.FamilyID, params)
	if err != nil {
		respondRepoError(w, err, "Email already exists")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

// DeleteUser removes a family member. Admins cannot delete themselves.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := currentUser(r)
	id := chi.URLParam(r, "id")

	if id == admin.ID {
		respondError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := h.repo.DeleteUser(r.Context(), id, admin.FamilyID); err != nil {
		respondRepoError(w, err, "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
