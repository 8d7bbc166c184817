package handlers

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/rto-console/internal/auth"
	"github.com/ukydev/rto-console/internal/db"
	"github.com/ukydev/rto-console/internal/middleware"
	"github.com/ukydev/rto-console/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler handles staff login and account requests
type AuthHandler struct {
	authService *auth.Service
	staff       db.StaffCollection
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, staff db.StaffCollection) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		staff:       staff,
	}
}

// CreateStaffRequest represents a request to open a staff account
type CreateStaffRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Office   string      `json:"office"`
	Role     models.Role `json:"role"`
}

// Login handles staff login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	staff, err := h.staff.FindStaffByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, db.ErrStaffNotFound) {
			log.WithError(err).Error("Failed to look up staff")
		}
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if !staff.IsActive {
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
		return
	}
	if !h.authService.CheckPassword(req.Password, staff.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(staff)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := h.staff.UpdateLastLogin(r.Context(), staff.ID.Hex()); err != nil {
		log.WithError(err).WithField("username", staff.Username).Warn("Failed to update last login")
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, Staff: *staff})
}

// Me returns the profile of the logged-in staff member
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetStaffFromContext(r.Context())
	if !ok {
		http.Error(w, "Staff context not found", http.StatusUnauthorized)
		return
	}

	staff, err := h.staff.FindStaffByID(r.Context(), claims.StaffID)
	if err != nil {
		http.Error(w, "Staff not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

// CreateStaff opens a new staff account
func (h *AuthHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 {
		http.Error(w, "username must be at least 3 characters long", http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidatePassword(req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidRole(req.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	_, err := h.staff.FindStaffByUsername(r.Context(), req.Username)
	switch {
	case err == nil:
		http.Error(w, "Username already exists", http.StatusConflict)
		return
	case !errors.Is(err, db.ErrStaffNotFound):
		log.WithError(err).Error("Failed to look up staff")
		http.Error(w, "Failed to create staff", http.StatusInternalServerError)
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	staff := models.Staff{
		ID:           primitive.NewObjectID(),
		Username:     req.Username,
		FullName:     req.FullName,
		Office:       strings.ToUpper(strings.TrimSpace(req.Office)),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := h.staff.InsertStaff(r.Context(), staff); err != nil {
		log.WithError(err).WithField("username", staff.Username).Error("Failed to create staff")
		http.Error(w, "Failed to create staff", http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{"username": staff.Username, "role": staff.Role}).Info("Created staff account")
	writeJSON(w, http.StatusCreated, staff)
}
