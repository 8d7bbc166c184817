package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents what a staff member may do at the counter
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClerk  Role = "clerk"
	RoleViewer Role = "viewer"
)

// Permission names checked by the API
const (
	PermissionIssueDocument = "issue_document"
	PermissionRenewDocument = "renew_document"
	PermissionViewDocuments = "view_documents"
	PermissionManageStaff   = "manage_staff"
)

// Staff is an office employee with console access
type Staff struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Office       string             `bson:"office" json:"office"` // RTO code, e.g. CG04
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	Staff Staff  `json:"staff"`
}

// Claims represents JWT claims
type Claims struct {
	StaffID  string `json:"staff_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleClerk, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks whether the role grants action
func (r Role) HasPermission(action string) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleClerk:
		return action == PermissionIssueDocument || action == PermissionRenewDocument ||
			action == PermissionViewDocuments
	case RoleViewer:
		return action == PermissionViewDocuments
	default:
		return false
	}
}
