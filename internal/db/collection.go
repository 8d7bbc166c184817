package db

import (
	"context"
	"errors"

	"github.com/ukydev/rto-console/internal/models"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrStaffNotFound    = errors.New("staff not found")
	ErrInvalidID        = errors.New("invalid id")
)

// DocumentCollection defines the interface for document record operations.
type DocumentCollection interface {
	InsertDocument(ctx context.Context, doc *models.DocumentRecord) error
	FindDocumentByID(ctx context.Context, id string) (*models.DocumentRecord, error)
	FindDocumentsByVehicle(ctx context.Context, vehicleNumber string) ([]models.DocumentRecord, error)
	FindAllDocuments(ctx context.Context) ([]models.DocumentRecord, error)
	MarkRenewed(ctx context.Context, id string) error
}

// StaffCollection defines the interface for staff account operations.
type StaffCollection interface {
	InsertStaff(ctx context.Context, staff models.Staff) error
	FindStaffByID(ctx context.Context, id string) (*models.Staff, error)
	FindStaffByUsername(ctx context.Context, username string) (*models.Staff, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
