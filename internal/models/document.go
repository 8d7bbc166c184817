package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentType identifies the kind of document the office issues.
type DocumentType string

const (
	DocumentPermit       DocumentType = "permit"
	DocumentFitness      DocumentType = "fitness"
	DocumentInsurance    DocumentType = "insurance"
	DocumentPollution    DocumentType = "pollution"
	DocumentLicense      DocumentType = "license"
	DocumentRegistration DocumentType = "registration"
	DocumentTransfer     DocumentType = "transfer"
)

// IsValidDocumentType checks if a document type is known
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentPermit, DocumentFitness, DocumentInsurance, DocumentPollution,
		DocumentLicense, DocumentRegistration, DocumentTransfer:
		return true
	default:
		return false
	}
}

// DocumentRecord is one issued document for one vehicle. A renewal is a new
// record; the old one stays as history.
type DocumentRecord struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type          DocumentType        `bson:"type" json:"type"`
	VehicleNumber string              `bson:"vehicle_number" json:"vehicle_number"`
	OwnerName     string              `bson:"owner_name" json:"owner_name"`
	OwnerPhone    string              `bson:"owner_phone,omitempty" json:"owner_phone,omitempty"`
	ValidFrom     string              `bson:"valid_from" json:"valid_from"` // DD-MM-YYYY
	ValidTo       string              `bson:"valid_to" json:"valid_to"`     // DD-MM-YYYY
	IsRenewed     bool                `bson:"is_renewed" json:"is_renewed"`
	RenewedFrom   *primitive.ObjectID `bson:"renewed_from,omitempty" json:"renewed_from,omitempty"`
	IssuedBy      string              `bson:"issued_by" json:"issued_by"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// IssueDocumentRequest represents a request to issue a new document
type IssueDocumentRequest struct {
	Type          DocumentType `json:"type"`
	VehicleNumber string       `json:"vehicle_number"`
	OwnerName     string       `json:"owner_name"`
	OwnerPhone    string       `json:"owner_phone"`
	ValidFrom     string       `json:"valid_from"`
	ValidTo       string       `json:"valid_to"`
}

// RenewDocumentRequest carries the validity window of the replacement record
type RenewDocumentRequest struct {
	ValidFrom string `json:"valid_from"`
	ValidTo   string `json:"valid_to"`
}
