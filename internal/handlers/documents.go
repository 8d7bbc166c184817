package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/rto-console/internal/dateinput"
	"github.com/ukydev/rto-console/internal/db"
	"github.com/ukydev/rto-console/internal/lifecycle"
	"github.com/ukydev/rto-console/internal/middleware"
	"github.com/ukydev/rto-console/internal/models"
	"github.com/ukydev/rto-console/internal/vehiclenumber"
)

const dateLayout = "02-01-2006"

// DocumentHandler serves issued documents and their renewal state
type DocumentHandler struct {
	documents db.DocumentCollection
	policies  lifecycle.Policies
	now       func() time.Time
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents db.DocumentCollection, policies lifecycle.Policies) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		policies:  policies,
		now:       time.Now,
	}
}

// VehicleDocumentsResponse lists every document of one vehicle
type VehicleDocumentsResponse struct {
	Vehicle   vehiclenumber.Parts    `json:"vehicle"`
	Documents []lifecycle.Assessment `json:"documents"`
}

// ListVehicleDocuments returns the documents of a vehicle with their
// status and whether a renewal should be offered
func (h *DocumentHandler) ListVehicleDocuments(w http.ResponseWriter, r *http.Request) {
	parts := vehiclenumber.Parse(r.PathValue("number"))
	if parts == nil {
		http.Error(w, vehiclenumber.FormatHint, http.StatusBadRequest)
		return
	}

	docs, err := h.documents.FindDocumentsByVehicle(r.Context(), parts.FullNumber)
	if err != nil {
		log.WithError(err).WithField("vehicle_number", parts.FullNumber).Error("Failed to load documents")
		http.Error(w, "Failed to load documents", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, VehicleDocumentsResponse{
		Vehicle:   *parts,
		Documents: lifecycle.Evaluate(docs, h.now(), h.policies),
	})
}

// IssueDocument records a newly issued document
func (h *DocumentHandler) IssueDocument(w http.ResponseWriter, r *http.Request) {
	var req models.IssueDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !models.IsValidDocumentType(req.Type) {
		http.Error(w, "Invalid document type", http.StatusBadRequest)
		return
	}
	if v := vehiclenumber.Validate(req.VehicleNumber); !v.IsValid {
		http.Error(w, vehiclenumber.FormatHint, http.StatusUnprocessableEntity)
		return
	}
	if strings.TrimSpace(req.OwnerName) == "" {
		http.Error(w, "Owner name is required", http.StatusBadRequest)
		return
	}

	validFrom, validTo, err := validityWindow(req.ValidFrom, req.ValidTo, req.Type != models.DocumentTransfer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	doc := &models.DocumentRecord{
		Type:          req.Type,
		VehicleNumber: vehiclenumber.Clean(req.VehicleNumber),
		OwnerName:     strings.TrimSpace(req.OwnerName),
		OwnerPhone:    strings.TrimSpace(req.OwnerPhone),
		ValidFrom:     validFrom,
		ValidTo:       validTo,
		IssuedBy:      issuer(r),
	}
	if err := h.documents.InsertDocument(r.Context(), doc); err != nil {
		log.WithError(err).WithField("vehicle_number", doc.VehicleNumber).Error("Failed to issue document")
		http.Error(w, "Failed to issue document", http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{
		"document_id":    doc.ID.Hex(),
		"type":           doc.Type,
		"vehicle_number": doc.VehicleNumber,
		"valid_to":       doc.ValidTo,
	}).Info("Issued document")
	writeJSON(w, http.StatusCreated, doc)
}

// RenewDocument issues the replacement for a record that is due for renewal
func (h *DocumentHandler) RenewDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req models.RenewDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	old, err := h.documents.FindDocumentByID(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrInvalidID):
		http.Error(w, "Invalid document ID", http.StatusBadRequest)
		return
	case errors.Is(err, db.ErrDocumentNotFound):
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	case err != nil:
		log.WithError(err).WithField("document_id", id).Error("Failed to load document")
		http.Error(w, "Failed to load document", http.StatusInternalServerError)
		return
	}

	siblings, err := h.documents.FindDocumentsByVehicle(r.Context(), old.VehicleNumber)
	if err != nil {
		log.WithError(err).WithField("vehicle_number", old.VehicleNumber).Error("Failed to load documents")
		http.Error(w, "Failed to load documents", http.StatusInternalServerError)
		return
	}

	policy := h.policies.For(old.Type)
	if !lifecycle.ShouldOfferRenewal(*old, siblings, h.now(), policy) {
		http.Error(w, "Document is not due for renewal", http.StatusConflict)
		return
	}

	validFrom, validTo, err := validityWindow(req.ValidFrom, req.ValidTo, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	oldID := old.ID
	renewal := &models.DocumentRecord{
		Type:          old.Type,
		VehicleNumber: old.VehicleNumber,
		OwnerName:     old.OwnerName,
		OwnerPhone:    old.OwnerPhone,
		ValidFrom:     validFrom,
		ValidTo:       validTo,
		RenewedFrom:   &oldID,
		IssuedBy:      issuer(r),
	}
	if err := h.documents.InsertDocument(r.Context(), renewal); err != nil {
		log.WithError(err).WithField("document_id", id).Error("Failed to renew document")
		http.Error(w, "Failed to renew document", http.StatusInternalServerError)
		return
	}

	if policy.TracksRenewal {
		if err := h.documents.MarkRenewed(r.Context(), id); err != nil {
			// the renewal exists; the old record keeps offering until fixed
			log.WithError(err).WithField("document_id", id).Error("Failed to mark document renewed")
		}
	}

	log.WithFields(log.Fields{
		"document_id":  renewal.ID.Hex(),
		"renewed_from": id,
		"type":         renewal.Type,
		"valid_to":     renewal.ValidTo,
	}).Info("Renewed document")
	writeJSON(w, http.StatusCreated, renewal)
}

// validityWindow normalizes both dates to DD-MM-YYYY. validTo may be left
// empty when requireTo is false.
func validityWindow(from, to string, requireTo bool) (string, string, error) {
	start, ok := lifecycle.ParseDate(dateinput.HandleDateBlur(strings.TrimSpace(from)))
	if !ok {
		return "", "", errors.New("valid_from must be a date in DD-MM-YYYY format")
	}

	if strings.TrimSpace(to) == "" && !requireTo {
		return start.Format(dateLayout), "", nil
	}
	end, ok := lifecycle.ParseDate(dateinput.HandleDateBlur(strings.TrimSpace(to)))
	if !ok {
		return "", "", errors.New("valid_to must be a date in DD-MM-YYYY format")
	}
	if end.Before(start) {
		return "", "", errors.New("valid_to must not be before valid_from")
	}
	return start.Format(dateLayout), end.Format(dateLayout), nil
}

func issuer(r *http.Request) string {
	if claims, ok := middleware.GetStaffFromContext(r.Context()); ok {
		return claims.Username
	}
	return ""
}
