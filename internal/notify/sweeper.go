package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/rto-console/internal/db"
	"github.com/ukydev/rto-console/internal/lifecycle"
	"github.com/ukydev/rto-console/internal/models"
)

// Notice tells subscribers that a document should be renewed.
type Notice struct {
	VehicleNumber   string              `json:"vehicle_number"`
	DocumentID      string              `json:"document_id"`
	DocumentType    models.DocumentType `json:"document_type"`
	Status          lifecycle.Status    `json:"status"`
	ValidTo         string              `json:"valid_to"`
	DaysUntilExpiry *int                `json:"days_until_expiry,omitempty"`
}

// Result summarizes one sweep.
type Result struct {
	Evaluated int
	Published int
	Failed    int
}

// Sweeper finds every record that offers a renewal and publishes a notice
// for it under topic/<vehicle number>.
type Sweeper struct {
	documents db.DocumentCollection
	publisher Publisher
	policies  lifecycle.Policies
	topic     string
}

// NewSweeper creates a sweeper publishing below topic.
func NewSweeper(documents db.DocumentCollection, publisher Publisher, policies lifecycle.Policies, topic string) *Sweeper {
	return &Sweeper{
		documents: documents,
		publisher: publisher,
		policies:  policies,
		topic:     topic,
	}
}

// Run evaluates all documents at now. A failed publish is logged and
// counted; only a failed load aborts the sweep.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	docs, err := s.documents.FindAllDocuments(ctx)
	if err != nil {
		return res, fmt.Errorf("load documents: %w", err)
	}

	for _, a := range lifecycle.Evaluate(docs, now, s.policies) {
		res.Evaluated++
		if !a.OfferRenewal {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		notice := Notice{
			VehicleNumber:   a.Record.VehicleNumber,
			DocumentID:      a.Record.ID.Hex(),
			DocumentType:    a.Record.Type,
			Status:          a.Status,
			ValidTo:         a.Record.ValidTo,
			DaysUntilExpiry: a.DaysUntilExpiry,
		}
		fields := log.Fields{"document_id": notice.DocumentID, "vehicle_number": notice.VehicleNumber}

		payload, err := json.Marshal(notice)
		if err != nil {
			log.WithError(err).WithFields(fields).Error("Failed to marshal notice")
			res.Failed++
			continue
		}
		if err := s.publisher.Publish(ctx, s.Topic(notice.VehicleNumber), payload); err != nil {
			log.WithError(err).WithFields(fields).Error("Failed to publish notice")
			res.Failed++
			continue
		}
		res.Published++
	}

	log.WithFields(log.Fields{
		"evaluated": res.Evaluated,
		"published": res.Published,
		"failed":    res.Failed,
	}).Info("Renewal sweep finished")
	return res, nil
}

// Topic returns the topic notices for vehicle are published to.
func (s *Sweeper) Topic(vehicle string) string {
	return s.topic + "/" + vehicle
}
