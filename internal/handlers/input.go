package handlers

import (
	"net/http"

	"github.com/ukydev/rto-console/internal/dateinput"
	"github.com/ukydev/rto-console/internal/vehiclenumber"
)

// InputHandler exposes the field formatters to the console front end.
type InputHandler struct{}

// NewInputHandler creates a new input handler
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

type dateInputRequest struct {
	Value string `json:"value"`
	Key   string `json:"key"`
}

type vehicleMaskRequest struct {
	Previous  string `json:"previous"`
	Candidate string `json:"candidate"`
}

type valueBody struct {
	Value string `json:"value"`
}

// FormatDate reformats a date field after a keystroke
func (h *InputHandler) FormatDate(w http.ResponseWriter, r *http.Request) {
	var req dateInputRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	intent := dateinput.IntentFromKey(req.Key)
	writeJSON(w, http.StatusOK, valueBody{Value: dateinput.FormatDateInput(req.Value, intent)})
}

// BlurDate completes a date field on focus loss
func (h *InputHandler) BlurDate(w http.ResponseWriter, r *http.Request) {
	var req dateInputRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, valueBody{Value: dateinput.HandleDateBlur(req.Value)})
}

// MaskVehicleNumber filters a keystroke in a vehicle number field
func (h *InputHandler) MaskVehicleNumber(w http.ResponseWriter, r *http.Request) {
	var req vehicleMaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, valueBody{Value: vehiclenumber.EnforceFormat(req.Previous, req.Candidate)})
}

// ValidateVehicleNumber reports whether a vehicle number is well formed
func (h *InputHandler) ValidateVehicleNumber(w http.ResponseWriter, r *http.Request) {
	var req valueBody
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, vehiclenumber.Validate(req.Value))
}

// ParseVehicleNumber decomposes a vehicle number
func (h *InputHandler) ParseVehicleNumber(w http.ResponseWriter, r *http.Request) {
	var req valueBody
	if !decodeJSON(w, r, &req) {
		return
	}
	parts := vehiclenumber.Parse(req.Value)
	if parts == nil {
		http.Error(w, vehiclenumber.FormatHint, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}
