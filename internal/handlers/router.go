package handlers

import (
	"net/http"
	"time"

	"github.com/ukydev/rto-console/internal/middleware"
	"github.com/ukydev/rto-console/internal/models"
)

// Router wires every endpoint of the console API.
type Router struct {
	Auth      *AuthHandler
	Documents *DocumentHandler
	Input     *InputHandler
	AuthMW    *middleware.AuthMiddleware
}

// Handler returns the root HTTP handler
func (rt Router) Handler() http.Handler {
	mux := http.NewServeMux()
	login := middleware.NewRateLimiter(10, time.Minute)
	perm := middleware.RequirePermission

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/auth/login", login.Limit(rt.Auth.Login))
	mux.HandleFunc("GET /api/auth/me", rt.Auth.Me)
	mux.HandleFunc("POST /api/staff", perm(models.PermissionManageStaff, rt.Auth.CreateStaff))

	mux.HandleFunc("POST /api/input/date", rt.Input.FormatDate)
	mux.HandleFunc("POST /api/input/date/blur", rt.Input.BlurDate)
	mux.HandleFunc("POST /api/input/vehicle-number", rt.Input.MaskVehicleNumber)
	mux.HandleFunc("POST /api/vehicle-numbers/validate", rt.Input.ValidateVehicleNumber)
	mux.HandleFunc("POST /api/vehicle-numbers/parse", rt.Input.ParseVehicleNumber)

	mux.HandleFunc("GET /api/vehicles/{number}/documents",
		perm(models.PermissionViewDocuments, rt.Documents.ListVehicleDocuments))
	mux.HandleFunc("POST /api/documents",
		perm(models.PermissionIssueDocument, rt.Documents.IssueDocument))
	mux.HandleFunc("POST /api/documents/{id}/renew",
		perm(models.PermissionRenewDocument, rt.Documents.RenewDocument))

	return middleware.RequestLogger(rt.AuthMW.Authenticate(mux))
}
