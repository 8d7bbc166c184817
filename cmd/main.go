package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/rto-console/internal/auth"
	"github.com/ukydev/rto-console/internal/config"
	"github.com/ukydev/rto-console/internal/db"
	"github.com/ukydev/rto-console/internal/handlers"
	"github.com/ukydev/rto-console/internal/lifecycle"
	"github.com/ukydev/rto-console/internal/logging"
	"github.com/ukydev/rto-console/internal/middleware"
	"github.com/ukydev/rto-console/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func buildHandler(cfg *config.Config, authService *auth.Service, documents db.DocumentCollection, staff db.StaffCollection) http.Handler {
	policies := lifecycle.DefaultPolicies().WithOverrides(cfg.ExpiringSoonDays, cfg.RenewalEligibleDays)
	return handlers.Router{
		Auth:      handlers.NewAuthHandler(authService, staff),
		Documents: handlers.NewDocumentHandler(documents, policies),
		Input:     handlers.NewInputHandler(),
		AuthMW:    middleware.NewAuthMiddleware(authService),
	}.Handler()
}

// ensureAdmin creates the configured admin account unless the username is
// already taken.
func ensureAdmin(ctx context.Context, authService *auth.Service, staff db.StaffCollection, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := staff.FindStaffByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, db.ErrStaffNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}
	if err := authService.ValidatePassword(password); err != nil {
		return fmt.Errorf("admin password: %w", err)
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.Staff{
		ID:           primitive.NewObjectID(),
		Username:     username,
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := staff.InsertStaff(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.WithField("username", username).Info("Seeded admin account")
	return nil
}

func main() {
	cfg, err := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.WithError(err).Warn("Some settings were invalid and fell back to defaults")
	}

	ctx := context.Background()
	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.Info("Connected to MongoDB successfully")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}
	documents := &db.MongoDocumentCollection{Collection: database.Collection(db.DocumentsCollection)}
	staff := &db.MongoStaffCollection{Collection: database.Collection(db.StaffCollectionName)}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	if err := ensureAdmin(ctx, authService, staff, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("Failed to seed admin account")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           buildHandler(cfg, authService, documents, staff),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-done
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Shutdown error")
	}
}
