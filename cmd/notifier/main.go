package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/rto-console/internal/config"
	"github.com/ukydev/rto-console/internal/db"
	"github.com/ukydev/rto-console/internal/lifecycle"
	"github.com/ukydev/rto-console/internal/logging"
	"github.com/ukydev/rto-console/internal/notify"
)

const sweepTimeout = 10 * time.Minute

// sweepJob runs one sweep per call. cron skips a tick while the previous
// sweep is still running.
func sweepJob(sweeper *notify.Sweeper, now func() time.Time) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := sweeper.Run(ctx, now()); err != nil {
			log.WithError(err).Error("Renewal sweep failed")
		}
	}
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
	documents := &db.MongoDocumentCollection{
		Collection: client.Database(cfg.MongoDB).Collection(db.DocumentsCollection),
	}

	publisher, err := notify.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer publisher.Close()

	policies := lifecycle.DefaultPolicies().WithOverrides(cfg.ExpiringSoonDays, cfg.RenewalEligibleDays)
	sweeper := notify.NewSweeper(documents, publisher, policies, cfg.MQTTTopic)
	job := sweepJob(sweeper, time.Now)

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, job); err != nil {
		log.WithError(err).WithField("schedule", cfg.SweepSchedule).Fatal("Failed to register sweep")
	}

	log.WithFields(log.Fields{
		"broker":   cfg.MQTTBroker,
		"topic":    cfg.MQTTTopic,
		"schedule": cfg.SweepSchedule,
	}).Info("Starting renewal notifier")

	job()
	scheduler.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("Stopping renewal notifier")
	<-scheduler.Stop().Done()
}
