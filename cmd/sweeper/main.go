package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/medtrack/biomed-maintenance/internal/db"
	"github.com/medtrack/biomed-maintenance/internal/notify"
	"github.com/medtrack/biomed-maintenance/internal/scheduling"
)

func sweepInterval() time.Duration {
	if s := os.Getenv("SWEEP_INTERVAL"); s != "" {
		if parsed, err := time.ParseDuration(s); err == nil {
			return parsed
		}
	}
	return 5 * time.Minute
}

func lookaheadDays() int {
	if s := os.Getenv("SWEEP_LOOKAHEAD_DAYS"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			return parsed
		}
	}
	return scheduling.UpcomingWindowDays
}

// runSweep loads active schedules, finds the ones due soon that have not been
// notified for, and hands them to the sink. The (schedule, due date) dedup key
// keeps overlapping runs idempotent.
func runSweep(ctx context.Context, schedules db.ScheduleCollection, store scheduling.SeenStore, sink notify.Sink, lookahead int) {
	active, err := schedules.FindActiveSchedules(ctx)
	if err != nil {
		log.WithError(err).Error("sweep: failed to load active schedules")
		return
	}

	requests, err := scheduling.Sweep(ctx, active, time.Now(), lookahead, store)
	if err != nil {
		log.WithError(err).Error("sweep: dedup store failure")
	}

	for _, request := range requests {
		if err := sink.Publish(ctx, request); err != nil {
			log.WithError(err).WithField("schedule_id", request.ScheduleID).Error("sweep: publish failed")
			continue
		}
		log.WithFields(log.Fields{
			"schedule_id":    request.ScheduleID,
			"equipment_id":   request.EquipmentID,
			"due_date":       request.DueDate.Format("2006-01-02"),
			"days_until_due": request.DaysUntilDue,
		}).Info("sweep: notification published")
	}

	log.WithFields(log.Fields{
		"schedules": len(active),
		"emitted":   len(requests),
	}).Debug("sweep finished")
}

func main() {
	_ = godotenv.Load()

	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	database := client.Database(db.DatabaseName())
	scheduleCollection := &db.MongoScheduleCollection{
		Collection: database.Collection("schedules"),
		Executions: database.Collection("executions"),
	}
	store := &db.MongoSeenStore{Collection: database.Collection("sent_notifications")}

	sink, err := notify.NewMQTTSink()
	if err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}
	defer sink.Close()

	interval := sweepInterval()
	lookahead := lookaheadDays()
	log.WithFields(log.Fields{
		"interval":       interval.String(),
		"lookahead_days": lookahead,
	}).Info("sweeper started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runSweep(ctx, scheduleCollection, store, sink, lookahead)
	for {
		select {
		case <-ticker.C:
			runSweep(ctx, scheduleCollection, store, sink, lookahead)
		case <-stop:
			log.Info("sweeper shutting down")
			return
		}
	}
}
