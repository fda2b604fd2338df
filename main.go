package main

import (
	"context"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/StackAlchemist/healthbridge-api/configuration"
	"github.com/StackAlchemist/healthbridge-api/controllers"
	"github.com/StackAlchemist/healthbridge-api/notification"
	"github.com/StackAlchemist/healthbridge-api/objectstore"
	"github.com/StackAlchemist/healthbridge-api/reminder"
	"github.com/StackAlchemist/healthbridge-api/repository"
	"github.com/StackAlchemist/healthbridge-api/routes"
	"github.com/StackAlchemist/healthbridge-api/scheduling"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Logger = logger

	configuration.ConfigDB()
	configuration.InitRedis()

	patients := repository.NewPatients(configuration.DB)
	doctors := repository.NewDoctors(configuration.DB)
	appointments := repository.NewAppointments(configuration.DB)
	scheduler := scheduling.NewService(patients, doctors, appointments, logger)

	var uploader objectstore.Uploader = objectstore.Noop{}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		s3Store, err := objectstore.NewS3Store(context.Background(), bucket, os.Getenv("AWS_REGION"))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure object store")
		}
		uploader = s3Store
	}

	controllers.Setup(scheduler, uploader)

	// Reminder scan every minute. The scanner skips a cycle if the
	// previous one is still in flight.
	scanner := reminder.NewScanner(
		repository.NewReminders(configuration.DB),
		doctors,
		notification.NewTwilioSender(),
		logger,
	)
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() {
		if _, err := scanner.RunCycle(context.Background()); err != nil {
			logger.Error().Err(err).Msg("reminder cycle failed")
		}
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule reminder scan")
	}
	c.Start()
	defer c.Stop()

	r := routes.SetupRoutes()
	if err := r.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
