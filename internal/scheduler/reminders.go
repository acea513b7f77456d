package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/muniplay/internal/db"
	"github.com/codr1/muniplay/internal/email"
	"github.com/codr1/muniplay/internal/models"
)

const (
	reminderJobCron   = "*/15 * * * *"
	reminderJobWindow = 15 * time.Minute
)

// RegisterReminderJob schedules the reservation reminder task. Every run
// looks at confirmed reservations starting inside a 15-minute window that
// opens lead before now, so each reservation is picked up by exactly one
// run.
func RegisterReminderJob(sched *Service, database *db.DB, emailClient email.Sender, lead time.Duration) error {
	if database == nil {
		return fmt.Errorf("reminder job requires database")
	}
	if lead <= 0 {
		return fmt.Errorf("reminder lead must be positive")
	}

	jobLogger := log.With().
		Str("component", "reservation_reminders_job").
		Dur("lead", lead).
		Logger()

	_, err := sched.AddJob("reservation_reminders", reminderJobCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if emailClient == nil {
			jobLogger.Debug().Msg("Reminder job skipped: email client not configured")
			return
		}

		windowStart := time.Now().Add(lead).Truncate(reminderJobWindow)
		windowEnd := windowStart.Add(reminderJobWindow)

		reservations, err := database.Queries.ListReservationDetailsStartingBetween(ctx, db.ListReservationDetailsStartingBetweenParams{
			Status:    models.ReservationConfirmed.Token(),
			StartTime: windowStart,
			EndTime:   windowEnd,
		})
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load reservations for reminder job")
			return
		}

		for _, reservation := range reservations {
			date, timeRange := email.FormatDateTimeRange(reservation.StartTime, reservation.EndTime)
			message := email.BuildReservationReminder(email.ReservationDetails{
				InstallationName: reservation.InstallationName,
				Date:             date,
				TimeRange:        timeRange,
				Code:             reservation.Code,
			})
			email.Notify(ctx, emailClient, reservation.UserEmail, message, &jobLogger)
			jobLogger.Info().
				Int64("reservation_id", reservation.ID).
				Time("start_time", reservation.StartTime).
				Msg("Reservation reminder queued")
		}
	})
	return err
}
