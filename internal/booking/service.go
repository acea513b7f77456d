// internal/booking/service.go

// Package booking is the reservation scheduling and availability engine. It
// decides whether a requested time range may become a confirmed reservation,
// detects conflicts against other reservations and administrative blocks,
// renders the fixed-granularity availability grid, and enforces the
// cancellation and pricing policy. Identity and persistence are delegated:
// callers hand the engine already-authenticated user ids, and all state
// lives behind the internal/db store.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/muniplay/internal/db"
	"github.com/codr1/muniplay/internal/models"
)

// Clock abstracts time.Now for testing window and cutoff rules.
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using the system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config holds optional service collaborators.
type Config struct {
	// Clock for testing (nil uses real time)
	Clock Clock
	// NewCode for testing (nil uses the crypto/rand generator)
	NewCode func() (string, error)
}

// Service orchestrates reservation and block operations against the store.
// Every mutation runs inside a single store transaction so the
// read-validate-write sequence cannot interleave with a competing writer.
type Service struct {
	store   *db.DB
	clock   Clock
	newCode func() (string, error)
}

func NewService(store *db.DB, cfg *Config) *Service {
	svc := &Service{
		store:   store,
		clock:   realClock{},
		newCode: NewReservationCode,
	}
	if cfg != nil {
		if cfg.Clock != nil {
			svc.clock = cfg.Clock
		}
		if cfg.NewCode != nil {
			svc.newCode = cfg.NewCode
		}
	}
	return svc
}

// CreateReservation books an installation for [start, start+duration) on
// behalf of userID. Static policy checks run first; everything that touches
// stored state (existence, conflicts, the insert) runs in one transaction.
func (s *Service) CreateReservation(ctx context.Context, userID, installationID int64, start time.Time, durationMinutes int) (*ReservationView, error) {
	if err := validateDuration(durationMinutes); err != nil {
		return nil, err
	}
	if err := validateStartTime(start, durationMinutes); err != nil {
		return nil, err
	}
	if err := validateBookingWindow(start, s.clock.Now()); err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	var view *ReservationView
	err := s.store.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		user, err := q.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("user %d not found", userID)
			}
			return fmt.Errorf("load user: %w", err)
		}

		installation, err := q.GetInstallationByID(ctx, installationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("installation %d not found", installationID)
			}
			return fmt.Errorf("load installation: %w", err)
		}

		if err := checkConflicts(ctx, q, userID, installationID, start, end); err != nil {
			return err
		}

		code, err := s.newCode()
		if err != nil {
			return err
		}

		created, err := q.CreateReservation(ctx, db.CreateReservationParams{
			UserID:         userID,
			InstallationID: installationID,
			StartTime:      start,
			EndTime:        end,
			Status:         models.ReservationConfirmed.Token(),
			Code:           code,
			AmountCents:    PriceCents(durationMinutes),
		})
		if err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		view, err = newReservationView(db.ReservationDetail{
			Reservation:      created,
			UserEmail:        user.Email,
			InstallationName: installation.Name,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// checkConflicts runs the four collision checks in fixed order and fails
// fast on the first violation: global blocks, installation blocks, other
// confirmed reservations on the installation, other confirmed reservations
// by the user on any installation. Cancelled reservations never conflict.
func checkConflicts(ctx context.Context, q *db.Queries, userID, installationID int64, start, end time.Time) error {
	globalBlocks, err := q.ListGlobalBlocksOverlapping(ctx, db.ListGlobalBlocksOverlappingParams{
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return fmt.Errorf("check global blocks: %w", err)
	}
	if len(globalBlocks) > 0 {
		return conflictf("reservation not allowed due to a global block: %s", globalBlocks[0].Reason)
	}

	installationBlocks, err := q.ListInstallationBlocksOverlapping(ctx, db.ListInstallationBlocksOverlappingParams{
		InstallationID: installationID,
		StartTime:      start,
		EndTime:        end,
	})
	if err != nil {
		return fmt.Errorf("check installation blocks: %w", err)
	}
	if len(installationBlocks) > 0 {
		return conflictf("reservation not allowed due to a block: %s", installationBlocks[0].Reason)
	}

	installationReservations, err := q.ListInstallationReservationsOverlapping(ctx, db.ListInstallationReservationsOverlappingParams{
		InstallationID: installationID,
		Status:         models.ReservationConfirmed.Token(),
		StartTime:      start,
		EndTime:        end,
	})
	if err != nil {
		return fmt.Errorf("check installation reservations: %w", err)
	}
	if len(installationReservations) > 0 {
		return conflictf("the installation is already reserved in that time range")
	}

	userReservations, err := q.ListUserReservationsOverlapping(ctx, db.ListUserReservationsOverlappingParams{
		UserID:    userID,
		Status:    models.ReservationConfirmed.Token(),
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return fmt.Errorf("check user reservations: %w", err)
	}
	if len(userReservations) > 0 {
		return conflictf("you already have another reservation in an overlapping time range")
	}

	return nil
}

// CancelReservation moves a reservation from confirmed to cancelled. The
// caller must own the reservation or act as an admin; a second cancel is an
// error, not a no-op. The 4-hour cutoff applies to admins too, matching the
// product's existing behavior.
func (s *Service) CancelReservation(ctx context.Context, reservationID, actingUserID int64, isAdmin bool) (*ReservationView, error) {
	var view *ReservationView
	err := s.store.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		detail, err := q.GetReservationDetail(ctx, reservationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("reservation %d not found", reservationID)
			}
			return fmt.Errorf("load reservation: %w", err)
		}

		if !isAdmin && detail.UserID != actingUserID {
			return permissionf("you do not have permission to cancel this reservation")
		}

		status, err := models.ParseReservationStatus(detail.Status)
		if err != nil {
			return fmt.Errorf("reservation %d: %w", detail.ID, err)
		}
		if status == models.ReservationCancelled {
			return statef("the reservation is already cancelled")
		}

		if !s.clock.Now().Before(detail.StartTime.Add(-CancelCutoffHours * time.Hour)) {
			return statef("reservations can only be cancelled at least %d hours in advance", CancelCutoffHours)
		}

		if _, err := q.SetReservationStatus(ctx, db.SetReservationStatusParams{
			ID:     reservationID,
			Status: models.ReservationCancelled.Token(),
		}); err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}

		detail.Status = models.ReservationCancelled.Token()
		view, err = newReservationView(detail)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ReservationsByUser lists a user's confirmed reservations ordered by start.
func (s *Service) ReservationsByUser(ctx context.Context, userID int64) ([]ReservationView, error) {
	q := s.store.Queries

	if _, err := q.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("user %d not found", userID)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	details, err := q.ListUserReservationDetails(ctx, db.ListUserReservationDetailsParams{
		UserID: userID,
		Status: models.ReservationConfirmed.Token(),
	})
	if err != nil {
		return nil, fmt.Errorf("list user reservations: %w", err)
	}
	return newReservationViews(details)
}

// ReservationsByInstallation lists an installation's confirmed reservations.
func (s *Service) ReservationsByInstallation(ctx context.Context, installationID int64) ([]ReservationView, error) {
	q := s.store.Queries

	if _, err := q.GetInstallationByID(ctx, installationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("installation %d not found", installationID)
		}
		return nil, fmt.Errorf("load installation: %w", err)
	}

	details, err := q.ListInstallationReservationDetails(ctx, db.ListInstallationReservationDetailsParams{
		InstallationID: installationID,
		Status:         models.ReservationConfirmed.Token(),
	})
	if err != nil {
		return nil, fmt.Errorf("list installation reservations: %w", err)
	}
	return newReservationViews(details)
}

func newReservationViews(details []db.ReservationDetail) ([]ReservationView, error) {
	views := make([]ReservationView, 0, len(details))
	for _, detail := range details {
		view, err := newReservationView(detail)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
