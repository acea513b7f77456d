// internal/booking/installations.go
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/muniplay/internal/db"
	"github.com/codr1/muniplay/internal/models"
)

// InstallationParams carries a create or update request. Number is optional;
// when set, the (type, number) pair must be unique across installations.
type InstallationParams struct {
	Name   string
	Type   string
	Number *int64
	Active bool
}

func (p InstallationParams) parse() (models.InstallationType, sql.NullInt64, error) {
	if p.Name == "" {
		return 0, sql.NullInt64{}, validationf("an installation requires a name")
	}
	installationType, err := models.ParseInstallationType(p.Type)
	if err != nil {
		return 0, sql.NullInt64{}, validationf("unknown installation type %q", p.Type)
	}
	number := sql.NullInt64{}
	if p.Number != nil {
		if *p.Number < 1 {
			return 0, sql.NullInt64{}, validationf("the installation number must be positive")
		}
		number = sql.NullInt64{Int64: *p.Number, Valid: true}
	}
	return installationType, number, nil
}

// CreateInstallation registers a new bookable installation.
func (s *Service) CreateInstallation(ctx context.Context, params InstallationParams) (*InstallationView, error) {
	installationType, number, err := params.parse()
	if err != nil {
		return nil, err
	}

	var view *InstallationView
	err = s.store.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		if number.Valid {
			if err := checkTypeNumberFree(ctx, q, installationType, number.Int64, 0); err != nil {
				return err
			}
		}

		created, err := q.CreateInstallation(ctx, db.CreateInstallationParams{
			Name:   params.Name,
			Type:   installationType.Token(),
			Number: number,
			Active: params.Active,
		})
		if err != nil {
			return fmt.Errorf("create installation: %w", err)
		}

		view, err = newInstallationView(created)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateInstallation replaces an installation's attributes. The duplicate
// (type, number) check skips the installation being updated.
func (s *Service) UpdateInstallation(ctx context.Context, installationID int64, params InstallationParams) (*InstallationView, error) {
	installationType, number, err := params.parse()
	if err != nil {
		return nil, err
	}

	var view *InstallationView
	err = s.store.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		if _, err := q.GetInstallationByID(ctx, installationID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("installation %d not found", installationID)
			}
			return fmt.Errorf("load installation: %w", err)
		}

		if number.Valid {
			if err := checkTypeNumberFree(ctx, q, installationType, number.Int64, installationID); err != nil {
				return err
			}
		}

		updated, err := q.UpdateInstallation(ctx, db.UpdateInstallationParams{
			ID:     installationID,
			Name:   params.Name,
			Type:   installationType.Token(),
			Number: number,
			Active: params.Active,
		})
		if err != nil {
			return fmt.Errorf("update installation: %w", err)
		}

		view, err = newInstallationView(updated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func checkTypeNumberFree(ctx context.Context, q *db.Queries, installationType models.InstallationType, number, selfID int64) error {
	existing, err := q.GetInstallationByTypeAndNumber(ctx, db.GetInstallationByTypeAndNumberParams{
		Type:   installationType.Token(),
		Number: number,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("check installation number: %w", err)
	}
	if existing.ID != selfID {
		return conflictf("a %s installation with number %d already exists", installationType, number)
	}
	return nil
}

// Installation returns one installation by id.
func (s *Service) Installation(ctx context.Context, installationID int64) (*InstallationView, error) {
	inst, err := s.store.Queries.GetInstallationByID(ctx, installationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("installation %d not found", installationID)
		}
		return nil, fmt.Errorf("load installation: %w", err)
	}
	return newInstallationView(inst)
}

// Installations lists every installation ordered by name.
func (s *Service) Installations(ctx context.Context) ([]InstallationView, error) {
	installations, err := s.store.Queries.ListInstallations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list installations: %w", err)
	}
	return newInstallationViews(installations)
}

// ActiveInstallations lists only installations open for booking.
func (s *Service) ActiveInstallations(ctx context.Context) ([]InstallationView, error) {
	installations, err := s.store.Queries.ListActiveInstallations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active installations: %w", err)
	}
	return newInstallationViews(installations)
}

// DeleteInstallation removes an installation. Foreign keys keep reservation
// and block history intact, so deletion fails while either still references
// the installation.
func (s *Service) DeleteInstallation(ctx context.Context, installationID int64) error {
	return s.store.RunInTx(ctx, func(txdb *db.DB) error {
		deleted, err := txdb.Queries.DeleteInstallation(ctx, installationID)
		if err != nil {
			return fmt.Errorf("delete installation: %w", err)
		}
		if deleted == 0 {
			return notFoundf("installation %d not found", installationID)
		}
		return nil
	})
}

func newInstallationViews(installations []db.Installation) ([]InstallationView, error) {
	views := make([]InstallationView, 0, len(installations))
	for _, inst := range installations {
		view, err := newInstallationView(inst)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
