// internal/booking/blocks.go
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/muniplay/internal/db"
)

// CreateBlockParams describes a new administrative block. A nil
// InstallationID makes the block global.
type CreateBlockParams struct {
	InstallationID *int64
	Reason         string
	Start          time.Time
	End            time.Time
	CreatedBy      int64
}

// CreateBlock records an administrative block. Installation-scoped blocks
// may not overlap an existing block on the same installation; global blocks
// may overlap anything. A zero-length block (end == start) is accepted.
func (s *Service) CreateBlock(ctx context.Context, params CreateBlockParams) (*BlockView, error) {
	if params.Reason == "" {
		return nil, validationf("a block requires a reason")
	}
	if params.End.Before(params.Start) {
		return nil, validationf("the block end time cannot be before its start time")
	}

	var view *BlockView
	err := s.store.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		if _, err := q.GetUserByID(ctx, params.CreatedBy); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("user %d not found", params.CreatedBy)
			}
			return fmt.Errorf("load user: %w", err)
		}

		scope := sql.NullInt64{}
		if params.InstallationID != nil {
			installationID := *params.InstallationID
			if _, err := q.GetInstallationByID(ctx, installationID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return notFoundf("installation %d not found", installationID)
				}
				return fmt.Errorf("load installation: %w", err)
			}

			existing, err := q.ListInstallationBlocksOverlapping(ctx, db.ListInstallationBlocksOverlappingParams{
				InstallationID: installationID,
				StartTime:      params.Start,
				EndTime:        params.End,
			})
			if err != nil {
				return fmt.Errorf("check existing blocks: %w", err)
			}
			if len(existing) > 0 {
				return conflictf("a block already exists on this installation in an overlapping time range")
			}

			scope = sql.NullInt64{Int64: installationID, Valid: true}
		}

		created, err := q.CreateBlock(ctx, db.CreateBlockParams{
			InstallationID: scope,
			Reason:         params.Reason,
			StartTime:      params.Start,
			EndTime:        params.End,
			CreatedBy:      params.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("create block: %w", err)
		}

		detail, err := q.GetBlockDetail(ctx, created.ID)
		if err != nil {
			return fmt.Errorf("load block: %w", err)
		}
		view = newBlockView(detail)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteBlock removes a block by id.
func (s *Service) DeleteBlock(ctx context.Context, blockID int64) error {
	return s.store.RunInTx(ctx, func(txdb *db.DB) error {
		deleted, err := txdb.Queries.DeleteBlock(ctx, blockID)
		if err != nil {
			return fmt.Errorf("delete block: %w", err)
		}
		if deleted == 0 {
			return notFoundf("block %d not found", blockID)
		}
		return nil
	})
}

// Blocks lists every block, global and scoped, ordered by start time.
func (s *Service) Blocks(ctx context.Context) ([]BlockView, error) {
	details, err := s.store.Queries.ListBlockDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return newBlockViews(details), nil
}

// GlobalBlocks lists only the blocks that apply to every installation.
func (s *Service) GlobalBlocks(ctx context.Context) ([]BlockView, error) {
	details, err := s.store.Queries.ListGlobalBlockDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list global blocks: %w", err)
	}
	return newBlockViews(details), nil
}

// InstallationBlocks lists the blocks scoped to one installation.
func (s *Service) InstallationBlocks(ctx context.Context, installationID int64) ([]BlockView, error) {
	q := s.store.Queries

	if _, err := q.GetInstallationByID(ctx, installationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("installation %d not found", installationID)
		}
		return nil, fmt.Errorf("load installation: %w", err)
	}

	details, err := q.ListInstallationBlockDetails(ctx, installationID)
	if err != nil {
		return nil, fmt.Errorf("list installation blocks: %w", err)
	}
	return newBlockViews(details), nil
}

func newBlockViews(details []db.BlockDetail) []BlockView {
	views := make([]BlockView, 0, len(details))
	for _, detail := range details {
		views = append(views, *newBlockView(detail))
	}
	return views
}
