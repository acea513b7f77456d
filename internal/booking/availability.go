// internal/booking/availability.go
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

// Slot statuses rendered in the daily availability grid.
const (
	SlotAvailable = "AVAILABLE"
	SlotReserved  = "RESERVED"
	SlotBlocked   = "BLOCKED"
)

type Slot struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type DailyAvailability struct {
	InstallationID   int64  `json:"installationId"`
	InstallationName string `json:"installationName"`
	Date             string `json:"date"`
	Slots            []Slot `json:"slots"`
}

// DailyAvailability builds the 30-minute slot grid between opening and
// closing for one installation on one calendar date. Per slot the first
// match wins in fixed priority order: global block, installation block,
// confirmed reservation, available. The last slot ends exactly at closing; a
// trailing partial slot would be omitted rather than truncated.
func (s *Service) DailyAvailability(ctx context.Context, installationID int64, date time.Time) (*DailyAvailability, error) {
	q := s.store.Queries

	installation, err := q.GetInstallationByID(ctx, installationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("installation %d not found", installationID)
		}
		return nil, fmt.Errorf("load installation: %w", err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), OpenHour, 0, 0, 0, date.Location())
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), CloseHour, 0, 0, 0, date.Location())

	globalBlocks, err := q.ListGlobalBlocksOverlapping(ctx, db.ListGlobalBlocksOverlappingParams{
		StartTime: dayStart,
		EndTime:   dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("load global blocks: %w", err)
	}

	installationBlocks, err := q.ListInstallationBlocksOverlapping(ctx, db.ListInstallationBlocksOverlappingParams{
		InstallationID: installationID,
		StartTime:      dayStart,
		EndTime:        dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("load installation blocks: %w", err)
	}

	// Only reservations whose interval overlaps the operating day matter.
	reservations, err := q.ListInstallationReservationsOverlapping(ctx, db.ListInstallationReservationsOverlappingParams{
		InstallationID: installationID,
		Status:         models.ReservationConfirmed.Token(),
		StartTime:      dayStart,
		EndTime:        dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}

	var slots []Slot
	for slotStart := dayStart; slotStart.Before(dayEnd); {
		slotEnd := slotStart.Add(SlotMinutes * time.Minute)
		if slotEnd.After(dayEnd) {
			break
		}

		slots = append(slots, buildSlot(slotStart, slotEnd, globalBlocks, installationBlocks, reservations))
		slotStart = slotEnd
	}

	return &DailyAvailability{
		InstallationID:   installation.ID,
		InstallationName: installation.Name,
		Date:             date.Format(DateLayout),
		Slots:            slots,
	}, nil
}

func buildSlot(slotStart, slotEnd time.Time, globalBlocks, installationBlocks []db.Block, reservations []db.Reservation) Slot {
	slot := Slot{
		Start:  slotStart.Format(TimeLayout),
		End:    slotEnd.Format(TimeLayout),
		Status: SlotAvailable,
	}

	// Ties within a tier resolve to the first block found; the reason text
	// is advisory only.
	for _, block := range globalBlocks {
		if Overlaps(slotStart, slotEnd, block.StartTime, block.EndTime) {
			slot.Status = SlotBlocked
			slot.Reason = block.Reason
			return slot
		}
	}
	for _, block := range installationBlocks {
		if Overlaps(slotStart, slotEnd, block.StartTime, block.EndTime) {
			slot.Status = SlotBlocked
			slot.Reason = block.Reason
			return slot
		}
	}
	for _, reservation := range reservations {
		if Overlaps(slotStart, slotEnd, reservation.StartTime, reservation.EndTime) {
			slot.Status = SlotReserved
			return slot
		}
	}
	return slot
}
