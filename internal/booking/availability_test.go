package booking

import (
	"context"
	"testing"
	"time"

	"github.com/codr1/muniplay/internal/models"
)

func TestDailyAvailability_EmptyDay(t *testing.T) {
	svc, database, _ := newTestService(t)

	inst := createTestInstallation(t, database, "Padel 1", 1)
	day := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	grid, err := svc.DailyAvailability(context.Background(), inst.ID, day)
	if err != nil {
		t.Fatalf("daily availability: %v", err)
	}

	if grid.InstallationID != inst.ID || grid.InstallationName != inst.Name {
		t.Errorf("unexpected installation fields: %d / %s", grid.InstallationID, grid.InstallationName)
	}
	if grid.Date != "2025-03-11" {
		t.Errorf("unexpected date %s", grid.Date)
	}

	// 08:00 to 23:00 in half-hour steps is 30 slots.
	if len(grid.Slots) != 30 {
		t.Fatalf("expected 30 slots, got %d", len(grid.Slots))
	}
	if grid.Slots[0].Start != "2025-03-11T08:00:00" || grid.Slots[0].End != "2025-03-11T08:30:00" {
		t.Errorf("unexpected first slot %s - %s", grid.Slots[0].Start, grid.Slots[0].End)
	}
	last := grid.Slots[len(grid.Slots)-1]
	if last.Start != "2025-03-11T22:30:00" || last.End != "2025-03-11T23:00:00" {
		t.Errorf("unexpected last slot %s - %s", last.Start, last.End)
	}
	for _, slot := range grid.Slots {
		if slot.Status != SlotAvailable || slot.Reason != "" {
			t.Errorf("slot %s: expected AVAILABLE, got %s (%s)", slot.Start, slot.Status, slot.Reason)
		}
	}
}

func TestDailyAvailability_ReservedSlots(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	user := createTestUser(t, database, "player@example.com", models.RoleUser)
	inst := createTestInstallation(t, database, "Padel 1", 1)

	start := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	if _, err := svc.CreateReservation(ctx, user.ID, inst.ID, start, 60); err != nil {
		t.Fatalf("create reservation: %v", err)
	}

	grid, err := svc.DailyAvailability(ctx, inst.ID, start)
	if err != nil {
		t.Fatalf("daily availability: %v", err)
	}

	var reserved []string
	for _, slot := range grid.Slots {
		if slot.Status == SlotReserved {
			reserved = append(reserved, slot.Start)
		}
	}
	want := []string{"2025-03-11T14:00:00", "2025-03-11T14:30:00"}
	if len(reserved) != len(want) {
		t.Fatalf("expected %d reserved slots, got %v", len(want), reserved)
	}
	for i := range want {
		if reserved[i] != want[i] {
			t.Errorf("reserved slot %d: expected %s, got %s", i, want[i], reserved[i])
		}
	}
}

func TestDailyAvailability_BlockPriority(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin@example.com", models.RoleAdmin)
	user := createTestUser(t, database, "player@example.com", models.RoleUser)
	inst := createTestInstallation(t, database, "Padel 1", 1)

	// Reservation 10:00-11:00, then a global block covering its first half.
	// Block creation does not look at reservations, so the two coexist.
	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	if _, err := svc.CreateReservation(ctx, user.ID, inst.ID, start, 60); err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "town event",
		Start:     start,
		End:       start.Add(30 * time.Minute),
		CreatedBy: admin.ID,
	}); err != nil {
		t.Fatalf("create global block: %v", err)
	}
	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		InstallationID: &inst.ID,
		Reason:         "net repair",
		Start:          time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC),
		End:            time.Date(2025, 3, 11, 19, 0, 0, 0, time.UTC),
		CreatedBy:      admin.ID,
	}); err != nil {
		t.Fatalf("create installation block: %v", err)
	}

	grid, err := svc.DailyAvailability(ctx, inst.ID, start)
	if err != nil {
		t.Fatalf("daily availability: %v", err)
	}

	byStart := make(map[string]Slot, len(grid.Slots))
	for _, slot := range grid.Slots {
		byStart[slot.Start] = slot
	}

	// The global block outranks the reservation on the shared slot.
	if slot := byStart["2025-03-11T10:00:00"]; slot.Status != SlotBlocked || slot.Reason != "town event" {
		t.Errorf("10:00 slot: expected BLOCKED (town event), got %s (%s)", slot.Status, slot.Reason)
	}
	if slot := byStart["2025-03-11T10:30:00"]; slot.Status != SlotReserved {
		t.Errorf("10:30 slot: expected RESERVED, got %s", slot.Status)
	}
	if slot := byStart["2025-03-11T18:30:00"]; slot.Status != SlotBlocked || slot.Reason != "net repair" {
		t.Errorf("18:30 slot: expected BLOCKED (net repair), got %s (%s)", slot.Status, slot.Reason)
	}
	if slot := byStart["2025-03-11T11:00:00"]; slot.Status != SlotAvailable {
		t.Errorf("11:00 slot: expected AVAILABLE, got %s", slot.Status)
	}
}

func TestDailyAvailability_CancelledExcluded(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	user := createTestUser(t, database, "player@example.com", models.RoleUser)
	inst := createTestInstallation(t, database, "Padel 1", 1)

	start := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	created, err := svc.CreateReservation(ctx, user.ID, inst.ID, start, 60)
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if _, err := svc.CancelReservation(ctx, created.ID, user.ID, false); err != nil {
		t.Fatalf("cancel reservation: %v", err)
	}

	grid, err := svc.DailyAvailability(ctx, inst.ID, start)
	if err != nil {
		t.Fatalf("daily availability: %v", err)
	}
	for _, slot := range grid.Slots {
		if slot.Status != SlotAvailable {
			t.Errorf("slot %s: expected AVAILABLE after cancellation, got %s", slot.Start, slot.Status)
		}
	}
}

func TestDailyAvailability_UnknownInstallation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.DailyAvailability(context.Background(), 42, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	assertKind(t, err, KindNotFound)
}
