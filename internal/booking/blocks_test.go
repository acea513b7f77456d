package booking

import (
	"context"
	"testing"
	"time"

	"github.com/codr1/muniplay/internal/models"
)

func TestCreateBlock(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin@example.com", models.RoleAdmin)
	inst := createTestInstallation(t, database, "Padel 1", 1)

	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)

	global, err := svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "public holiday",
		Start:     start,
		End:       start.Add(2 * time.Hour),
		CreatedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("create global block: %v", err)
	}
	if global.InstallationID != nil {
		t.Errorf("expected a global block, got installation %d", *global.InstallationID)
	}
	if global.InstallationName != GlobalBlockLabel {
		t.Errorf("expected the global label, got %q", global.InstallationName)
	}
	if global.CreatedByEmail != admin.Email {
		t.Errorf("expected creator email %s, got %s", admin.Email, global.CreatedByEmail)
	}

	scoped, err := svc.CreateBlock(ctx, CreateBlockParams{
		InstallationID: &inst.ID,
		Reason:         "resurfacing",
		Start:          start,
		End:            start.Add(time.Hour),
		CreatedBy:      admin.ID,
	})
	if err != nil {
		t.Fatalf("create scoped block: %v", err)
	}
	if scoped.InstallationID == nil || *scoped.InstallationID != inst.ID {
		t.Errorf("expected block scoped to installation %d, got %+v", inst.ID, scoped.InstallationID)
	}
	if scoped.InstallationName != inst.Name {
		t.Errorf("expected installation name %s, got %s", inst.Name, scoped.InstallationName)
	}
}

func TestCreateBlock_Validation(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin@example.com", models.RoleAdmin)
	inst := createTestInstallation(t, database, "Padel 1", 1)
	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "",
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedBy: admin.ID,
	})
	assertKind(t, err, KindValidation)

	_, err = svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "backwards",
		Start:     start,
		End:       start.Add(-time.Minute),
		CreatedBy: admin.ID,
	})
	assertKind(t, err, KindValidation)

	// A zero-length block is accepted.
	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "placeholder",
		Start:     start,
		End:       start,
		CreatedBy: admin.ID,
	}); err != nil {
		t.Fatalf("zero-length block: %v", err)
	}

	_, err = svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "ghost creator",
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedBy: admin.ID + 99,
	})
	assertKind(t, err, KindNotFound)

	unknown := inst.ID + 99
	_, err = svc.CreateBlock(ctx, CreateBlockParams{
		InstallationID: &unknown,
		Reason:         "ghost installation",
		Start:          start,
		End:            start.Add(time.Hour),
		CreatedBy:      admin.ID,
	})
	assertKind(t, err, KindNotFound)
}

func TestCreateBlock_OverlapRules(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin@example.com", models.RoleAdmin)
	padel := createTestInstallation(t, database, "Padel 1", 1)
	tennis := createTestInstallation(t, database, "Padel 2", 2)

	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		InstallationID: &padel.ID,
		Reason:         "resurfacing",
		Start:          start,
		End:            end,
		CreatedBy:      admin.ID,
	}); err != nil {
		t.Fatalf("create first block: %v", err)
	}

	// A second scoped block overlapping the first on the same installation
	// is rejected.
	_, err := svc.CreateBlock(ctx, CreateBlockParams{
		InstallationID: &padel.ID,
		Reason:         "double booking the blocker",
		Start:          start.Add(time.Hour),
		End:            end.Add(time.Hour),
		CreatedBy:      admin.ID,
	})
	assertKind(t, err, KindConflict)

	// Same window on another installation is fine.
	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		InstallationID: &tennis.ID,
		Reason:         "independent",
		Start:          start,
		End:            end,
		CreatedBy:      admin.ID,
	}); err != nil {
		t.Fatalf("block on other installation: %v", err)
	}

	// Global blocks are exempt from the overlap check entirely.
	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "town event",
		Start:     start,
		End:       end,
		CreatedBy: admin.ID,
	}); err != nil {
		t.Fatalf("overlapping global block: %v", err)
	}
}

func TestBlockListings(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin@example.com", models.RoleAdmin)
	inst := createTestInstallation(t, database, "Padel 1", 1)

	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "global one",
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedBy: admin.ID,
	}); err != nil {
		t.Fatalf("create global block: %v", err)
	}
	if _, err := svc.CreateBlock(ctx, CreateBlockParams{
		InstallationID: &inst.ID,
		Reason:         "scoped one",
		Start:          start.Add(2 * time.Hour),
		End:            start.Add(3 * time.Hour),
		CreatedBy:      admin.ID,
	}); err != nil {
		t.Fatalf("create scoped block: %v", err)
	}

	all, err := svc.Blocks(ctx)
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 blocks, got %d", len(all))
	}

	global, err := svc.GlobalBlocks(ctx)
	if err != nil {
		t.Fatalf("list global blocks: %v", err)
	}
	if len(global) != 1 || global[0].Reason != "global one" {
		t.Errorf("unexpected global listing: %+v", global)
	}

	scoped, err := svc.InstallationBlocks(ctx, inst.ID)
	if err != nil {
		t.Fatalf("list installation blocks: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Reason != "scoped one" {
		t.Errorf("unexpected installation listing: %+v", scoped)
	}

	_, err = svc.InstallationBlocks(ctx, inst.ID+99)
	assertKind(t, err, KindNotFound)
}

func TestDeleteBlock(t *testing.T) {
	svc, database, _ := newTestService(t)
	ctx := context.Background()

	admin := createTestUser(t, database, "admin@example.com", models.RoleAdmin)
	start := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)

	block, err := svc.CreateBlock(ctx, CreateBlockParams{
		Reason:    "temporary",
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}

	if err := svc.DeleteBlock(ctx, block.ID); err != nil {
		t.Fatalf("delete block: %v", err)
	}
	assertKind(t, svc.DeleteBlock(ctx, block.ID), KindNotFound)
}
