package booking

import (
	"context"
	"testing"
)

func TestInstallationLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	number := int64(1)
	created, err := svc.CreateInstallation(ctx, InstallationParams{
		Name:   "Center Court",
		Type:   "tennis",
		Number: &number,
		Active: true,
	})
	if err != nil {
		t.Fatalf("create installation: %v", err)
	}
	if created.Type != "tennis" || created.Number == nil || *created.Number != 1 || !created.Active {
		t.Errorf("unexpected view: %+v", created)
	}

	got, err := svc.Installation(ctx, created.ID)
	if err != nil {
		t.Fatalf("get installation: %v", err)
	}
	if got.Name != "Center Court" {
		t.Errorf("expected Center Court, got %s", got.Name)
	}

	updated, err := svc.UpdateInstallation(ctx, created.ID, InstallationParams{
		Name:   "Center Court",
		Type:   "tennis",
		Number: &number,
		Active: false,
	})
	if err != nil {
		t.Fatalf("update installation: %v", err)
	}
	if updated.Active {
		t.Error("expected installation to be inactive after update")
	}

	if err := svc.DeleteInstallation(ctx, created.ID); err != nil {
		t.Fatalf("delete installation: %v", err)
	}
	assertKind(t, svc.DeleteInstallation(ctx, created.ID), KindNotFound)
	_, err = svc.Installation(ctx, created.ID)
	assertKind(t, err, KindNotFound)
}

func TestInstallationValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateInstallation(ctx, InstallationParams{Name: "", Type: "tennis", Active: true})
	assertKind(t, err, KindValidation)

	_, err = svc.CreateInstallation(ctx, InstallationParams{Name: "Rink", Type: "ice_rink", Active: true})
	assertKind(t, err, KindValidation)

	bad := int64(0)
	_, err = svc.CreateInstallation(ctx, InstallationParams{Name: "Padel", Type: "padel_new", Number: &bad, Active: true})
	assertKind(t, err, KindValidation)

	_, err = svc.UpdateInstallation(ctx, 42, InstallationParams{Name: "Ghost", Type: "tennis", Active: true})
	assertKind(t, err, KindNotFound)
}

func TestInstallationDuplicateNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	one, two := int64(1), int64(2)
	first, err := svc.CreateInstallation(ctx, InstallationParams{Name: "Padel 1", Type: "padel_new", Number: &one, Active: true})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateInstallation(ctx, InstallationParams{Name: "Padel 2", Type: "padel_new", Number: &two, Active: true})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// Same (type, number) pair is taken.
	_, err = svc.CreateInstallation(ctx, InstallationParams{Name: "Padel Clone", Type: "padel_new", Number: &one, Active: true})
	assertKind(t, err, KindConflict)

	// Same number under another type is fine.
	if _, err := svc.CreateInstallation(ctx, InstallationParams{Name: "Tennis 1", Type: "tennis", Number: &one, Active: true}); err != nil {
		t.Fatalf("same number, other type: %v", err)
	}

	// Updating onto an occupied pair fails; keeping your own number does not.
	_, err = svc.UpdateInstallation(ctx, second.ID, InstallationParams{Name: "Padel 2", Type: "padel_new", Number: &one, Active: true})
	assertKind(t, err, KindConflict)
	if _, err := svc.UpdateInstallation(ctx, first.ID, InstallationParams{Name: "Padel 1 Renamed", Type: "padel_new", Number: &one, Active: true}); err != nil {
		t.Fatalf("self update: %v", err)
	}
}

func TestInstallationListings(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	one, two := int64(1), int64(2)
	if _, err := svc.CreateInstallation(ctx, InstallationParams{Name: "Active Court", Type: "tennis", Number: &one, Active: true}); err != nil {
		t.Fatalf("create active: %v", err)
	}
	if _, err := svc.CreateInstallation(ctx, InstallationParams{Name: "Closed Court", Type: "tennis", Number: &two, Active: false}); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	all, err := svc.Installations(ctx)
	if err != nil {
		t.Fatalf("list installations: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 installations, got %d", len(all))
	}

	active, err := svc.ActiveInstallations(ctx)
	if err != nil {
		t.Fatalf("list active installations: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Active Court" {
		t.Errorf("unexpected active listing: %+v", active)
	}
}
