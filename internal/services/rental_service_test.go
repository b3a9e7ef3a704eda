package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/62String/devicerent-sub000/internal/events"
	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/validator"
)

func newTestRentalService(t *testing.T) (RentalService, *fakeRepository) {
	t.Helper()
	repo := newFakeRepository()
	publisher := events.NewLocalRentalPublisher(testLogger())
	t.Cleanup(func() { _ = publisher.Close() })
	svc := NewRentalService(repo, publisher, testLogger(), validator.New())
	return svc, repo
}

func seedDevice(t *testing.T, repo *fakeRepository, serial string, status models.DeviceStatus) {
	t.Helper()
	err := repo.Device().Create(context.Background(), &models.Device{
		SerialNumber: serial,
		OSName:       "Android",
		OSVersion:    "14",
		ModelName:    "Galaxy S24",
		Status:       status,
	})
	if err != nil {
		t.Fatalf("seed device %s: %v", serial, err)
	}
}

func activeUser(id string) *models.User {
	return &models.User{
		ID:          id,
		Name:        "User " + id,
		Affiliation: "QA Team",
		Position:    models.PositionResearcher,
		RoleLevel:   5,
	}
}

func TestRentAndReturnLifecycle(t *testing.T) {
	svc, repo := newTestRentalService(t)
	ctx := context.Background()
	caller := activeUser("alice")
	seedDevice(t, repo, "SN-001", models.DeviceActive)

	if err := svc.Rent(ctx, caller, &RentDeviceRequest{DeviceID: "SN-001", Remark: "field test"}); err != nil {
		t.Fatalf("rent: %v", err)
	}

	device, err := repo.Device().GetBySerial(ctx, "SN-001")
	if err != nil {
		t.Fatalf("get device: %v", err)
	}
	if !device.Rented() || *device.RenterID != "alice" {
		t.Fatalf("device not occupied by alice: %+v", device)
	}
	if device.RenterName != "User alice" || device.RenterAffiliation != "QA Team" {
		t.Fatalf("renter snapshot wrong: %+v", device)
	}
	if device.RentedAt == nil || device.Remark != "field test" {
		t.Fatalf("rented_at/remark wrong: %+v", device)
	}

	if err := svc.Return(ctx, caller, &ReturnDeviceRequest{DeviceID: "SN-001"}); err != nil {
		t.Fatalf("return: %v", err)
	}

	device, err = repo.Device().GetBySerial(ctx, "SN-001")
	if err != nil {
		t.Fatalf("get device: %v", err)
	}
	if device.Rented() || device.RentedAt != nil {
		t.Fatalf("occupancy not cleared: %+v", device)
	}
	if device.Remark != "" {
		t.Fatal("remark must be cleared on return")
	}
	if device.Status != models.DeviceActive {
		t.Fatalf("default return status must be active, got %s", device.Status)
	}

	if len(repo.history) != 2 {
		t.Fatalf("want 2 ledger entries, got %d", len(repo.history))
	}
	if repo.history[0].Action != models.ActionRent || repo.history[1].Action != models.ActionReturn {
		t.Fatalf("ledger actions wrong: %s %s", repo.history[0].Action, repo.history[1].Action)
	}
	snap := repo.history[0].UserDetails.Data()
	if snap.Name != "User alice" || snap.Affiliation != "QA Team" {
		t.Fatalf("user snapshot wrong: %+v", snap)
	}
	dev := repo.history[0].DeviceInfo.Data()
	if dev.ModelName != "Galaxy S24" || dev.OSName != "Android" {
		t.Fatalf("device snapshot wrong: %+v", dev)
	}
}

func TestRentRejectsOccupiedDevice(t *testing.T) {
	svc, repo := newTestRentalService(t)
	ctx := context.Background()
	seedDevice(t, repo, "SN-001", models.DeviceActive)

	if err := svc.Rent(ctx, activeUser("alice"), &RentDeviceRequest{DeviceID: "SN-001"}); err != nil {
		t.Fatalf("first rent: %v", err)
	}
	err := svc.Rent(ctx, activeUser("bob"), &RentDeviceRequest{DeviceID: "SN-001"})
	if !errors.Is(err, ErrDeviceAlreadyRented) {
		t.Fatalf("want ErrDeviceAlreadyRented, got %v", err)
	}
}

func TestRentLostClaimRace(t *testing.T) {
	svc, repo := newTestRentalService(t)
	ctx := context.Background()
	seedDevice(t, repo, "SN-001", models.DeviceActive)

	// The read sees a free device but the conditional write matches no row.
	repo.failClaim = true
	err := svc.Rent(ctx, activeUser("alice"), &RentDeviceRequest{DeviceID: "SN-001"})
	if !errors.Is(err, ErrDeviceAlreadyRented) {
		t.Fatalf("want ErrDeviceAlreadyRented, got %v", err)
	}
	if len(repo.history) != 0 {
		t.Fatal("a lost claim must not write a ledger entry")
	}
}

func TestRentUnavailableDevice(t *testing.T) {
	svc, repo := newTestRentalService(t)
	ctx := context.Background()
	seedDevice(t, repo, "SN-001", models.DeviceRepair)
	if err := repo.Device().UpdateStatus(ctx, "SN-001", models.DeviceRepair, "cracked screen"); err != nil {
		t.Fatalf("set status: %v", err)
	}

	err := svc.Rent(ctx, activeUser("alice"), &RentDeviceRequest{DeviceID: "SN-001"})
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("want ErrDeviceUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "repair") || !strings.Contains(err.Error(), "cracked screen") {
		t.Fatalf("error must carry status and reason, got %q", err.Error())
	}
}

func TestRentUnknownDevice(t *testing.T) {
	svc, _ := newTestRentalService(t)

	err := svc.Rent(context.Background(), activeUser("alice"), &RentDeviceRequest{DeviceID: "missing"})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("want ErrDeviceNotFound, got %v", err)
	}
}

func TestRentCallerChecks(t *testing.T) {
	svc, repo := newTestRentalService(t)
	ctx := context.Background()
	seedDevice(t, repo, "SN-001", models.DeviceActive)

	if err := svc.Rent(ctx, nil, &RentDeviceRequest{DeviceID: "SN-001"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("nil caller: want ErrUnauthorized, got %v", err)
	}

	pending := activeUser("alice")
	pending.IsPending = true
	if err := svc.Rent(ctx, pending, &RentDeviceRequest{DeviceID: "SN-001"}); !errors.Is(err, ErrPendingApproval) {
		t.Fatalf("pending caller: want ErrPendingApproval, got %v", err)
	}

	incomplete := activeUser("bob")
	incomplete.Affiliation = ""
	if err := svc.Rent(ctx, incomplete, &RentDeviceRequest{DeviceID: "SN-001"}); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("incomplete profile: want ErrValidationFailed, got %v", err)
	}
}

func TestReturnOnlyByRenter(t *testing.T) {
	svc, repo := newTestRentalService(t)
	ctx := context.Background()
	seedDevice(t, repo, "SN-001", models.DeviceActive)

	if err := svc.Rent(ctx, activeUser("alice"), &RentDeviceRequest{DeviceID: "SN-001"}); err != nil {
		t.Fatalf("rent: %v", err)
	}

	// Another user cannot return it, admin or not.
	other := activeUser("bob")
	other.IsAdmin = true
	err := svc.Return(ctx, other, &ReturnDeviceRequest{DeviceID: "SN-001"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	device, _ := repo.Device().GetBySerial(ctx, "SN-001")
	if !device.Rented() {
		t.Fatal("failed return must not release the device")
	}
}

func TestReturnUnoccupiedDevice(t *testing.T) {
	svc, repo := newTestRentalService(t)
	seedDevice(t, repo, "SN-001", models.DeviceActive)

	err := svc.Return(context.Background(), activeUser("alice"), &ReturnDeviceRequest{DeviceID: "SN-001"})
	if !errors.Is(err, ErrDeviceNotRented) {
		t.Fatalf("want ErrDeviceNotRented, got %v", err)
	}
}

func TestReturnWithRepairStatus(t *testing.T) {
	svc, repo := newTestRentalService(t)
	ctx := context.Background()
	caller := activeUser("alice")
	seedDevice(t, repo, "SN-001", models.DeviceActive)

	if err := svc.Rent(ctx, caller, &RentDeviceRequest{DeviceID: "SN-001"}); err != nil {
		t.Fatalf("rent: %v", err)
	}
	if err := svc.Return(ctx, caller, &ReturnDeviceRequest{
		DeviceID:     "SN-001",
		Status:       "repair",
		StatusReason: "battery swollen",
	}); err != nil {
		t.Fatalf("return: %v", err)
	}

	device, _ := repo.Device().GetBySerial(ctx, "SN-001")
	if device.Status != models.DeviceRepair || device.StatusReason != "battery swollen" {
		t.Fatalf("return status not applied: %+v", device)
	}
	if device.Rented() {
		t.Fatal("occupancy must be cleared")
	}
}
