package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/62String/devicerent-sub000/internal/events"
	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/validator"
)

type rentalService struct {
	repo      repositories.Repository
	publisher *events.RentalPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRentalService(repo repositories.Repository, publisher *events.RentalPublisher, logger *slog.Logger, validator *validator.Validator) RentalService {
	return &rentalService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Rent claims a device for the caller. The claim is a single conditional
// update on the device row, so two interleaved rent requests cannot both
// succeed; claim and ledger append run in one transaction.
func (s *rentalService) Rent(ctx context.Context, caller *models.User, req *RentDeviceRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}
	if err := s.checkRenter(caller); err != nil {
		return err
	}

	device, err := s.repo.Device().GetBySerial(ctx, req.DeviceID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("get device: %w", err)
	}

	if device.Rented() {
		return ErrDeviceAlreadyRented
	}
	if device.Status != models.DeviceActive {
		return s.unavailable(device)
	}

	now := time.Now().UTC()
	renter := repositories.RenterInfo{
		ID:          caller.ID,
		Name:        caller.Name,
		Affiliation: caller.Affiliation,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		claimed, err := tx.Device().Claim(ctx, req.DeviceID, renter, now, req.Remark)
		if err != nil {
			return fmt.Errorf("claim device: %w", err)
		}
		if !claimed {
			// Another request won the claim, or the status changed, between
			// our read and the conditional write.
			current, err := tx.Device().GetBySerial(ctx, req.DeviceID)
			if err != nil {
				return ErrDeviceAlreadyRented
			}
			if current.Status != models.DeviceActive {
				return s.unavailable(current)
			}
			return ErrDeviceAlreadyRented
		}

		entry := s.buildEntry(device, caller, models.ActionRent, now, req.Remark)
		if err := tx.RentalHistory().Append(ctx, entry); err != nil {
			return fmt.Errorf("append rental history: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(events.RentalEvent{
		SerialNumber: device.SerialNumber,
		UserID:       caller.ID,
		Action:       models.ActionRent,
		Timestamp:    now,
		ModelName:    device.ModelName,
		Remark:       req.Remark,
	})

	s.logger.Info("device rented",
		"serial_number", device.SerialNumber,
		"user_id", caller.ID,
	)
	return nil
}

// Return releases a device. Only the account that rented it may return it;
// admin status does not override. The ledger entry is written before
// occupancy is cleared.
func (s *rentalService) Return(ctx context.Context, caller *models.User, req *ReturnDeviceRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}
	if err := s.checkRenter(caller); err != nil {
		return err
	}

	device, err := s.repo.Device().GetBySerial(ctx, req.DeviceID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("get device: %w", err)
	}

	if !device.Rented() {
		return ErrDeviceNotRented
	}
	if *device.RenterID != caller.ID {
		return NewPermissionError(caller.ID, "device", "return", "device was rented by a different user")
	}

	status := models.DeviceActive
	if req.Status != "" {
		status = models.DeviceStatus(req.Status)
	}

	now := time.Now().UTC()
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		entry := s.buildEntry(device, caller, models.ActionReturn, now, "")
		if err := tx.RentalHistory().Append(ctx, entry); err != nil {
			return fmt.Errorf("append rental history: %w", err)
		}
		if err := tx.Device().Release(ctx, req.DeviceID, status, req.StatusReason); err != nil {
			return fmt.Errorf("release device: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(events.RentalEvent{
		SerialNumber: device.SerialNumber,
		UserID:       caller.ID,
		Action:       models.ActionReturn,
		Timestamp:    now,
		ModelName:    device.ModelName,
	})

	s.logger.Info("device returned",
		"serial_number", device.SerialNumber,
		"user_id", caller.ID,
		"status", status,
	)
	return nil
}

// checkRenter rejects callers without a complete profile. Pending accounts
// cannot hold a credential, but the state may have changed since issuance.
func (s *rentalService) checkRenter(caller *models.User) error {
	if caller == nil {
		return ErrUnauthorized
	}
	if caller.IsPending {
		return ErrPendingApproval
	}
	if caller.Name == "" || caller.Affiliation == "" {
		return fmt.Errorf("%w: renter profile requires name and affiliation", ErrValidationFailed)
	}
	return nil
}

func (s *rentalService) unavailable(device *models.Device) error {
	if device.StatusReason != "" {
		return fmt.Errorf("%w (%s: %s)", ErrDeviceUnavailable, device.Status, device.StatusReason)
	}
	return fmt.Errorf("%w (%s)", ErrDeviceUnavailable, device.Status)
}

func (s *rentalService) buildEntry(device *models.Device, caller *models.User, action models.RentalAction, ts time.Time, remark string) *models.RentalHistory {
	return &models.RentalHistory{
		SerialNumber: device.SerialNumber,
		UserID:       caller.ID,
		Action:       action,
		Timestamp:    ts,
		UserDetails: datatypes.NewJSONType(models.UserSnapshot{
			Name:        caller.Name,
			Affiliation: caller.Affiliation,
		}),
		DeviceInfo: datatypes.NewJSONType(models.DeviceSnapshot{
			ModelName: device.ModelName,
			OSName:    device.OSName,
			OSVersion: device.OSVersion,
		}),
		Remark: remark,
	}
}
