package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/validator"
)

type deviceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewDeviceService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) DeviceService {
	return &deviceService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *deviceService) Register(ctx context.Context, req *DeviceRegisterRequest) (*models.Device, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	exists, err := s.repo.Device().Exists(ctx, req.SerialNumber)
	if err != nil {
		return nil, fmt.Errorf("check device existence: %w", err)
	}
	if exists {
		return nil, ErrDeviceExists
	}

	device := &models.Device{
		SerialNumber: req.SerialNumber,
		DeviceInfo:   req.DeviceInfo,
		OSName:       req.OSName,
		OSVersion:    req.OSVersion,
		ModelName:    req.ModelName,
		Status:       models.DeviceActive,
	}

	if err := s.repo.Device().Create(ctx, device); err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}

	s.logger.Info("device registered", "serial_number", device.SerialNumber, "model", device.ModelName)
	return device, nil
}

func (s *deviceService) Delete(ctx context.Context, serialNumber string) error {
	if err := s.repo.Device().Delete(ctx, serialNumber); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("delete device: %w", err)
	}

	s.logger.Info("device deleted", "serial_number", serialNumber)
	return nil
}

// SetStatus changes the maintenance status. All transitions between active,
// repair and inactive are allowed, and a rented device keeps its renter.
func (s *deviceService) SetStatus(ctx context.Context, req *DeviceStatusRequest) (*models.Device, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	status := models.DeviceStatus(req.Status)
	if err := s.repo.Device().UpdateStatus(ctx, req.SerialNumber, status, req.StatusReason); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("update device status: %w", err)
	}

	device, err := s.repo.Device().GetBySerial(ctx, req.SerialNumber)
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}

	s.logger.Info("device status updated",
		"serial_number", req.SerialNumber,
		"status", status,
		"reason", req.StatusReason,
	)
	return device, nil
}

func (s *deviceService) ListAll(ctx context.Context) (*models.DeviceListResponse, error) {
	devices, err := s.repo.Device().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return &models.DeviceListResponse{Devices: devices, Total: int64(len(devices))}, nil
}

func (s *deviceService) ListAvailable(ctx context.Context) (*models.DeviceListResponse, error) {
	devices, err := s.repo.Device().ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available devices: %w", err)
	}
	return &models.DeviceListResponse{Devices: devices, Total: int64(len(devices))}, nil
}
