package services

import (
	"context"

	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/validator"
)

// ===== REQUEST DTOs =====

// Request shapes live with the validator so tag rules and business rules
// stay in one place.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ApproveUserRequest = validator.ApproveUserRequest
type RejectUserRequest = validator.RejectUserRequest
type DeleteUserRequest = validator.DeleteUserRequest
type DeviceRegisterRequest = validator.DeviceRegisterRequest
type DeviceStatusRequest = validator.DeviceStatusRequest
type RentDeviceRequest = validator.RentDeviceRequest
type ReturnDeviceRequest = validator.ReturnDeviceRequest
type HistoryExportRequest = validator.HistoryExportRequest

// ===== SERVICE INTERFACES =====

type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	CheckIDAvailable(ctx context.Context, id string) (bool, error)
	Login(ctx context.Context, req *LoginRequest) (*models.LoginResponse, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Admin operations. The requester is the resolved caller; the handler
	// layer guarantees IsAdmin, rank rules are enforced here.
	Approve(ctx context.Context, requester *models.User, req *ApproveUserRequest) error
	Reject(ctx context.Context, requester *models.User, req *RejectUserRequest) error
	Delete(ctx context.Context, requester *models.User, req *DeleteUserRequest) error
	ListPending(ctx context.Context) (*models.UserListResponse, error)
	ListApproved(ctx context.Context) (*models.UserListResponse, error)
}

type DeviceService interface {
	Register(ctx context.Context, req *DeviceRegisterRequest) (*models.Device, error)
	Delete(ctx context.Context, serialNumber string) error
	SetStatus(ctx context.Context, req *DeviceStatusRequest) (*models.Device, error)
	ListAll(ctx context.Context) (*models.DeviceListResponse, error)
	ListAvailable(ctx context.Context) (*models.DeviceListResponse, error)
}

type RentalService interface {
	Rent(ctx context.Context, caller *models.User, req *RentDeviceRequest) error
	Return(ctx context.Context, caller *models.User, req *ReturnDeviceRequest) error
}

type HistoryService interface {
	List(ctx context.Context, filters repositories.HistoryFilters) (*models.RentalHistoryListResponse, error)

	// Export renders the selected window as an XLSX workbook with one sheet
	// per calendar month. Returns the file bytes and a download filename.
	Export(ctx context.Context, req *HistoryExportRequest) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Account() AccountService
	Device() DeviceService
	Rental() RentalService
	History() HistoryService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
