package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/62String/devicerent-sub000/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UserFilters narrows user listings.
type UserFilters struct {
	Pending *bool
	Limit   int
	Offset  int
}

// HistoryFilters narrows rental history listings.
type HistoryFilters struct {
	SerialNumber string
	UserID       string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// RenterInfo is the occupancy payload written by a successful claim.
type RenterInfo struct {
	ID          string
	Name        string
	Affiliation string
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetWithCredentials bypasses the cache: the password hash is not
	// serialized into cached entries.
	GetWithCredentials(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}

type DeletedUserRepository interface {
	Create(ctx context.Context, tombstone *models.DeletedUser) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type DeviceRepository interface {
	Create(ctx context.Context, device *models.Device) error
	GetBySerial(ctx context.Context, serialNumber string) (*models.Device, error)
	Exists(ctx context.Context, serialNumber string) (bool, error)
	Delete(ctx context.Context, serialNumber string) error
	UpdateStatus(ctx context.Context, serialNumber string, status models.DeviceStatus, reason string) error
	List(ctx context.Context) ([]*models.Device, error)
	ListAvailable(ctx context.Context) ([]*models.Device, error)

	// Claim atomically sets occupancy on an unoccupied active device. It
	// returns false when no row matched, meaning the device was already
	// rented or not active at write time.
	Claim(ctx context.Context, serialNumber string, renter RenterInfo, rentedAt time.Time, remark string) (bool, error)

	// Release clears occupancy and applies the status chosen by the returner.
	Release(ctx context.Context, serialNumber string, status models.DeviceStatus, reason string) error
}

type RentalHistoryRepository interface {
	Append(ctx context.Context, entry *models.RentalHistory) error
	List(ctx context.Context, filters HistoryFilters) ([]*models.RentalHistory, int64, error)
}
