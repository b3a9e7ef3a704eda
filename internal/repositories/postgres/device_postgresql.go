package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/62String/devicerent-sub000/internal/cache"
	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
)

const deviceListKey = "list:all"

type DevicePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewDevicePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.DeviceRepository {
	return &DevicePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (d *DevicePostgreSQL) Create(ctx context.Context, device *models.Device) error {
	if err := d.db.WithContext(ctx).Create(device).Error; err != nil {
		return err
	}
	d.invalidateLists(ctx)
	return nil
}

func (d *DevicePostgreSQL) GetBySerial(ctx context.Context, serialNumber string) (*models.Device, error) {
	var device models.Device
	if err := d.db.WithContext(ctx).First(&device, "serial_number = ?", serialNumber).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &device, nil
}

func (d *DevicePostgreSQL) Exists(ctx context.Context, serialNumber string) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&models.Device{}).Where("serial_number = ?", serialNumber).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count devices: %w", err)
	}
	return count > 0, nil
}

func (d *DevicePostgreSQL) Delete(ctx context.Context, serialNumber string) error {
	result := d.db.WithContext(ctx).Delete(&models.Device{}, "serial_number = ?", serialNumber)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	d.invalidateLists(ctx)
	return nil
}

func (d *DevicePostgreSQL) UpdateStatus(ctx context.Context, serialNumber string, status models.DeviceStatus, reason string) error {
	result := d.db.WithContext(ctx).Model(&models.Device{}).
		Where("serial_number = ?", serialNumber).
		Updates(map[string]interface{}{
			"status":        status,
			"status_reason": reason,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	d.invalidateLists(ctx)
	return nil
}

func (d *DevicePostgreSQL) List(ctx context.Context) ([]*models.Device, error) {
	var devices []*models.Device

	err := d.cacheManager.Device.CacheOrExecute(ctx, deviceListKey, &devices, cache.DeviceCacheConfig.TTL, func() (interface{}, error) {
		var dbDevices []*models.Device
		if err := d.db.WithContext(ctx).Order("serial_number ASC").Find(&dbDevices).Error; err != nil {
			return nil, err
		}
		return dbDevices, nil
	})
	if err != nil {
		return nil, err
	}

	return devices, nil
}

func (d *DevicePostgreSQL) ListAvailable(ctx context.Context) ([]*models.Device, error) {
	var devices []*models.Device
	if err := d.db.WithContext(ctx).
		Where("status = ? AND renter_id IS NULL", models.DeviceActive).
		Order("serial_number ASC").
		Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// Claim performs the compare-and-swap: occupancy is written only when the row
// is still active and unoccupied, so two interleaved rent requests cannot
// both succeed.
func (d *DevicePostgreSQL) Claim(ctx context.Context, serialNumber string, renter repositories.RenterInfo, rentedAt time.Time, remark string) (bool, error) {
	result := d.db.WithContext(ctx).Model(&models.Device{}).
		Where("serial_number = ? AND renter_id IS NULL AND status = ?", serialNumber, models.DeviceActive).
		Updates(map[string]interface{}{
			"renter_id":          renter.ID,
			"renter_name":        renter.Name,
			"renter_affiliation": renter.Affiliation,
			"rented_at":          rentedAt,
			"remark":             remark,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		d.invalidateLists(ctx)
	}
	return result.RowsAffected > 0, nil
}

// Release clears occupancy and the remark, and applies the returner's status
// choice. Remark is clear-on-return.
func (d *DevicePostgreSQL) Release(ctx context.Context, serialNumber string, status models.DeviceStatus, reason string) error {
	result := d.db.WithContext(ctx).Model(&models.Device{}).
		Where("serial_number = ?", serialNumber).
		Updates(map[string]interface{}{
			"renter_id":          nil,
			"renter_name":        "",
			"renter_affiliation": "",
			"rented_at":          nil,
			"remark":             "",
			"status":             status,
			"status_reason":      reason,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	d.invalidateLists(ctx)
	return nil
}

func (d *DevicePostgreSQL) invalidateLists(ctx context.Context) {
	_ = d.cacheManager.Device.InvalidatePattern(ctx, "list:*")
}
