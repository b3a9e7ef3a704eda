package models

import (
	"time"
)

type DeviceStatus string

const (
	DeviceActive   DeviceStatus = "active"
	DeviceRepair   DeviceStatus = "repair"
	DeviceInactive DeviceStatus = "inactive"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceActive, DeviceRepair, DeviceInactive:
		return true
	}
	return false
}

// Device is one unit in the lending pool. Maintenance status and occupancy
// are orthogonal: marking a rented device as repair does not evict the renter.
type Device struct {
	SerialNumber string `json:"serial_number" gorm:"primaryKey;size:64"`

	DeviceInfo string `json:"device_info" gorm:"size:500"`
	OSName     string `json:"os_name" gorm:"not null;size:100"`
	OSVersion  string `json:"os_version" gorm:"size:100"`
	ModelName  string `json:"model_name" gorm:"size:100"`

	Status       DeviceStatus `json:"status" gorm:"not null;size:16;default:active;index"`
	StatusReason string       `json:"status_reason" gorm:"size:500"`

	// Occupancy. RenterID is the stable account id used for return
	// authorization; name and affiliation are display snapshots that survive
	// later account changes.
	RenterID          *string    `json:"renter_id" gorm:"size:64;index"`
	RenterName        string     `json:"renter_name" gorm:"size:100"`
	RenterAffiliation string     `json:"renter_affiliation" gorm:"size:200"`
	RentedAt          *time.Time `json:"rented_at"`
	Remark            string     `json:"remark" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Device) TableName() string {
	return "devices"
}

// Rented reports whether the device is currently occupied.
func (d *Device) Rented() bool {
	return d.RenterID != nil && *d.RenterID != ""
}

// Rentable reports whether a rent request may claim the device.
func (d *Device) Rentable() bool {
	return d.Status == DeviceActive && !d.Rented()
}
