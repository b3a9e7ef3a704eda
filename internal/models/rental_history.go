package models

import (
	"time"

	"gorm.io/datatypes"
)

type RentalAction string

const (
	ActionRent   RentalAction = "rent"
	ActionReturn RentalAction = "return"
)

// UserSnapshot is the renter's identity captured at action time.
type UserSnapshot struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
}

// DeviceSnapshot captures the descriptive device fields at action time.
type DeviceSnapshot struct {
	ModelName string `json:"model_name"`
	OSName    string `json:"os_name"`
	OSVersion string `json:"os_version"`
}

// RentalHistory is the append-only ledger of rent and return events.
// Normal flows never update or delete rows.
type RentalHistory struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	SerialNumber string       `json:"serial_number" gorm:"not null;size:64;index"`
	UserID       string       `json:"user_id" gorm:"not null;size:64;index"`
	Action       RentalAction `json:"action" gorm:"not null;size:16"`
	Timestamp    time.Time    `json:"timestamp" gorm:"not null;index"`

	UserDetails datatypes.JSONType[UserSnapshot]   `json:"user_details"`
	DeviceInfo  datatypes.JSONType[DeviceSnapshot] `json:"device_info"`

	Remark string `json:"remark" gorm:"size:500"`
}

func (RentalHistory) TableName() string {
	return "rental_history"
}
