package models

import "time"

// Device represents the devices table
// A device is a vehicle-mounted IoT endpoint known to this edge service.
// APIKey is the canonical credential column: it holds whatever opaque secret
// the backend issued for the device (an API key or a JWT bearer token).
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	DeviceID  string    `gorm:"size:100;not null;uniqueIndex" json:"device_id"`
	APIKey    string    `gorm:"column:api_key;size:512;not null" json:"-"` // Hidden from JSON for security
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Device model
func (Device) TableName() string {
	return "devices"
}
