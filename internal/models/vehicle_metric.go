package models

// VehicleMetricRecord represents the vehicle_metric_records table
// One row per accepted telemetry submission. Rows are insert-only: the record
// is immutable once created and nothing in this service updates or deletes it.
// JSON field names mirror the device firmware's payload exactly, mixed casing
// included, so a record echoes back byte-for-byte what the device sent.
type VehicleMetricRecord struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DeviceID string `gorm:"size:100;not null;index" json:"device_id"` // soft reference, no FK constraint

	VehicleID int     `gorm:"not null" json:"vehicle_id"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	// Air quality sensors
	CO2Ppm     float64 `gorm:"column:co2_ppm;not null" json:"CO2Ppm"`
	NH3Ppm     float64 `gorm:"column:nh3_ppm;not null" json:"NH3Ppm"`
	BenzenePpm float64 `gorm:"column:benzene_ppm;not null" json:"BenzenePpm"`

	// Environment sensors
	TemperatureCelsius float64 `gorm:"column:temperature_celsius;not null" json:"temperatureCelsius"`
	HumidityPercentage float64 `gorm:"column:humidity_percentage;not null" json:"humidityPercentage"`
	PressureHpa        float64 `gorm:"column:pressure_hpa;not null" json:"pressureHpa"`

	ImpactDetected bool `gorm:"not null" json:"impactDetected"`
}

// TableName specifies the table name for VehicleMetricRecord model
func (VehicleMetricRecord) TableName() string {
	return "vehicle_metric_records"
}
