package repository

import (
	"bykerz-iot-edge/internal/models"

	"gorm.io/gorm"
)

type VehicleMetricRepository struct {
	db *gorm.DB
}

func NewVehicleMetricRepo(db *gorm.DB) *VehicleMetricRepository {
	return &VehicleMetricRepository{db: db}
}

// Save inserts a vehicle metric record and returns it with the assigned ID.
// Records are insert-only; no update or delete methods exist.
func (r *VehicleMetricRepository) Save(record *models.VehicleMetricRecord) (*models.VehicleMetricRecord, error) {
	if err := r.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
