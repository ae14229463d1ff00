package repository

import (
	"errors"
	"log"
	"time"

	"bykerz-iot-edge/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepo(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// FindByIDAndKey retrieves the device matching both device_id and credential.
// Returns (nil, nil) when no such device exists.
func (r *DeviceRepository) FindByIDAndKey(deviceID, apiKey string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("device_id = ? AND api_key = ?", deviceID, apiKey).First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// FindByID retrieves a device by its device_id.
// Returns (nil, nil) when no such device exists.
func (r *DeviceRepository) FindByID(deviceID string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("device_id = ?", deviceID).First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// GetOrCreate inserts the device if absent and reports whether it was created.
// An existing device is returned untouched: the stored credential is never
// overwritten on this path. The insert is a single ON CONFLICT DO NOTHING
// statement, so concurrent calls for the same device_id cannot race-corrupt
// the row.
func (r *DeviceRepository) GetOrCreate(deviceID, apiKey string, createdAt time.Time) (*models.Device, bool, error) {
	device := models.Device{
		DeviceID:  deviceID,
		APIKey:    apiKey,
		CreatedAt: createdAt,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoNothing: true,
	}).Create(&device)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := r.FindByID(deviceID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, errors.New("device vanished during get-or-create")
		}
		return existing, false, nil
	}
	return &device, true, nil
}

// UpsertCredential inserts the device or rotates its credential in place.
// created_at is only written on first insert; an existing row keeps its
// original timestamp. Last writer wins under concurrent rotation.
func (r *DeviceRepository) UpsertCredential(deviceID, apiKey string, createdAt time.Time) (*models.Device, error) {
	device := models.Device{
		DeviceID:  deviceID,
		APIKey:    apiKey,
		CreatedAt: createdAt,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"api_key": apiKey}),
	}).Create(&device).Error
	if err != nil {
		return nil, err
	}

	current, err := r.FindByID(deviceID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.New("device vanished during upsert")
	}
	return current, nil
}

// EnsureBootstrapDevice guarantees the well-known local test device exists.
// Idempotent: calling it again leaves the existing row, credential and
// created_at included, untouched.
func (r *DeviceRepository) EnsureBootstrapDevice(deviceID, apiKey string, createdAt time.Time) error {
	_, created, err := r.GetOrCreate(deviceID, apiKey, createdAt)
	if err != nil {
		return err
	}
	if created {
		log.Printf("Bootstrap device %s created", deviceID)
	}
	return nil
}
