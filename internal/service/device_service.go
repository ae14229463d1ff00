package service

import (
	"context"
	"fmt"
	"time"

	"bykerz-iot-edge/internal/backend"
	"bykerz-iot-edge/internal/repository"
)

type DeviceService struct {
	deviceRepo *repository.DeviceRepository
	backend    *backend.Client
}

func NewDeviceService(deviceRepo *repository.DeviceRepository, backendClient *backend.Client) *DeviceService {
	return &DeviceService{
		deviceRepo: deviceRepo,
		backend:    backendClient,
	}
}

// Register forwards a device registration to the backend and, on success,
// stores the issued token as the device's local credential. An already-known
// device keeps its existing credential on this path.
func (s *DeviceService) Register(ctx context.Context, deviceID string, vehicleID int) (*backend.Registration, error) {
	reg, err := s.backend.RegisterDevice(ctx, deviceID, vehicleID)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.deviceRepo.GetOrCreate(deviceID, reg.Token, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("storing device credential: %w", err)
	}
	return reg, nil
}

// Validate revalidates a device against the backend and rotates the local
// credential to the freshly issued token. created_at survives the rotation
// for devices that already existed locally. A backend 404 surfaces as
// backend.ErrDeviceNotFound and leaves the local record untouched.
func (s *DeviceService) Validate(ctx context.Context, deviceID string) (*backend.Registration, error) {
	reg, err := s.backend.ValidateDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if _, err := s.deviceRepo.UpsertCredential(deviceID, reg.Token, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("rotating device credential: %w", err)
	}
	return reg, nil
}
