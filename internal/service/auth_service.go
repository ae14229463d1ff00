package service

import (
	"log"
	"time"

	"bykerz-iot-edge/internal/repository"
	"bykerz-iot-edge/pkg/utils"
)

type AuthService struct {
	deviceRepo *repository.DeviceRepository
}

func NewAuthService(deviceRepo *repository.DeviceRepository) *AuthService {
	return &AuthService{
		deviceRepo: deviceRepo,
	}
}

// Authenticate checks a device credential against the local store.
// Pure local lookup, no network call. Both credential sources (X-API-Key
// header and Authorization bearer token) route through here: the store holds
// one canonical opaque credential per device and the comparison is exact.
func (s *AuthService) Authenticate(deviceID, credential string) bool {
	if deviceID == "" || credential == "" {
		return false
	}

	device, err := s.deviceRepo.FindByIDAndKey(deviceID, credential)
	if err != nil {
		log.Printf("Failed to look up device %s: %v", deviceID, err)
		return false
	}
	if device == nil {
		return false
	}

	// The credential is authoritative as long as it matches the store, but an
	// expired JWT means the backend will reject forwarded calls made with it.
	if exp, ok := utils.TokenExpiry(credential); ok && exp.Before(time.Now()) {
		log.Printf("Warning: device %s authenticated with a token expired at %s", deviceID, exp.Format(time.RFC3339))
	}

	return true
}
