package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bykerz-iot-edge/internal/backend"
	"bykerz-iot-edge/internal/models"
	"bykerz-iot-edge/internal/repository"
)

// ErrInvalidData is returned when a payload field is present but cannot be
// coerced to its required type.
var ErrInvalidData = errors.New("Invalid data format")

// MissingFieldError names the exact payload key a submission left out.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing field: '%s'", e.Field)
}

type MetricService struct {
	metricRepo *repository.VehicleMetricRepository
	backend    *backend.Client
	forward    bool
}

func NewMetricService(metricRepo *repository.VehicleMetricRepository, backendClient *backend.Client, forward bool) *MetricService {
	return &MetricService{
		metricRepo: metricRepo,
		backend:    backendClient,
		forward:    forward,
	}
}

// BuildRecord coerces and validates a raw telemetry payload into a typed
// record. Numeric fields accept JSON numbers and numeric strings (device
// firmware is known to send both); impactDetected must be a JSON boolean.
// No range checking is applied to coordinates or concentrations.
func (s *MetricService) BuildRecord(raw map[string]interface{}) (*models.VehicleMetricRecord, error) {
	for _, field := range []string{
		"device_id", "vehicle_id", "latitude", "longitude",
		"CO2Ppm", "NH3Ppm", "BenzenePpm",
		"temperatureCelsius", "humidityPercentage", "pressureHpa",
		"impactDetected",
	} {
		if _, ok := raw[field]; !ok {
			return nil, &MissingFieldError{Field: field}
		}
	}

	deviceID, ok := raw["device_id"].(string)
	if !ok || deviceID == "" {
		return nil, ErrInvalidData
	}

	vehicleID, err := toInt(raw["vehicle_id"])
	if err != nil {
		return nil, ErrInvalidData
	}

	record := &models.VehicleMetricRecord{
		DeviceID:  deviceID,
		VehicleID: vehicleID,
	}

	for field, dst := range map[string]*float64{
		"latitude":           &record.Latitude,
		"longitude":          &record.Longitude,
		"CO2Ppm":             &record.CO2Ppm,
		"NH3Ppm":             &record.NH3Ppm,
		"BenzenePpm":         &record.BenzenePpm,
		"temperatureCelsius": &record.TemperatureCelsius,
		"humidityPercentage": &record.HumidityPercentage,
		"pressureHpa":        &record.PressureHpa,
	} {
		value, err := toFloat(raw[field])
		if err != nil {
			return nil, ErrInvalidData
		}
		*dst = value
	}

	impact, ok := raw["impactDetected"].(bool)
	if !ok {
		return nil, ErrInvalidData
	}
	record.ImpactDetected = impact

	return record, nil
}

// Create validates, persists and (when forwarding is enabled) forwards a
// telemetry submission. The returned status code is the backend's answer to
// the forwarded copy, 0 when forwarding is off. Local persistence has already
// succeeded by the time a forwarding transport error is returned, so the
// record is returned alongside it.
func (s *MetricService) Create(ctx context.Context, raw map[string]interface{}, bearerToken string) (*models.VehicleMetricRecord, int, error) {
	record, err := s.BuildRecord(raw)
	if err != nil {
		return nil, 0, err
	}

	saved, err := s.metricRepo.Save(record)
	if err != nil {
		return nil, 0, fmt.Errorf("saving metric record: %w", err)
	}

	if !s.forward {
		return saved, 0, nil
	}

	status, err := s.backend.ForwardMetric(ctx, backend.ForwardedMetric{
		DeviceID:           saved.DeviceID,
		VehicleID:          saved.VehicleID,
		Latitude:           saved.Latitude,
		Longitude:          saved.Longitude,
		CO2Ppm:             saved.CO2Ppm,
		NH3Ppm:             saved.NH3Ppm,
		BenzenePpm:         saved.BenzenePpm,
		TemperatureCelsius: saved.TemperatureCelsius,
		PressureHpa:        saved.PressureHpa,
		ImpactDetected:     saved.ImpactDetected,
	}, bearerToken)
	if err != nil {
		return saved, 0, err
	}
	return saved, status, nil
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, ErrInvalidData
	}
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, ErrInvalidData
	}
}
