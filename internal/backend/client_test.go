package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRegisterDeviceSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/devices/authentication/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if body["deviceId"] != "dev-1" {
			t.Errorf("deviceId = %v", body["deviceId"])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Registration{ID: 7, DeviceID: "dev-1", VehicleID: 3, Token: "issued-token"})
	}))
	defer srv.Close()

	reg, err := New(srv.URL, time.Second).RegisterDevice(context.Background(), "dev-1", 3)
	if err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	if reg.Token != "issued-token" {
		t.Fatalf("token = %q, want issued-token", reg.Token)
	}
	if reg.VehicleID != 3 {
		t.Fatalf("vehicleId = %d, want 3", reg.VehicleID)
	}
}

func TestRegisterDeviceNonCreatedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("device already registered"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).RegisterDevice(context.Background(), "dev-1", 3)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", statusErr.Code)
	}
	if statusErr.Body != "device already registered" {
		t.Fatalf("body = %q", statusErr.Body)
	}
}

func TestValidateDeviceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).ValidateDevice(context.Background(), "dev-missing")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("error = %v, want ErrDeviceNotFound", err)
	}
}

func TestTimeoutMapsToErrTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 50*time.Millisecond).ValidateDevice(context.Background(), "dev-1")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
}

func TestConnectionFailureMapsToErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := New(srv.URL, time.Second).RegisterDevice(context.Background(), "dev-1", 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestForwardMetricUsesBackendNaming(t *testing.T) {
	var got map[string]interface{}
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	status, err := New(srv.URL, time.Second).ForwardMetric(context.Background(), ForwardedMetric{
		DeviceID:           "dev-1",
		VehicleID:          1,
		Latitude:           -12,
		Longitude:          -77,
		CO2Ppm:             450,
		NH3Ppm:             25,
		BenzenePpm:         5,
		TemperatureCelsius: 22.5,
		PressureHpa:        1015,
		ImpactDetected:     true,
	}, "bearer-secret")
	if err != nil {
		t.Fatalf("ForwardMetric: %v", err)
	}
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}
	if gotAuth != "Bearer bearer-secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if got["deviceId"] != "dev-1" || got["vehicleId"] != float64(1) {
		t.Fatalf("payload not in backend naming: %v", got)
	}
	if _, ok := got["humidityPercentage"]; ok {
		t.Fatal("forwarded payload must omit humidityPercentage")
	}
	if _, ok := got["device_id"]; ok {
		t.Fatal("forwarded payload must not use local snake_case naming")
	}
}

func TestForwardMetricReportsRemoteFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	// A non-success remote status is an outcome, not an error.
	status, err := New(srv.URL, time.Second).ForwardMetric(context.Background(), ForwardedMetric{}, "stale")
	if err != nil {
		t.Fatalf("ForwardMetric: %v", err)
	}
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}
