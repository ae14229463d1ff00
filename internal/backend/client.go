// Package backend is the HTTP client for the remote Bykerz backend, the
// service of record for device identity and metric archival. The edge proxies
// registration, validation and (optionally) telemetry to it and maps its
// responses into local outcomes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

var (
	// ErrTimeout means the backend did not answer within the client timeout.
	// The caller may retry; the edge itself never does.
	ErrTimeout = errors.New("backend connection timeout")

	// ErrUnavailable covers every other transport-level failure (DNS,
	// connection refused, TLS, reset mid-body).
	ErrUnavailable = errors.New("backend connection error")

	// ErrDeviceNotFound is the backend's 404 on the validate endpoint.
	ErrDeviceNotFound = errors.New("device not found in backend")
)

// StatusError carries a non-success backend response through to the caller,
// who passes status and body on to the device verbatim.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// Registration is the backend's payload for both register and validate.
type Registration struct {
	ID        int    `json:"id"`
	DeviceID  string `json:"deviceId"`
	VehicleID int    `json:"vehicleId"`
	Token     string `json:"token"`
}

// ForwardedMetric is the telemetry payload in the backend's external naming:
// camelCase identifiers and no humidityPercentage field.
type ForwardedMetric struct {
	DeviceID           string  `json:"deviceId"`
	VehicleID          int     `json:"vehicleId"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	CO2Ppm             float64 `json:"CO2Ppm"`
	NH3Ppm             float64 `json:"NH3Ppm"`
	BenzenePpm         float64 `json:"BenzenePpm"`
	TemperatureCelsius float64 `json:"temperatureCelsius"`
	PressureHpa        float64 `json:"pressureHpa"`
	ImpactDetected     bool    `json:"impactDetected"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// RegisterDevice registers a new device with the backend.
// Returns the backend payload on 201; any other status is a *StatusError.
func (c *Client) RegisterDevice(ctx context.Context, deviceID string, vehicleID int) (*Registration, error) {
	body := map[string]interface{}{"deviceId": deviceID, "vehicleId": vehicleID}
	resp, err := c.postJSON(ctx, "/api/v1/devices/authentication/register", body, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}
	return decodeRegistration(resp.Body)
}

// ValidateDevice validates an existing device with the backend.
// 200 returns the backend payload with a fresh token, 404 maps to
// ErrDeviceNotFound, anything else is a *StatusError.
func (c *Client) ValidateDevice(ctx context.Context, deviceID string) (*Registration, error) {
	body := map[string]interface{}{"deviceId": deviceID}
	resp, err := c.postJSON(ctx, "/api/v1/devices/authentication/validate", body, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return decodeRegistration(resp.Body)
	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrDeviceNotFound
	default:
		return nil, statusError(resp)
	}
}

// ForwardMetric sends a telemetry payload to the backend with the same bearer
// credential the device used on the edge. Best effort: the remote status code
// is returned for the caller to echo, whatever it is. Only transport failures
// produce an error.
func (c *Client) ForwardMetric(ctx context.Context, metric ForwardedMetric, bearerToken string) (int, error) {
	resp, err := c.postJSON(ctx, "/api/v1/metrics", metric, bearerToken)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, bearerToken string) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	return resp, nil
}

func mapTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return &StatusError{Code: resp.StatusCode, Body: string(body)}
}

func decodeRegistration(r io.Reader) (*Registration, error) {
	var reg Registration
	if err := json.NewDecoder(r).Decode(&reg); err != nil {
		return nil, fmt.Errorf("decoding backend response: %w", err)
	}
	return &reg, nil
}
