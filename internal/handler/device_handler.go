package handler

import (
	"errors"
	"net/http"

	"bykerz-iot-edge/internal/backend"
	"bykerz-iot-edge/internal/service"
	"bykerz-iot-edge/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	deviceService *service.DeviceService
}

func NewDeviceHandler(deviceService *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
	}
}

// Pointer fields distinguish an absent key from a zero value so missing-field
// errors can name the exact key, matching the device firmware's expectations.
type registerRequest struct {
	DeviceID  *string `json:"deviceId"`
	VehicleID *int    `json:"vehicleId"`
}

type validateRequest struct {
	DeviceID *string `json:"deviceId"`
}

// Register handles device registration against the backend
// POST /api/v1/devices/authentication/register
func (h *DeviceHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DeviceID == nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing field: 'deviceId'")
		return
	}
	if req.VehicleID == nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing field: 'vehicleId'")
		return
	}

	reg, err := h.deviceService.Register(c.Request.Context(), *req.DeviceID, *req.VehicleID)
	if err != nil {
		h.respondBackendError(c, err, "Backend registration failed")
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// Validate handles device revalidation against the backend
// POST /api/v1/devices/authentication/validate
func (h *DeviceHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DeviceID == nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing field: 'deviceId'")
		return
	}

	reg, err := h.deviceService.Validate(c.Request.Context(), *req.DeviceID)
	if err != nil {
		if errors.Is(err, backend.ErrDeviceNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Device not found in backend")
			return
		}
		h.respondBackendError(c, err, "Backend validation failed")
		return
	}

	c.JSON(http.StatusOK, reg)
}

func (h *DeviceHandler) respondBackendError(c *gin.Context, err error, statusMessage string) {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, backend.ErrTimeout):
		utils.JSONError(c, http.StatusGatewayTimeout, "Backend connection timeout")
	case errors.Is(err, backend.ErrUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Backend connection error: "+err.Error())
	case errors.As(err, &statusErr):
		// Pass the remote status and body through untouched
		utils.JSONErrorDetails(c, statusErr.Code, statusMessage, statusErr.Body)
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	}
}
