package handler

import (
	"errors"
	"net/http"

	"bykerz-iot-edge/internal/backend"
	"bykerz-iot-edge/internal/models"
	"bykerz-iot-edge/internal/service"
	"bykerz-iot-edge/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type MetricHandler struct {
	metricService *service.MetricService
}

func NewMetricHandler(metricService *service.MetricService) *MetricHandler {
	return &MetricHandler{
		metricService: metricService,
	}
}

type metricResponse struct {
	*models.VehicleMetricRecord
	ExternalAPIStatus int `json:"external_api_status,omitempty"`
}

// Create handles a telemetry submission from an authenticated device
// POST /api/v1/metrics
// The DeviceAuth middleware has already verified the credential and bound the
// body, so the raw payload is re-read from the request cache here.
func (h *MetricHandler) Create(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, externalStatus, err := h.metricService.Create(c.Request.Context(), raw, c.GetString("credential"))
	if err != nil {
		var missing *service.MissingFieldError
		switch {
		case errors.As(err, &missing):
			utils.JSONError(c, http.StatusBadRequest, missing.Error())
		case errors.Is(err, service.ErrInvalidData):
			utils.JSONError(c, http.StatusBadRequest, "Invalid data format")
		case errors.Is(err, backend.ErrTimeout):
			// Persisted locally, but the forwarded copy timed out
			utils.JSONError(c, http.StatusGatewayTimeout, "Backend connection timeout")
		case errors.Is(err, backend.ErrUnavailable):
			utils.JSONError(c, http.StatusInternalServerError, "Backend connection error")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, metricResponse{
		VehicleMetricRecord: record,
		ExternalAPIStatus:   externalStatus,
	})
}
