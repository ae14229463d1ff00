package middleware

import (
	"net/http"
	"strings"

	"bykerz-iot-edge/internal/service"
	"bykerz-iot-edge/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// DeviceAuth authenticates telemetry submissions against the local device
// store. The credential comes from either the X-API-Key header or an
// Authorization bearer token; the device identity comes from the body's
// device_id field. Both sources route through the same AuthService check.
//
// The body is bound with ShouldBindBodyWith so the handler behind this
// middleware can re-read it for the full payload.
func DeviceAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if credential == "" {
			credential = bearerToken(c.GetHeader("Authorization"))
		}

		var body struct {
			DeviceID string `json:"device_id"`
		}
		_ = c.ShouldBindBodyWith(&body, binding.JSON)

		if body.DeviceID == "" || credential == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Missing device_id or API key")
			c.Abort()
			return
		}

		if !authService.Authenticate(body.DeviceID, credential) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid device_id or API key")
			c.Abort()
			return
		}

		c.Set("device_id", body.DeviceID)
		c.Set("credential", credential)

		c.Next()
	}
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
