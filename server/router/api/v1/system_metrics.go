package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/chatmeet/server/internal/observability"
)

// MetricsResponse represents the processing metrics of this instance
type MetricsResponse struct {
	*observability.MetricsSnapshot
	SuccessRate float64 `json:"success_rate"`
}

// GetMetrics returns the in-process pipeline metrics
// GET /api/v1/metrics
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snapshot := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, MetricsResponse{
		MetricsSnapshot: snapshot,
		SuccessRate:     snapshot.SuccessRate(),
	})
}
