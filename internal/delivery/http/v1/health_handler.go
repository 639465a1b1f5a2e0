package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(api *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	api.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Health Check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.healthUC.Check(c.Request.Context())
	c.JSON(http.StatusOK, response.HealthResponse{
		Status:    status.Status,
		Timestamp: response.Timestamp(status.Timestamp),
		Service:   status.Service,
		Version:   status.Version,
	})
}
