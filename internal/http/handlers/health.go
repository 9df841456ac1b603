package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/botbridge-backend/internal/http/response"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ReadyCheck additionally pings the database, for readiness probes.
func (h *HealthHandler) ReadyCheck(c *gin.Context) {
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "db_unavailable", err)
			return
		}
	}
	c.String(http.StatusOK, "ready")
}
