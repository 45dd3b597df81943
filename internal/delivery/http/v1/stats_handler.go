package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-backend/internal/domain"
)

type StatsHandler struct {
	statsUC domain.StatsUsecase
}

// NewStatsHandler registers the public stats route.
func NewStatsHandler(public *gin.RouterGroup, statsUC domain.StatsUsecase) {
	handler := &StatsHandler{statsUC: statsUC}

	public.GET("/stats", handler.GetStats)
}

// GetStats godoc
// @Summary      Site statistics
// @Description  Landing-page counters. Never errors; serves defaults when the database is unreachable.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  domain.SiteStats
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsUC.GetSiteStats(c.Request.Context()))
}
