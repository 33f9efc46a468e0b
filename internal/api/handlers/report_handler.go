package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailops/stocksim/internal/service"
	"github.com/rs/zerolog/log"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// GetSummary returns the latest run summary for a (store, item) pair.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	storeID := c.Param("store_id")
	itemID := c.Param("item_id")

	summary, err := h.service.GetSummary(c.Request.Context(), storeID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrNoReport) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report for this store and item"})
			return
		}
		log.Error().Err(err).
			Str("store_id", storeID).
			Str("item_id", itemID).
			Msg("report summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build report"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
