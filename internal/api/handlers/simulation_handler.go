package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retailops/stocksim/internal/service"
	"github.com/rs/zerolog/log"
)

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(svc *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: svc}
}

type runRequest struct {
	StoreID string `json:"store_id" binding:"required"`
	ItemID  string `json:"item_id" binding:"required"`
}

// Run executes a simulation for one (store, item) pair and returns the
// full run result.
func (h *SimulationHandler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id and item_id are required"})
		return
	}

	req.StoreID = strings.TrimSpace(req.StoreID)
	req.ItemID = strings.TrimSpace(req.ItemID)
	if req.StoreID == "" || req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id and item_id must not be blank"})
		return
	}

	result, err := h.service.Run(c.Request.Context(), req.StoreID, req.ItemID)
	if err != nil {
		log.Error().Err(err).
			Str("store_id", req.StoreID).
			Str("item_id", req.ItemID).
			Msg("simulation run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation run failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListArtifacts returns the run artifacts mirrored to object storage.
func (h *SimulationHandler) ListArtifacts(c *gin.Context) {
	objects, err := h.service.ListPublishedArtifacts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list published artifacts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list artifacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"artifacts": objects})
}

// ListStoreItems returns the known (store, item) pairs.
func (h *SimulationHandler) ListStoreItems(c *gin.Context) {
	items, err := h.service.ListStoreItems(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list store items failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list store items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
