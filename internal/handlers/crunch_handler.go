package handlers

import (
	"errors"
	"net/http"

	"number-cruncher/internal/facts"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
)

// CrunchResponse is returned by POST /api/crunch
type CrunchResponse struct {
	Verdict facts.Verdict `json:"verdict"`
	Number  int           `json:"number"`
	Message string        `json:"message"`
}

// Crunch runs one crunch cycle
// POST /api/crunch
func (h *Handler) Crunch(c *gin.Context) {
	status, err := h.Cruncher.Crunch(c.Request.Context())
	if err != nil {
		if !errors.Is(err, facts.ErrCrunchFailed) {
			glog.Errorf("crunch returned unexpected error kind: %v", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to crunch a fact",
		})
		return
	}

	c.JSON(http.StatusOK, CrunchResponse{
		Verdict: status.Verdict,
		Number:  status.Number,
		Message: status.Exclaim(),
	})
}

// GetTummy returns the retained facts
// GET /api/tummy
func (h *Handler) GetTummy(c *gin.Context) {
	tummy := h.Cruncher.Tummy()
	c.JSON(http.StatusOK, gin.H{
		"facts":    tummy,
		"count":    len(tummy),
		"capacity": h.Cruncher.Capacity(),
	})
}

// GetLog returns every fetch attempt made by the cruncher's requester
// GET /api/log
func (h *Handler) GetLog(c *gin.Context) {
	log := h.Cruncher.Log()
	if log == nil {
		log = []facts.LogEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": log,
		"count":   len(log),
	})
}
