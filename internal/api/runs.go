package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bigstep/internal/model"
)

// ListRuns 사용 기록 목록
// GET /api/runs?limit=50
func (h *Handler) ListRuns(c *gin.Context) {
	limit := parseIntWithDefault(c.Query("limit"), 50)
	if h.runs == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []model.UsageEntry{}})
		return
	}

	entries, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list usage log failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": entries})
}

// StatusResponse 시스템 상태
type StatusResponse struct {
	AuthRequired  bool   `json:"authRequired"`
	LedgerEnabled bool   `json:"ledgerEnabled"`
	LastRunAt     string `json:"lastRunAt"`
}

// GetStatus 시스템 상태
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		AuthRequired:  h.gate.Enabled(),
		LedgerEnabled: h.runs != nil,
	}
	if h.runs != nil {
		if t, ok, err := h.runs.LastRunAt(c.Request.Context()); err == nil && ok {
			resp.LastRunAt = t.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func parseIntWithDefault(v string, d int) int {
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return d
	}
	return n
}
