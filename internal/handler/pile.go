package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"brickpile/internal/apierror"
	"brickpile/internal/dto"
	"brickpile/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const previewCacheTTL = 10 * time.Minute

// PileHandler serves the public pile preview. The pile is immutable between
// rebuilds, so responses are cached in Redis keyed by the requested limit.
type PileHandler struct {
	svc          service.SimulationService
	rdb          *redis.Client
	defaultLimit int
}

func NewPileHandler(svc service.SimulationService, rdb *redis.Client, defaultLimit int) *PileHandler {
	return &PileHandler{svc: svc, rdb: rdb, defaultLimit: defaultLimit}
}

// Preview godoc
// @Summary Peek at the pile (first rows + total size)
// @Tags pile
// @Produce json
// @Param limit query int false "number of rows to return"
// @Success 200 {object} dto.PilePreviewResponse
// @Router /v1/pile [get]
func (h *PileHandler) Preview(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()
	cacheKey := "pile:preview:" + strconv.Itoa(limit)

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PilePreviewResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — read the in-memory pile
	resp := h.svc.Preview(ctx, limit)

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, previewCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
