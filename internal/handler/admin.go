package handler

import (
	"net/http"
	"time"

	"brickpile/internal/apierror"
	"brickpile/internal/dto"
	"brickpile/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct{ dispatcher *worker.Dispatcher }

func NewAdminHandler(dispatcher *worker.Dispatcher) *AdminHandler {
	return &AdminHandler{dispatcher: dispatcher}
}

// TriggerRebuild godoc
// @Summary Enqueue an async catalog rebuild
// @Tags admin
// @Produce json
// @Success 202 {object} dto.RebuildResponse
// @Failure 500 {object} apierror.APIError
// @Router /v1/admin/rebuild [post]
func (h *AdminHandler) TriggerRebuild(c *gin.Context) {
	payload := worker.RebuildJobPayload{
		JobID:       uuid.NewString(),
		RequestedAt: time.Now().UTC(),
	}
	if err := h.dispatcher.EnqueueRebuild(c.Request.Context(), payload); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to enqueue rebuild"))
		return
	}
	c.JSON(http.StatusAccepted, dto.RebuildResponse{JobID: payload.JobID})
}
