package handler

import (
	"net/http"

	"brickpile/internal/dto"
	"brickpile/internal/service"

	"github.com/gin-gonic/gin"
)

type StepHandler struct{ svc service.SimulationService }

func NewStepHandler(svc service.SimulationService) *StepHandler {
	return &StepHandler{svc: svc}
}

// TakeStep godoc
// @Summary Take one step onto the pile
// @Tags step
// @Accept json
// @Produce json
// @Param request body dto.StepRequest true "EU shoe size"
// @Success 200 {object} dto.StepResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/step [post]
func (h *StepHandler) TakeStep(c *gin.Context) {
	var req dto.StepRequest
	if !bindAndValidate(c, &req) {
		return
	}
	// Trial errors are contained in the service: a failed trial returns an
	// empty result, never a 5xx.
	resp := h.svc.TakeStep(c.Request.Context(), req.ShoeSize)
	c.JSON(http.StatusOK, resp)
}
