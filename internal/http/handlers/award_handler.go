package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/services-marketplace/internal/dto"
	"github.com/ignatzorin/services-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/services-marketplace/internal/models"
	"github.com/ignatzorin/services-marketplace/internal/service"
)

// AwardHandler обслуживает назначение исполнителя по заявке.
type AwardHandler struct {
	svc *service.AwardService
}

func NewAwardHandler(svc *service.AwardService) *AwardHandler {
	return &AwardHandler{svc: svc}
}

// Award POST /jobs/:id/award
// MilestoneAmount > 0 создаёт этап эскроу вместе с назначением.
func (h *AwardHandler) Award(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.AwardRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var job *models.Job
	if req.MilestoneAmount > 0 {
		job, err = h.svc.AwardWithMilestone(c.Request.Context(), actor, jobID, req.QuoteID, req.ProfessionalID, req.MilestoneAmount)
	} else {
		job, err = h.svc.AwardWithoutMilestone(c.Request.Context(), actor, jobID, req.QuoteID, req.ProfessionalID)
	}
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// AcceptAward POST /jobs/:id/award/accept
func (h *AwardHandler) AcceptAward(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.svc.AcceptAward(c.Request.Context(), actor, jobID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// RejectAward POST /jobs/:id/award/reject
func (h *AwardHandler) RejectAward(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.svc.RejectAward(c.Request.Context(), actor, jobID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
