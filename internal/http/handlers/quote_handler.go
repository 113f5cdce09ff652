package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/services-marketplace/internal/dto"
	"github.com/ignatzorin/services-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/services-marketplace/internal/service"
)

// QuoteHandler обслуживает предложения исполнителей.
type QuoteHandler struct {
	svc *service.QuoteService
}

func NewQuoteHandler(svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

// SubmitQuote POST /jobs/:id/quotes
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
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

	var req dto.SubmitQuoteRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	quote, err := h.svc.SubmitQuote(c.Request.Context(), actor, jobID, service.SubmitQuoteInput{
		Price:               req.Price,
		DeliveryTime:        req.DeliveryTime,
		Message:             req.Message,
		ProfessionalAvatar:  req.ProfessionalAvatar,
		ProfessionalRating:  req.ProfessionalRating,
		ProfessionalReviews: req.ProfessionalReviews,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

// SetQuoteStatus PUT /jobs/:id/quotes/:quoteId/status
func (h *QuoteHandler) SetQuoteStatus(c *gin.Context) {
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
	quoteID, err := common.ParseUUIDParam(c, "quoteId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.SetQuoteStatusRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.svc.SetQuoteStatus(c.Request.Context(), actor, jobID, quoteID, req.Status)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// RejectQuote DELETE /jobs/:id/quotes/:quoteId
func (h *QuoteHandler) RejectQuote(c *gin.Context) {
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
	quoteID, err := common.ParseUUIDParam(c, "quoteId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.svc.RejectQuote(c.Request.Context(), actor, jobID, quoteID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListMyQuotes GET /quotes/my
func (h *QuoteHandler) ListMyQuotes(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	quotes, err := h.svc.ListProfessionalQuotes(c.Request.Context(), actor.ID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// ListAssignedJobs GET /jobs/assigned
func (h *QuoteHandler) ListAssignedJobs(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobs, err := h.svc.ListProfessionalActiveJobs(c.Request.Context(), actor.ID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	start, end := common.Paginate(len(jobs), limit, offset)
	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: jobs[start:end], Total: len(jobs)})
}
