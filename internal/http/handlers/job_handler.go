package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/services-marketplace/internal/dto"
	"github.com/ignatzorin/services-marketplace/internal/http/handlers/common"
	"github.com/ignatzorin/services-marketplace/internal/service"
)

// JobHandler обслуживает операции над заявками.
type JobHandler struct {
	svc *service.JobService
}

// NewJobHandler создаёт новый хэндлер заявок.
func NewJobHandler(svc *service.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// CreateJob POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateJobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), actor, service.CreateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Sector:       req.Sector,
		Categories:   req.Categories,
		City:         req.City,
		Postcode:     req.Postcode,
		TimingMode:   req.TimingMode,
		TimingDate:   req.TimingDate,
		BudgetType:   req.BudgetType,
		BudgetAmount: req.BudgetAmount,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob PUT /jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
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

	var req dto.UpdateJobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.svc.UpdateJob(c.Request.Context(), actor, jobID, service.UpdateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Sector:       req.Sector,
		Categories:   req.Categories,
		City:         req.City,
		Postcode:     req.Postcode,
		TimingMode:   req.TimingMode,
		TimingDate:   req.TimingDate,
		BudgetType:   req.BudgetType,
		BudgetAmount: req.BudgetAmount,
		Status:       req.Status,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob DELETE /jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
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

	if err := h.svc.DeleteJob(c.Request.Context(), actor, jobID); err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "заявка удалена"})
}

// GetJob GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.svc.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListAvailableJobs GET /jobs
func (h *JobHandler) ListAvailableJobs(c *gin.Context) {
	jobs, err := h.svc.ListAvailableJobs(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	start, end := common.Paginate(len(jobs), limit, offset)
	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: jobs[start:end], Total: len(jobs)})
}

// ListMyJobs GET /jobs/my
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobs, err := h.svc.ListJobsByClient(c.Request.Context(), actor.ID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	start, end := common.Paginate(len(jobs), limit, offset)
	c.JSON(http.StatusOK, dto.JobListResponse{Jobs: jobs[start:end], Total: len(jobs)})
}
