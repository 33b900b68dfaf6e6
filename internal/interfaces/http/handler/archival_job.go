package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/application/membership"
)

// ArchivalJobHandler exposes the queue of ledger writes awaiting retry
type ArchivalJobHandler struct {
	BaseHandler
	jobService *membership.ArchivalJobService
}

// NewArchivalJobHandler creates a new ArchivalJobHandler
func NewArchivalJobHandler(jobService *membership.ArchivalJobService) *ArchivalJobHandler {
	return &ArchivalJobHandler{
		jobService: jobService,
	}
}

// List godoc
// @ID           listArchivalJobs
// @Summary      List archival jobs
// @Tags         archival-jobs
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status filter" Enums(PENDING, PROCESSING, DONE, FAILED, DEAD)
// @Success      200 {object} APIResponse[[]membership.ArchivalJobResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/archival-jobs [get]
func (h *ArchivalJobHandler) List(c *gin.Context) {
	var filter membership.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	jobs, total, err := h.jobService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, jobs, total, filter.Page, filter.PageSize)
}

// Retry godoc
// @ID           retryArchivalJob
// @Summary      Retry a dead archival job
// @Description  Only jobs that exhausted their retries can be reset
// @Tags         archival-jobs
// @Produce      json
// @Param        id path string true "Job ID" format(uuid)
// @Success      200 {object} APIResponse[membership.ArchivalJobResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/archival-jobs/{id}/retry [post]
func (h *ArchivalJobHandler) Retry(c *gin.Context) {
	job, err := h.jobService.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}
