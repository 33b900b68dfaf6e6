package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/application/membership"
)

// RenewalHandler handles membership renewal endpoints
type RenewalHandler struct {
	BaseHandler
	renewalService *membership.RenewalService
}

// NewRenewalHandler creates a new RenewalHandler
func NewRenewalHandler(renewalService *membership.RenewalService) *RenewalHandler {
	return &RenewalHandler{
		renewalService: renewalService,
	}
}

// Submit godoc
// @ID           submitRenewal
// @Summary      Submit a membership renewal
// @Description  Public renewal form. The renewal starts Active but is only recorded in the ledger once an admin saves it.
// @Tags         renewals
// @Accept       json
// @Produce      json
// @Param        request body membership.SubmitRenewalRequest true "Renewal"
// @Success      201 {object} APIResponse[membership.RenewalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /renewals [post]
func (h *RenewalHandler) Submit(c *gin.Context) {
	var req membership.SubmitRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	renewal, err := h.renewalService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, renewal)
}

// List godoc
// @ID           listRenewals
// @Summary      List renewals
// @Tags         renewals
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status filter" Enums(Active, Pending, Expired, Cancelled)
// @Param        search query string false "Search name, email, organization or membership number"
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]membership.RenewalResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/renewals [get]
func (h *RenewalHandler) List(c *gin.Context) {
	var filter membership.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	renewals, total, err := h.renewalService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, renewals, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getRenewalById
// @Summary      Get a renewal
// @Tags         renewals
// @Produce      json
// @Param        id path string true "Renewal ID" format(uuid)
// @Success      200 {object} APIResponse[membership.RenewalResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/renewals/{id} [get]
func (h *RenewalHandler) GetByID(c *gin.Context) {
	renewal, err := h.renewalService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, renewal)
}

// Update godoc
// @ID           updateRenewal
// @Summary      Update a renewal
// @Description  Partial update. Saving a renewal whose status is Active records it in the year ledger.
// @Tags         renewals
// @Accept       json
// @Produce      json
// @Param        id path string true "Renewal ID" format(uuid)
// @Param        request body membership.UpdateRenewalRequest true "Fields to change"
// @Success      200 {object} APIResponse[membership.RenewalUpdateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/renewals/{id} [put]
func (h *RenewalHandler) Update(c *gin.Context) {
	var req membership.UpdateRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.renewalService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteRenewal
// @Summary      Delete a renewal
// @Tags         renewals
// @Produce      json
// @Param        id path string true "Renewal ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/renewals/{id} [delete]
func (h *RenewalHandler) Delete(c *gin.Context) {
	if err := h.renewalService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Renewal deleted"})
}
