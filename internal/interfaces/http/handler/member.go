package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/application/membership"
)

// MemberHandler handles membership application endpoints
type MemberHandler struct {
	BaseHandler
	memberService *membership.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *membership.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// Submit godoc
// @ID           submitMember
// @Summary      Submit a membership application
// @Description  Public application form. The application starts in Pending Review.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body membership.SubmitMemberRequest true "Application"
// @Success      201 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /members [post]
func (h *MemberHandler) Submit(c *gin.Context) {
	var req membership.SubmitMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	member, err := h.memberService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, member)
}

// List godoc
// @ID           listMembers
// @Summary      List membership applications
// @Description  Paginated list with status filter and free-text search
// @Tags         members
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status filter" Enums(Pending Review, Under Review, Approved, Rejected)
// @Param        search query string false "Search name, email or organization"
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var filter membership.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	members, total, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, members, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getMemberById
// @Summary      Get a membership application
// @Tags         members
// @Produce      json
// @Param        id path string true "Application ID" format(uuid)
// @Success      200 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/members/{id} [get]
func (h *MemberHandler) GetByID(c *gin.Context) {
	member, err := h.memberService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// UpdateStatus godoc
// @ID           updateMemberStatus
// @Summary      Update an application's status
// @Description  Moving to Approved also records the member in the year ledger. archived is false when the ledger write failed and was queued for retry.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Application ID" format(uuid)
// @Param        request body membership.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[membership.MemberStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/members/{id}/status [patch]
func (h *MemberHandler) UpdateStatus(c *gin.Context) {
	var req membership.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.memberService.UpdateStatus(c.Request.Context(), c.Param("id"), req, reviewerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteMember
// @Summary      Delete a membership application
// @Description  Ledger entries already projected from the application are kept
// @Tags         members
// @Produce      json
// @Param        id path string true "Application ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.memberService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Member application deleted"})
}
