package handler

import (
	"github.com/gin-gonic/gin"
	appcontent "github.com/mediaassoc/backend/internal/application/content"
	"github.com/mediaassoc/backend/internal/domain/content"
)

// ContentHandler serves one content type. The public routes only see
// published items; the admin routes see drafts too.
type ContentHandler[T content.Item, R appcontent.Input[T]] struct {
	BaseHandler
	service    *appcontent.Service[T]
	toResponse func(T) any
}

// NewContentHandler creates a handler for one content type. R is the
// request body used for create and update.
func NewContentHandler[T content.Item, R appcontent.Input[T]](
	service *appcontent.Service[T],
	toResponse func(T) any,
) *ContentHandler[T, R] {
	return &ContentHandler[T, R]{
		service:    service,
		toResponse: toResponse,
	}
}

func (h *ContentHandler[T, R]) responses(items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = h.toResponse(item)
	}
	return out
}

func (h *ContentHandler[T, R]) list(c *gin.Context, publishedOnly bool) {
	var filter appcontent.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter, publishedOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, h.responses(items), total, filter.Page, filter.PageSize)
}

// ListPublished lists published items for the public site
func (h *ContentHandler[T, R]) ListPublished(c *gin.Context) {
	h.list(c, true)
}

// GetPublished looks up a published item by id or slug
func (h *ContentHandler[T, R]) GetPublished(c *gin.Context) {
	item, err := h.service.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(item))
}

// List lists every item, drafts included
func (h *ContentHandler[T, R]) List(c *gin.Context) {
	h.list(c, false)
}

// GetByID returns any item by id
func (h *ContentHandler[T, R]) GetByID(c *gin.Context) {
	item, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(item))
}

// Create stores a new item
func (h *ContentHandler[T, R]) Create(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, h.toResponse(item))
}

// Update replaces an item's fields
func (h *ContentHandler[T, R]) Update(c *gin.Context) {
	var req R
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, h.toResponse(item))
}

// Delete removes an item
func (h *ContentHandler[T, R]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Deleted"})
}

// RegisterPublic mounts the read-only routes on a public group
func (h *ContentHandler[T, R]) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("", h.ListPublished)
	rg.GET("/:id", h.GetPublished)
}

// RegisterAdmin mounts the management routes on an authenticated group
func (h *ContentHandler[T, R]) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
