package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/application/membership"
	csvimport "github.com/mediaassoc/backend/internal/infrastructure/import"
	"github.com/mediaassoc/backend/internal/interfaces/http/dto"
)

// LedgerHandler handles the historical members ledger
type LedgerHandler struct {
	BaseHandler
	ledgerService *membership.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *membership.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// ListByYear godoc
// @ID           listLedgerByYear
// @Summary      List a year's ledger
// @Description  Entries are ordered by upload time, newest first, then by name
// @Tags         ledger
// @Produce      json
// @Param        year query string true "Year of membership" example(2024)
// @Success      200 {object} APIResponse[membership.LedgerYearResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/ledger [get]
func (h *LedgerHandler) ListByYear(c *gin.Context) {
	var q dto.YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ledgerService.ListByYear(c.Request.Context(), q.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteByYear godoc
// @ID           deleteLedgerByYear
// @Summary      Delete a year's ledger
// @Description  A year without entries is reported as not found
// @Tags         ledger
// @Produce      json
// @Param        year query string true "Year of membership" example(2024)
// @Success      200 {object} APIResponse[membership.LedgerDeleteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/ledger [delete]
func (h *LedgerHandler) DeleteByYear(c *gin.Context) {
	var q dto.YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ledgerService.DeleteByYear(c.Request.Context(), q.Year)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Years godoc
// @ID           listLedgerYears
// @Summary      List ledger years
// @Description  Every year present in the ledger with its entry count
// @Tags         ledger
// @Produce      json
// @Success      200 {object} APIResponse[[]membership.YearCountResponse]
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/ledger/years [get]
func (h *LedgerHandler) Years(c *gin.Context) {
	years, err := h.ledgerService.Years(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, years)
}

// GetByID godoc
// @ID           getLedgerEntryById
// @Summary      Get a ledger entry
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[membership.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/ledger/{id} [get]
func (h *LedgerHandler) GetByID(c *gin.Context) {
	entry, err := h.ledgerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Delete godoc
// @ID           deleteLedgerEntry
// @Summary      Delete a ledger entry
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/ledger/{id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	if err := h.ledgerService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Ledger entry deleted"})
}

// BulkImport godoc
// @ID           importLedgerJson
// @Summary      Import ledger entries
// @Description  Rows missing a name or year are skipped and reported. At least one row must survive.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body membership.BulkImportRequest true "Rows to import"
// @Success      200 {object} APIResponse[membership.BulkImportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/ledger/import [post]
func (h *LedgerHandler) BulkImport(c *gin.Context) {
	var req membership.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.ledgerService.BulkImport(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ImportCSV godoc
// @ID           importLedgerCsv
// @Summary      Import ledger entries from CSV
// @Description  Header names are matched case-insensitively: name, organisation, email, phone, year
// @Tags         ledger
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Ledger CSV file"
// @Success      200 {object} APIResponse[membership.BulkImportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/ledger/import/csv [post]
func (h *LedgerHandler) ImportCSV(c *gin.Context) {
	var form dto.LedgerCSVImportForm
	if err := c.ShouldBind(&form); err != nil {
		h.BadRequest(c, "A CSV file is required in the 'file' field")
		return
	}

	if form.File.Size > csvimport.MaxLedgerFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge,
			fmt.Sprintf("File exceeds the %d MB limit", csvimport.MaxLedgerFileSize>>20))
		return
	}

	file, err := form.File.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer file.Close()

	result, err := h.ledgerService.ImportCSV(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
