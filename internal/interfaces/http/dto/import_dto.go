package dto

import "mime/multipart"

// LedgerCSVImportForm is the multipart form of a ledger CSV import
type LedgerCSVImportForm struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// UploadForm is the multipart form of a file upload
type UploadForm struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// YearQuery selects a ledger year
type YearQuery struct {
	Year string `form:"year"`
}
