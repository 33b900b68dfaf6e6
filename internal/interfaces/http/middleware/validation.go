package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mediaassoc/backend/internal/interfaces/http/dto"
)

// SetupValidator makes gin's validator report fields by their json name,
// or the form name for multipart fields, so error details match the payload
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
		}
		return name
	})
}

// HandleValidationError answers 400 ERR_VALIDATION with one detail per
// failed field
func HandleValidationError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	errors.As(err, &fieldErrs)

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	requestID := c.GetString(RequestIDKey)
	if requestID == "" {
		requestID = c.GetHeader(RequestIDHeader)
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", requestID, details))
}

// fieldMessage phrases a failed rule as "<field> <problem>"
func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	var problem string
	switch fe.Tag() {
	case "required":
		problem = "is required"
	case "email":
		problem = "must be a valid email address"
	case "url":
		problem = "must be a valid URL"
	case "uuid":
		problem = "must be a UUID"
	case "numeric":
		problem = "must contain only digits"
	case "oneof":
		problem = "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		problem = "must be at least " + fe.Param() + unit
	case "max", "lte":
		problem = "must be at most " + fe.Param() + unit
	case "len":
		problem = "must be exactly " + fe.Param() + unit
	default:
		problem = "is invalid"
	}
	return fe.Field() + " " + problem
}
