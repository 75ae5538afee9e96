package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"reportam/internal/microservices/http-api/dto"
	"reportam/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validation errors report JSON field names
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// respondBindingError writes a 400 listing each failed field and rule
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, dto.FieldError{
				Field: fe.Field(),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Details: details})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
}

// respondServiceError maps service error kinds onto HTTP status codes
func respondServiceError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   err.Error(),
			Details: []dto.FieldError{{Field: fieldErr.Field, Rule: fieldErr.Rule}},
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidNesting):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   err.Error(),
			Details: []dto.FieldError{{Field: "parent_id", Rule: "top_level"}},
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("request_failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
