package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/db"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
)

// HandleAPIError maps err onto a status code and an {"error": message} body.
// Validation failures, conflicts and missing records on update paths all
// answer 400.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.MessageServiceUnavailable))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(apperrors.Message(err, "validation failed")))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(apperrors.Message(err, "conflict")))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(apperrors.Message(err, "not found")))
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrTokenInvalid, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(apperrors.Message(err, dto.MessageUnauthorized)))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(apperrors.Message(err, dto.MessageForbidden)))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(apperrors.Message(err, dto.MessageSomethingWrong)))
	}
}
