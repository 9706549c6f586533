package middleware

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
	"github.com/yigit/topicreg/internal/pkg/validation"
)

// BindAndValidate decodes the JSON body into obj and validates it. An empty
// body decodes to zero values so required fields report their own message.
func BindAndValidate(c *gin.Context, obj any, messages validation.Messages) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewValidationError("malformed request body")
	}
	return validation.Struct(obj, messages)
}
