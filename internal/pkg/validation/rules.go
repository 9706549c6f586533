package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
)

// Messages maps a JSON field name to the message reported when it fails.
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name so messages line up with request bodies.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("document", isDocument); err != nil {
		panic(err)
	}
	return v
}

// isDocument accepts any JSON value that is present and not empty. Null, an
// empty string, false and zero count as empty; objects and arrays never do.
func isDocument(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.Uint8 {
		return false
	}
	if len(field.Bytes()) == 0 {
		return false
	}

	var v any
	if err := json.Unmarshal(field.Bytes(), &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	}
	return true
}

// Struct validates obj and turns the first failing field into a validation
// error, using messages for its text when the field is listed there.
func Struct(obj any, messages Messages) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		if msg, ok := messages[first.Field()]; ok {
			return apperrors.NewValidationError(msg)
		}
		return apperrors.NewValidationError(formatFieldError(first))
	}

	return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "document":
		return e.Field() + " undefined"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
