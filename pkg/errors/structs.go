package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every ValidateStruct call; validator caches struct
// metadata per type.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks v against its `validate` struct tags and reports the
// first violation under code. v must be a struct or a pointer to one.
func ValidateStruct(code Code, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return Wrap(ErrCodeInternal, err, "validate %T", v)
	}
	return New(code, "%s", describe(verrs[0]))
}

func describe(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: field is required", field)
	case "gte", "min":
		return fmt.Sprintf("%s: must be at least %s, got %v", field, e.Param(), e.Value())
	case "lte", "max":
		return fmt.Sprintf("%s: must not exceed %s, got %v", field, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %q", field, e.Param(), fmt.Sprint(e.Value()))
	default:
		return fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
	}
}
