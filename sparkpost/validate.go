package sparkpost

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// validate is shared by all services. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so errors read like the API.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	return v
}

// requireField fails with a ValidationError for field when value is empty: an
// empty string, a nil map or slice, or a nil pointer.
func requireField(field string, value any) error {
	if err := validate.Var(value, "required"); err != nil {
		return &ValidationError{Field: field}
	}
	return nil
}

// requireStruct runs the struct's validate tags and reports the first
// failing field as a ValidationError.
func requireStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field()}
	}
	return err
}

// queryValue renders a caller-supplied query parameter. Lists are
// comma-joined; other values are stringified.
func queryValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case []any:
		return strings.Join(cast.ToStringSlice(val), ",")
	default:
		return cast.ToString(val)
	}
}

// queryFromParams converts free-form search parameters into a query map.
func queryFromParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}

	qs := make(map[string]string, len(params))
	for k, v := range params {
		qs[k] = queryValue(v)
	}
	return qs
}
