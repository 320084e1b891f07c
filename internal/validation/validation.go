package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that reports fields by their json names and
// compares decimal.Decimal fields as numbers.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// FieldErrors flattens validator errors into a field -> message map that
// handlers return alongside a 400.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		if err != nil {
			out["_"] = err.Error()
		}
		return out
	}
	for _, fe := range ves {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "gte":
		return fe.Field() + " must be >= " + fe.Param()
	case "category":
		return fe.Field() + " must be one of the catalog categories"
	default:
		return fe.Field() + " is invalid"
	}
}
