package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator and renders failures as one
// human-readable message. It also satisfies echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their json names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
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
	return &Validator{v: v}
}

// Validate checks i when it is a struct, a pointer to one, or a slice of them.
// Other values (maps, scalars, nil) pass untouched.
func (val *Validator) Validate(i any) error {
	rv := reflect.ValueOf(i)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return val.check(rv, "")
	case reflect.Slice, reflect.Array:
		if !structElems(rv.Type().Elem()) {
			return nil
		}
		for idx := 0; idx < rv.Len(); idx++ {
			elem := rv.Index(idx)
			if elem.Kind() == reflect.Pointer {
				if elem.IsNil() {
					continue
				}
				elem = elem.Elem()
			}
			if err := val.check(elem, fmt.Sprintf("[%d].", idx)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (val *Validator) check(rv reflect.Value, prefix string) error {
	err := val.v.Struct(rv.Interface())
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		top := rv.Type().Name() + "."
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe, top, prefix))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return err
}

func structElems(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError, top, prefix string) string {
	field := strings.TrimPrefix(fe.Namespace(), top)
	if field == "" {
		field = fe.Field()
	}
	field = prefix + field
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
