package request

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
)

// attributeError turns a binding failure on an attributes struct of type T
// into a 422 pointing at the JSON member.
func attributeError[T any](fe validator.FieldError) error {
	name := jsonName(reflect.TypeFor[T](), fe.StructField())
	return apperror.Invalid("/data/attributes/"+name, validationMessage(name, fe))
}

func jsonName(t reflect.Type, field string) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(field); ok {
			if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
				return name
			}
		}
	}
	return field
}

func validationMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "max":
		return name + " must be at most " + fe.Param() + " characters"
	default:
		return name + " is invalid"
	}
}
