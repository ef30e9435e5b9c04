package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrBinding indicates the body was not valid JSON for the target type.
	ErrBinding = errors.New("binding failed")

	// ErrValidation indicates the body failed structural validation.
	ErrValidation = errors.New("validation failed")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared request validator. Field names in errors are JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})

	return validate
}

// BindAndValidate decodes the JSON body into v and validates its tags.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// ValidationErrors maps each failing field path to a readable message.
// Paths keep JSON names only: "items[0].category".
func ValidationErrors(err error) map[string]any {
	out := map[string]any{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}

	for _, fe := range verrs {
		out[jsonPath(fe.Namespace())] = validationMessage(fe)
	}

	return out
}

// jsonPath drops the root type and embedded struct names, which are the only
// segments starting with an upper-case letter.
func jsonPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	kept := parts[:0]

	for _, p := range parts {
		if r, _ := utf8.DecodeRuneInString(p); unicode.IsUpper(r) {
			continue
		}

		kept = append(kept, p)
	}

	return strings.Join(kept, ".")
}

var validationMessages = map[string]string{
	"required": "is required",
	"notblank": "must not be blank",
	"oneof":    "must be one of: {param}",
}

func validationMessage(fe validator.FieldError) string {
	switch tag := fe.Tag(); tag {
	case "min", "max":
		suffix := ""
		if fe.Kind() == reflect.String {
			suffix = " characters"
		} else if fe.Kind() == reflect.Slice {
			suffix = " items"
		}

		word := "at least"
		if tag == "max" {
			word = "at most"
		}

		return fmt.Sprintf("must be %s %s%s", word, fe.Param(), suffix)
	default:
		if msg, ok := validationMessages[tag]; ok {
			return strings.ReplaceAll(msg, "{param}", fe.Param())
		}

		return "failed validation: " + tag
	}
}
