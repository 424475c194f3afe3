package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/MagnunAVF/clicklink/internal/apperror"
)

type validator struct {
	v *playground.Validate
}

func newValidator() *validator {
	v := playground.New(playground.WithRequiredStructEnabled())
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &validator{v: v}
}

// bind parses the body into dst and validates it.
func (val *validator) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation("Malformed request body")
	}
	err := val.v.Struct(dst)
	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, describe(fe))
		}
		return apperror.Validation(strings.Join(msgs, "; "))
	}
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
