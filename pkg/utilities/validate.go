package utilities

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	mobileRe     = regexp.MustCompile(`^[0-9]{10}$`)
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return mobileRe.MatchString(fl.Field().String())
		})
		// Identifiers of this shape are looked up as mobile numbers.
		_ = validate.RegisterValidation("notmobile", func(fl validator.FieldLevel) bool {
			return !mobileRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks v's `validate` tags. Failures come back as a single
// apperr validation error naming each offending field.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperr.Validation(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "mobile":
		return fmt.Sprintf("%s must be a 10 digit mobile number", fe.Field())
	case "notmobile":
		return fmt.Sprintf("%s must not be a 10 digit number", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
