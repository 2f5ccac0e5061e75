package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var (
	validate      = newValidator()
	currencyRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)
	slugRegex     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("interval", func(fl validator.FieldLevel) bool {
		return entity.BillingInterval(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currencyRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return entity.SubscriptionStatus(fl.Field().String()).IsValid()
	})
	return v
}

// ValidateRequest runs struct tag validation and reports the first failure as a
// ValidationError.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.NewValidation("", err.Error())
	}
	fe := verrs[0]
	return apperror.NewValidation(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "hexcolor":
		return "must be a hex color"
	case "interval":
		return "must be one of weekly, monthly, quarterly, yearly"
	case "currency":
		return "must be a 3-letter currency code"
	case "slug":
		return "may only contain lowercase letters, digits and hyphens"
	case "status":
		return "must be one of active, paused, cancelled, expired"
	}
	return "is invalid"
}
