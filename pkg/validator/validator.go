package validator

import (
	"reflect"
	"strings"

	"car-rental-admin/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON name so clients can map errors to payload keys
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return entity.BookingStatus(fl.Field().String()).IsValid()
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				if e.Kind() == reflect.Slice {
					errors[field] = field + " must contain at least " + e.Param() + " item(s)"
				} else {
					errors[field] = field + " must be at least " + e.Param() + " characters"
				}
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "booking_status":
				errors[field] = field + " must be one of " + strings.Join(statusNames(), ", ")
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func statusNames() []string {
	names := make([]string, len(entity.BookingStatuses))
	for i, s := range entity.BookingStatuses {
		names[i] = string(s)
	}
	return names
}
