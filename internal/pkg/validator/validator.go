package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Uzbek numbers: +998 followed by 9 digits, spaces and dashes allowed
var phonePattern = regexp.MustCompile(`^\+998[\s-]?\d{2}[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2}$`)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("institution_type", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "school", "kindergarten", "university", "course":
			return true
		}
		return false
	})

	validate.RegisterValidation("admin_role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "super_admin", "admin", "editor", "viewer":
			return true
		}
		return false
	})

	validate.RegisterValidation("uz_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	fieldErrors := make(map[string]string)
	for _, fe := range validationErrors {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fieldErrors[field] = "This field is required"
		case "email":
			fieldErrors[field] = "Invalid email format"
		case "min":
			fieldErrors[field] = "Value is too short (min: " + fe.Param() + ")"
		case "max":
			fieldErrors[field] = "Value is too long (max: " + fe.Param() + ")"
		case "url":
			fieldErrors[field] = "Invalid URL format"
		case "oneof":
			fieldErrors[field] = "Must be one of: " + fe.Param()
		case "institution_type":
			fieldErrors[field] = "Invalid type. Must be: school, kindergarten, university, or course"
		case "admin_role":
			fieldErrors[field] = "Invalid role. Must be: super_admin, admin, editor, or viewer"
		case "uz_phone":
			fieldErrors[field] = "Invalid phone. Expected +998 XX XXX XX XX"
		default:
			fieldErrors[field] = "Invalid value"
		}
	}

	return fieldErrors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
