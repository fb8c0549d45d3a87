package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected form field
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrors is returned when a form fails its schema
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields maps field name to message, for error bodies
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Message
	}
	return out
}

// FormValidator validates typed form structs against their `validate` tags
type FormValidator struct {
	validate *validator.Validate
	options  map[string][]string
	phones   *PhoneValidator
}

// NewFormValidator creates a validator that reports fields by their json names
// and understands the bs_phone rule.
func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	f := &FormValidator{
		validate: v,
		options:  make(map[string][]string),
		phones:   NewPhoneValidator(),
	}

	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("bs_phone", func(fl validator.FieldLevel) bool {
		return f.phones.IsValid(fl.Field().String())
	})

	return f
}

// RegisterOptions adds a rule named tag that accepts only the given values
func (f *FormValidator) RegisterOptions(tag string, options []string) error {
	allowed := make(map[string]struct{}, len(options))
	for _, o := range options {
		allowed[o] = struct{}{}
	}
	f.options[tag] = options

	err := f.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	})
	if err != nil {
		return fmt.Errorf("failed to register %s rule: %w", tag, err)
	}
	return nil
}

// Struct validates form and returns ValidationErrors, or nil when valid
func (f *FormValidator) Struct(form any) error {
	err := f.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: f.message(fe),
		})
	}
	return out
}

// fieldPath drops the struct name prefix: "ApartmentForm.amenities[0]" -> "amenities[0]"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func (f *FormValidator) message(fe validator.FieldError) string {
	if opts, ok := f.options[fe.Tag()]; ok {
		return "must be one of: " + strings.Join(opts, ", ")
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "bs_phone":
		return "must be a valid Bahamas phone number"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eq":
		if fe.Kind() == reflect.Bool {
			return "must be accepted"
		}
		return "must equal " + fe.Param()
	case "min", "gte":
		return "must " + sizeWord(fe.Kind(), "at least", fe.Param())
	case "max", "lte":
		return "must " + sizeWord(fe.Kind(), "at most", fe.Param())
	case "gt":
		return "must be greater than " + fe.Param()
	case "datetime":
		return "must match the format " + fe.Param()
	case "gtefield":
		return "must not be less than " + fe.Param()
	}
	return "is invalid (" + fe.Tag() + ")"
}

func sizeWord(kind reflect.Kind, bound, param string) string {
	switch kind {
	case reflect.String:
		return "have " + bound + " " + param + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "have " + bound + " " + param + " items"
	}
	return "be " + bound + " " + param
}
