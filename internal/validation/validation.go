// Package validation holds the contact field rules shared by the API
// handlers and the terminal client, so the two tiers can never diverge.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxNameLength is the length (in runes) a contact name is truncated to
// before the required check runs.
const MaxNameLength = 255

// emailPattern is intentionally loose: local-part, "@", domain with a dot.
// Full RFC validation is out of scope.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrNameRequired = errors.New("Name is required")
	ErrEmailInvalid = errors.New("Valid email is required")
)

// ContactInput carries the mutable contact fields of a create/update request.
type ContactInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,contact_email"`
}

// Normalize trims both fields and truncates the name. It mutates the input
// so the caller persists exactly what was validated.
func (in *ContactInput) Normalize() {
	in.Name = truncate(strings.TrimSpace(in.Name), MaxNameLength)
	in.Email = strings.TrimSpace(in.Email)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Validator wraps go-playground/validator with the contact email rule.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for contact input.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error reporting
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		for i := 0; i < len(name); i++ {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	if err := v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic("failed to register contact_email validation: " + err.Error())
	}

	return &Validator{v: v}
}

// ValidateContact normalizes the input in place and checks it. It returns
// ErrNameRequired or ErrEmailInvalid so callers can surface the message
// verbatim.
func (v *Validator) ValidateContact(in *ContactInput) error {
	in.Normalize()

	err := v.v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "name":
			return ErrNameRequired
		case "email":
			return ErrEmailInvalid
		}
	}
	return err
}
