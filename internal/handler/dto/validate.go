package dto

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/inkpost/inkpost/internal/service"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// minbytes counts bytes where the built-in min counts runes.
	mustRegister(v, "minbytes", minBytes)
	return v
}

// mustRegister panics when a custom rule cannot be installed.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("dto: register %q validation: %v", tag, err))
	}
}

func minBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) >= n
}

// ruleSet maps validator failures to client messages. A missing required
// field always wins over a format failure.
type ruleSet struct {
	required string
	// rules is keyed by "<StructField>.<tag>"
	rules map[string]string
}

var (
	signupRules = ruleSet{
		required: "Email, password, and name are required",
		rules: map[string]string{
			"Email.email":       "Invalid email format",
			"Password.minbytes": "Password must be at least 6 characters",
		},
	}
	loginRules      = ruleSet{required: "Email and password are required"}
	createPostRules = ruleSet{required: "Title and body are required"}
)

// Validate checks required fields and formats.
func (r SignupRequest) Validate() error {
	return check(r, signupRules)
}

// Validate checks required fields.
func (r LoginRequest) Validate() error {
	return check(r, loginRules)
}

// Validate checks required fields.
func (r CreatePostRequest) Validate() error {
	return check(r, createPostRules)
}

func check(req any, rs ruleSet) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return service.NewValidationError(rs.required)
		}
	}
	for _, fe := range fieldErrs {
		if msg, ok := rs.rules[fe.StructField()+"."+fe.Tag()]; ok {
			return service.NewValidationError(msg)
		}
	}
	return service.NewValidationError(rs.required)
}
