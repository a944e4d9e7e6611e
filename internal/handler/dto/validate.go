// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// mobilePattern matches mainland mobile numbers, the format the original
// storefront accepts.
var mobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// usernamePattern matches 5-20 word characters.
var usernamePattern = regexp.MustCompile(`^\w{5,20}$`)

// validate is the shared validator instance with custom rules registered.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Custom rules are pattern checks; registration only fails for
	// programming errors (empty tag, nil fn), so panicking here is fine.
	mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// Validate checks the struct's validate tags and returns a caller-facing
// error naming the first offending field.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("field %s failed validation (%s)", fe.Field(), fe.Tag())
	}

	return err
}
