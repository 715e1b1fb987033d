package handlers

import (
	"errors"
	"fmt"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/services"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// nodepath: a slot address made of '0' (upper) and '1' (lower) steps.
	_ = validate.RegisterValidation("nodepath", func(fl validator.FieldLevel) bool {
		_, err := brackets.ParsePath(fl.Field().String())
		return err == nil
	})
}

// validateInput runs struct tags on v and reports failures as a ValidationError.
func validateInput(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() != "" {
			details = append(details, fmt.Sprintf("%s: failed on %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		details = append(details, fmt.Sprintf("%s: failed on %s", fe.Namespace(), fe.Tag()))
	}
	return &services.ValidationError{Summary: "Validation of request failed", Errors: details}
}
