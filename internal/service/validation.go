package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"messenger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateInput runs struct tag validation and folds every failure into a
// single domain.ErrValidation.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return describeField(fe)
	})
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return name + " must not be blank"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", name, fe.Param())
	case "e164":
		return name + " must be an E.164 phone number"
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

type loginInput struct {
	Login string `validate:"notblank,max=50"`
}

func requireLogin(login string) error {
	return validateInput(loginInput{Login: login})
}

type textInput struct {
	Text string `validate:"notblank,max=300"`
}
