package auth

import (
	"wegetchat/domain"
	"wegetchat/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// ValidateRegister checks a registration in a fixed order: both fields present,
// then the normalized username length, then the password length.
// Username uniqueness is left to the identity graph.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return errors.ErrInvalidInput
	}
	if err := validate.Var(domain.NormalizeUsername(req.Username), "min=3"); err != nil {
		return errors.ErrUsernameTooShort
	}
	if err := validate.Var(req.Password, "min=4"); err != nil {
		return errors.ErrPasswordTooShort
	}
	return nil
}
