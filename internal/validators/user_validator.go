package validators

import (
	"campo-listings/internal/models"
)

type userValidator struct{}

func NewUserValidator() UserValidator {
	return &userValidator{}
}

func (v *userValidator) ValidateLogin(email, password string) error {
	return Struct(&models.LoginRequest{Email: email, Password: password})
}
