package validators

import (
	"fmt"

	"campo-listings/internal/models"
)

type contactValidator struct{}

func NewContactValidator() ContactValidator {
	return &contactValidator{}
}

func (v *contactValidator) ValidateContact(req *models.ContactRequest) error {
	if req == nil {
		return fmt.Errorf("contact request is required")
	}
	return Struct(req)
}

func (v *contactValidator) ValidateListing(req *models.ListingRequest) error {
	if req == nil {
		return fmt.Errorf("listing request is required")
	}
	return Struct(req)
}
