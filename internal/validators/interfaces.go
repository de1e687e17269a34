package validators

import (
	"campo-listings/internal/models"
)

type PropertyValidator interface {
	ValidateCreate(property *models.Property) error
	ValidateUpdate(property *models.Property) error
	ValidateFilter(filter *models.PropertyFilter) error
}

type ContactValidator interface {
	ValidateContact(req *models.ContactRequest) error
	ValidateListing(req *models.ListingRequest) error
}

type UserValidator interface {
	ValidateLogin(email, password string) error
}
