package services

import (
	"context"

	"campo-listings/internal/models"
	"campo-listings/internal/validators"
	"campo-listings/pkg/apiclient"
	"campo-listings/pkg/logger"
)

// ContactService sends the public lead forms.
type ContactService struct {
	client    APIClient
	validator validators.ContactValidator
}

func NewContactService(client APIClient, validator validators.ContactValidator) *ContactService {
	if validator == nil {
		validator = validators.NewContactValidator()
	}
	return &ContactService{client: client, validator: validator}
}

func (s *ContactService) Submit(ctx context.Context, req *models.ContactRequest) (*models.Ack, error) {
	if err := s.validator.ValidateContact(req); err != nil {
		return nil, err
	}
	var ack models.Ack
	if err := s.client.Post(ctx, "/contact", req, &ack, apiclient.WithoutAuth()); err != nil {
		return nil, err
	}
	logger.GlobalLogger.Debugf("Contact request sent: email=%s, property_id=%s", req.Email, req.PropertyID)
	return &ack, nil
}

func (s *ContactService) SubmitListing(ctx context.Context, req *models.ListingRequest) (*models.Ack, error) {
	if err := s.validator.ValidateListing(req); err != nil {
		return nil, err
	}
	var ack models.Ack
	if err := s.client.Post(ctx, "/listing-requests", req, &ack, apiclient.WithoutAuth()); err != nil {
		return nil, err
	}
	logger.GlobalLogger.Debugf("Listing request sent: email=%s, region=%s", req.Email, req.Region)
	return &ack, nil
}
