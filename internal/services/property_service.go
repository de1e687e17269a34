package services

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"campo-listings/internal/models"
	"campo-listings/internal/validators"
	"campo-listings/pkg/apiclient"
	"campo-listings/pkg/logger"
)

const DefaultFeaturedLimit = 6

// ImageUpload is one file sent to UploadImages.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

type PropertyService struct {
	client    APIClient
	validator validators.PropertyValidator
}

func NewPropertyService(client APIClient, validator validators.PropertyValidator) *PropertyService {
	if validator == nil {
		validator = validators.NewPropertyValidator()
	}
	return &PropertyService{client: client, validator: validator}
}

func propertyPath(id string) string {
	return "/properties/" + url.PathEscape(id)
}

// List returns one page of the public catalogue.
func (s *PropertyService) List(ctx context.Context, filter models.PropertyFilter) (*models.PropertyPage, error) {
	if err := s.validator.ValidateFilter(&filter); err != nil {
		return nil, err
	}
	var page models.PropertyPage
	if err := s.client.Get(ctx, "/properties", &page,
		apiclient.WithoutAuth(), apiclient.WithQuery(filter.ToQuery())); err != nil {
		return nil, err
	}
	return &page, nil
}

// Featured returns up to limit featured listings for the home page.
func (s *PropertyService) Featured(ctx context.Context, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	featured := true
	page, err := s.List(ctx, models.PropertyFilter{Featured: &featured, Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	if id == "" {
		return nil, fmt.Errorf("property id is required")
	}
	var property models.Property
	if err := s.client.Get(ctx, propertyPath(id), &property, apiclient.WithoutAuth()); err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *PropertyService) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	if err := s.validator.ValidateCreate(property); err != nil {
		return nil, err
	}
	var created models.Property
	if err := s.client.Post(ctx, "/properties", property, &created); err != nil {
		return nil, err
	}
	logger.GlobalLogger.Printf("Property created: id=%s, title=%s", created.ID, created.Title)
	return &created, nil
}

func (s *PropertyService) Update(ctx context.Context, property *models.Property) (*models.Property, error) {
	if err := s.validator.ValidateUpdate(property); err != nil {
		return nil, err
	}
	var updated models.Property
	if err := s.client.Put(ctx, propertyPath(property.ID), property, &updated); err != nil {
		return nil, err
	}
	logger.GlobalLogger.Printf("Property updated: id=%s", property.ID)
	return &updated, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("property id is required")
	}
	if err := s.client.Delete(ctx, propertyPath(id), nil); err != nil {
		return err
	}
	logger.GlobalLogger.Printf("Property deleted: id=%s", id)
	return nil
}

// UploadImages attaches files to a listing and returns the updated property.
func (s *PropertyService) UploadImages(ctx context.Context, id string, files []ImageUpload) (*models.Property, error) {
	if id == "" {
		return nil, fmt.Errorf("property id is required")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one image is required")
	}
	form := apiclient.NewFormData()
	for _, f := range files {
		form.AddFile("images", f.Filename, f.Body)
	}
	var property models.Property
	if err := s.client.Post(ctx, propertyPath(id)+"/images", form, &property); err != nil {
		return nil, err
	}
	logger.GlobalLogger.Printf("Images uploaded: id=%s, count=%d", id, len(files))
	return &property, nil
}
