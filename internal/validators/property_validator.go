package validators

import (
	"fmt"

	"campo-listings/internal/models"
)

type propertyValidator struct{}

func NewPropertyValidator() PropertyValidator {
	return &propertyValidator{}
}

func (v *propertyValidator) ValidateCreate(property *models.Property) error {
	if property == nil {
		return fmt.Errorf("property is required")
	}
	return Struct(property)
}

func (v *propertyValidator) ValidateUpdate(property *models.Property) error {
	if property == nil {
		return fmt.Errorf("property is required")
	}
	if property.ID == "" {
		return &ValidationError{Fields: []FieldError{{Field: "id", Tag: "required", Message: "id is required"}}}
	}
	return Struct(property)
}

func (v *propertyValidator) ValidateFilter(filter *models.PropertyFilter) error {
	if filter == nil {
		return nil
	}
	if err := Struct(filter); err != nil {
		return err
	}
	var fields []FieldError
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		fields = append(fields, FieldError{Field: "min_price", Tag: "ltefield", Message: "min_price must not exceed max_price"})
	}
	if filter.MinHectares != nil && filter.MaxHectares != nil && *filter.MinHectares > *filter.MaxHectares {
		fields = append(fields, FieldError{Field: "min_hectares", Tag: "ltefield", Message: "min_hectares must not exceed max_hectares"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
