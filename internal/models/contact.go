package models

// ContactRequest is a lead from the public contact form, optionally about
// one property.
type ContactRequest struct {
	Name       string `json:"name" yaml:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" yaml:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty" validate:"omitempty,phone"`
	Message    string `json:"message" yaml:"message" validate:"required,min=10,max=2000"`
	PropertyID string `json:"property_id,omitempty" yaml:"property_id,omitempty"`
}

// ListingRequest is an owner asking the agency to publish their land.
type ListingRequest struct {
	OwnerName   string    `json:"owner_name" yaml:"owner_name" validate:"required,min=2,max=100"`
	Email       string    `json:"email" yaml:"email" validate:"required,email"`
	Phone       string    `json:"phone" yaml:"phone" validate:"required,phone"`
	Region      string    `json:"region" yaml:"region" validate:"required"`
	Commune     string    `json:"commune" yaml:"commune" validate:"required"`
	Hectares    float64   `json:"hectares" yaml:"hectares" validate:"gt=0"`
	Operation   Operation `json:"operation" yaml:"operation" validate:"required,oneof=venta arriendo"`
	AskingPrice float64   `json:"asking_price,omitempty" yaml:"asking_price,omitempty" validate:"gte=0"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty" validate:"max=2000"`
}

// Ack is the generic acknowledgement returned by write endpoints.
type Ack struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}
