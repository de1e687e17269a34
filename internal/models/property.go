package models

import (
	"time"

	"campo-listings/pkg/apiclient"
)

// Operation is the kind of deal a listing is offered under.
type Operation string

const (
	OperationSale Operation = "venta"
	OperationRent Operation = "arriendo"
)

type Currency string

const (
	CurrencyCLP Currency = "CLP"
	CurrencyUF  Currency = "UF"
	CurrencyUSD Currency = "USD"
)

type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "disponible"
	StatusReserved  PropertyStatus = "reservado"
	StatusSold      PropertyStatus = "vendido"
)

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// Property is a rural listing as the API returns and accepts it.
type Property struct {
	ID           string         `json:"id,omitempty" yaml:"id,omitempty"`
	Title        string         `json:"title" yaml:"title" validate:"required,min=5,max=150"`
	Description  string         `json:"description" yaml:"description" validate:"max=5000"`
	Operation    Operation      `json:"operation" yaml:"operation" validate:"required,oneof=venta arriendo"`
	PropertyType string         `json:"property_type" yaml:"property_type" validate:"required,oneof=parcela fundo campo chacra terreno casa"`
	Region       string         `json:"region" yaml:"region" validate:"required"`
	Commune      string         `json:"commune" yaml:"commune" validate:"required"`
	Address      string         `json:"address,omitempty" yaml:"address,omitempty"`
	Hectares     float64        `json:"hectares" yaml:"hectares" validate:"gt=0"`
	Price        float64        `json:"price" yaml:"price" validate:"gt=0"`
	Currency     Currency       `json:"currency" yaml:"currency" validate:"required,oneof=CLP UF USD"`
	Bedrooms     int            `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty" validate:"gte=0"`
	Bathrooms    int            `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty" validate:"gte=0"`
	WaterRights  bool           `json:"water_rights" yaml:"water_rights"`
	Featured     bool           `json:"featured" yaml:"featured"`
	Status       PropertyStatus `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=disponible reservado vendido"`
	Images       []string       `json:"images,omitempty" yaml:"images,omitempty" validate:"dive,url"`
	Coordinates  *Coordinates   `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

type PaginationMeta struct {
	Total      int64 `json:"total" yaml:"total"`
	Page       int   `json:"page" yaml:"page"`
	Limit      int   `json:"limit" yaml:"limit"`
	TotalPages int   `json:"total_pages" yaml:"total_pages"`
}

// PropertyPage is one page of a property listing.
type PropertyPage struct {
	Data []Property     `json:"data" yaml:"data"`
	Meta PaginationMeta `json:"meta" yaml:"meta"`
}

// PropertyFilter narrows a property listing. Zero fields are left out of
// the request.
type PropertyFilter struct {
	Query       string    `json:"q,omitempty"`
	Operation   Operation `json:"operation,omitempty" validate:"omitempty,oneof=venta arriendo"`
	Regions     []string  `json:"region,omitempty"`
	Types       []string  `json:"type,omitempty"`
	MinPrice    *float64  `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice    *float64  `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	MinHectares *float64  `json:"min_hectares,omitempty" validate:"omitempty,gte=0"`
	MaxHectares *float64  `json:"max_hectares,omitempty" validate:"omitempty,gte=0"`
	Featured    *bool     `json:"featured,omitempty"`
	Page        int       `json:"page,omitempty" validate:"gte=0"`
	Limit       int       `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Sort        string    `json:"sort,omitempty" validate:"omitempty,oneof=price -price hectares -hectares created_at -created_at"`
}

// ToQuery converts f into query parameters in a fixed order.
func (f PropertyFilter) ToQuery() *apiclient.Query {
	q := apiclient.NewQuery().
		Set("q", emptyAsNil(f.Query)).
		Set("operation", emptyAsNil(string(f.Operation))).
		Set("region", f.Regions).
		Set("type", f.Types).
		Set("min_price", f.MinPrice).
		Set("max_price", f.MaxPrice).
		Set("min_hectares", f.MinHectares).
		Set("max_hectares", f.MaxHectares).
		Set("featured", f.Featured)
	if f.Page > 0 {
		q.Set("page", f.Page)
	}
	if f.Limit > 0 {
		q.Set("limit", f.Limit)
	}
	q.Set("sort", emptyAsNil(f.Sort))
	return q
}

func emptyAsNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
