package models

type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role,omitempty" yaml:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginResponse is returned by a successful admin login.
type LoginResponse struct {
	Token string `json:"token" yaml:"token"`
	User  User   `json:"user" yaml:"user"`
}

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	TotalProperties    int64            `json:"total_properties" yaml:"total_properties"`
	FeaturedProperties int64            `json:"featured_properties" yaml:"featured_properties"`
	ByStatus           map[string]int64 `json:"by_status" yaml:"by_status"`
	PendingContacts    int64            `json:"pending_contacts" yaml:"pending_contacts"`
	PendingListings    int64            `json:"pending_listings" yaml:"pending_listings"`
}
