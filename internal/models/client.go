// internal/models/client.go
package models

// Client is a customer company of the training organisation.
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Siret        string `json:"siret,omitempty"`
	Address      string `json:"address,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	City         string `json:"city,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// ClientRef is the subset of client data carried inside a draft before the
// full record is resolved from the store at generation time.
type ClientRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contactName,omitempty"`
}
