package models

// Address is the public reference data returned for a postal code. It never
// carries guest input.
type Address struct {
	PostalCode string `json:"postal_code"`
	Street     string `json:"street"`
	District   string `json:"district,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
}
