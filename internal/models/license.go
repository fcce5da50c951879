// internal/models/license.go
package models

// License is a software license product from the catalogue.
type License struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Vendor    string `json:"vendor,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// LicenseLine is one line of a license installation dossier. A line is
// complete when it has both a name and a quantity; incomplete lines are
// tolerated in the draft and skipped everywhere downstream.
type LicenseLine struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Serial   string `json:"serial,omitempty"`
	Invoice  string `json:"invoice,omitempty"`
}

// Complete reports whether the line carries both a name and a quantity.
func (l LicenseLine) Complete() bool {
	return l.Name != "" && l.Quantity != ""
}
