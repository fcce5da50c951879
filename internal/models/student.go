// internal/models/student.go
package models

// Student is a trainee known to the organisation, selectable as a
// presence participant.
type Student struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Establishment string `json:"establishment,omitempty"`
	Email         string `json:"email,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}
