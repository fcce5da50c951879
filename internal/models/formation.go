// internal/models/formation.go
package models

// Formation is a training course offering from the catalogue.
type Formation struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Reference     string        `json:"reference,omitempty"`
	Prerequisites string        `json:"prerequisites,omitempty"`
	Objectives    string        `json:"objectives,omitempty"`
	Competencies  string        `json:"competencies,omitempty"`
	Days          []ScheduleDay `json:"days,omitempty"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
}

// ScheduleDay is one calendar day of a formation. Order inside the Days slice
// is the calendar sequence. Hours are free-text numeric-looking strings; anything
// that does not parse counts as zero.
type ScheduleDay struct {
	Label         string `json:"label"`
	Content       string `json:"content,omitempty"`
	Methods       string `json:"methods,omitempty"`
	TheoryHours   string `json:"theoryHours,omitempty"`
	PracticeHours string `json:"practiceHours,omitempty"`
	Intervenant   string `json:"intervenant,omitempty"`
}

// FormationDetail is the editable copy of a formation held inside a draft.
// It starts as a copy of the catalogue record and diverges with user edits.
type FormationDetail struct {
	Name          string        `json:"name"`
	Reference     string        `json:"reference,omitempty"`
	Prerequisites string        `json:"prerequisites,omitempty"`
	Objectives    string        `json:"objectives,omitempty"`
	Competencies  string        `json:"competencies,omitempty"`
	Days          []ScheduleDay `json:"days,omitempty"`
}
