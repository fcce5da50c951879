// internal/models/draft.go
package models

// DossierType selects which wizard path a draft follows.
type DossierType string

const (
	DossierFormation DossierType = "formation"
	DossierLicense   DossierType = "license"
)

// CriteriaCount is the number of evaluation criteria per participant.
const CriteriaCount = 11

// Draft is the single mutable record the wizard accumulates across its seven
// steps. It is serialized as-is to Redis on every mutation and restored on
// startup; all fields must therefore tolerate being absent in old snapshots.
type Draft struct {
	Client       ClientRef                  `json:"client"`
	DossierType  DossierType                `json:"dossierType,omitempty"`
	FormationIDs []string                   `json:"formationIds,omitempty"`
	Formations   map[string]FormationDetail `json:"formations,omitempty"`
	LicenseLines []LicenseLine              `json:"licenseLines,omitempty"`

	InterventionDate     string `json:"interventionDate,omitempty"` // YYYY-MM-DD
	InterventionLocation string `json:"interventionLocation,omitempty"`
	NatureText           string `json:"natureText,omitempty"`

	Plan       PlanData       `json:"plan"`
	Presence   PresenceData   `json:"presence"`
	Evaluation EvaluationData `json:"evaluation"`
}

// PlanData holds the rows of the intervention plan step.
type PlanData struct {
	Rows []PlanRow `json:"rows,omitempty"`
}

// PlanRow is one contiguous same-instructor run of formation days.
type PlanRow struct {
	FormationName string  `json:"formationName"`
	Intervenant   string  `json:"intervenant,omitempty"`
	DayCount      int     `json:"dayCount"`
	DurationHours float64 `json:"durationHours"`
	Location      string  `json:"location,omitempty"`
	StartDate     string  `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate       string  `json:"endDate,omitempty"`
	HoursOfDay    string  `json:"hoursOfDay,omitempty"`
}

// PresenceData holds the attendance step.
type PresenceData struct {
	FormationName string                `json:"formationName,omitempty"`
	Intervenant   string                `json:"intervenant,omitempty"`
	Location      string                `json:"location,omitempty"`
	StartDate     string                `json:"startDate,omitempty"`
	EndDate       string                `json:"endDate,omitempty"`
	DayCount      int                   `json:"dayCount,omitempty"`
	Participants  []PresenceParticipant `json:"participants,omitempty"`
}

// PresenceParticipant is one attendee with per-day attendance marks.
// Marks has one entry per formation day.
type PresenceParticipant struct {
	Name          string   `json:"name"`
	Establishment string   `json:"establishment,omitempty"`
	Marks         []string `json:"marks,omitempty"`
	Details       string   `json:"details,omitempty"`
}

// EvaluationData holds the evaluation step.
type EvaluationData struct {
	Rows []EvaluationRow `json:"rows,omitempty"`
}

// EvaluationRow carries the eleven criterion scores for one participant.
// Scores are free-text "0".."10" strings in half-point steps; the general
// note is derived on read, never stored.
type EvaluationRow struct {
	ParticipantName string   `json:"participantName"`
	Criteria        []string `json:"criteria"`
}

// NewEvaluationRow returns a row with all criteria defaulted to "0".
func NewEvaluationRow(name string) EvaluationRow {
	crit := make([]string, CriteriaCount)
	for i := range crit {
		crit[i] = "0"
	}
	return EvaluationRow{ParticipantName: name, Criteria: crit}
}

// NewDraft returns an empty draft with allocated sub-maps.
func NewDraft() *Draft {
	return &Draft{
		Formations: make(map[string]FormationDetail),
	}
}
