// internal/models/fiche.go
package models

import "time"

// FicheKind identifies one of the four generated documents.
type FicheKind string

const (
	FicheProgramme  FicheKind = "programme"
	FichePlan       FicheKind = "plan"
	FichePresence   FicheKind = "presence"
	FicheEvaluation FicheKind = "evaluation"
)

// FicheStatus is the per-document completion status tracked on the dashboard.
type FicheStatus string

const (
	StatusNotStarted FicheStatus = "not_started"
	StatusInProgress FicheStatus = "in_progress"
	StatusDone       FicheStatus = "done"
)

// Fiche is the backend record for one generated document stage.
// Snapshot carries the full draft JSON at generation time.
type Fiche struct {
	ID          string      `json:"id"`
	OfferID     string      `json:"offerId"`
	Kind        FicheKind   `json:"kind"`
	Status      FicheStatus `json:"status"`
	PublicURL   string      `json:"publicUrl,omitempty"`
	StoragePath string      `json:"storagePath,omitempty"`
	Snapshot    string      `json:"snapshot,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Offer groups one client engagement's set of fiches.
type Offer struct {
	ID          string      `json:"id"`
	ClientID    string      `json:"clientId"`
	UserID      string      `json:"userId"`
	DossierType DossierType `json:"dossierType"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Pack links an offer to its selected formations.
type Pack struct {
	ID           string   `json:"id"`
	OfferID      string   `json:"offerId"`
	FormationIDs []string `json:"formationIds"`
}
