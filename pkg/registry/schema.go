// pkg/registry/schema.go
package registry

// FicheRegistry is the JSON-loaded catalogue of document kinds the wizard
// can generate.
type FicheRegistry struct {
	Version string      `json:"version"`
	Fiches  []FicheType `json:"fiches"`
}

// FicheType describes one generatable document kind.
type FicheType struct {
	ID           string   `json:"id"`          // matches models.FicheKind
	DisplayName  string   `json:"displayName"` // label shown on the dashboard
	WizardStep   int      `json:"wizardStep"`  // step whose completion generates it
	DossierTypes []string `json:"dossierTypes"`
}

// AppliesTo reports whether this fiche is generated for dossiers of the
// given type.
func (f FicheType) AppliesTo(dossierType string) bool {
	for _, dt := range f.DossierTypes {
		if dt == dossierType {
			return true
		}
	}
	return false
}
