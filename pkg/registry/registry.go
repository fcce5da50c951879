// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func Load(path string) (*FicheRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FicheRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	if err := reg.validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *FicheRegistry) validate() error {
	seen := make(map[string]bool, len(r.Fiches))
	for _, f := range r.Fiches {
		if f.ID == "" {
			return fmt.Errorf("registry entry missing id")
		}
		if seen[f.ID] {
			return fmt.Errorf("duplicate registry entry %q", f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

// ByStep returns the fiche generated at the given wizard step for the given
// dossier type, or nil when the step has no generation transition.
func (r *FicheRegistry) ByStep(step int, dossierType string) *FicheType {
	for i := range r.Fiches {
		f := &r.Fiches[i]
		if f.WizardStep == step && f.AppliesTo(dossierType) {
			return f
		}
	}
	return nil
}

// ForDossier lists the fiches a dossier of the given type produces, in
// wizard-step order as declared.
func (r *FicheRegistry) ForDossier(dossierType string) []FicheType {
	var out []FicheType
	for _, f := range r.Fiches {
		if f.AppliesTo(dossierType) {
			out = append(out, f)
		}
	}
	return out
}
