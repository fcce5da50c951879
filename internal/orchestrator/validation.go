// internal/orchestrator/validation.go
package orchestrator

import (
	"strings"

	"fiche-manager/internal/common/validation"
	"fiche-manager/internal/models"
)

// ==========================
// Per-Step Validation
// ==========================

// clientSchema covers the client-selection step.
var clientSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"clientId":   {Type: "string", MinLength: intPtr(1)},
		"clientName": {Type: "string", MinLength: intPtr(1)},
	},
	Required: []string{"clientId", "clientName"},
}

// detailsSchema covers the common-details step.
var detailsSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"interventionDate":     {Type: "string", MinLength: intPtr(1)},
		"interventionLocation": {Type: "string", MinLength: intPtr(1)},
	},
	Required: []string{"interventionDate", "interventionLocation"},
}

func intPtr(v int) *int { return &v }

// ValidateStep re-runs the field-presence validation for one wizard step and
// returns the full list of human-readable messages. An empty slice means the
// step is valid.
func ValidateStep(draft *models.Draft, step int) []string {
	switch step {
	case 1:
		return validateClient(draft)
	case 2:
		return validateSelection(draft)
	case 3:
		return validateDetails(draft)
	case 4:
		return validatePlan(draft)
	case 5:
		return validatePresence(draft)
	case 6:
		return validateEvaluation(draft)
	default:
		return nil
	}
}

func validateClient(draft *models.Draft) []string {
	result := validation.ValidateInput(map[string]interface{}{
		"clientId":   draft.Client.ID,
		"clientName": draft.Client.Name,
	}, clientSchema)
	if result.Valid {
		return nil
	}
	return []string{"Veuillez sélectionner un client"}
}

func validateSelection(draft *models.Draft) []string {
	var messages []string
	switch draft.DossierType {
	case models.DossierFormation:
		if len(draft.FormationIDs) == 0 {
			messages = append(messages, "Veuillez sélectionner au moins une formation")
		}
	case models.DossierLicense:
		if !hasCompleteLicenseLine(draft.LicenseLines) {
			messages = append(messages, "Veuillez renseigner au moins une licence avec un nom et une quantité")
		}
	default:
		messages = append(messages, "Veuillez choisir un type d'intervention")
	}
	return messages
}

// hasCompleteLicenseLine succeeds when at least one line has both a name and
// a quantity, regardless of how many incomplete lines coexist.
func hasCompleteLicenseLine(lines []models.LicenseLine) bool {
	for _, line := range lines {
		if line.Complete() {
			return true
		}
	}
	return false
}

func validateDetails(draft *models.Draft) []string {
	var messages []string
	result := validation.ValidateInput(map[string]interface{}{
		"interventionDate":     draft.InterventionDate,
		"interventionLocation": draft.InterventionLocation,
	}, detailsSchema)
	if result.HasErrors("interventionDate") {
		messages = append(messages, "Veuillez renseigner la date d'intervention")
	} else if !validation.ValidateDate(draft.InterventionDate) {
		messages = append(messages, "La date d'intervention doit être au format AAAA-MM-JJ")
	}
	if result.HasErrors("interventionLocation") {
		messages = append(messages, "Veuillez renseigner le lieu d'intervention")
	}
	return messages
}

func validatePlan(draft *models.Draft) []string {
	if draft.DossierType != models.DossierFormation {
		return nil
	}
	if len(draft.Plan.Rows) == 0 {
		return []string{"Le plan d'intervention est vide"}
	}
	return nil
}

func validatePresence(draft *models.Draft) []string {
	if draft.DossierType != models.DossierFormation {
		return nil
	}
	for _, p := range draft.Presence.Participants {
		if strings.TrimSpace(p.Name) != "" {
			return nil
		}
	}
	return []string{"Veuillez ajouter au moins un participant"}
}

func validateEvaluation(draft *models.Draft) []string {
	if draft.DossierType != models.DossierFormation {
		return nil
	}
	if len(draft.Evaluation.Rows) == 0 {
		return []string{"Aucune évaluation à générer"}
	}
	return nil
}
