// internal/orchestrator/validation_test.go
package orchestrator

import (
	"testing"

	"fiche-manager/internal/models"

	"github.com/stretchr/testify/assert"
)

func validDraft() *models.Draft {
	draft := models.NewDraft()
	draft.Client = models.ClientRef{ID: "c-1", Name: "Acme"}
	draft.DossierType = models.DossierFormation
	draft.FormationIDs = []string{"f-1"}
	draft.Formations["f-1"] = models.FormationDetail{Name: "SST"}
	draft.InterventionDate = "2026-03-02"
	draft.InterventionLocation = "Lyon"
	draft.Plan.Rows = []models.PlanRow{{FormationName: "SST", DayCount: 1}}
	draft.Presence.Participants = []models.PresenceParticipant{{Name: "Durand"}}
	draft.Evaluation.Rows = []models.EvaluationRow{models.NewEvaluationRow("Durand")}
	return draft
}

func TestValidateStep(t *testing.T) {
	tests := []struct {
		name     string
		step     int
		mutate   func(*models.Draft)
		expected int // message count
	}{
		{"valid draft passes every step", 1, nil, 0},
		{"missing client", 1, func(d *models.Draft) { d.Client = models.ClientRef{} }, 1},
		{"no dossier type", 2, func(d *models.Draft) { d.DossierType = "" }, 1},
		{"formation without selection", 2, func(d *models.Draft) { d.FormationIDs = nil }, 1},
		{"missing date and location", 3, func(d *models.Draft) {
			d.InterventionDate = ""
			d.InterventionLocation = ""
		}, 2},
		{"malformed date", 3, func(d *models.Draft) { d.InterventionDate = "02/03/2026" }, 1},
		{"empty plan", 4, func(d *models.Draft) { d.Plan.Rows = nil }, 1},
		{"only blank participants", 5, func(d *models.Draft) {
			d.Presence.Participants = []models.PresenceParticipant{{Name: "  "}}
		}, 1},
		{"no evaluation rows", 6, func(d *models.Draft) { d.Evaluation.Rows = nil }, 1},
		{"final step never validates", 7, func(d *models.Draft) { *d = *models.NewDraft() }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			if tt.mutate != nil {
				tt.mutate(draft)
			}
			messages := ValidateStep(draft, tt.step)
			assert.Len(t, messages, tt.expected)
		})
	}

	// every step of the valid draft
	for step := 1; step <= 7; step++ {
		assert.Empty(t, ValidateStep(validDraft(), step), "step %d", step)
	}
}

func TestValidateStep_LicenseLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.LicenseLine
		valid bool
	}{
		{"no lines", nil, false},
		{"only incomplete lines", []models.LicenseLine{{Name: "AutoCAD"}, {Quantity: "2"}}, false},
		{"one complete line", []models.LicenseLine{{Name: "AutoCAD", Quantity: "2"}}, true},
		{
			"complete line among incomplete ones",
			[]models.LicenseLine{{Name: "AutoCAD"}, {Name: "SolidWorks", Quantity: "1"}, {}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.DossierType = models.DossierLicense
			draft.LicenseLines = tt.lines

			messages := ValidateStep(draft, 2)
			if tt.valid {
				assert.Empty(t, messages)
			} else {
				assert.Len(t, messages, 1)
			}
		})
	}
}

func TestValidateStep_LicenseSkipsFormationSteps(t *testing.T) {
	draft := validDraft()
	draft.DossierType = models.DossierLicense
	draft.LicenseLines = []models.LicenseLine{{Name: "AutoCAD", Quantity: "2"}}
	draft.Plan.Rows = nil
	draft.Presence.Participants = nil
	draft.Evaluation.Rows = nil

	for _, step := range []int{4, 5, 6} {
		assert.Empty(t, ValidateStep(draft, step), "step %d does not apply to license dossiers", step)
	}
}
