// internal/document/evaluation.go
package document

import (
	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
	"fiche-manager/internal/sync"
)

// criteriaLabels are the eleven evaluation criteria, in score order.
var criteriaLabels = [models.CriteriaCount]string{
	"Organisation et accueil",
	"Conformité au programme annoncé",
	"Clarté du contenu",
	"Qualité des supports pédagogiques",
	"Équilibre théorie / pratique",
	"Compétence de l'intervenant",
	"Disponibilité de l'intervenant",
	"Rythme de la formation",
	"Adéquation aux besoins professionnels",
	"Conditions matérielles",
	"Satisfaction globale",
}

// EvaluationRenderer produces the evaluation fiche: one scored block per
// participant with the derived general note.
type EvaluationRenderer struct {
	cfg    config.DocumentsConfig
	logger logger.Logger
}

func NewEvaluationRenderer(cfg config.DocumentsConfig, log logger.Logger) *EvaluationRenderer {
	return &EvaluationRenderer{cfg: cfg, logger: log}
}

func (r *EvaluationRenderer) Kind() models.FicheKind {
	return models.FicheEvaluation
}

func (r *EvaluationRenderer) Render(draft *models.Draft, client *models.Client) ([]byte, error) {
	b := NewBuilder(buildOptions(r.cfg, "Fiche d'évaluation"))
	clientBlock(b, client)

	b.KeyValue("Formation", draft.Presence.FormationName)
	b.KeyValue("Intervenant", draft.Presence.Intervenant)
	b.Spacer(3)

	for _, row := range draft.Evaluation.Rows {
		b.SectionTitle(row.ParticipantName)
		table := b.NewTable([]Column{
			{Title: "Critère", Width: 150, Align: "L"},
			{Title: "Note / 10", Width: 40, Align: "C"},
		})
		for i, label := range criteriaLabels {
			score := "0"
			if i < len(row.Criteria) && row.Criteria[i] != "" {
				score = row.Criteria[i]
			}
			table.Row(label, score)
		}
		table.TotalRow("Note générale", sync.FormatNote(sync.GeneralNote(row)))
		b.Spacer(5)
	}

	out, err := b.Output()
	if err != nil {
		r.logger.WithError(err).Error("evaluation render failed", map[string]interface{}{
			"client_id": draft.Client.ID,
			"rows":      len(draft.Evaluation.Rows),
		})
		return nil, errors.NewRenderFailedError(string(models.FicheEvaluation), err)
	}
	return out, nil
}
