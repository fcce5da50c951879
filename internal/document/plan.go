// internal/document/plan.go
package document

import (
	"strconv"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
	"fiche-manager/internal/sync"
)

// PlanRenderer produces the intervention-plan fiche, one table row per
// contiguous same-instructor run.
type PlanRenderer struct {
	cfg    config.DocumentsConfig
	logger logger.Logger
}

func NewPlanRenderer(cfg config.DocumentsConfig, log logger.Logger) *PlanRenderer {
	return &PlanRenderer{cfg: cfg, logger: log}
}

func (r *PlanRenderer) Kind() models.FicheKind {
	return models.FichePlan
}

func (r *PlanRenderer) Render(draft *models.Draft, client *models.Client) ([]byte, error) {
	b := NewBuilder(buildOptions(r.cfg, "Plan d'intervention"))
	clientBlock(b, client)

	b.KeyValue("Date d'intervention", draft.InterventionDate)
	b.KeyValue("Lieu", draft.InterventionLocation)
	b.Spacer(3)

	rows := draft.Plan.Rows
	if len(rows) > 0 {
		table := b.NewTable([]Column{
			{Title: "Formation", Width: 52, Align: "L"},
			{Title: "Intervenant", Width: 28, Align: "L"},
			{Title: "Jours", Width: 13, Align: "C"},
			{Title: "Durée (h)", Width: 17, Align: "C"},
			{Title: "Début", Width: 20, Align: "C"},
			{Title: "Fin", Width: 20, Align: "C"},
			{Title: "Horaires", Width: 40, Align: "L"},
		})

		days, hours := 0, 0.0
		for _, row := range rows {
			days += row.DayCount
			hours += row.DurationHours
			table.Row(
				row.FormationName,
				row.Intervenant,
				strconv.Itoa(row.DayCount),
				sync.FormatHours(row.DurationHours),
				row.StartDate,
				row.EndDate,
				row.HoursOfDay,
			)
		}
		table.TotalRow("Total", "", strconv.Itoa(days), sync.FormatHours(hours), "", "", "")
	}

	out, err := b.Output()
	if err != nil {
		r.logger.WithError(err).Error("plan render failed", map[string]interface{}{
			"client_id": draft.Client.ID,
			"rows":      len(rows),
		})
		return nil, errors.NewRenderFailedError(string(models.FichePlan), err)
	}
	return out, nil
}
