// internal/document/presence.go
package document

import (
	"fmt"
	"strings"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
)

// PresenceRenderer produces the attendance sheet: one row per participant
// with one mark column per formation day.
type PresenceRenderer struct {
	cfg    config.DocumentsConfig
	logger logger.Logger
}

func NewPresenceRenderer(cfg config.DocumentsConfig, log logger.Logger) *PresenceRenderer {
	return &PresenceRenderer{cfg: cfg, logger: log}
}

func (r *PresenceRenderer) Kind() models.FicheKind {
	return models.FichePresence
}

func (r *PresenceRenderer) Render(draft *models.Draft, client *models.Client) ([]byte, error) {
	b := NewBuilder(buildOptions(r.cfg, "Feuille de présence"))
	clientBlock(b, client)

	p := draft.Presence
	b.KeyValue("Formation", p.FormationName)
	b.KeyValue("Intervenant", p.Intervenant)
	b.KeyValue("Lieu", p.Location)
	b.KeyValue("Période", period(p.StartDate, p.EndDate))
	b.Spacer(3)

	participants := nonEmptyParticipants(p.Participants)
	if len(participants) > 0 {
		table := b.NewTable(presenceColumns(p.DayCount))
		for _, part := range participants {
			cells := []string{part.Name, part.Establishment}
			for i := 0; i < p.DayCount; i++ {
				mark := ""
				if i < len(part.Marks) {
					mark = part.Marks[i]
				}
				cells = append(cells, mark)
			}
			cells = append(cells, part.Details)
			table.Row(cells...)
		}
	}

	out, err := b.Output()
	if err != nil {
		r.logger.WithError(err).Error("presence render failed", map[string]interface{}{
			"client_id":    draft.Client.ID,
			"participants": len(participants),
		})
		return nil, errors.NewRenderFailedError(string(models.FichePresence), err)
	}
	return out, nil
}

// presenceColumns spreads the per-day mark columns over whatever width the
// fixed name/establishment/details columns leave free.
func presenceColumns(dayCount int) []Column {
	cols := []Column{
		{Title: "Nom", Width: 45, Align: "L"},
		{Title: "Établissement", Width: 40, Align: "L"},
	}
	detailsWidth := 45.0
	if dayCount > 0 {
		dayWidth := (contentWidth - 45 - 40 - detailsWidth) / float64(dayCount)
		for i := 0; i < dayCount; i++ {
			cols = append(cols, Column{Title: fmt.Sprintf("J%d", i+1), Width: dayWidth, Align: "C"})
		}
	} else {
		detailsWidth = contentWidth - 45 - 40
	}
	cols = append(cols, Column{Title: "Observations", Width: detailsWidth, Align: "L"})
	return cols
}

func nonEmptyParticipants(parts []models.PresenceParticipant) []models.PresenceParticipant {
	out := make([]models.PresenceParticipant, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func period(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	default:
		return start + " au " + end
	}
}
