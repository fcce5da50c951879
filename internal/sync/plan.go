// internal/sync/plan.go
package sync

import (
	"time"

	"fiche-manager/internal/models"
)

const dateLayout = "2006-01-02"

// DefaultHoursOfDay is printed on plan rows when no explicit hours string
// has been entered.
const DefaultHoursOfDay = "9h00 - 12h30 / 13h30 - 17h00"

// FormationSelection pairs a formation detail with its draft ordering, since
// Draft.Formations is a map but the plan must follow the selection order.
type FormationSelection struct {
	ID     string
	Detail models.FormationDetail
}

// SelectedFormations resolves the draft's ordered formation ids against its
// detail map, skipping ids with no detail (stale selections survive snapshot
// restores).
func SelectedFormations(draft *models.Draft) []FormationSelection {
	out := make([]FormationSelection, 0, len(draft.FormationIDs))
	for _, id := range draft.FormationIDs {
		detail, ok := draft.Formations[id]
		if !ok {
			continue
		}
		out = append(out, FormationSelection{ID: id, Detail: detail})
	}
	return out
}

// BuildPlanRows walks each selected formation's schedule in calendar order
// and partitions it into maximal runs of consecutive days sharing the same
// instructor, emitting one row per run. Hours are the naive sum of the run's
// theory and practice hours. The first run starts at startDate; each
// following run starts one day after the previous run ends. Formations with
// no schedule days contribute nothing.
func BuildPlanRows(selections []FormationSelection, startDate, location string) []models.PlanRow {
	var rows []models.PlanRow

	cursor, haveDate := parseDate(startDate)

	for _, sel := range selections {
		days := sel.Detail.Days
		for i := 0; i < len(days); {
			j := i + 1
			for j < len(days) && days[j].Intervenant == days[i].Intervenant {
				j++
			}

			run := days[i:j]
			hours := 0.0
			for _, d := range run {
				hours += ParseHours(d.TheoryHours) + ParseHours(d.PracticeHours)
			}

			row := models.PlanRow{
				FormationName: sel.Detail.Name,
				Intervenant:   days[i].Intervenant,
				DayCount:      len(run),
				DurationHours: hours,
				Location:      location,
				HoursOfDay:    DefaultHoursOfDay,
			}

			if haveDate {
				end := cursor.AddDate(0, 0, len(run)-1)
				row.StartDate = cursor.Format(dateLayout)
				row.EndDate = end.Format(dateLayout)
				cursor = end.AddDate(0, 0, 1)
			}

			rows = append(rows, row)
			i = j
		}
	}

	return rows
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
