// internal/sync/evaluation.go
package sync

import (
	"math"
	"strconv"
	"strings"

	"fiche-manager/internal/models"
)

// SyncEvaluations reconciles the evaluation rows against the current
// participant names. One row per non-empty name, in participant order;
// rows whose participant still exists keep their scores, new participants
// get a zeroed row, rows for removed participants are dropped. Pure: inputs
// are never mutated.
func SyncEvaluations(prev models.EvaluationData, participants []models.PresenceParticipant) models.EvaluationData {
	byName := make(map[string]models.EvaluationRow, len(prev.Rows))
	for _, row := range prev.Rows {
		if _, seen := byName[row.ParticipantName]; !seen {
			byName[row.ParticipantName] = row
		}
	}

	var rows []models.EvaluationRow
	for _, p := range participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if row, ok := byName[name]; ok {
			rows = append(rows, normalizeRow(row))
			continue
		}
		rows = append(rows, models.NewEvaluationRow(name))
	}

	return models.EvaluationData{Rows: rows}
}

// normalizeRow pads or truncates the criteria slice to the expected length
// without touching the original backing array.
func normalizeRow(row models.EvaluationRow) models.EvaluationRow {
	crit := make([]string, models.CriteriaCount)
	for i := range crit {
		if i < len(row.Criteria) && row.Criteria[i] != "" {
			crit[i] = row.Criteria[i]
		} else {
			crit[i] = "0"
		}
	}
	return models.EvaluationRow{ParticipantName: row.ParticipantName, Criteria: crit}
}

// GeneralNote is the arithmetic mean of a row's criterion scores, rounded to
// one decimal. Unparseable scores count as 0.
func GeneralNote(row models.EvaluationRow) float64 {
	if len(row.Criteria) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range row.Criteria {
		v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(c), ",", ".", 1), 64)
		if err != nil {
			continue
		}
		sum += v
	}
	return math.Round(sum/float64(len(row.Criteria))*10) / 10
}

// FormatNote renders a general note the way the documents print it, with a
// single decimal place.
func FormatNote(note float64) string {
	return strconv.FormatFloat(note, 'f', 1, 64)
}
