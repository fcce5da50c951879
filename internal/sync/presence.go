// internal/sync/presence.go
package sync

import "fiche-manager/internal/models"

// SeedPresence derives the attendance sheet header from the first plan row.
// Existing participants are kept; a sheet with none gets a single blank line
// so the step never renders an empty table.
func SeedPresence(prev models.PresenceData, rows []models.PlanRow) models.PresenceData {
	next := models.PresenceData{Participants: prev.Participants}

	if len(rows) > 0 {
		first := rows[0]
		next.FormationName = first.FormationName
		next.Intervenant = first.Intervenant
		next.Location = first.Location
		next.StartDate = first.StartDate
		next.EndDate = first.EndDate
		next.DayCount = first.DayCount
	}

	if len(next.Participants) == 0 {
		next.Participants = []models.PresenceParticipant{{}}
	}

	return next
}
