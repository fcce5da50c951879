// internal/sync/plan_test.go
package sync

import (
	"testing"

	"fiche-manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func day(intervenant, theory, practice string) models.ScheduleDay {
	return models.ScheduleDay{
		Label:         "Jour",
		Content:       "Module",
		TheoryHours:   theory,
		PracticeHours: practice,
		Intervenant:   intervenant,
	}
}

func selection(name string, days ...models.ScheduleDay) FormationSelection {
	return FormationSelection{
		ID:     name,
		Detail: models.FormationDetail{Name: name, Days: days},
	}
}

// ==========================
// Plan Row Tests
// ==========================

func TestBuildPlanRows_RunSplitting(t *testing.T) {
	tests := []struct {
		name         string
		selections   []FormationSelection
		startDate    string
		expectedRows int
		validate     func(t *testing.T, rows []models.PlanRow)
	}{
		{
			name: "single instructor yields one row",
			selections: []FormationSelection{
				selection("Habilitation B1V", day("Martin", "3", "4"), day("Martin", "3", "4")),
			},
			startDate:    "2026-03-02",
			expectedRows: 1,
			validate: func(t *testing.T, rows []models.PlanRow) {
				assert.Equal(t, "Martin", rows[0].Intervenant)
				assert.Equal(t, 2, rows[0].DayCount)
				assert.Equal(t, 14.0, rows[0].DurationHours)
				assert.Equal(t, "2026-03-02", rows[0].StartDate)
				assert.Equal(t, "2026-03-03", rows[0].EndDate)
			},
		},
		{
			name: "instructor change splits the run",
			selections: []FormationSelection{
				selection("SST", day("Martin", "7", "0"), day("Dupont", "0", "7"), day("Martin", "7", "0")),
			},
			startDate:    "2026-03-02",
			expectedRows: 3,
			validate: func(t *testing.T, rows []models.PlanRow) {
				assert.Equal(t, "Martin", rows[0].Intervenant)
				assert.Equal(t, "Dupont", rows[1].Intervenant)
				assert.Equal(t, "Martin", rows[2].Intervenant)
				// each following run starts one day after the previous ends
				assert.Equal(t, "2026-03-03", rows[1].StartDate)
				assert.Equal(t, "2026-03-04", rows[2].StartDate)
			},
		},
		{
			name: "runs never span formations",
			selections: []FormationSelection{
				selection("Formation A", day("Martin", "7", "0")),
				selection("Formation B", day("Martin", "7", "0")),
			},
			startDate:    "2026-03-02",
			expectedRows: 2,
			validate: func(t *testing.T, rows []models.PlanRow) {
				assert.Equal(t, "Formation A", rows[0].FormationName)
				assert.Equal(t, "Formation B", rows[1].FormationName)
			},
		},
		{
			name: "empty schedule contributes nothing",
			selections: []FormationSelection{
				selection("Formation vide"),
				selection("Formation A", day("Martin", "7", "0")),
			},
			startDate:    "2026-03-02",
			expectedRows: 1,
		},
		{
			name:         "no selections yields no rows",
			selections:   nil,
			startDate:    "2026-03-02",
			expectedRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := BuildPlanRows(tt.selections, tt.startDate, "Lyon")
			require.Len(t, rows, tt.expectedRows)
			if tt.validate != nil {
				tt.validate(t, rows)
			}
		})
	}
}

func TestBuildPlanRows_DateHandling(t *testing.T) {
	sel := []FormationSelection{
		selection("Formation A", day("Martin", "3h", "4h"), day("Martin", "3,5", "3.5")),
	}

	t.Run("unparseable start date leaves dates empty", func(t *testing.T) {
		rows := BuildPlanRows(sel, "not-a-date", "Lyon")
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].StartDate)
		assert.Empty(t, rows[0].EndDate)
		assert.Equal(t, 14.0, rows[0].DurationHours)
	})

	t.Run("missing start date leaves dates empty", func(t *testing.T) {
		rows := BuildPlanRows(sel, "", "Lyon")
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].StartDate)
	})

	t.Run("location and default hours carried on every row", func(t *testing.T) {
		rows := BuildPlanRows(sel, "2026-03-02", "Lyon")
		require.Len(t, rows, 1)
		assert.Equal(t, "Lyon", rows[0].Location)
		assert.Equal(t, DefaultHoursOfDay, rows[0].HoursOfDay)
	})
}

func TestSelectedFormations(t *testing.T) {
	draft := models.NewDraft()
	draft.FormationIDs = []string{"f2", "f1", "gone"}
	draft.Formations["f1"] = models.FormationDetail{Name: "Formation 1"}
	draft.Formations["f2"] = models.FormationDetail{Name: "Formation 2"}

	sels := SelectedFormations(draft)
	require.Len(t, sels, 2)
	assert.Equal(t, "Formation 2", sels[0].Detail.Name)
	assert.Equal(t, "Formation 1", sels[1].Detail.Name)
}
