// internal/sync/nature_test.go
package sync

import (
	"testing"

	"fiche-manager/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNatureText(t *testing.T) {
	tests := []struct {
		name     string
		lines    []models.LicenseLine
		client   string
		expected string
	}{
		{
			name: "single line",
			lines: []models.LicenseLine{
				{Name: "AutoCAD", Quantity: "3"},
			},
			client:   "Acme",
			expected: "Installation de 3 licence(s) AutoCAD pour la Société Acme",
		},
		{
			name: "same name lines are summed",
			lines: []models.LicenseLine{
				{Name: "AutoCAD", Quantity: "3"},
				{Name: "AutoCAD", Quantity: "2"},
			},
			client:   "Acme",
			expected: "Installation de 5 licence(s) AutoCAD pour la Société Acme",
		},
		{
			name: "distinct names joined in first-appearance order",
			lines: []models.LicenseLine{
				{Name: "AutoCAD", Quantity: "3"},
				{Name: "SolidWorks", Quantity: "1"},
				{Name: "AutoCAD", Quantity: "1"},
			},
			client:   "Acme",
			expected: "Installation de 4 licence(s) AutoCAD et 1 licence(s) SolidWorks pour la Société Acme",
		},
		{
			name: "incomplete lines are skipped",
			lines: []models.LicenseLine{
				{Name: "AutoCAD", Quantity: ""},
				{Name: "", Quantity: "2"},
				{Name: "SolidWorks", Quantity: "2"},
			},
			client:   "Acme",
			expected: "Installation de 2 licence(s) SolidWorks pour la Société Acme",
		},
		{
			name:     "no complete lines yields empty text",
			lines:    []models.LicenseLine{{Name: "AutoCAD"}},
			client:   "Acme",
			expected: "",
		},
		{
			name:     "nil lines yields empty text",
			lines:    nil,
			client:   "Acme",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NatureText(tt.lines, tt.client))
		})
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"7", 7},
		{"3.5", 3.5},
		{"3,5", 3.5},
		{" 3,5h ", 3.5},
		{"7h", 7},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseHours(tt.input))
		})
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "7", FormatHours(7))
	assert.Equal(t, "3.5", FormatHours(3.5))
	assert.Equal(t, "14", FormatHours(14.0))
}
