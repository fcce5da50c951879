// internal/sync/nature.go
package sync

import (
	"fmt"
	"strconv"
	"strings"

	"fiche-manager/internal/models"
)

// NatureText regenerates the intervention-nature summary for a license
// dossier. Lines are grouped by license name in first-appearance order with
// quantities summed per name; incomplete lines are skipped. The field is
// read-only in the UI once derived, so this is the single source of the text.
func NatureText(lines []models.LicenseLine, clientName string) string {
	type group struct {
		name     string
		quantity int
	}

	var order []string
	groups := make(map[string]*group)

	for _, line := range lines {
		if !line.Complete() {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(line.Quantity))
		if err != nil {
			qty = 0
		}
		g, ok := groups[line.Name]
		if !ok {
			g = &group{name: line.Name}
			groups[line.Name] = g
			order = append(order, line.Name)
		}
		g.quantity += qty
	}

	if len(order) == 0 {
		return ""
	}

	parts := make([]string, 0, len(order))
	for _, name := range order {
		g := groups[name]
		parts = append(parts, fmt.Sprintf("%d licence(s) %s", g.quantity, g.name))
	}

	return fmt.Sprintf("Installation de %s pour la Société %s",
		strings.Join(parts, " et "), clientName)
}
