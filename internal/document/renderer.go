// internal/document/renderer.go
package document

import (
	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
)

// Renderer produces the PDF for one fiche kind from the accumulated draft
// plus the fully resolved client record.
type Renderer interface {
	Kind() models.FicheKind
	Render(draft *models.Draft, client *models.Client) ([]byte, error)
}

// NewRenderers builds the full renderer set keyed by fiche kind.
func NewRenderers(cfg config.DocumentsConfig, log logger.Logger) map[models.FicheKind]Renderer {
	return map[models.FicheKind]Renderer{
		models.FicheProgramme:  NewProgrammeRenderer(cfg, log),
		models.FichePlan:       NewPlanRenderer(cfg, log),
		models.FichePresence:   NewPresenceRenderer(cfg, log),
		models.FicheEvaluation: NewEvaluationRenderer(cfg, log),
	}
}

// buildOptions fills the branding options from config for a given title.
func buildOptions(cfg config.DocumentsConfig, title string) Options {
	return Options{
		Title:       title,
		CompanyName: cfg.CompanyName,
		CompanyLine: cfg.CompanyLine,
	}
}

// clientBlock prints the shared client identity block at the top of every
// document. Missing optional fields simply print empty.
func clientBlock(b *Builder, client *models.Client) {
	if client == nil {
		return
	}
	b.SectionTitle("Client")
	b.KeyValue("Société", client.Name)
	b.KeyValue("SIRET", client.Siret)
	b.KeyValue("Adresse", joinNonEmpty(client.Address, client.PostalCode, client.City))
	b.KeyValue("Contact", client.ContactName)
	b.KeyValue("Email", client.ContactEmail)
	b.KeyValue("Téléphone", client.ContactPhone)
	b.Spacer(3)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
