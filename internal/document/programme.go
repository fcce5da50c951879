// internal/document/programme.go
package document

import (
	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
	"fiche-manager/internal/sync"
)

// ProgrammeRenderer produces the programme fiche. For formation dossiers it
// prints each selected formation's pedagogical content and day schedule; for
// license dossiers it prints the intervention nature and the license lines.
type ProgrammeRenderer struct {
	cfg    config.DocumentsConfig
	logger logger.Logger
}

func NewProgrammeRenderer(cfg config.DocumentsConfig, log logger.Logger) *ProgrammeRenderer {
	return &ProgrammeRenderer{cfg: cfg, logger: log}
}

func (r *ProgrammeRenderer) Kind() models.FicheKind {
	return models.FicheProgramme
}

func (r *ProgrammeRenderer) Render(draft *models.Draft, client *models.Client) ([]byte, error) {
	title := "Programme de formation"
	if draft.DossierType == models.DossierLicense {
		title = "Fiche d'intervention"
	}

	b := NewBuilder(buildOptions(r.cfg, title))
	clientBlock(b, client)

	if draft.DossierType == models.DossierLicense {
		r.licenseBody(b, draft)
	} else {
		r.formationBody(b, draft)
	}

	out, err := b.Output()
	if err != nil {
		r.logger.WithError(err).Error("programme render failed", map[string]interface{}{
			"client_id": draft.Client.ID,
		})
		return nil, errors.NewRenderFailedError(string(models.FicheProgramme), err)
	}
	return out, nil
}

func (r *ProgrammeRenderer) formationBody(b *Builder, draft *models.Draft) {
	for _, sel := range sync.SelectedFormations(draft) {
		detail := sel.Detail
		b.SectionTitle(detail.Name)
		b.KeyValue("Référence", detail.Reference)
		b.KeyValue("Prérequis", detail.Prerequisites)
		b.Spacer(1)
		b.Paragraph("Objectifs : " + detail.Objectives)
		b.Paragraph("Compétences visées : " + detail.Competencies)

		if len(detail.Days) == 0 {
			b.Spacer(3)
			continue
		}

		table := b.NewTable([]Column{
			{Title: "Jour", Width: 20, Align: "C"},
			{Title: "Contenu", Width: 62, Align: "L"},
			{Title: "Méthodes", Width: 48, Align: "L"},
			{Title: "Théorie (h)", Width: 18, Align: "C"},
			{Title: "Pratique (h)", Width: 18, Align: "C"},
			{Title: "Intervenant", Width: 24, Align: "L"},
		})

		theory, practice := 0.0, 0.0
		for _, day := range detail.Days {
			theory += sync.ParseHours(day.TheoryHours)
			practice += sync.ParseHours(day.PracticeHours)
			table.Row(day.Label, day.Content, day.Methods, day.TheoryHours, day.PracticeHours, day.Intervenant)
		}
		table.TotalRow("Total", "", "", sync.FormatHours(theory), sync.FormatHours(practice), "")
		b.Spacer(5)
	}
}

func (r *ProgrammeRenderer) licenseBody(b *Builder, draft *models.Draft) {
	b.SectionTitle("Nature de l'intervention")
	b.Paragraph(draft.NatureText)
	b.Spacer(2)

	complete := make([]models.LicenseLine, 0, len(draft.LicenseLines))
	for _, line := range draft.LicenseLines {
		if line.Complete() {
			complete = append(complete, line)
		}
	}
	if len(complete) == 0 {
		return
	}

	table := b.NewTable([]Column{
		{Title: "Licence", Width: 70, Align: "L"},
		{Title: "Quantité", Width: 25, Align: "C"},
		{Title: "N° de série", Width: 50, Align: "L"},
		{Title: "Facture", Width: 45, Align: "L"},
	})
	for _, line := range complete {
		table.Row(line.Name, line.Quantity, line.Serial, line.Invoice)
	}
}
