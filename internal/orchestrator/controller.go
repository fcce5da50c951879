// internal/orchestrator/controller.go
package orchestrator

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/common/metrics"
	"fiche-manager/internal/common/observability"
	"fiche-manager/internal/document"
	"fiche-manager/internal/models"
	"fiche-manager/internal/sync"
	"fiche-manager/internal/translate"
	"fiche-manager/internal/wizard"
	"fiche-manager/pkg/registry"
)

// ClientResolver resolves the full client record at generation time.
type ClientResolver interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
}

// OfferWriter persists the offer/pack/fiche chain.
type OfferWriter interface {
	FindOpenOffer(ctx context.Context, clientID, userID string) (*models.Offer, error)
	CreateOffer(ctx context.Context, offer *models.Offer) error
	UpsertPack(ctx context.Context, pack *models.Pack) error
	UpsertFiche(ctx context.Context, fiche *models.Fiche) error
}

// Uploader stores a rendered document and returns its key and public URL.
type Uploader interface {
	Upload(ctx context.Context, userID, name string, data []byte) (key, publicURL string, err error)
}

// Notifier announces a generated fiche. Failures are best-effort.
type Notifier interface {
	FicheGenerated(ctx context.Context, client *models.Client, offer *models.Offer, fiche *models.Fiche) []error
}

// Controller drives the wizard: it validates the current step, advances or
// retreats, and runs the generate-and-persist transition of generating
// steps. One controller serves one wizard session.
type Controller struct {
	wizard    *wizard.Store
	clients   ClientResolver
	offers    OfferWriter
	renderers map[models.FicheKind]document.Renderer
	uploader  Uploader
	notifier  Notifier
	registry  *registry.FicheRegistry
	alerts    *errors.AlertHandler
	obs       *observability.Observability
	logger    logger.Logger

	translator translate.Translator
	docLang    string

	// rejects a second generate click while one is running
	generating atomic.Bool
}

func NewController(
	wiz *wizard.Store,
	clients ClientResolver,
	offers OfferWriter,
	renderers map[models.FicheKind]document.Renderer,
	uploader Uploader,
	notifier Notifier,
	reg *registry.FicheRegistry,
	obs *observability.Observability,
	log logger.Logger,
) *Controller {
	return &Controller{
		wizard:    wiz,
		clients:   clients,
		offers:    offers,
		renderers: renderers,
		uploader:  uploader,
		notifier:  notifier,
		registry:  reg,
		alerts:    errors.NewAlertHandler(log),
		obs:       obs,
		logger:    log,
	}
}

// WithTranslator localizes document display names before rendering when the
// configured language is not French, the language the templates are authored
// in. Translation failures fall back to the original text.
func (c *Controller) WithTranslator(tr translate.Translator, lang string) *Controller {
	c.translator = tr
	c.docLang = lang
	return c
}

// StageResult reports what a completed stage produced.
type StageResult struct {
	Step     int           `json:"step"`
	Advanced bool          `json:"advanced"`
	Offer    *models.Offer `json:"offer,omitempty"`
	Fiche    *models.Fiche `json:"fiche,omitempty"`
}

// Back retreats one step. Never validates, never fails.
func (c *Controller) Back(ctx context.Context) int {
	metrics.WizardStepTransitions.WithLabelValues("back").Inc()
	return c.wizard.GoBack(ctx)
}

// Advance validates the current step and moves forward. On a generating
// step it runs the full generate-and-persist transition with the stage
// marked complete.
func (c *Controller) Advance(ctx context.Context, userID string) (*StageResult, *errors.UserAlert) {
	draft := c.wizard.Draft()
	step := c.wizard.Step()

	if messages := ValidateStep(draft, step); len(messages) > 0 {
		return nil, errors.NewValidationAlert(messages)
	}

	if c.registry.ByStep(step, string(draft.DossierType)) != nil {
		return c.CompleteStage(ctx, userID, true)
	}

	metrics.WizardStepTransitions.WithLabelValues("next").Inc()
	next := c.wizard.GoNext(ctx)
	c.syncDerived(ctx, next)
	return &StageResult{Step: next, Advanced: true}, nil
}

// syncDerived recomputes what the step being entered derives from earlier
// steps: the nature text from license lines, plan rows from the selected
// schedules, the presence header from the first plan row, evaluation rows
// from the participant list. Re-entering a step reruns the derivation, so
// upstream edits always flow down.
func (c *Controller) syncDerived(ctx context.Context, step int) {
	err := c.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		switch step {
		case 3:
			if d.DossierType == models.DossierLicense {
				d.NatureText = sync.NatureText(d.LicenseLines, d.Client.Name)
			}
		case 4:
			selections := sync.SelectedFormations(d)
			d.Plan.Rows = sync.BuildPlanRows(selections, d.InterventionDate, d.InterventionLocation)
		case 5:
			d.Presence = sync.SeedPresence(d.Presence, d.Plan.Rows)
		case 6:
			d.Evaluation = sync.SyncEvaluations(d.Evaluation, d.Presence.Participants)
		}
	})
	if err != nil {
		c.logger.WithError(err).Warn("derived data sync failed", map[string]interface{}{
			"step": step,
		})
	}
}

// CompleteStage runs the generate-and-persist transition for the current
// step: validate, resolve client, render, upload, persist the record chain,
// notify, then advance (markComplete) or stay (defer). The in-memory draft
// is never rolled back on failure, so the user can retry without re-entering
// data.
func (c *Controller) CompleteStage(ctx context.Context, userID string, markComplete bool) (*StageResult, *errors.UserAlert) {
	if !c.generating.CompareAndSwap(false, true) {
		return nil, c.alerts.Handle("generate", errors.NewGenerationInFlightError())
	}
	defer c.generating.Store(false)

	draft := c.wizard.Draft()
	step := c.wizard.Step()

	ficheType := c.registry.ByStep(step, string(draft.DossierType))
	if ficheType == nil {
		return nil, c.alerts.Handle("generate",
			errors.NewBusinessRuleError("no document is generated at this step", ""))
	}
	kind := models.FicheKind(ficheType.ID)

	if messages := ValidateStep(draft, step); len(messages) > 0 {
		return nil, errors.NewValidationAlert(messages)
	}

	start := time.Now()
	fiche, offer, err := c.generate(ctx, userID, draft, kind, ficheType.DisplayName, markComplete)
	if err != nil {
		metrics.DocumentsFailed.WithLabelValues(string(kind), errorCode(err)).Inc()
		if c.obs != nil {
			c.obs.RecordDocumentGenerated(ctx, string(kind), "failed")
		}
		return nil, c.alerts.Handle("generate", err)
	}

	metrics.DocumentsGenerated.WithLabelValues(string(kind)).Inc()
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if c.obs != nil {
		c.obs.RecordDocumentGenerated(ctx, string(kind), "success")
		c.obs.RecordGenerationDuration(ctx, time.Since(start), string(kind))
	}

	result := &StageResult{Step: step, Offer: offer, Fiche: fiche}
	if markComplete {
		metrics.WizardStepTransitions.WithLabelValues("next").Inc()
		result.Step = c.wizard.GoNext(ctx)
		result.Advanced = true
		c.syncDerived(ctx, result.Step)
	}
	return result, nil
}

// generate is the sequential write chain. A failure partway simply stops;
// the upsert keyed by offer and kind makes a manual retry converge on the
// same records instead of duplicating them.
func (c *Controller) generate(ctx context.Context, userID string, draft *models.Draft, kind models.FicheKind, displayName string, markComplete bool) (*models.Fiche, *models.Offer, error) {
	client, err := c.clients.GetByID(ctx, draft.Client.ID)
	if err != nil {
		return nil, nil, err
	}

	// merge the resolved record back into the draft reference
	draft.Client.Name = client.Name
	if client.ContactName != "" {
		draft.Client.ContactName = client.ContactName
	}

	if c.translator != nil && c.docLang != "" && c.docLang != "fr" {
		displayName = c.translator.Translate(ctx, displayName, c.docLang)
	}

	renderer, ok := c.renderers[kind]
	if !ok {
		return nil, nil, errors.NewBusinessRuleError("unknown document kind", string(kind))
	}
	buf, err := renderer.Render(draft, client)
	if err != nil {
		return nil, nil, err
	}

	key, publicURL, err := c.uploader.Upload(ctx, userID, displayName, buf)
	if err != nil {
		return nil, nil, err
	}

	offer, err := c.offers.FindOpenOffer(ctx, client.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	if offer == nil {
		offer = &models.Offer{ClientID: client.ID, UserID: userID, DossierType: draft.DossierType}
		if err := c.offers.CreateOffer(ctx, offer); err != nil {
			return nil, nil, err
		}
	}

	if draft.DossierType == models.DossierFormation {
		pack := &models.Pack{OfferID: offer.ID, FormationIDs: draft.FormationIDs}
		if err := c.offers.UpsertPack(ctx, pack); err != nil {
			return nil, nil, err
		}
	}

	snapshot, err := json.Marshal(draft)
	if err != nil {
		return nil, nil, err
	}

	status := models.StatusInProgress
	if markComplete {
		status = models.StatusDone
	}
	fiche := &models.Fiche{
		OfferID:     offer.ID,
		Kind:        kind,
		Status:      status,
		PublicURL:   publicURL,
		StoragePath: key,
		Snapshot:    string(snapshot),
	}
	if err := c.offers.UpsertFiche(ctx, fiche); err != nil {
		return nil, nil, err
	}

	// best-effort: notification failures never fail the generation
	if c.notifier != nil {
		c.notifier.FicheGenerated(ctx, client, offer, fiche)
	}

	return fiche, offer, nil
}

func errorCode(err error) string {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return string(stdErr.Code)
	}
	return "INTERNAL_ERROR"
}
