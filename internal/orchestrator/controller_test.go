// internal/orchestrator/controller_test.go
package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/database"
	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/document"
	"fiche-manager/internal/models"
	"fiche-manager/internal/wizard"
	"fiche-manager/pkg/registry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeClients struct {
	client *models.Client
	err    error
}

func (f *fakeClients) GetByID(ctx context.Context, id string) (*models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

type fakeOffers struct {
	open   *models.Offer
	offers []*models.Offer
	packs  []*models.Pack
	fiches []*models.Fiche
	failAt string
}

func (f *fakeOffers) FindOpenOffer(ctx context.Context, clientID, userID string) (*models.Offer, error) {
	return f.open, nil
}

func (f *fakeOffers) CreateOffer(ctx context.Context, offer *models.Offer) error {
	if f.failAt == "offer" {
		return errors.NewDatabaseInsertFailedError(fmt.Errorf("offers down"))
	}
	offer.ID = "o-1"
	f.offers = append(f.offers, offer)
	return nil
}

func (f *fakeOffers) UpsertPack(ctx context.Context, pack *models.Pack) error {
	if f.failAt == "pack" {
		return errors.NewDatabaseInsertFailedError(fmt.Errorf("packs down"))
	}
	f.packs = append(f.packs, pack)
	return nil
}

func (f *fakeOffers) UpsertFiche(ctx context.Context, fiche *models.Fiche) error {
	if f.failAt == "fiche" {
		return errors.NewDatabaseInsertFailedError(fmt.Errorf("fiches down"))
	}
	f.fiches = append(f.fiches, fiche)
	return nil
}

type fakeUploader struct {
	uploads  int
	lastName string
	err      error
}

func (f *fakeUploader) Upload(ctx context.Context, userID, name string, data []byte) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.uploads++
	f.lastName = name
	return "fiches/" + userID + "/doc.pdf", "https://docs.example.com/doc.pdf", nil
}

type fakeNotifier struct {
	notified []*models.Fiche
}

func (f *fakeNotifier) FicheGenerated(ctx context.Context, client *models.Client, offer *models.Offer, fiche *models.Fiche) []error {
	f.notified = append(f.notified, fiche)
	return nil
}

func testRegistry() *registry.FicheRegistry {
	return &registry.FicheRegistry{
		Version: "1.0",
		Fiches: []registry.FicheType{
			{ID: "programme", DisplayName: "Programme de formation", WizardStep: 3, DossierTypes: []string{"formation", "license"}},
			{ID: "plan", DisplayName: "Plan d'intervention", WizardStep: 4, DossierTypes: []string{"formation"}},
			{ID: "presence", DisplayName: "Feuille de présence", WizardStep: 5, DossierTypes: []string{"formation"}},
			{ID: "evaluation", DisplayName: "Fiche d'évaluation", WizardStep: 6, DossierTypes: []string{"formation"}},
		},
	}
}

func testWizard(t *testing.T) *wizard.Store {
	mr := miniredis.RunT(t)
	rdb := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	p, err := wizard.NewRedisPersistence(rdb, "u-1", logger.NewTestLogger(t))
	require.NoError(t, err)
	return wizard.NewStore(context.Background(), p, logger.NewTestLogger(t))
}

type testEnv struct {
	controller *Controller
	wizard     *wizard.Store
	offers     *fakeOffers
	uploader   *fakeUploader
	notifier   *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	log := logger.NewTestLogger(t)
	wiz := testWizard(t)
	offers := &fakeOffers{}
	uploader := &fakeUploader{}
	notifier := &fakeNotifier{}
	clients := &fakeClients{client: &models.Client{ID: "c-1", Name: "Acme", ContactName: "Jeanne Morel", ContactEmail: "j@acme.fr"}}

	renderers := document.NewRenderers(config.DocumentsConfig{
		CompanyName: "Formatech SARL",
		CompanyLine: "12 rue des Ateliers, Lyon",
	}, log)

	return &testEnv{
		controller: NewController(wiz, clients, offers, renderers, uploader, notifier, testRegistry(), nil, log),
		wizard:     wiz,
		offers:     offers,
		uploader:   uploader,
		notifier:   notifier,
	}
}

// fillFormationDraft loads a valid formation dossier and walks to step 3,
// the first generating step.
func fillFormationDraft(t *testing.T, env *testEnv) {
	ctx := context.Background()
	require.NoError(t, env.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.Client = models.ClientRef{ID: "c-1", Name: "Acme"}
		d.DossierType = models.DossierFormation
		d.FormationIDs = []string{"f-1"}
		d.Formations["f-1"] = models.FormationDetail{
			Name: "SST",
			Days: []models.ScheduleDay{{Label: "Jour 1", TheoryHours: "7", Intervenant: "Martin"}},
		}
		d.InterventionDate = "2026-03-02"
		d.InterventionLocation = "Lyon"
	}))

	_, alert := env.controller.Advance(ctx, "u-1")
	require.Nil(t, alert)
	_, alert = env.controller.Advance(ctx, "u-1")
	require.Nil(t, alert)
	require.Equal(t, 3, env.wizard.Step())
}

// ==========================
// Controller Tests
// ==========================

func TestController_Advance_ValidationFailure(t *testing.T) {
	env := newTestEnv(t)

	result, alert := env.controller.Advance(context.Background(), "u-1")
	assert.Nil(t, result)
	require.NotNil(t, alert)
	assert.NotEmpty(t, alert.Messages, "all messages surfaced together")
	assert.Equal(t, 1, env.wizard.Step(), "state untouched on validation failure")
}

func TestController_CompleteStage_GeneratesAndAdvances(t *testing.T) {
	env := newTestEnv(t)
	fillFormationDraft(t, env)

	result, alert := env.controller.Advance(context.Background(), "u-1")
	require.Nil(t, alert)
	require.NotNil(t, result)

	assert.True(t, result.Advanced)
	assert.Equal(t, 4, result.Step)
	require.NotNil(t, result.Fiche)
	assert.Equal(t, models.FicheProgramme, result.Fiche.Kind)
	assert.Equal(t, models.StatusDone, result.Fiche.Status)
	assert.NotEmpty(t, result.Fiche.Snapshot)
	assert.Equal(t, "https://docs.example.com/doc.pdf", result.Fiche.PublicURL)

	assert.Equal(t, 1, env.uploader.uploads)
	require.Len(t, env.offers.offers, 1, "offer created on first generation")
	require.Len(t, env.offers.packs, 1, "pack written for formation dossiers")
	assert.Equal(t, []string{"f-1"}, env.offers.packs[0].FormationIDs)
	require.Len(t, env.notifier.notified, 1)
}

func TestController_CompleteStage_Defer(t *testing.T) {
	env := newTestEnv(t)
	fillFormationDraft(t, env)

	result, alert := env.controller.CompleteStage(context.Background(), "u-1", false)
	require.Nil(t, alert)

	assert.False(t, result.Advanced)
	assert.Equal(t, 3, env.wizard.Step(), "deferred stage does not advance")
	assert.Equal(t, models.StatusInProgress, result.Fiche.Status)
}

func TestController_CompleteStage_UploadFailure(t *testing.T) {
	env := newTestEnv(t)
	fillFormationDraft(t, env)
	env.uploader.err = errors.NewUploadFailedError(fmt.Errorf("bucket gone"))

	result, alert := env.controller.Advance(context.Background(), "u-1")
	assert.Nil(t, result)
	require.NotNil(t, alert)
	assert.Empty(t, alert.Messages, "backend failures collapse into a single message")

	assert.Equal(t, 3, env.wizard.Step(), "no advance on failure")
	assert.Equal(t, "Lyon", env.wizard.Draft().InterventionLocation, "draft not rolled back")

	// retry after the failure converges
	env.uploader.err = nil
	result, alert = env.controller.Advance(context.Background(), "u-1")
	require.Nil(t, alert)
	assert.Equal(t, models.StatusDone, result.Fiche.Status)
}

func TestController_CompleteStage_PartialWriteNotRolledBack(t *testing.T) {
	env := newTestEnv(t)
	fillFormationDraft(t, env)
	env.offers.failAt = "fiche"

	_, alert := env.controller.Advance(context.Background(), "u-1")
	require.NotNil(t, alert)

	assert.Len(t, env.offers.offers, 1, "offer row survives the partial failure")
	assert.Len(t, env.offers.packs, 1)
	assert.Empty(t, env.offers.fiches)
	assert.Empty(t, env.notifier.notified, "no notification for a failed generation")
}

func TestController_InFlightGuard(t *testing.T) {
	env := newTestEnv(t)
	fillFormationDraft(t, env)

	env.controller.generating.Store(true)
	_, alert := env.controller.CompleteStage(context.Background(), "u-1", true)
	require.NotNil(t, alert)
	assert.Equal(t, string(errors.ErrCodeGenerationInFlight), alert.Code)
	assert.Zero(t, env.uploader.uploads)

	env.controller.generating.Store(false)
	_, alert = env.controller.CompleteStage(context.Background(), "u-1", true)
	assert.Nil(t, alert)
}

func TestController_LicenseDossier_SingleTerminalGenerate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.Client = models.ClientRef{ID: "c-1", Name: "Acme"}
		d.DossierType = models.DossierLicense
		d.LicenseLines = []models.LicenseLine{{Name: "AutoCAD", Quantity: "3"}}
		d.InterventionDate = "2026-03-02"
		d.InterventionLocation = "Lyon"
	}))

	_, alert := env.controller.Advance(ctx, "u-1")
	require.Nil(t, alert)
	_, alert = env.controller.Advance(ctx, "u-1")
	require.Nil(t, alert)

	result, alert := env.controller.Advance(ctx, "u-1")
	require.Nil(t, alert)
	require.NotNil(t, result.Fiche)
	assert.Equal(t, models.FicheProgramme, result.Fiche.Kind)
	assert.Empty(t, env.offers.packs, "license dossiers write no pack")
}

func TestController_Back(t *testing.T) {
	env := newTestEnv(t)
	fillFormationDraft(t, env)

	assert.Equal(t, 2, env.controller.Back(context.Background()))
	assert.Equal(t, 1, env.controller.Back(context.Background()))
	assert.Equal(t, 1, env.controller.Back(context.Background()), "bounded at the first step")
}

func TestController_DerivedDataFollowsAdvance(t *testing.T) {
	env := newTestEnv(t)
	fillFormationDraft(t, env)

	_, alert := env.controller.CompleteStage(context.Background(), "u-1", true)
	require.Nil(t, alert)
	require.Equal(t, 4, env.wizard.Step())

	// Entering the plan step derived its rows from the schedule.
	draft := env.wizard.Draft()
	require.Len(t, draft.Plan.Rows, 1)
	assert.Equal(t, "Martin", draft.Plan.Rows[0].Intervenant)
	assert.Equal(t, "2026-03-02", draft.Plan.Rows[0].StartDate)
	assert.Equal(t, 7.0, draft.Plan.Rows[0].DurationHours)
}

type fakeTranslator struct {
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLang string) string {
	f.calls++
	return "[" + targetLang + "] " + text
}

func TestController_Translator(t *testing.T) {
	t.Run("localizes the display name", func(t *testing.T) {
		env := newTestEnv(t)
		fillFormationDraft(t, env)

		tr := &fakeTranslator{}
		env.controller.WithTranslator(tr, "en")

		_, alert := env.controller.CompleteStage(context.Background(), "u-1", true)
		require.Nil(t, alert)
		assert.Equal(t, 1, tr.calls)
		assert.Equal(t, "[en] Programme de formation", env.uploader.lastName)
	})

	t.Run("skipped for french", func(t *testing.T) {
		env := newTestEnv(t)
		fillFormationDraft(t, env)

		tr := &fakeTranslator{}
		env.controller.WithTranslator(tr, "fr")

		_, alert := env.controller.CompleteStage(context.Background(), "u-1", true)
		require.Nil(t, alert)
		assert.Zero(t, tr.calls)
		assert.Equal(t, "Programme de formation", env.uploader.lastName)
	})
}
