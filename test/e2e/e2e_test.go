// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/database"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/document"
	"fiche-manager/internal/models"
	"fiche-manager/internal/orchestrator"
	"fiche-manager/internal/wizard"
	"fiche-manager/pkg/registry"
)

// The journey tests run the real wizard, synchronizer, renderers and
// controller against in-process backends: miniredis for draft persistence,
// in-memory stores for clients, offers and uploads.

type memClients struct {
	byID map[string]*models.Client
}

func (m *memClients) GetByID(ctx context.Context, id string) (*models.Client, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("client %s not found", id)
	}
	return c, nil
}

type memOffers struct {
	offers []*models.Offer
	packs  map[string]*models.Pack
	fiches map[string]*models.Fiche // keyed offerID/kind
}

func newMemOffers() *memOffers {
	return &memOffers{packs: map[string]*models.Pack{}, fiches: map[string]*models.Fiche{}}
}

func (m *memOffers) FindOpenOffer(ctx context.Context, clientID, userID string) (*models.Offer, error) {
	for _, o := range m.offers {
		if o.ClientID == clientID && o.UserID == userID {
			return o, nil
		}
	}
	return nil, nil
}

func (m *memOffers) CreateOffer(ctx context.Context, offer *models.Offer) error {
	offer.ID = fmt.Sprintf("offer-%d", len(m.offers)+1)
	m.offers = append(m.offers, offer)
	return nil
}

func (m *memOffers) UpsertPack(ctx context.Context, pack *models.Pack) error {
	m.packs[pack.OfferID] = pack
	return nil
}

func (m *memOffers) UpsertFiche(ctx context.Context, fiche *models.Fiche) error {
	m.fiches[fiche.OfferID+"/"+string(fiche.Kind)] = fiche
	return nil
}

type memUploads struct {
	objects map[string][]byte
}

func (m *memUploads) Upload(ctx context.Context, userID, name string, data []byte) (string, string, error) {
	key := "fiches/" + userID + "/" + name + ".pdf"
	m.objects[key] = data
	return key, "https://docs.example.com/" + key, nil
}

type journey struct {
	controller *orchestrator.Controller
	wizard     *wizard.Store
	offers     *memOffers
	uploads    *memUploads
}

func newJourney(t *testing.T) *journey {
	log := logger.NewTestLogger(t)

	mr := miniredis.RunT(t)
	rdb := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	persist, err := wizard.NewRedisPersistence(rdb, "e2e-user", log)
	require.NoError(t, err)
	wiz := wizard.NewStore(context.Background(), persist, log)

	clients := &memClients{byID: map[string]*models.Client{
		"c-acme": {
			ID:           "c-acme",
			Name:         "Acme",
			Siret:        "123 456 789 00010",
			Address:      "4 rue des Usines",
			City:         "Lyon",
			ContactName:  "Jeanne Morel",
			ContactEmail: "j.morel@acme.fr",
		},
	}}
	offers := newMemOffers()
	uploads := &memUploads{objects: map[string][]byte{}}

	renderers := document.NewRenderers(config.DocumentsConfig{
		CompanyName: "Formatech SARL",
		CompanyLine: "12 rue des Ateliers, Lyon",
	}, log)

	reg := &registry.FicheRegistry{
		Version: "1.0",
		Fiches: []registry.FicheType{
			{ID: "programme", DisplayName: "Programme de formation", WizardStep: 3, DossierTypes: []string{"formation", "license"}},
			{ID: "plan", DisplayName: "Plan d'intervention", WizardStep: 4, DossierTypes: []string{"formation"}},
			{ID: "presence", DisplayName: "Feuille de présence", WizardStep: 5, DossierTypes: []string{"formation"}},
			{ID: "evaluation", DisplayName: "Fiche d'évaluation", WizardStep: 6, DossierTypes: []string{"formation"}},
		},
	}

	controller := orchestrator.NewController(wiz, clients, offers, renderers, uploads, nil, reg, nil, log)

	return &journey{controller: controller, wizard: wiz, offers: offers, uploads: uploads}
}

func advance(t *testing.T, j *journey) {
	t.Helper()
	_, alert := j.controller.Advance(context.Background(), "e2e-user")
	require.Nil(t, alert, "step %d should advance", j.wizard.Step())
}

func TestFormationDossierJourney(t *testing.T) {
	j := newJourney(t)
	ctx := context.Background()

	// Step 1: client selection.
	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.Client = models.ClientRef{ID: "c-acme", Name: "Acme"}
		d.DossierType = models.DossierFormation
	}))
	advance(t, j)

	// Step 2: formation selection with a two-instructor schedule.
	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.FormationIDs = []string{"f-sst"}
		d.Formations["f-sst"] = models.FormationDetail{
			Name:       "Sauveteur Secouriste du Travail",
			Reference:  "SST-01",
			Objectives: "Intervenir face à une situation d'accident du travail.",
			Days: []models.ScheduleDay{
				{Label: "Jour 1", Content: "Cadre juridique", TheoryHours: "4", PracticeHours: "3", Intervenant: "Martin"},
				{Label: "Jour 2", Content: "Protéger, examiner", TheoryHours: "3", PracticeHours: "4", Intervenant: "Martin"},
				{Label: "Jour 3", Content: "Secourir, cas concrets", TheoryHours: "2", PracticeHours: "5", Intervenant: "Dupont"},
			},
		}
	}))
	advance(t, j)

	// Step 3: intervention details, then the programme generates.
	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.InterventionDate = "2026-03-02"
		d.InterventionLocation = "Lyon"
	}))
	advance(t, j)
	require.Equal(t, 4, j.wizard.Step())

	// The plan rows were derived on entry: one row per instructor run.
	draft := j.wizard.Draft()
	require.Len(t, draft.Plan.Rows, 2)
	assert.Equal(t, "Martin", draft.Plan.Rows[0].Intervenant)
	assert.Equal(t, "2026-03-02", draft.Plan.Rows[0].StartDate)
	assert.Equal(t, "2026-03-03", draft.Plan.Rows[0].EndDate)
	assert.Equal(t, "Dupont", draft.Plan.Rows[1].Intervenant)
	assert.Equal(t, "2026-03-04", draft.Plan.Rows[1].StartDate)

	// Step 4: plan accepted as derived, generates.
	advance(t, j)
	require.Equal(t, 5, j.wizard.Step())

	// Step 5: fill the attendance sheet.
	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.Presence.Participants = []models.PresenceParticipant{
			{Name: "Durand", Establishment: "Acme"},
			{Name: "Lefevre", Establishment: "Acme"},
		}
	}))
	advance(t, j)
	require.Equal(t, 6, j.wizard.Step())

	// Evaluation rows follow the participant list.
	draft = j.wizard.Draft()
	require.Len(t, draft.Evaluation.Rows, 2)
	assert.Equal(t, "Durand", draft.Evaluation.Rows[0].ParticipantName)

	// Step 6: score the participants, generates the evaluation fiche.
	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		for i := range d.Evaluation.Rows {
			for c := range d.Evaluation.Rows[i].Criteria {
				d.Evaluation.Rows[i].Criteria[c] = "8"
			}
		}
	}))
	advance(t, j)
	require.Equal(t, 7, j.wizard.Step())

	// One offer, one pack, four generated documents, all valid PDFs.
	require.Len(t, j.offers.offers, 1)
	offerID := j.offers.offers[0].ID
	assert.Equal(t, []string{"f-sst"}, j.offers.packs[offerID].FormationIDs)

	require.Len(t, j.offers.fiches, 4)
	for _, kind := range []models.FicheKind{models.FicheProgramme, models.FichePlan, models.FichePresence, models.FicheEvaluation} {
		fiche, ok := j.offers.fiches[offerID+"/"+string(kind)]
		require.True(t, ok, "fiche %s should exist", kind)
		assert.Equal(t, models.StatusDone, fiche.Status)
		assert.NotEmpty(t, fiche.PublicURL)

		data := j.uploads.objects[fiche.StoragePath]
		require.NotEmpty(t, data)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "%s should be a PDF", kind)
	}
}

func TestLicenseDossierJourney(t *testing.T) {
	j := newJourney(t)
	ctx := context.Background()

	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.Client = models.ClientRef{ID: "c-acme", Name: "Acme"}
		d.DossierType = models.DossierLicense
	}))
	advance(t, j)

	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.LicenseLines = []models.LicenseLine{
			{Name: "AutoCAD", Quantity: "4", Serial: "ACD-2211", Invoice: "F-1040"},
			{Name: "AutoCAD", Quantity: "2", Serial: "ACD-2212", Invoice: "F-1041"},
		}
	}))
	advance(t, j)

	require.NoError(t, j.wizard.UpdateDraft(ctx, func(d *models.Draft) {
		d.InterventionDate = "2026-03-02"
		d.InterventionLocation = "Lyon"
	}))
	advance(t, j)

	// A license dossier generates its single intervention document and no pack.
	require.Len(t, j.offers.offers, 1)
	offerID := j.offers.offers[0].ID
	assert.Nil(t, j.offers.packs[offerID])

	require.Len(t, j.offers.fiches, 1)
	fiche := j.offers.fiches[offerID+"/programme"]
	require.NotNil(t, fiche)
	assert.Equal(t, models.StatusDone, fiche.Status)
	assert.True(t, bytes.HasPrefix(j.uploads.objects[fiche.StoragePath], []byte("%PDF")))
}
