// internal/admin/catalog_test.go
package admin

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
	"fiche-manager/internal/search"
)

type fakeClientStore struct {
	clients map[string]*models.Client
	err     error
}

func (f *fakeClientStore) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return f.clients[id], f.err
}

func (f *fakeClientStore) List(ctx context.Context) ([]models.Client, error) {
	return nil, f.err
}

func (f *fakeClientStore) Create(ctx context.Context, client *models.Client) error {
	if f.err != nil {
		return f.err
	}
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientStore) Update(ctx context.Context, client *models.Client) error {
	if f.err != nil {
		return f.err
	}
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientStore) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.clients, id)
	return nil
}

type fakeFormationStore struct {
	formations map[string]*models.Formation
}

func (f *fakeFormationStore) GetByID(ctx context.Context, id string) (*models.Formation, error) {
	return f.formations[id], nil
}

func (f *fakeFormationStore) List(ctx context.Context) ([]models.Formation, error) {
	return nil, nil
}

func (f *fakeFormationStore) Create(ctx context.Context, m *models.Formation) error {
	f.formations[m.ID] = m
	return nil
}

func (f *fakeFormationStore) Update(ctx context.Context, m *models.Formation) error {
	f.formations[m.ID] = m
	return nil
}

func (f *fakeFormationStore) Delete(ctx context.Context, id string) error {
	delete(f.formations, id)
	return nil
}

type fakeIndexer struct {
	indexedClients    []string
	indexedFormations []string
	deleted           []string
	err               error
}

func (f *fakeIndexer) IndexClient(ctx context.Context, client *models.Client) error {
	if f.err != nil {
		return f.err
	}
	f.indexedClients = append(f.indexedClients, client.ID)
	return nil
}

func (f *fakeIndexer) IndexFormation(ctx context.Context, formation *models.Formation) error {
	if f.err != nil {
		return f.err
	}
	f.indexedFormations = append(f.indexedFormations, formation.ID)
	return nil
}

func (f *fakeIndexer) DeleteDocument(ctx context.Context, index, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, index+"/"+id)
	return nil
}

func (f *fakeIndexer) SearchClients(ctx context.Context, query string, page search.Page) (*search.Result, error) {
	return &search.Result{}, nil
}

func (f *fakeIndexer) SearchFormations(ctx context.Context, query string, page search.Page) (*search.Result, error) {
	return &search.Result{}, nil
}

func testCatalog(t *testing.T) (*Catalog, *fakeClientStore, *fakeFormationStore, *fakeIndexer) {
	clients := &fakeClientStore{clients: map[string]*models.Client{}}
	formations := &fakeFormationStore{formations: map[string]*models.Formation{}}
	index := &fakeIndexer{}
	return NewCatalog(clients, formations, index, logger.NewTestLogger(t)), clients, formations, index
}

// ==========================
// Catalog Tests
// ==========================

func TestCatalog_ClientWritesMirrorIntoIndex(t *testing.T) {
	catalog, clients, _, index := testCatalog(t)
	ctx := context.Background()

	client := &models.Client{ID: "c-1", Name: "Acme", City: "Lyon"}
	require.NoError(t, catalog.CreateClient(ctx, client))
	require.NotNil(t, clients.clients["c-1"])
	assert.Equal(t, []string{"c-1"}, index.indexedClients)

	client.City = "Paris"
	require.NoError(t, catalog.UpdateClient(ctx, client))
	assert.Equal(t, []string{"c-1", "c-1"}, index.indexedClients)

	require.NoError(t, catalog.DeleteClient(ctx, "c-1"))
	assert.Nil(t, clients.clients["c-1"])
	assert.Equal(t, []string{"clients/c-1"}, index.deleted)
}

func TestCatalog_FormationWritesMirrorIntoIndex(t *testing.T) {
	catalog, _, formations, index := testCatalog(t)
	ctx := context.Background()

	formation := &models.Formation{ID: "f-1", Name: "SST", Reference: "SST-01"}
	require.NoError(t, catalog.CreateFormation(ctx, formation))
	require.NotNil(t, formations.formations["f-1"])
	assert.Equal(t, []string{"f-1"}, index.indexedFormations)

	require.NoError(t, catalog.DeleteFormation(ctx, "f-1"))
	assert.Equal(t, []string{"formations/f-1"}, index.deleted)
}

func TestCatalog_IndexFailureDoesNotFailTheWrite(t *testing.T) {
	catalog, clients, _, index := testCatalog(t)
	index.err = fmt.Errorf("cluster unavailable")

	err := catalog.CreateClient(context.Background(), &models.Client{ID: "c-1", Name: "Acme"})

	require.NoError(t, err, "postgres write succeeded, indexing is best-effort")
	assert.NotNil(t, clients.clients["c-1"])
	assert.Empty(t, index.indexedClients)
}

func TestCatalog_StoreFailureSkipsIndexing(t *testing.T) {
	catalog, clients, _, index := testCatalog(t)
	clients.err = fmt.Errorf("connection reset")

	err := catalog.CreateClient(context.Background(), &models.Client{ID: "c-1", Name: "Acme"})

	require.Error(t, err)
	assert.Empty(t, index.indexedClients)
}
