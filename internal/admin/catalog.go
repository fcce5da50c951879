// internal/admin/catalog.go
package admin

import (
	"context"

	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"
	"fiche-manager/internal/search"
)

// ClientStore is the persistence surface of the client admin screens.
type ClientStore interface {
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

// FormationStore is the persistence surface of the formation admin screens.
type FormationStore interface {
	GetByID(ctx context.Context, id string) (*models.Formation, error)
	List(ctx context.Context) ([]models.Formation, error)
	Create(ctx context.Context, f *models.Formation) error
	Update(ctx context.Context, f *models.Formation) error
	Delete(ctx context.Context, id string) error
}

// Indexer mirrors catalog writes into the search cluster.
type Indexer interface {
	IndexClient(ctx context.Context, client *models.Client) error
	IndexFormation(ctx context.Context, formation *models.Formation) error
	DeleteDocument(ctx context.Context, index, id string) error
	SearchClients(ctx context.Context, query string, page search.Page) (*search.Result, error)
	SearchFormations(ctx context.Context, query string, page search.Page) (*search.Result, error)
}

// Catalog fronts the admin CRUD screens for clients and formations. Postgres
// is the source of truth; every successful write is mirrored into the search
// index. Index failures are logged and swallowed, the record is already
// persisted and a stale index entry beats a failed save.
type Catalog struct {
	clients    ClientStore
	formations FormationStore
	index      Indexer
	logger     logger.Logger
}

func NewCatalog(clients ClientStore, formations FormationStore, index Indexer, log logger.Logger) *Catalog {
	return &Catalog{clients: clients, formations: formations, index: index, logger: log}
}

// ==========================
// Clients
// ==========================

func (c *Catalog) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return c.clients.GetByID(ctx, id)
}

func (c *Catalog) ListClients(ctx context.Context) ([]models.Client, error) {
	return c.clients.List(ctx)
}

func (c *Catalog) SearchClients(ctx context.Context, query string, page search.Page) (*search.Result, error) {
	return c.index.SearchClients(ctx, query, page)
}

func (c *Catalog) CreateClient(ctx context.Context, client *models.Client) error {
	if err := c.clients.Create(ctx, client); err != nil {
		return err
	}
	c.mirrorClient(ctx, client)
	return nil
}

func (c *Catalog) UpdateClient(ctx context.Context, client *models.Client) error {
	if err := c.clients.Update(ctx, client); err != nil {
		return err
	}
	c.mirrorClient(ctx, client)
	return nil
}

func (c *Catalog) DeleteClient(ctx context.Context, id string) error {
	if err := c.clients.Delete(ctx, id); err != nil {
		return err
	}
	if err := c.index.DeleteDocument(ctx, search.ClientIndex, id); err != nil {
		c.logger.WithError(err).Warn("client index delete failed", map[string]interface{}{
			"clientId": id,
		})
	}
	return nil
}

func (c *Catalog) mirrorClient(ctx context.Context, client *models.Client) {
	if err := c.index.IndexClient(ctx, client); err != nil {
		c.logger.WithError(err).Warn("client indexing failed", map[string]interface{}{
			"clientId": client.ID,
		})
	}
}

// ==========================
// Formations
// ==========================

func (c *Catalog) GetFormation(ctx context.Context, id string) (*models.Formation, error) {
	return c.formations.GetByID(ctx, id)
}

func (c *Catalog) ListFormations(ctx context.Context) ([]models.Formation, error) {
	return c.formations.List(ctx)
}

func (c *Catalog) SearchFormations(ctx context.Context, query string, page search.Page) (*search.Result, error) {
	return c.index.SearchFormations(ctx, query, page)
}

func (c *Catalog) CreateFormation(ctx context.Context, f *models.Formation) error {
	if err := c.formations.Create(ctx, f); err != nil {
		return err
	}
	c.mirrorFormation(ctx, f)
	return nil
}

func (c *Catalog) UpdateFormation(ctx context.Context, f *models.Formation) error {
	if err := c.formations.Update(ctx, f); err != nil {
		return err
	}
	c.mirrorFormation(ctx, f)
	return nil
}

func (c *Catalog) DeleteFormation(ctx context.Context, id string) error {
	if err := c.formations.Delete(ctx, id); err != nil {
		return err
	}
	if err := c.index.DeleteDocument(ctx, search.FormationIndex, id); err != nil {
		c.logger.WithError(err).Warn("formation index delete failed", map[string]interface{}{
			"formationId": id,
		})
	}
	return nil
}

func (c *Catalog) mirrorFormation(ctx context.Context, f *models.Formation) {
	if err := c.index.IndexFormation(ctx, f); err != nil {
		c.logger.WithError(err).Warn("formation indexing failed", map[string]interface{}{
			"formationId": f.ID,
		})
	}
}
