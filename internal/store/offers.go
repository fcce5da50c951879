// internal/store/offers.go
package store

import (
	"context"
	"database/sql"
	"time"

	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"

	"github.com/google/uuid"
)

// OfferRepo persists the offer/pack/fiche chain written at generation time.
// Fiches are upserted keyed by (offer_id, kind) so a retried generation
// converges on the same row instead of duplicating it.
type OfferRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func (r *OfferRepo) CreateOffer(ctx context.Context, offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO offers (id, client_id, user_id, dossier_type, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		offer.ID, offer.ClientID, offer.UserID, string(offer.DossierType), offer.CreatedAt)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *OfferRepo) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	var o models.Offer
	var dossierType string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, client_id, user_id, dossier_type, created_at FROM offers WHERE id = $1`, id).
		Scan(&o.ID, &o.ClientID, &o.UserID, &dossierType, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("offer", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("offers", err)
	}
	o.DossierType = models.DossierType(dossierType)
	return &o, nil
}

// FindOpenOffer returns the newest offer for a client and user whose fiches
// are not all done, or nil when none exists.
func (r *OfferRepo) FindOpenOffer(ctx context.Context, clientID, userID string) (*models.Offer, error) {
	var o models.Offer
	var dossierType string
	err := r.db.QueryRowContext(ctx,
		`SELECT o.id, o.client_id, o.user_id, o.dossier_type, o.created_at
		FROM offers o
		WHERE o.client_id = $1 AND o.user_id = $2
		  AND EXISTS (SELECT 1 FROM fiches f WHERE f.offer_id = o.id AND f.status <> 'done')
		ORDER BY o.created_at DESC
		LIMIT 1`, clientID, userID).
		Scan(&o.ID, &o.ClientID, &o.UserID, &dossierType, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("offers", err)
	}
	o.DossierType = models.DossierType(dossierType)
	return &o, nil
}

func (r *OfferRepo) UpsertPack(ctx context.Context, pack *models.Pack) error {
	if pack.ID == "" {
		pack.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO packs (id, offer_id, formation_ids)
		VALUES ($1, $2, $3)
		ON CONFLICT (offer_id) DO UPDATE SET formation_ids = EXCLUDED.formation_ids`,
		pack.ID, pack.OfferID, pqStringArray(pack.FormationIDs))
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *OfferRepo) UpsertFiche(ctx context.Context, fiche *models.Fiche) error {
	if fiche.ID == "" {
		fiche.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if fiche.GeneratedAt.IsZero() {
		fiche.GeneratedAt = now
	}
	fiche.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fiches (id, offer_id, kind, status, public_url, storage_path,
			snapshot, generated_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (offer_id, kind) DO UPDATE SET
			status = EXCLUDED.status,
			public_url = EXCLUDED.public_url,
			storage_path = EXCLUDED.storage_path,
			snapshot = EXCLUDED.snapshot,
			generated_at = EXCLUDED.generated_at,
			updated_at = EXCLUDED.updated_at`,
		fiche.ID, fiche.OfferID, string(fiche.Kind), string(fiche.Status),
		fiche.PublicURL, fiche.StoragePath, fiche.Snapshot,
		fiche.GeneratedAt, fiche.UpdatedAt)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *OfferRepo) UpdateFicheStatus(ctx context.Context, offerID string, kind models.FicheKind, status models.FicheStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fiches SET status = $3, updated_at = NOW() WHERE offer_id = $1 AND kind = $2`,
		offerID, string(kind), string(status))
	if err != nil {
		return errors.NewQueryExecutionFailedError("fiches", err)
	}
	return requireRow(res, "fiche", offerID+"/"+string(kind))
}

func (r *OfferRepo) ListFiches(ctx context.Context, offerID string) ([]models.Fiche, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, offer_id, kind, status, public_url, storage_path, snapshot,
			generated_at, updated_at
		FROM fiches WHERE offer_id = $1 ORDER BY kind`, offerID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("fiches", err)
	}
	defer rows.Close()

	var out []models.Fiche
	for rows.Next() {
		var f models.Fiche
		var kind, status string
		if err := rows.Scan(&f.ID, &f.OfferID, &kind, &status, &f.PublicURL,
			&f.StoragePath, &f.Snapshot, &f.GeneratedAt, &f.UpdatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("fiches", err)
		}
		f.Kind = models.FicheKind(kind)
		f.Status = models.FicheStatus(status)
		out = append(out, f)
	}
	return out, rows.Err()
}
