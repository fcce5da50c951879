// internal/store/clients.go
package store

import (
	"context"
	"database/sql"

	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"

	"github.com/google/uuid"
)

// ClientRepo is the clients table access layer.
type ClientRepo struct {
	db     *sql.DB
	logger logger.Logger
}

const clientColumns = `id, name, siret, address, postal_code, city,
	contact_name, contact_email, contact_phone, created_at, updated_at`

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)

	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewClientNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewClientFetchFailedError(err)
	}
	return client, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("clients", err)
	}
	defer rows.Close()

	var out []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("clients", err)
		}
		out = append(out, *client)
	}
	return out, rows.Err()
}

func (r *ClientRepo) Create(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, siret, address, postal_code, city,
			contact_name, contact_email, contact_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		client.ID, client.Name, client.Siret, client.Address, client.PostalCode,
		client.City, client.ContactName, client.ContactEmail, client.ContactPhone)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *ClientRepo) Update(ctx context.Context, client *models.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = $2, siret = $3, address = $4, postal_code = $5,
			city = $6, contact_name = $7, contact_email = $8, contact_phone = $9,
			updated_at = NOW()
		WHERE id = $1`,
		client.ID, client.Name, client.Siret, client.Address, client.PostalCode,
		client.City, client.ContactName, client.ContactEmail, client.ContactPhone)
	if err != nil {
		return errors.NewQueryExecutionFailedError("clients", err)
	}
	return requireRow(res, "client", client.ID)
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("clients", err)
	}
	return requireRow(res, "client", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	var c models.Client
	var createdAt, updatedAt sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Siret, &c.Address, &c.PostalCode, &c.City,
		&c.ContactName, &c.ContactEmail, &c.ContactPhone, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = formatTime(createdAt)
	c.UpdatedAt = formatTime(updatedAt)
	return &c, nil
}

// requireRow turns a zero-row update/delete into a not-found error.
func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewQueryExecutionFailedError(entity, err)
	}
	if n == 0 {
		return errors.NewResourceNotFoundError(entity, id)
	}
	return nil
}
