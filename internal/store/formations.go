// internal/store/formations.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"

	"github.com/google/uuid"
)

// FormationRepo is the formations table access layer. The schedule days are
// stored as a JSONB column since they are only ever read and written whole.
type FormationRepo struct {
	db     *sql.DB
	logger logger.Logger
}

const formationColumns = `id, name, reference, prerequisites, objectives,
	competencies, days, created_at, updated_at`

func (r *FormationRepo) GetByID(ctx context.Context, id string) (*models.Formation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+formationColumns+` FROM formations WHERE id = $1`, id)

	f, err := scanFormation(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("formation", id)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("formations", err)
	}
	return f, nil
}

func (r *FormationRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Formation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+formationColumns+` FROM formations WHERE id = ANY($1) ORDER BY name`,
		pqStringArray(ids))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("formations", err)
	}
	defer rows.Close()
	return collectFormations(rows)
}

func (r *FormationRepo) List(ctx context.Context) ([]models.Formation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+formationColumns+` FROM formations ORDER BY name`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("formations", err)
	}
	defer rows.Close()
	return collectFormations(rows)
}

func (r *FormationRepo) Create(ctx context.Context, f *models.Formation) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	days, err := json.Marshal(f.Days)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO formations (id, name, reference, prerequisites, objectives,
			competencies, days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		f.ID, f.Name, f.Reference, f.Prerequisites, f.Objectives, f.Competencies, days)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *FormationRepo) Update(ctx context.Context, f *models.Formation) error {
	days, err := json.Marshal(f.Days)
	if err != nil {
		return errors.NewQueryExecutionFailedError("formations", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE formations SET name = $2, reference = $3, prerequisites = $4,
			objectives = $5, competencies = $6, days = $7, updated_at = NOW()
		WHERE id = $1`,
		f.ID, f.Name, f.Reference, f.Prerequisites, f.Objectives, f.Competencies, days)
	if err != nil {
		return errors.NewQueryExecutionFailedError("formations", err)
	}
	return requireRow(res, "formation", f.ID)
}

func (r *FormationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM formations WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("formations", err)
	}
	return requireRow(res, "formation", id)
}

func scanFormation(row rowScanner) (*models.Formation, error) {
	var f models.Formation
	var days []byte
	var createdAt, updatedAt sql.NullTime
	err := row.Scan(&f.ID, &f.Name, &f.Reference, &f.Prerequisites, &f.Objectives,
		&f.Competencies, &days, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if len(days) > 0 {
		if err := json.Unmarshal(days, &f.Days); err != nil {
			return nil, err
		}
	}
	f.CreatedAt = formatTime(createdAt)
	f.UpdatedAt = formatTime(updatedAt)
	return &f, nil
}

func collectFormations(rows *sql.Rows) ([]models.Formation, error) {
	var out []models.Formation
	for rows.Next() {
		f, err := scanFormation(rows)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("formations", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}
