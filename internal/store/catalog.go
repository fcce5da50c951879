// internal/store/catalog.go
package store

import (
	"context"
	"database/sql"

	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"

	"github.com/google/uuid"
)

// The three remaining reference tables share the same CRUD shape.

// ==========================
// Intervenants
// ==========================

type IntervenantRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func (r *IntervenantRepo) List(ctx context.Context) ([]models.Intervenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, phone, specialty, created_at, updated_at
		FROM intervenants ORDER BY last_name, first_name`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("intervenants", err)
	}
	defer rows.Close()

	var out []models.Intervenant
	for rows.Next() {
		var i models.Intervenant
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&i.ID, &i.FirstName, &i.LastName, &i.Email, &i.Phone,
			&i.Specialty, &createdAt, &updatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("intervenants", err)
		}
		i.CreatedAt = formatTime(createdAt)
		i.UpdatedAt = formatTime(updatedAt)
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *IntervenantRepo) Create(ctx context.Context, i *models.Intervenant) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO intervenants (id, first_name, last_name, email, phone, specialty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		i.ID, i.FirstName, i.LastName, i.Email, i.Phone, i.Specialty)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *IntervenantRepo) Update(ctx context.Context, i *models.Intervenant) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE intervenants SET first_name = $2, last_name = $3, email = $4,
			phone = $5, specialty = $6, updated_at = NOW()
		WHERE id = $1`,
		i.ID, i.FirstName, i.LastName, i.Email, i.Phone, i.Specialty)
	if err != nil {
		return errors.NewQueryExecutionFailedError("intervenants", err)
	}
	return requireRow(res, "intervenant", i.ID)
}

func (r *IntervenantRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM intervenants WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("intervenants", err)
	}
	return requireRow(res, "intervenant", id)
}

// ==========================
// Licenses
// ==========================

type LicenseRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func (r *LicenseRepo) List(ctx context.Context) ([]models.License, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, vendor, created_at, updated_at FROM licenses ORDER BY name`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("licenses", err)
	}
	defer rows.Close()

	var out []models.License
	for rows.Next() {
		var l models.License
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&l.ID, &l.Name, &l.Vendor, &createdAt, &updatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("licenses", err)
		}
		l.CreatedAt = formatTime(createdAt)
		l.UpdatedAt = formatTime(updatedAt)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LicenseRepo) Create(ctx context.Context, l *models.License) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO licenses (id, name, vendor, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())`,
		l.ID, l.Name, l.Vendor)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *LicenseRepo) Update(ctx context.Context, l *models.License) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET name = $2, vendor = $3, updated_at = NOW() WHERE id = $1`,
		l.ID, l.Name, l.Vendor)
	if err != nil {
		return errors.NewQueryExecutionFailedError("licenses", err)
	}
	return requireRow(res, "license", l.ID)
}

func (r *LicenseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM licenses WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("licenses", err)
	}
	return requireRow(res, "license", id)
}

// ==========================
// Students
// ==========================

type StudentRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func (r *StudentRepo) List(ctx context.Context) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, establishment, email, created_at, updated_at
		FROM students ORDER BY last_name, first_name`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("students", err)
	}
	defer rows.Close()

	var out []models.Student
	for rows.Next() {
		var s models.Student
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Establishment,
			&s.Email, &createdAt, &updatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("students", err)
		}
		s.CreatedAt = formatTime(createdAt)
		s.UpdatedAt = formatTime(updatedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StudentRepo) Create(ctx context.Context, s *models.Student) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (id, first_name, last_name, establishment, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		s.ID, s.FirstName, s.LastName, s.Establishment, s.Email)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func (r *StudentRepo) Update(ctx context.Context, s *models.Student) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET first_name = $2, last_name = $3, establishment = $4,
			email = $5, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.FirstName, s.LastName, s.Establishment, s.Email)
	if err != nil {
		return errors.NewQueryExecutionFailedError("students", err)
	}
	return requireRow(res, "student", s.ID)
}

func (r *StudentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return errors.NewQueryExecutionFailedError("students", err)
	}
	return requireRow(res, "student", id)
}
