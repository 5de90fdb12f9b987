package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mediahub-api/internal/models"
)

const institutionColumns = `id, name, short_code, type, is_active, created_at`

// InstitutionRepository persists client institutions.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository constructs the repository.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// List returns every institution ordered by name.
func (r *InstitutionRepository) List(ctx context.Context) ([]models.Institution, error) {
	const query = `SELECT ` + institutionColumns + ` FROM institutions ORDER BY name ASC`
	items := []models.Institution{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return items, nil
}

// FindByID returns an institution by id.
func (r *InstitutionRepository) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	const query = `SELECT ` + institutionColumns + ` FROM institutions WHERE id = $1`
	var inst models.Institution
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find institution: %w", err)
	}
	return &inst, nil
}

// Create inserts a new institution.
func (r *InstitutionRepository) Create(ctx context.Context, inst *models.Institution) error {
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO institutions (id, name, short_code, type, is_active, created_at) VALUES (:id, :name, :short_code, :type, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inst); err != nil {
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// Update writes all mutable institution fields.
func (r *InstitutionRepository) Update(ctx context.Context, inst *models.Institution) error {
	const query = `UPDATE institutions SET name = :name, short_code = :short_code, type = :type, is_active = :is_active WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, inst)
	if err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	_, err = requireAffected(res, "update institution")
	return err
}

// Delete removes an institution.
func (r *InstitutionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM institutions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete institution: %w", err)
	}
	_, err = requireAffected(res, "delete institution")
	return err
}
