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

const equipmentColumns = `id, name, code, status, notes, created_at`

// EquipmentRepository persists production gear.
type EquipmentRepository struct {
	db *sqlx.DB
}

// NewEquipmentRepository constructs the repository.
func NewEquipmentRepository(db *sqlx.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// List returns all equipment ordered by name.
func (r *EquipmentRepository) List(ctx context.Context) ([]models.Equipment, error) {
	const query = `SELECT ` + equipmentColumns + ` FROM equipment ORDER BY name ASC`
	items := []models.Equipment{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

// FindByID returns equipment by id.
func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*models.Equipment, error) {
	const query = `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	var item models.Equipment
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	return &item, nil
}

// Create inserts new equipment.
func (r *EquipmentRepository) Create(ctx context.Context, item *models.Equipment) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO equipment (` + equipmentColumns + `) VALUES (:id, :name, :code, :status, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create equipment: %w", err)
	}
	return nil
}

// Update writes every mutable equipment field.
func (r *EquipmentRepository) Update(ctx context.Context, item *models.Equipment) error {
	const query = `UPDATE equipment SET name = :name, code = :code, status = :status, notes = :notes WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	_, err = requireAffected(res, "update equipment")
	return err
}

// Delete removes equipment.
func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	_, err = requireAffected(res, "delete equipment")
	return err
}
