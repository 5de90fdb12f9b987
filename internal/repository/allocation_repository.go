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

const allocationColumns = `id, event_id, equipment_id, notes, allocated_by, created_at`

// AllocationRepository persists equipment bookings.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs the repository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// List returns allocations, optionally for a single event, oldest first.
func (r *AllocationRepository) List(ctx context.Context, filter models.AllocationFilter) ([]models.EquipmentAllocation, error) {
	var conds conditions
	if filter.EventID != nil {
		conds.add("event_id = $%d", *filter.EventID)
	}
	query := `SELECT ` + allocationColumns + ` FROM equipment_allocations` + conds.where() + ` ORDER BY created_at ASC`
	items := []models.EquipmentAllocation{}
	if err := r.db.SelectContext(ctx, &items, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return items, nil
}

// FindByID returns an allocation by id.
func (r *AllocationRepository) FindByID(ctx context.Context, id string) (*models.EquipmentAllocation, error) {
	const query = `SELECT ` + allocationColumns + ` FROM equipment_allocations WHERE id = $1`
	var item models.EquipmentAllocation
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find allocation: %w", err)
	}
	return &item, nil
}

// Create inserts a new allocation. Overlaps are not checked.
func (r *AllocationRepository) Create(ctx context.Context, item *models.EquipmentAllocation) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO equipment_allocations (` + allocationColumns + `) VALUES (:id, :event_id, :equipment_id, :notes, :allocated_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// CountByEquipment returns how many allocations reference the equipment.
func (r *AllocationRepository) CountByEquipment(ctx context.Context, equipmentID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM equipment_allocations WHERE equipment_id = $1`, equipmentID); err != nil {
		return 0, fmt.Errorf("count allocations by equipment: %w", err)
	}
	return total, nil
}

// DeleteByEvent removes every allocation of an event.
func (r *AllocationRepository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment_allocations WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("delete allocations by event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete allocations by event rows affected: %w", err)
	}
	return n, nil
}
