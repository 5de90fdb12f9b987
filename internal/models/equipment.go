package models

import "time"

// EquipmentStatus is the availability of a piece of gear.
type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentInUse       EquipmentStatus = "in_use"
	EquipmentMaintenance EquipmentStatus = "maintenance"
)

// Equipment is a piece of production gear.
type Equipment struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Code      *string         `db:"code" json:"code"`
	Status    EquipmentStatus `db:"status" json:"status"`
	Notes     *string         `db:"notes" json:"notes"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// CreateEquipmentRequest is the payload for registering equipment.
type CreateEquipmentRequest struct {
	Name   string          `json:"name" validate:"required"`
	Code   *string         `json:"code"`
	Status EquipmentStatus `json:"status" validate:"omitempty,oneof=available in_use maintenance"`
	Notes  *string         `json:"notes"`
}

// UpdateEquipmentRequest is a partial equipment update.
type UpdateEquipmentRequest struct {
	Name   *string          `json:"name" validate:"omitempty,min=1"`
	Code   *string          `json:"code"`
	Status *EquipmentStatus `json:"status" validate:"omitempty,oneof=available in_use maintenance"`
	Notes  *string          `json:"notes"`
}

// EquipmentAllocation books equipment for an event. Overlapping bookings are allowed.
type EquipmentAllocation struct {
	ID          string    `db:"id" json:"id"`
	EventID     string    `db:"event_id" json:"event_id"`
	EquipmentID string    `db:"equipment_id" json:"equipment_id"`
	Notes       *string   `db:"notes" json:"notes"`
	AllocatedBy string    `db:"allocated_by" json:"allocated_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AllocationDetail is an allocation enriched with equipment and event names.
type AllocationDetail struct {
	EquipmentAllocation
	EquipmentName *string `json:"equipment_name"`
	EventTitle    *string `json:"event_title"`
}

// AllocationFilter captures filters for listing allocations.
type AllocationFilter struct {
	EventID *string
}

// CreateAllocationRequest is the payload for allocating equipment.
type CreateAllocationRequest struct {
	EventID     string  `json:"event_id" validate:"required"`
	EquipmentID string  `json:"equipment_id" validate:"required"`
	Notes       *string `json:"notes"`
}
