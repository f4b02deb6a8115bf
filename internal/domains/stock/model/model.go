package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MovementKind classifies a ledger entry and fixes the sign of its delta.
type MovementKind string

const (
	KindPurchaseReceipt     MovementKind = "purchase_receipt"
	KindClinicalUse         MovementKind = "clinical_use"
	KindManualAdjustmentIn  MovementKind = "manual_adjustment_in"
	KindManualAdjustmentOut MovementKind = "manual_adjustment_out"
	KindReturn              MovementKind = "return"
)

// IsValid reports whether k is a known movement kind.
func (k MovementKind) IsValid() bool {
	switch k {
	case KindPurchaseReceipt, KindClinicalUse, KindManualAdjustmentIn, KindManualAdjustmentOut, KindReturn:
		return true
	}
	return false
}

// IsInbound reports whether the kind requires a positive delta.
func (k MovementKind) IsInbound() bool {
	switch k {
	case KindPurchaseReceipt, KindManualAdjustmentIn, KindReturn:
		return true
	}
	return false
}

// IsManualAdjustment reports whether the kind requires a reason.
func (k MovementKind) IsManualAdjustment() bool {
	return k == KindManualAdjustmentIn || k == KindManualAdjustmentOut
}

// Movement is one append-only ledger entry. Movements are never edited or
// deleted; corrections are new compensating movements.
type Movement struct {
	ID         uuid.UUID    `json:"id"`
	Seq        int64        `json:"seq"` // insertion order, assigned by the repository
	ProductID  uuid.UUID    `json:"product_id"`
	LocationID uuid.UUID    `json:"location_id"`
	Kind       MovementKind `json:"kind"`

	QuantityDelta     int64 `json:"quantity_delta"`
	ResultingQuantity int64 `json:"resulting_quantity"` // snapshot for audit

	ActorID     uuid.UUID  `json:"actor_id"`
	Reason      *string    `json:"reason,omitempty"`       // required for manual adjustments
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"` // purchase order or treatment execution

	CreatedAt time.Time `json:"created_at"`
}

// StockPosition is the running quantity for one (product, location) key.
// QuantityOnHand always equals the sum of all movement deltas for the key.
type StockPosition struct {
	ProductID      uuid.UUID  `json:"product_id"`
	LocationID     uuid.UUID  `json:"location_id"`
	QuantityOnHand int64      `json:"quantity_on_hand"`
	LastMovementID *uuid.UUID `json:"last_movement_id,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StockChanged is delivered to listeners synchronously after every posted
// movement, while the per-key lock is still held.
type StockChanged struct {
	ProductID        uuid.UUID
	LocationID       uuid.UUID
	PreviousQuantity int64
	NewQuantity      int64
	MovementID       uuid.UUID
	Kind             MovementKind
	OccurredAt       time.Time
}

// Listener receives StockChanged events. Implementations must be fast; they
// run inside the ledger's per-key critical section.
type Listener interface {
	OnStockChanged(ctx context.Context, event StockChanged) error
}
