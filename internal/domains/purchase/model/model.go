package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of a purchase order. The names are Spanish because that is what
// the clinic's screens show; they go over the wire as-is.
type Status string

const (
	StatusBorrador         Status = "borrador"
	StatusEnviada          Status = "enviada"
	StatusRecibidaParcial  Status = "recibida_parcial"
	StatusRecibidaCompleta Status = "recibida_completa"
	StatusCancelada        Status = "cancelada"
)

// transitions is the single source of truth for the order state machine.
// recibida_parcial deliberately cannot be cancelled; a partially received
// order must be completed.
var transitions = map[Status][]Status{
	StatusBorrador:         {StatusEnviada, StatusCancelada},
	StatusEnviada:          {StatusRecibidaParcial, StatusRecibidaCompleta, StatusCancelada},
	StatusRecibidaParcial:  {StatusRecibidaCompleta},
	StatusRecibidaCompleta: {},
	StatusCancelada:        {},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> target is a legal transition.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsReceiptStatus reports whether the status is only reachable via Receive.
func (s Status) IsReceiptStatus() bool {
	return s == StatusRecibidaParcial || s == StatusRecibidaCompleta
}

// Item is one purchase order line. ProductID is nil for free-text lines
// (non-catalog purchases), which never touch the stock ledger.
type Item struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	Description string     `json:"description"`

	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"` // quantity x unit price

	ReceivedQuantity int64 `json:"received_quantity"`
}

// Remaining is the ordered quantity not yet received.
func (i Item) Remaining() int64 {
	return i.Quantity - i.ReceivedQuantity
}

// StatusChange is one append-only state history entry.
type StatusChange struct {
	Status    Status    `json:"status"`
	ActorID   uuid.UUID `json:"actor_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// PurchaseOrder is an order to a supplier. Deletable only while borrador;
// afterwards it is retained forever for audit.
type PurchaseOrder struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"` // "OC-000123", unique, gaps tolerated
	SupplierID  uuid.UUID `json:"supplier_id"`
	LocationID  uuid.UUID `json:"location_id"`
	CreatedBy   uuid.UUID `json:"created_by"`

	Items []Item `json:"items"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`

	Status        Status         `json:"status"`
	StatusHistory []StatusChange `json:"status_history"`

	Notes               string     `json:"notes,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`

	// Version increments on every mutation; stale writers lose.
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalOrdered sums ordered quantities across lines.
func (o *PurchaseOrder) TotalOrdered() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalReceived sums received quantities across lines.
func (o *PurchaseOrder) TotalReceived() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.ReceivedQuantity
	}
	return total
}

// Attachment is a stored document for an order, a delivery note or a
// supplier invoice. The object itself lives in MinIO.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ObjectKey   string    `json:"object_key"` // purchase-orders/<order>/<attachment>
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ListOrderFilter narrows order listings.
type ListOrderFilter struct {
	SupplierID *uuid.UUID
	LocationID *uuid.UUID
	Status     *Status
	Page       int
	Limit      int
}

// ListOrderResponse is one page of orders.
type ListOrderResponse struct {
	Items      []PurchaseOrder `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPages int             `json:"total_pages"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
