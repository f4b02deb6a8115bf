package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dentalcare-backend/internal/domains/purchase/model"
	"dentalcare-backend/pkg/database"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// Create implements RepositoryInterface.Create
func (r *postgresRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO purchase_orders (
				id, order_number, supplier_id, location_id, created_by,
				subtotal, tax_amount, total, status, notes,
				estimated_delivery_at, version, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err := tx.Exec(ctx, query,
			order.ID, order.OrderNumber, order.SupplierID, order.LocationID, order.CreatedBy,
			order.Subtotal, order.TaxAmount, order.Total, order.Status, order.Notes,
			order.EstimatedDeliveryAt, order.Version, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}

		if err := insertItems(ctx, tx, order); err != nil {
			return err
		}

		return insertHistory(ctx, tx, order.ID, order.StatusHistory)
	})
}

func insertItems(ctx context.Context, tx pgx.Tx, order *model.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_order_line_items (
			id, order_id, product_id, description, quantity,
			unit_price, subtotal, received_quantity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, item := range order.Items {
		_, err := tx.Exec(ctx, query,
			item.ID, order.ID, item.ProductID, item.Description, item.Quantity,
			item.UnitPrice, item.Subtotal, item.ReceivedQuantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	return nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, entries []model.StatusChange) error {
	query := `
		INSERT INTO purchase_order_status_history (order_id, status, actor_id, changed_at)
		VALUES ($1, $2, $3, $4)
	`
	for _, entry := range entries {
		if _, err := tx.Exec(ctx, query, orderID, entry.Status, entry.ActorID, entry.ChangedAt); err != nil {
			return fmt.Errorf("failed to insert status history: %w", err)
		}
	}
	return nil
}

// Update implements RepositoryInterface.Update
func (r *postgresRepository) Update(ctx context.Context, order *model.PurchaseOrder, appendHistory []model.StatusChange) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE purchase_orders SET
				subtotal = $3, tax_amount = $4, total = $5, status = $6,
				notes = $7, estimated_delivery_at = $8, version = $9, updated_at = $10
			WHERE id = $1 AND version = $2
		`
		tag, err := tx.Exec(ctx, query,
			order.ID, order.Version-1,
			order.Subtotal, order.TaxAmount, order.Total, order.Status,
			order.Notes, order.EstimatedDeliveryAt, order.Version, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// Either the row is gone or someone got there first.
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM purchase_orders WHERE id = $1)`, order.ID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check purchase order: %w", err)
			}
			if !exists {
				return model.ErrOrderNotFound
			}
			return model.ErrConcurrentModification
		}

		if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_line_items WHERE order_id = $1`, order.ID); err != nil {
			return fmt.Errorf("failed to clear order lines: %w", err)
		}
		if err := insertItems(ctx, tx, order); err != nil {
			return err
		}

		return insertHistory(ctx, tx, order.ID, appendHistory)
	})
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	query := `
		SELECT id, order_number, supplier_id, location_id, created_by,
		       subtotal, tax_amount, total, status, notes,
		       estimated_delivery_at, version, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`

	var o model.PurchaseOrder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.SupplierID, &o.LocationID, &o.CreatedBy,
		&o.Subtotal, &o.TaxAmount, &o.Total, &o.Status, &o.Notes,
		&o.EstimatedDeliveryAt, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, order *model.PurchaseOrder) error {
	query := `
		SELECT id, product_id, description, quantity, unit_price, subtotal, received_quantity
		FROM purchase_order_line_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.Item
		err := rows.Scan(&item.ID, &item.ProductID, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.Subtotal, &item.ReceivedQuantity)
		if err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *postgresRepository) loadHistory(ctx context.Context, order *model.PurchaseOrder) error {
	query := `
		SELECT status, actor_id, changed_at
		FROM purchase_order_status_history
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load status history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry model.StatusChange
		if err := rows.Scan(&entry.Status, &entry.ActorID, &entry.ChangedAt); err != nil {
			return fmt.Errorf("failed to scan status history: %w", err)
		}
		order.StatusHistory = append(order.StatusHistory, entry)
	}
	return rows.Err()
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, filter model.ListOrderFilter) ([]model.PurchaseOrder, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.SupplierID != nil {
		conditions = append(conditions, fmt.Sprintf("supplier_id = $%d", argIdx))
		args = append(args, *filter.SupplierID)
		argIdx++
	}
	if filter.LocationID != nil {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", argIdx))
		args = append(args, *filter.LocationID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM purchase_orders WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, order_number, supplier_id, location_id, created_by,
		       subtotal, tax_amount, total, status, notes,
		       estimated_delivery_at, version, created_at, updated_at
		FROM purchase_orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.PurchaseOrder, 0, filter.Limit)
	for rows.Next() {
		var o model.PurchaseOrder
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.SupplierID, &o.LocationID, &o.CreatedBy,
			&o.Subtotal, &o.TaxAmount, &o.Total, &o.Status, &o.Notes,
			&o.EstimatedDeliveryAt, &o.Version, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate purchase orders: %w", err)
	}

	return orders, total, nil
}

// Delete implements RepositoryInterface.Delete
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_status_history WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete status history: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_line_items WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete purchase order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrOrderNotFound
		}
		return nil
	})
}

// CreateAttachment implements RepositoryInterface.CreateAttachment
func (r *postgresRepository) CreateAttachment(ctx context.Context, attachment *model.Attachment) error {
	query := `
		INSERT INTO purchase_order_attachments (
			id, order_id, file_name, content_type, size, object_key, uploaded_by, uploaded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		attachment.ID, attachment.OrderID, attachment.FileName, attachment.ContentType,
		attachment.Size, attachment.ObjectKey, attachment.UploadedBy, attachment.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

// GetAttachment implements RepositoryInterface.GetAttachment
func (r *postgresRepository) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	query := `
		SELECT id, order_id, file_name, content_type, size, object_key, uploaded_by, uploaded_at
		FROM purchase_order_attachments
		WHERE id = $1
	`
	var a model.Attachment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.OrderID, &a.FileName, &a.ContentType, &a.Size, &a.ObjectKey, &a.UploadedBy, &a.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &a, nil
}

// ListAttachments implements RepositoryInterface.ListAttachments
func (r *postgresRepository) ListAttachments(ctx context.Context, orderID uuid.UUID) ([]model.Attachment, error) {
	query := `
		SELECT id, order_id, file_name, content_type, size, object_key, uploaded_by, uploaded_at
		FROM purchase_order_attachments
		WHERE order_id = $1
		ORDER BY uploaded_at ASC
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []model.Attachment
	for rows.Next() {
		var a model.Attachment
		err := rows.Scan(&a.ID, &a.OrderID, &a.FileName, &a.ContentType, &a.Size, &a.ObjectKey, &a.UploadedBy, &a.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
