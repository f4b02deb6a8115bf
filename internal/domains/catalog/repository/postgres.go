package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"dentalcare-backend/internal/domains/catalog/model"
)

// postgresRepository implements RepositoryInterface.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL catalog repository.
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const productColumns = `
	id, sku, name, category, unit, unit_cost, reorder_point,
	preferred_supplier_id, tags, active, created_at, updated_at
`

func (r *postgresRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (
			id, sku, name, category, unit, unit_cost, reorder_point,
			preferred_supplier_id, tags, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.SKU,
		product.Name,
		product.Category,
		product.Unit,
		product.UnitCost,
		product.ReorderPoint,
		product.PreferredSupplierID,
		pq.Array(product.Tags),
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation on sku
				return model.ErrSKUAlreadyExists
			}
			if pgErr.Code == "23503" { // foreign_key_violation on supplier
				return model.ErrSupplierNotFound
			}
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *postgresRepository) scanProduct(row pgx.Row) (*model.Product, error) {
	var product model.Product
	err := row.Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Category,
		&product.Unit,
		&product.UnitCost,
		&product.ReorderPoint,
		&product.PreferredSupplierID,
		pq.Array(&product.Tags),
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &product, nil
}

func (r *postgresRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.scanProduct(r.pool.QueryRow(ctx, query, sku))
}

func (r *postgresRepository) UpdateProduct(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products SET
			name = $2, category = $3, unit = $4, unit_cost = $5,
			reorder_point = $6, preferred_supplier_id = $7, tags = $8,
			active = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Category,
		product.Unit,
		product.UnitCost,
		product.ReorderPoint,
		product.PreferredSupplierID,
		pq.Array(product.Tags),
		product.Active,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

func (r *postgresRepository) ListProducts(ctx context.Context, filter model.ListProductFilter) ([]model.Product, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Keyword+"%")
		argPos++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filter.Category)
		argPos++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argPos))
		args = append(args, *filter.Active)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	listQuery := fmt.Sprintf(
		`SELECT %s FROM products WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		productColumns, where, argPos, argPos+1,
	)
	args = append(args, filter.Limit, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *product)
	}

	return products, total, rows.Err()
}

func (r *postgresRepository) CreateSupplier(ctx context.Context, supplier *model.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, tax_id, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		supplier.ID,
		supplier.Name,
		supplier.TaxID,
		supplier.Email,
		supplier.Phone,
		supplier.Active,
		supplier.CreatedAt,
		supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert supplier: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetSupplierByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	query := `
		SELECT id, name, tax_id, email, phone, active, created_at, updated_at
		FROM suppliers WHERE id = $1
	`

	var supplier model.Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.TaxID,
		&supplier.Email,
		&supplier.Phone,
		&supplier.Active,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &supplier, nil
}

func (r *postgresRepository) ListSuppliers(ctx context.Context, activeOnly bool) ([]model.Supplier, error) {
	query := `
		SELECT id, name, tax_id, email, phone, active, created_at, updated_at
		FROM suppliers
	`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]model.Supplier, 0)
	for rows.Next() {
		var s model.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}

	return suppliers, rows.Err()
}
