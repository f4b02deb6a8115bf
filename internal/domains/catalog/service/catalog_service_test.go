package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dentalcare-backend/internal/domains/catalog/model"
	"dentalcare-backend/internal/domains/catalog/repository"
	"dentalcare-backend/internal/shared"
	"dentalcare-backend/pkg/cache"
)

func newCatalogService() ServiceInterface {
	clock := shared.FixedClock{Instant: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
	return NewService(repository.NewMemoryRepository(), cache.Noop{}, clock)
}

func validProductReq(sku string) model.CreateProductRequest {
	return model.CreateProductRequest{
		SKU:          sku,
		Name:         "Anestesia lidocaina 2%",
		Category:     "anestesia",
		Unit:         "carpule",
		UnitCost:     decimal.NewFromFloat(0.85),
		ReorderPoint: 50,
		Tags:         []string{"frio"},
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, validProductReq("SKU-AL-01"))
	require.NoError(t, err)
	assert.True(t, created.Active)

	loaded, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-AL-01", loaded.SKU)
	assert.Equal(t, int64(50), loaded.ReorderPoint)

	bySKU, err := svc.GetProductBySKU(ctx, "SKU-AL-01")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySKU.ID)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProductReq("SKU-AL-01"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, validProductReq("SKU-AL-01"))
	assert.ErrorIs(t, err, model.ErrSKUAlreadyExists)
}

func TestUpdateProductKeepsSKU(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, validProductReq("SKU-AL-01"))
	require.NoError(t, err)

	newName := "Anestesia articaina 4%"
	newPoint := int64(80)
	inactive := false
	updated, err := svc.UpdateProduct(ctx, created.ID, model.UpdateProductRequest{
		Name:         &newName,
		ReorderPoint: &newPoint,
		Active:       &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-AL-01", updated.SKU)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, int64(80), updated.ReorderPoint)
	assert.False(t, updated.Active)
}

func TestUpdateProductRejectsNegativeValues(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, validProductReq("SKU-AL-01"))
	require.NoError(t, err)

	negative := decimal.NewFromFloat(-1.00)
	_, err = svc.UpdateProduct(ctx, created.ID, model.UpdateProductRequest{UnitCost: &negative})
	assert.ErrorIs(t, err, model.ErrInvalidProduct)

	badPoint := int64(-5)
	_, err = svc.UpdateProduct(ctx, created.ID, model.UpdateProductRequest{ReorderPoint: &badPoint})
	assert.ErrorIs(t, err, model.ErrInvalidProduct)
}

func TestListProductsFilters(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProductReq("SKU-AL-01"))
	require.NoError(t, err)

	other := validProductReq("SKU-GN-01")
	other.Name = "Guantes de nitrilo"
	other.Category = "consumibles"
	_, err = svc.CreateProduct(ctx, other)
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx, model.ListProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalItems)

	byCategory, err := svc.ListProducts(ctx, model.ListProductFilter{Category: "anestesia"})
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, "SKU-AL-01", byCategory.Items[0].SKU)
}

func TestSupplierLifecycle(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	supplier, err := svc.CreateSupplier(ctx, model.CreateSupplierRequest{
		Name:  "Dental Suministros SA",
		Email: "pedidos@dentalsuministros.example",
	})
	require.NoError(t, err)

	loaded, err := svc.GetSupplier(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, supplier.Name, loaded.Name)

	list, err := svc.ListSuppliers(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func buildImportSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []interface{}{"SKU", "Name", "Category", "Unit", "UnitCost", "ReorderPoint"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportProductsCollectsRowErrors(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	buf := buildImportSheet(t, [][]interface{}{
		{"SKU-AL-01", "Anestesia lidocaina 2%", "anestesia", "carpule", "0.85", 50},
		{"", "Sin SKU", "otros", "unidad", "1.00", 0},
		{"SKU-GN-01", "Guantes de nitrilo", "consumibles", "caja", "no-es-numero", 20},
		{"SKU-CA2-01", "Composite A2", "restauracion", "jeringa", "18.90", 10},
	})

	result, err := svc.ImportProducts(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.RowErrors, 2)
	assert.Equal(t, 3, result.RowErrors[0].Row)
	assert.Equal(t, 4, result.RowErrors[1].Row)

	_, err = svc.GetProductBySKU(ctx, "SKU-CA2-01")
	assert.NoError(t, err)
}

func TestImportThenExportRoundTrip(t *testing.T) {
	svc := newCatalogService()
	ctx := context.Background()

	buf := buildImportSheet(t, [][]interface{}{
		{"SKU-AL-01", "Anestesia lidocaina 2%", "anestesia", "carpule", "0.85", 50},
	})
	_, err := svc.ImportProducts(ctx, buf)
	require.NoError(t, err)

	out, err := svc.ExportProducts(ctx, model.ListProductFilter{})
	require.NoError(t, err)
	defer out.Close()

	rows, err := out.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SKU", rows[0][0])
	assert.Equal(t, "SKU-AL-01", rows[1][0])
	assert.Equal(t, "Anestesia lidocaina 2%", rows[1][1])
}
