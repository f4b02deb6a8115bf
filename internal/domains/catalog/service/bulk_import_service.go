package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"dentalcare-backend/internal/domains/catalog/model"
)

// Expected column order in the import sheet. Row 1 is the header.
var importColumns = []string{"SKU", "Name", "Category", "Unit", "UnitCost", "ReorderPoint"}

// ImportProducts implements ServiceInterface.ImportProducts
func (s *CatalogService) ImportProducts(ctx context.Context, reader io.Reader) (*model.BulkImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid Excel file: %v", model.ErrInvalidProduct, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet has no data rows", model.ErrInvalidProduct)
	}

	result := &model.BulkImportResult{FinishedAt: s.clock.Now()}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		req, err := parseImportRow(row)
		if err != nil {
			result.Skipped++
			result.RowErrors = append(result.RowErrors, model.BulkImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		if _, err := s.CreateProduct(ctx, *req); err != nil {
			result.Skipped++
			result.RowErrors = append(result.RowErrors, model.BulkImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		result.Imported++
	}

	result.FinishedAt = s.clock.Now()

	log.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Product bulk import finished")

	return result, nil
}

func parseImportRow(row []string) (*model.CreateProductRequest, error) {
	if len(row) < len(importColumns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(importColumns), len(row))
	}

	sku := strings.TrimSpace(row[0])
	name := strings.TrimSpace(row[1])
	if sku == "" || name == "" {
		return nil, fmt.Errorf("SKU and Name are required")
	}

	unitCost, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid UnitCost %q", row[4])
	}

	reorderPoint, err := strconv.ParseInt(strings.TrimSpace(row[5]), 10, 64)
	if err != nil || reorderPoint < 0 {
		return nil, fmt.Errorf("invalid ReorderPoint %q", row[5])
	}

	return &model.CreateProductRequest{
		SKU:          sku,
		Name:         name,
		Category:     strings.TrimSpace(row[2]),
		Unit:         strings.TrimSpace(row[3]),
		UnitCost:     unitCost,
		ReorderPoint: reorderPoint,
	}, nil
}

// ExportProducts implements ServiceInterface.ExportProducts
func (s *CatalogService) ExportProducts(ctx context.Context, filter model.ListProductFilter) (*excelize.File, error) {
	if filter.Limit <= 0 || filter.Limit > 1000 {
		filter.Limit = 1000
	}

	listing, err := s.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	for col, header := range importColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, p := range listing.Items {
		rowNum := i + 2
		values := []interface{}{p.SKU, p.Name, p.Category, p.Unit, p.UnitCost.String(), p.ReorderPoint}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	return f, nil
}
