package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare-backend/internal/domains/alert/model"
	"dentalcare-backend/internal/domains/alert/repository"
	catalogmodel "dentalcare-backend/internal/domains/catalog/model"
	catalogrepo "dentalcare-backend/internal/domains/catalog/repository"
	catalogservice "dentalcare-backend/internal/domains/catalog/service"
	stockmodel "dentalcare-backend/internal/domains/stock/model"
	stockrepo "dentalcare-backend/internal/domains/stock/repository"
	stockservice "dentalcare-backend/internal/domains/stock/service"
	"dentalcare-backend/internal/shared"
	"dentalcare-backend/pkg/cache"
)

type alertFixture struct {
	alertSvc   *AlertService
	stockSvc   *stockservice.StockService
	catalogSvc catalogservice.ServiceInterface
	stockRepo  stockrepo.RepositoryInterface
	actor      uuid.UUID
	locationID uuid.UUID
}

func newAlertFixture(t *testing.T) *alertFixture {
	t.Helper()
	clock := shared.FixedClock{Instant: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}

	catalogSvc := catalogservice.NewService(catalogrepo.NewMemoryRepository(), cache.Noop{}, clock)
	sRepo := stockrepo.NewMemoryRepository()
	stockSvc := stockservice.NewService(sRepo, clock)
	alertSvc := NewService(repository.NewMemoryRepository(), catalogSvc, sRepo, nil, clock)
	stockSvc.RegisterListener(alertSvc)

	return &alertFixture{
		alertSvc:   alertSvc,
		stockSvc:   stockSvc,
		catalogSvc: catalogSvc,
		stockRepo:  sRepo,
		actor:      uuid.New(),
		locationID: uuid.New(),
	}
}

func (f *alertFixture) createProduct(t *testing.T, sku string, reorderPoint int64) *catalogmodel.Product {
	t.Helper()
	product, err := f.catalogSvc.CreateProduct(context.Background(), catalogmodel.CreateProductRequest{
		SKU:          sku,
		Name:         "Guantes de nitrilo",
		Category:     "consumibles",
		Unit:         "caja",
		UnitCost:     decimal.NewFromFloat(7.50),
		ReorderPoint: reorderPoint,
	})
	require.NoError(t, err)
	return product
}

func (f *alertFixture) post(t *testing.T, productID uuid.UUID, kind stockmodel.MovementKind, delta int64) {
	t.Helper()
	req := stockmodel.PostMovementRequest{
		ProductID:     productID,
		LocationID:    f.locationID,
		Kind:          kind,
		QuantityDelta: delta,
	}
	if kind.IsManualAdjustment() {
		reason := "cycle count"
		req.Reason = &reason
	}
	_, err := f.stockSvc.PostMovement(context.Background(), f.actor, req)
	require.NoError(t, err)
}

func (f *alertFixture) openAlert(t *testing.T, productID uuid.UUID) *model.ReorderAlert {
	t.Helper()
	resp, err := f.alertSvc.ListAlerts(context.Background(), model.ListAlertFilter{
		ProductID: &productID,
		OpenOnly:  true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	return &resp.Items[0]
}

func TestSuggestedQuantity(t *testing.T) {
	cases := []struct {
		name         string
		reorderPoint int64
		onHand       int64
		want         int64
	}{
		{"well below point", 20, 5, 35},
		{"exactly at point", 20, 20, 20},
		{"just under twice point", 20, 25, 20},
		{"zero on hand", 10, 0, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, suggestedQuantity(tc.reorderPoint, tc.onHand))
		})
	}
}

func TestBreachCreatesAlert(t *testing.T) {
	f := newAlertFixture(t)
	product := f.createProduct(t, "SKU-GN-01", 20)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 50)
	f.post(t, product.ID, stockmodel.KindClinicalUse, -35)

	alert := f.openAlert(t, product.ID)
	assert.Equal(t, model.StatusNew, alert.Status)
	assert.Equal(t, int64(15), alert.StockAtCreation)
	assert.Equal(t, int64(20), alert.ReorderPointAtCreation)
	assert.Equal(t, int64(25), alert.SuggestedOrderQuantity)
}

func TestSecondBreachRefreshesOpenAlert(t *testing.T) {
	f := newAlertFixture(t)
	product := f.createProduct(t, "SKU-GN-01", 20)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 50)
	f.post(t, product.ID, stockmodel.KindClinicalUse, -35)

	first := f.openAlert(t, product.ID)

	f.post(t, product.ID, stockmodel.KindClinicalUse, -5)

	second := f.openAlert(t, product.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(10), second.StockAtCreation)
	assert.Equal(t, int64(30), second.SuggestedOrderQuantity)
}

func TestNoAlertAbovePoint(t *testing.T) {
	f := newAlertFixture(t)
	product := f.createProduct(t, "SKU-GN-01", 20)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 50)
	f.post(t, product.ID, stockmodel.KindClinicalUse, -10)

	resp, err := f.alertSvc.ListAlerts(context.Background(), model.ListAlertFilter{ProductID: &product.ID})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestRecoveryAutoResolvesAlert(t *testing.T) {
	f := newAlertFixture(t)
	product := f.createProduct(t, "SKU-GN-01", 20)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 15)
	alert := f.openAlert(t, product.ID)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 25)

	resolved, err := f.alertSvc.GetAlert(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	resp, err := f.alertSvc.ListAlerts(context.Background(), model.ListAlertFilter{ProductID: &product.ID, OpenOnly: true})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestResolvedAlertNeverReopens(t *testing.T) {
	f := newAlertFixture(t)
	product := f.createProduct(t, "SKU-GN-01", 20)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 15)
	first := f.openAlert(t, product.ID)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 25)
	f.post(t, product.ID, stockmodel.KindClinicalUse, -30)

	second := f.openAlert(t, product.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.StatusNew, second.Status)
}

func TestAlertStatusTransitions(t *testing.T) {
	f := newAlertFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-GN-01", 20)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 15)
	alert := f.openAlert(t, product.ID)

	acked, err := f.alertSvc.Acknowledge(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAcknowledged, acked.Status)

	// Acknowledging twice is not allowed.
	_, err = f.alertSvc.Acknowledge(ctx, alert.ID)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)

	ordering, err := f.alertSvc.MarkOrdering(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOrdering, ordering.Status)

	resolved, err := f.alertSvc.Resolve(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	_, err = f.alertSvc.Resolve(ctx, alert.ID)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestMarkOrderingFromNew(t *testing.T) {
	f := newAlertFixture(t)
	product := f.createProduct(t, "SKU-GN-01", 20)

	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 15)
	alert := f.openAlert(t, product.ID)

	ordering, err := f.alertSvc.MarkOrdering(context.Background(), alert.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOrdering, ordering.Status)
}

func TestScanPositionsOpensAlertWithoutMovement(t *testing.T) {
	f := newAlertFixture(t)
	ctx := context.Background()

	// Stock arrives while the reorder point is low; no alert opens.
	product := f.createProduct(t, "SKU-GN-01", 5)
	f.post(t, product.ID, stockmodel.KindPurchaseReceipt, 10)

	// The reorder point is raised above the idle quantity afterwards.
	newPoint := int64(25)
	_, err := f.catalogSvc.UpdateProduct(ctx, product.ID, catalogmodel.UpdateProductRequest{
		ReorderPoint: &newPoint,
	})
	require.NoError(t, err)

	pointSetter, ok := f.stockRepo.(interface {
		SetReorderPoint(productID uuid.UUID, point int64)
	})
	require.True(t, ok)
	pointSetter.SetReorderPoint(product.ID, newPoint)

	evaluated, err := f.alertSvc.ScanPositions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, evaluated)

	alert := f.openAlert(t, product.ID)
	assert.Equal(t, int64(10), alert.StockAtCreation)
	assert.Equal(t, int64(25), alert.ReorderPointAtCreation)
	assert.Equal(t, int64(40), alert.SuggestedOrderQuantity)
}
