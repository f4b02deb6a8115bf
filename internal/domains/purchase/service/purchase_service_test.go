package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	alertmodel "dentalcare-backend/internal/domains/alert/model"
	alertrepo "dentalcare-backend/internal/domains/alert/repository"
	alertservice "dentalcare-backend/internal/domains/alert/service"
	catalogmodel "dentalcare-backend/internal/domains/catalog/model"
	catalogrepo "dentalcare-backend/internal/domains/catalog/repository"
	catalogservice "dentalcare-backend/internal/domains/catalog/service"
	"dentalcare-backend/internal/domains/purchase/model"
	"dentalcare-backend/internal/domains/purchase/repository"
	stockmodel "dentalcare-backend/internal/domains/stock/model"
	stockrepo "dentalcare-backend/internal/domains/stock/repository"
	stockservice "dentalcare-backend/internal/domains/stock/service"
	"dentalcare-backend/internal/infrastructure/storage"
	"dentalcare-backend/internal/shared"
	"dentalcare-backend/pkg/cache"
)

type purchaseFixture struct {
	svc        *PurchaseService
	stockSvc   *stockservice.StockService
	alertSvc   *alertservice.AlertService
	catalogSvc catalogservice.ServiceInterface
	actor      uuid.UUID
	supplierID uuid.UUID
	locationID uuid.UUID
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	clock := shared.FixedClock{Instant: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}

	catalogSvc := catalogservice.NewService(catalogrepo.NewMemoryRepository(), cache.Noop{}, clock)
	sRepo := stockrepo.NewMemoryRepository()
	stockSvc := stockservice.NewService(sRepo, clock)
	alertSvc := alertservice.NewService(alertrepo.NewMemoryRepository(), catalogSvc, sRepo, nil, clock)
	stockSvc.RegisterListener(alertSvc)

	svc := NewService(
		repository.NewMemoryRepository(),
		stockSvc,
		alertSvc,
		NewMemorySequence(),
		storage.NewMemoryStorage(),
		clock,
		decimal.NewFromFloat(0.21),
		"OC",
	)

	supplier, err := catalogSvc.CreateSupplier(context.Background(), catalogmodel.CreateSupplierRequest{
		Name: "Dental Suministros SA",
	})
	require.NoError(t, err)

	return &purchaseFixture{
		svc:        svc,
		stockSvc:   stockSvc,
		alertSvc:   alertSvc,
		catalogSvc: catalogSvc,
		actor:      uuid.New(),
		supplierID: supplier.ID,
		locationID: uuid.New(),
	}
}

func (f *purchaseFixture) createProduct(t *testing.T, sku string, reorderPoint int64) *catalogmodel.Product {
	t.Helper()
	product, err := f.catalogSvc.CreateProduct(context.Background(), catalogmodel.CreateProductRequest{
		SKU:          sku,
		Name:         "Composite A2",
		Category:     "restauracion",
		Unit:         "jeringa",
		UnitCost:     decimal.NewFromFloat(18.90),
		ReorderPoint: reorderPoint,
	})
	require.NoError(t, err)
	return product
}

func uuidStr(id uuid.UUID) *string {
	s := id.String()
	return &s
}

func stockReceipt(productID, locationID uuid.UUID, qty int64) stockmodel.PostMovementRequest {
	return stockmodel.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          stockmodel.KindPurchaseReceipt,
		QuantityDelta: qty,
	}
}

func stockHistoryFilter(productID, locationID uuid.UUID) stockmodel.HistoryFilter {
	return stockmodel.HistoryFilter{ProductID: productID, LocationID: locationID}
}

func alertOpenFilter(productID uuid.UUID) alertmodel.ListAlertFilter {
	return alertmodel.ListAlertFilter{ProductID: &productID, OpenOnly: true}
}

func (f *purchaseFixture) createDraft(t *testing.T, items []model.ItemRequest) *model.PurchaseOrder {
	t.Helper()
	order, err := f.svc.CreateDraft(context.Background(), f.actor, model.CreateOrderRequest{
		SupplierID: f.supplierID.String(),
		LocationID: f.locationID.String(),
		Items:      items,
	})
	require.NoError(t, err)
	return order
}

func (f *purchaseFixture) send(t *testing.T, id uuid.UUID) *model.PurchaseOrder {
	t.Helper()
	order, err := f.svc.ChangeState(context.Background(), f.actor, id, model.ChangeStateRequest{
		TargetStatus: model.StatusEnviada,
	})
	require.NoError(t, err)
	return order
}

func TestCreateDraftComputesTotals(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 5)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 10, UnitPrice: decimal.NewFromFloat(5.00)},
		{Description: "Mantenimiento compresor", Quantity: 3, UnitPrice: decimal.NewFromFloat(20.00)},
	})

	assert.Equal(t, model.StatusBorrador, order.Status)
	assert.Equal(t, "OC-000001", order.OrderNumber)
	assert.Equal(t, 1, order.Version)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(110.00)), "subtotal %s", order.Subtotal)
	assert.True(t, order.TaxAmount.Equal(decimal.NewFromFloat(23.10)), "tax %s", order.TaxAmount)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(133.10)), "total %s", order.Total)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, model.StatusBorrador, order.StatusHistory[0].Status)
}

func TestOrderNumbersAreSequential(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 5)
	items := []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 1, UnitPrice: decimal.NewFromFloat(1.00)},
	}

	first := f.createDraft(t, items)
	second := f.createDraft(t, items)
	assert.Equal(t, "OC-000001", first.OrderNumber)
	assert.Equal(t, "OC-000002", second.OrderNumber)
}

func TestCreateDraftRejectsInvalidRequests(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateDraft(ctx, f.actor, model.CreateOrderRequest{
		SupplierID: f.supplierID.String(),
		LocationID: f.locationID.String(),
	})
	assert.ErrorIs(t, err, model.ErrInvalidOrder)

	_, err = f.svc.CreateDraft(ctx, f.actor, model.CreateOrderRequest{
		SupplierID: "not-a-uuid",
		LocationID: f.locationID.String(),
		Items: []model.ItemRequest{
			{Description: "algo", Quantity: 1, UnitPrice: decimal.NewFromFloat(1.00)},
		},
	})
	assert.ErrorIs(t, err, model.ErrInvalidOrder)

	_, err = f.svc.CreateDraft(ctx, f.actor, model.CreateOrderRequest{
		SupplierID: f.supplierID.String(),
		LocationID: f.locationID.String(),
		Items: []model.ItemRequest{
			{Quantity: 1, UnitPrice: decimal.NewFromFloat(1.00)},
		},
	})
	assert.ErrorIs(t, err, model.ErrInvalidOrder, "free-text line without description")
}

func TestStateMachineLegality(t *testing.T) {
	cases := []struct {
		from    model.Status
		to      model.Status
		allowed bool
	}{
		{model.StatusBorrador, model.StatusEnviada, true},
		{model.StatusBorrador, model.StatusCancelada, true},
		{model.StatusBorrador, model.StatusRecibidaParcial, false},
		{model.StatusEnviada, model.StatusRecibidaParcial, true},
		{model.StatusEnviada, model.StatusRecibidaCompleta, true},
		{model.StatusEnviada, model.StatusCancelada, true},
		{model.StatusEnviada, model.StatusBorrador, false},
		{model.StatusRecibidaParcial, model.StatusRecibidaCompleta, true},
		{model.StatusRecibidaParcial, model.StatusCancelada, false},
		{model.StatusRecibidaCompleta, model.StatusCancelada, false},
		{model.StatusCancelada, model.StatusEnviada, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestChangeStateRejectsReceiptStatuses(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 5)
	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 10, UnitPrice: decimal.NewFromFloat(5.00)},
	})
	f.send(t, order.ID)

	_, err := f.svc.ChangeState(context.Background(), f.actor, order.ID, model.ChangeStateRequest{
		TargetStatus: model.StatusRecibidaCompleta,
	})
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestChangeStateRecordsHistory(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 5)
	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 2, UnitPrice: decimal.NewFromFloat(4.00)},
	})

	sent := f.send(t, order.ID)
	assert.Equal(t, 2, sent.Version)

	loaded, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.StatusHistory, 2)
	assert.Equal(t, model.StatusBorrador, loaded.StatusHistory[0].Status)
	assert.Equal(t, model.StatusEnviada, loaded.StatusHistory[1].Status)
}

func TestChangeStateExpectedVersionMismatch(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 5)
	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 2, UnitPrice: decimal.NewFromFloat(4.00)},
	})

	stale := 99
	_, err := f.svc.ChangeState(context.Background(), f.actor, order.ID, model.ChangeStateRequest{
		TargetStatus:    model.StatusEnviada,
		ExpectedVersion: &stale,
	})
	assert.ErrorIs(t, err, model.ErrConcurrentModification)
}

func TestReceivePartialThenComplete(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 10, UnitPrice: decimal.NewFromFloat(5.00)},
	})
	f.send(t, order.ID)
	itemID := order.Items[0].ID.String()

	partial, err := f.svc.Receive(ctx, f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{{ItemID: itemID, Quantity: 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRecibidaParcial, partial.Status)
	assert.Equal(t, int64(6), partial.Items[0].ReceivedQuantity)

	p, err := f.stockSvc.GetPosition(ctx, product.ID, f.locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.QuantityOnHand)

	complete, err := f.svc.Receive(ctx, f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{{ItemID: itemID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRecibidaCompleta, complete.Status)
	assert.Equal(t, int64(10), complete.Items[0].ReceivedQuantity)

	p, err = f.stockSvc.GetPosition(ctx, product.ID, f.locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.QuantityOnHand)

	// Ledger entries reference the order.
	history, err := f.stockSvc.GetHistory(ctx, stockHistoryFilter(product.ID, f.locationID))
	require.NoError(t, err)
	require.Len(t, history.Items, 2)
	for _, m := range history.Items {
		require.NotNil(t, m.ReferenceID)
		assert.Equal(t, order.ID, *m.ReferenceID)
	}
}

func TestReceiveRejectsExcessQuantity(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 10, UnitPrice: decimal.NewFromFloat(5.00)},
	})
	f.send(t, order.ID)
	itemID := order.Items[0].ID.String()

	_, err := f.svc.Receive(ctx, f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{{ItemID: itemID, Quantity: 11}},
	})
	assert.ErrorIs(t, err, model.ErrReceiveExceedsOrdered)

	// Across deliveries the cap still holds.
	_, err = f.svc.Receive(ctx, f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{{ItemID: itemID, Quantity: 6}},
	})
	require.NoError(t, err)

	_, err = f.svc.Receive(ctx, f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{{ItemID: itemID, Quantity: 5}},
	})
	assert.ErrorIs(t, err, model.ErrReceiveExceedsOrdered)

	p, err := f.stockSvc.GetPosition(ctx, product.ID, f.locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.QuantityOnHand)
}

func TestReceiveRequiresSentOrder(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 10, UnitPrice: decimal.NewFromFloat(5.00)},
	})

	_, err := f.svc.Receive(context.Background(), f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{{ItemID: order.Items[0].ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestReceiveFreeTextLineSkipsLedger(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 2, UnitPrice: decimal.NewFromFloat(5.00)},
		{Description: "Cajas de embalaje", Quantity: 4, UnitPrice: decimal.NewFromFloat(1.50)},
	})
	f.send(t, order.ID)

	var productItem, freeItem *model.Item
	for i := range order.Items {
		if order.Items[i].ProductID != nil {
			productItem = &order.Items[i]
		} else {
			freeItem = &order.Items[i]
		}
	}
	require.NotNil(t, productItem)
	require.NotNil(t, freeItem)

	received, err := f.svc.Receive(ctx, f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{
			{ItemID: productItem.ID.String(), Quantity: 2},
			{ItemID: freeItem.ID.String(), Quantity: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusRecibidaCompleta, received.Status)

	p, err := f.stockSvc.GetPosition(ctx, product.ID, f.locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.QuantityOnHand)
}

func TestReceiveDuplicateLineRejected(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 10, UnitPrice: decimal.NewFromFloat(5.00)},
	})
	f.send(t, order.ID)
	itemID := order.Items[0].ID.String()

	_, err := f.svc.Receive(context.Background(), f.actor, order.ID, model.ReceiveRequest{
		Lines: []model.ReceiveLine{
			{ItemID: itemID, Quantity: 2},
			{ItemID: itemID, Quantity: 3},
		},
	})
	assert.ErrorIs(t, err, model.ErrInvalidOrder)
}

func TestUpdateDraftRecomputesTotals(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 1, UnitPrice: decimal.NewFromFloat(10.00)},
	})

	updated, err := f.svc.UpdateDraft(ctx, f.actor, order.ID, model.UpdateDraftRequest{
		Items: []model.ItemRequest{
			{ProductID: uuidStr(product.ID), Quantity: 5, UnitPrice: decimal.NewFromFloat(10.00)},
		},
	})
	require.NoError(t, err)
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromFloat(50.00)))
	assert.True(t, updated.TaxAmount.Equal(decimal.NewFromFloat(10.50)))
	assert.True(t, updated.Total.Equal(decimal.NewFromFloat(60.50)))
	assert.Equal(t, 2, updated.Version)
}

func TestUpdateDraftRejectedAfterSend(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 1, UnitPrice: decimal.NewFromFloat(10.00)},
	})
	f.send(t, order.ID)

	notes := "cambiar condiciones de pago"
	_, err := f.svc.UpdateDraft(context.Background(), f.actor, order.ID, model.UpdateDraftRequest{Notes: &notes})
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestDeleteOnlyBorrador(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-CA2-01", 0)

	draft := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 1, UnitPrice: decimal.NewFromFloat(10.00)},
	})
	require.NoError(t, f.svc.Delete(ctx, draft.ID))
	_, err := f.svc.GetOrder(ctx, draft.ID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	sent := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 1, UnitPrice: decimal.NewFromFloat(10.00)},
	})
	f.send(t, sent.ID)
	err = f.svc.Delete(ctx, sent.ID)
	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestCreateDraftMarksLinkedAlertsOrdering(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-CA2-01", 20)

	// Drop stock below the reorder point so an alert opens.
	_, err := f.stockSvc.PostMovement(ctx, f.actor, stockReceipt(product.ID, f.locationID, 5))
	require.NoError(t, err)

	alerts, err := f.alertSvc.ListAlerts(ctx, alertOpenFilter(product.ID))
	require.NoError(t, err)
	require.Len(t, alerts.Items, 1)

	_, err = f.svc.CreateDraft(ctx, f.actor, model.CreateOrderRequest{
		SupplierID: f.supplierID.String(),
		LocationID: f.locationID.String(),
		Items: []model.ItemRequest{
			{ProductID: uuidStr(product.ID), Quantity: 30, UnitPrice: decimal.NewFromFloat(5.00)},
		},
		AlertIDs: []string{alerts.Items[0].ID.String()},
	})
	require.NoError(t, err)

	alert, err := f.alertSvc.GetAlert(ctx, alerts.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "ordering", string(alert.Status))
}

func TestAttachmentLifecycle(t *testing.T) {
	f := newPurchaseFixture(t)
	ctx := context.Background()
	product := f.createProduct(t, "SKU-CA2-01", 0)

	order := f.createDraft(t, []model.ItemRequest{
		{ProductID: uuidStr(product.ID), Quantity: 1, UnitPrice: decimal.NewFromFloat(10.00)},
	})

	content := "factura 2026-0042"
	attachment, err := f.svc.UploadAttachment(ctx, f.actor, order.ID,
		"factura.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)
	assert.Contains(t, attachment.ObjectKey, order.ID.String())

	list, err := f.svc.ListAttachments(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "factura.pdf", list[0].FileName)

	meta, reader, err := f.svc.DownloadAttachment(ctx, attachment.ID)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, attachment.ID, meta.ID)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}
