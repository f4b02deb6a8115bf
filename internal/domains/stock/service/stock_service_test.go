package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare-backend/internal/domains/stock/model"
	"dentalcare-backend/internal/domains/stock/repository"
	"dentalcare-backend/internal/shared"
)

func newTestService() (*StockService, shared.FixedClock) {
	clock := shared.FixedClock{Instant: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
	return NewService(repository.NewMemoryRepository(), clock), clock
}

func strPtr(s string) *string { return &s }

func TestPostMovementUpdatesPosition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	m, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindPurchaseReceipt,
		QuantityDelta: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), m.ResultingQuantity)
	assert.Equal(t, actor, m.ActorID)

	p, err := svc.GetPosition(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), p.QuantityOnHand)
	require.NotNil(t, p.LastMovementID)
	assert.Equal(t, m.ID, *p.LastMovementID)
}

func TestPostMovementRejectsSignMismatch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	cases := []struct {
		name  string
		kind  model.MovementKind
		delta int64
	}{
		{"negative purchase receipt", model.KindPurchaseReceipt, -5},
		{"negative return", model.KindReturn, -1},
		{"positive clinical use", model.KindClinicalUse, 5},
		{"negative manual adjustment in", model.KindManualAdjustmentIn, -3},
		{"positive manual adjustment out", model.KindManualAdjustmentOut, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
				ProductID:     productID,
				LocationID:    locationID,
				Kind:          tc.kind,
				QuantityDelta: tc.delta,
				Reason:        strPtr("cycle count"),
			})
			assert.ErrorIs(t, err, model.ErrSignMismatch)
		})
	}
}

func TestPostMovementRejectsZeroDeltaAndUnknownKind(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()

	_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     uuid.New(),
		LocationID:    uuid.New(),
		Kind:          model.KindPurchaseReceipt,
		QuantityDelta: 0,
	})
	assert.ErrorIs(t, err, model.ErrInvalidMovement)

	_, err = svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     uuid.New(),
		LocationID:    uuid.New(),
		Kind:          "transfer",
		QuantityDelta: 5,
	})
	assert.ErrorIs(t, err, model.ErrInvalidMovement)
}

func TestManualAdjustmentRequiresReason(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindManualAdjustmentIn,
		QuantityDelta: 10,
	})
	assert.ErrorIs(t, err, model.ErrMissingReason)

	_, err = svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindManualAdjustmentIn,
		QuantityDelta: 10,
		Reason:        strPtr("   "),
	})
	assert.ErrorIs(t, err, model.ErrMissingReason)

	_, err = svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindManualAdjustmentIn,
		QuantityDelta: 10,
		Reason:        strPtr("cycle count correction"),
	})
	assert.NoError(t, err)
}

func TestPostMovementRejectsInsufficientStock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindPurchaseReceipt,
		QuantityDelta: 3,
	})
	require.NoError(t, err)

	_, err = svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindClinicalUse,
		QuantityDelta: -5,
	})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	// The rejected movement must not touch the position.
	p, err := svc.GetPosition(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.QuantityOnHand)
}

func TestGetPositionNeverMovedIsZero(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.GetPosition(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.QuantityOnHand)
	assert.Nil(t, p.LastMovementID)
}

func TestGetHistoryNewestFirstWithSeqTieBreak(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	// All movements share the fixed clock's timestamp, so ordering falls
	// back to insertion order.
	deltas := []int64{10, 20, 30}
	for _, d := range deltas {
		_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
			ProductID:     productID,
			LocationID:    locationID,
			Kind:          model.KindPurchaseReceipt,
			QuantityDelta: d,
		})
		require.NoError(t, err)
	}

	resp, err := svc.GetHistory(ctx, model.HistoryFilter{ProductID: productID, LocationID: locationID})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, 3, resp.TotalItems)

	// Same timestamp: insertion order (Seq ascending) decides.
	assert.Equal(t, int64(10), resp.Items[0].QuantityDelta)
	assert.Equal(t, int64(20), resp.Items[1].QuantityDelta)
	assert.Equal(t, int64(30), resp.Items[2].QuantityDelta)
	assert.Less(t, resp.Items[0].Seq, resp.Items[1].Seq)
}

func TestGetHistoryPaginationValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetHistory(ctx, model.HistoryFilter{ProductID: uuid.New(), LocationID: uuid.New(), Page: -1})
	assert.ErrorIs(t, err, model.ErrInvalidPagination)

	_, err = svc.GetHistory(ctx, model.HistoryFilter{ProductID: uuid.New(), LocationID: uuid.New(), Limit: 500})
	assert.ErrorIs(t, err, model.ErrInvalidPagination)

	resp, err := svc.GetHistory(ctx, model.HistoryFilter{ProductID: uuid.New(), LocationID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}

func TestReplayingHistoryReproducesPosition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	reqs := []model.PostMovementRequest{
		{ProductID: productID, LocationID: locationID, Kind: model.KindPurchaseReceipt, QuantityDelta: 100},
		{ProductID: productID, LocationID: locationID, Kind: model.KindClinicalUse, QuantityDelta: -40},
		{ProductID: productID, LocationID: locationID, Kind: model.KindManualAdjustmentOut, QuantityDelta: -5, Reason: strPtr("expired")},
		{ProductID: productID, LocationID: locationID, Kind: model.KindReturn, QuantityDelta: 8},
	}
	for _, req := range reqs {
		_, err := svc.PostMovement(ctx, actor, req)
		require.NoError(t, err)
	}

	resp, err := svc.GetHistory(ctx, model.HistoryFilter{ProductID: productID, LocationID: locationID, Limit: 100})
	require.NoError(t, err)

	var sum int64
	for _, m := range resp.Items {
		sum += m.QuantityDelta
	}

	p, err := svc.GetPosition(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, sum, p.QuantityOnHand)
	assert.Equal(t, int64(63), p.QuantityOnHand)
}

func TestPostMovementsBatchIsAllOrNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	locationID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID: productA, LocationID: locationID, Kind: model.KindPurchaseReceipt, QuantityDelta: 10,
	})
	require.NoError(t, err)
	_, err = svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID: productB, LocationID: locationID, Kind: model.KindPurchaseReceipt, QuantityDelta: 3,
	})
	require.NoError(t, err)

	// Second line overdraws product B, so product A must stay untouched.
	_, err = svc.PostMovements(ctx, actor, []model.PostMovementRequest{
		{ProductID: productA, LocationID: locationID, Kind: model.KindClinicalUse, QuantityDelta: -2},
		{ProductID: productB, LocationID: locationID, Kind: model.KindClinicalUse, QuantityDelta: -5},
	})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	pa, err := svc.GetPosition(ctx, productA, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pa.QuantityOnHand)

	pb, err := svc.GetPosition(ctx, productB, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pb.QuantityOnHand)
}

func TestPostMovementsBatchChecksRunningQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID: productID, LocationID: locationID, Kind: model.KindPurchaseReceipt, QuantityDelta: 5,
	})
	require.NoError(t, err)

	// Each line is valid against the starting quantity but the second
	// overdraws the running quantity after the first.
	_, err = svc.PostMovements(ctx, actor, []model.PostMovementRequest{
		{ProductID: productID, LocationID: locationID, Kind: model.KindClinicalUse, QuantityDelta: -4},
		{ProductID: productID, LocationID: locationID, Kind: model.KindClinicalUse, QuantityDelta: -4},
	})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	p, err := svc.GetPosition(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.QuantityOnHand)
}

func TestPostMovementsEmptyBatch(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.PostMovements(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, model.ErrInvalidMovement)
}

type recordingListener struct {
	mu     sync.Mutex
	events []model.StockChanged
	fail   bool
}

func (l *recordingListener) OnStockChanged(ctx context.Context, event model.StockChanged) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	if l.fail {
		return errors.New("listener down")
	}
	return nil
}

func TestListenersReceiveEventsInOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	listener := &recordingListener{}
	svc.RegisterListener(listener)

	_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID: productID, LocationID: locationID, Kind: model.KindPurchaseReceipt, QuantityDelta: 20,
	})
	require.NoError(t, err)
	_, err = svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID: productID, LocationID: locationID, Kind: model.KindClinicalUse, QuantityDelta: -8,
	})
	require.NoError(t, err)

	require.Len(t, listener.events, 2)
	assert.Equal(t, int64(0), listener.events[0].PreviousQuantity)
	assert.Equal(t, int64(20), listener.events[0].NewQuantity)
	assert.Equal(t, int64(20), listener.events[1].PreviousQuantity)
	assert.Equal(t, int64(12), listener.events[1].NewQuantity)
}

func TestListenerFailureDoesNotFailMovement(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	productID := uuid.New()
	locationID := uuid.New()

	svc.RegisterListener(&recordingListener{fail: true})

	_, err := svc.PostMovement(ctx, uuid.New(), model.PostMovementRequest{
		ProductID: productID, LocationID: locationID, Kind: model.KindPurchaseReceipt, QuantityDelta: 5,
	})
	require.NoError(t, err)

	p, err := svc.GetPosition(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.QuantityOnHand)
}

func TestConcurrentPostsNeverOverdraw(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := uuid.New()
	productID := uuid.New()
	locationID := uuid.New()

	_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
		ProductID: productID, LocationID: locationID, Kind: model.KindPurchaseReceipt, QuantityDelta: 50,
	})
	require.NoError(t, err)

	// 100 writers each try to consume 1 unit; only 50 can succeed.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PostMovement(ctx, actor, model.PostMovementRequest{
				ProductID: productID, LocationID: locationID, Kind: model.KindClinicalUse, QuantityDelta: -1,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)

	p, err := svc.GetPosition(ctx, productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.QuantityOnHand)
}
