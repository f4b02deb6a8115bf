package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare-backend/internal/domains/stock/model"
	"dentalcare-backend/internal/domains/stock/repository"
	"dentalcare-backend/internal/domains/stock/service"
	"dentalcare-backend/internal/shared"
	"dentalcare-backend/internal/shared/middleware"
)

func newTestRouter(t *testing.T, actorID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := shared.FixedClock{Instant: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
	svc := service.NewService(repository.NewMemoryRepository(), clock)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextActorID, actorID)
		c.Next()
	})
	r.POST("/stock/movements", h.PostMovement)
	r.GET("/stock/positions/:product_id/:location_id", h.GetPosition)
	r.GET("/stock/positions/:product_id/:location_id/movements", h.GetHistory)

	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostMovementEndpoint(t *testing.T) {
	r := newTestRouter(t, uuid.New())
	productID := uuid.New()
	locationID := uuid.New()

	w := postJSON(t, r, "/stock/movements", model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindPurchaseReceipt,
		QuantityDelta: 12,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Success bool           `json:"success"`
		Data    model.Movement `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, int64(12), envelope.Data.ResultingQuantity)
}

func TestPostMovementEndpointInsufficientStockIsConflict(t *testing.T) {
	r := newTestRouter(t, uuid.New())
	productID := uuid.New()
	locationID := uuid.New()

	w := postJSON(t, r, "/stock/movements", model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindClinicalUse,
		QuantityDelta: -3,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPostMovementEndpointValidationIsBadRequest(t *testing.T) {
	r := newTestRouter(t, uuid.New())

	w := postJSON(t, r, "/stock/movements", model.PostMovementRequest{
		ProductID:     uuid.New(),
		LocationID:    uuid.New(),
		Kind:          model.KindManualAdjustmentOut,
		QuantityDelta: -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPositionEndpoint(t *testing.T) {
	r := newTestRouter(t, uuid.New())
	productID := uuid.New()
	locationID := uuid.New()

	w := postJSON(t, r, "/stock/movements", model.PostMovementRequest{
		ProductID:     productID,
		LocationID:    locationID,
		Kind:          model.KindPurchaseReceipt,
		QuantityDelta: 7,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/stock/positions/%s/%s", productID, locationID), nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var envelope struct {
		Data model.StockPosition `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &envelope))
	assert.Equal(t, int64(7), envelope.Data.QuantityOnHand)
}

func TestGetHistoryEndpointMeta(t *testing.T) {
	r := newTestRouter(t, uuid.New())
	productID := uuid.New()
	locationID := uuid.New()

	for i := 0; i < 3; i++ {
		w := postJSON(t, r, "/stock/movements", model.PostMovementRequest{
			ProductID:     productID,
			LocationID:    locationID,
			Kind:          model.KindPurchaseReceipt,
			QuantityDelta: 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/stock/positions/%s/%s/movements?page=1&limit=2", productID, locationID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []model.Movement `json:"data"`
		Meta struct {
			TotalItems int `json:"total_items"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, 3, envelope.Meta.TotalItems)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
}
