package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/stock/model"
	"dentalcare-backend/internal/domains/stock/service"
	"dentalcare-backend/internal/shared/middleware"
	"dentalcare-backend/internal/shared/response"
)

type Handler struct {
	svc service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// PostMovement registra un movimiento de stock
// POST /stock/movements
func (h *Handler) PostMovement(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Missing actor identity", nil)
		return
	}

	var req model.PostMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	movement, err := h.svc.PostMovement(c.Request.Context(), actorID, req)
	if err != nil {
		switch {
		case model.IsValidationError(err):
			response.Error(c, http.StatusBadRequest, "Invalid movement", err.Error())
		case errors.Is(err, model.ErrInsufficientStock):
			response.Error(c, http.StatusConflict, "Insufficient stock", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to post movement", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, "Movement posted successfully", movement)
}

// GetPosition devuelve la posición de stock para (producto, ubicación)
// GET /stock/positions/:product_id/:location_id
func (h *Handler) GetPosition(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
		return
	}
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid location ID", err.Error())
		return
	}

	position, err := h.svc.GetPosition(c.Request.Context(), productID, locationID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get position", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Position retrieved successfully", position)
}

// GetHistory devuelve el historial de movimientos, más recientes primero
// GET /stock/positions/:product_id/:location_id/movements?page=&limit=
func (h *Handler) GetHistory(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
		return
	}
	locationID, err := uuid.Parse(c.Param("location_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid location ID", err.Error())
		return
	}

	filter := model.HistoryFilter{ProductID: productID, LocationID: locationID}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	history, err := h.svc.GetHistory(c.Request.Context(), filter)
	if err != nil {
		if model.IsValidationError(err) {
			response.Error(c, http.StatusBadRequest, "Invalid pagination", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get history", err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "History retrieved successfully", history.Items, response.Meta{
		Page:       history.Page,
		Limit:      history.Limit,
		TotalItems: history.TotalItems,
		TotalPages: history.TotalPages,
	})
}
