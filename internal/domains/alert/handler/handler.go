package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/alert/model"
	"dentalcare-backend/internal/domains/alert/service"
	"dentalcare-backend/internal/shared/response"
)

type Handler struct {
	svc service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// ListAlerts lista alertas de reposición
// GET /alerts?product_id=&location_id=&status=&open_only=&page=&limit=
func (h *Handler) ListAlerts(c *gin.Context) {
	var filter model.ListAlertFilter
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.OpenOnly, _ = strconv.ParseBool(c.DefaultQuery("open_only", "false"))

	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
			return
		}
		filter.ProductID = &id
	}
	if v := c.Query("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid location ID", err.Error())
			return
		}
		filter.LocationID = &id
	}
	if v := c.Query("status"); v != "" {
		status := model.Status(v)
		filter.Status = &status
	}

	listing, err := h.svc.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list alerts", err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Alerts retrieved successfully", listing.Items, response.Meta{
		Page:       listing.Page,
		Limit:      listing.Limit,
		TotalItems: listing.TotalItems,
		TotalPages: listing.TotalPages,
	})
}

// GetAlert devuelve una alerta por ID
// GET /alerts/:id
func (h *Handler) GetAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid alert ID", err.Error())
		return
	}

	alert, err := h.svc.GetAlert(c.Request.Context(), id)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.Error(c, http.StatusNotFound, "Alert not found", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get alert", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Alert retrieved successfully", alert)
}

// Acknowledge marca una alerta como vista
// POST /alerts/:id/acknowledge
func (h *Handler) Acknowledge(c *gin.Context) {
	h.applyTransition(c, h.svc.Acknowledge, "Alert acknowledged")
}

// MarkOrdering indica que se está preparando un pedido para la alerta
// POST /alerts/:id/ordering
func (h *Handler) MarkOrdering(c *gin.Context) {
	h.applyTransition(c, h.svc.MarkOrdering, "Alert marked as ordering")
}

// Resolve cierra una alerta manualmente
// POST /alerts/:id/resolve
func (h *Handler) Resolve(c *gin.Context) {
	h.applyTransition(c, h.svc.Resolve, "Alert resolved")
}

func (h *Handler) applyTransition(
	c *gin.Context,
	fn func(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error),
	message string,
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid alert ID", err.Error())
		return
	}

	alert, err := fn(c.Request.Context(), id)
	if err != nil {
		switch {
		case model.IsNotFoundError(err):
			response.Error(c, http.StatusNotFound, "Alert not found", err.Error())
		case model.IsValidationError(err):
			response.Error(c, http.StatusConflict, "Invalid status transition", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to update alert", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, message, alert)
}
