package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockmodel "dentalcare-backend/internal/domains/stock/model"
	"dentalcare-backend/internal/domains/treatment/model"
	"dentalcare-backend/internal/domains/treatment/service"
	"dentalcare-backend/internal/shared/middleware"
	"dentalcare-backend/internal/shared/response"
)

type Handler struct {
	svc service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// SetProfile reemplaza la lista de materiales de un tratamiento
// PUT /treatments/:id/consumption
func (h *Handler) SetProfile(c *gin.Context) {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid treatment ID", err.Error())
		return
	}

	var req model.SetProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	profile, err := h.svc.SetConsumptionProfile(c.Request.Context(), treatmentID, req)
	if err != nil {
		if model.IsValidationError(err) {
			response.Error(c, http.StatusBadRequest, "Invalid profile", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to set profile", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Consumption profile saved", profile)
}

// GetProfile devuelve el perfil de consumo de un tratamiento
// GET /treatments/:id/consumption
func (h *Handler) GetProfile(c *gin.Context) {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid treatment ID", err.Error())
		return
	}

	profile, err := h.svc.GetConsumptionProfile(c.Request.Context(), treatmentID)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.Error(c, http.StatusNotFound, "Profile not found", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get profile", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// DeleteProfile elimina el perfil de consumo
// DELETE /treatments/:id/consumption
func (h *Handler) DeleteProfile(c *gin.Context) {
	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid treatment ID", err.Error())
		return
	}

	if err := h.svc.DeleteConsumptionProfile(c.Request.Context(), treatmentID); err != nil {
		if model.IsNotFoundError(err) {
			response.Error(c, http.StatusNotFound, "Profile not found", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to delete profile", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Profile deleted successfully", nil)
}

// ApplyConsumption registra la ejecución de un tratamiento y descuenta stock
// POST /treatments/:id/consume
func (h *Handler) ApplyConsumption(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Missing actor identity", nil)
		return
	}

	treatmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid treatment ID", err.Error())
		return
	}

	var req model.ApplyConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid location ID", err.Error())
		return
	}

	result, err := h.svc.ApplyConsumption(c.Request.Context(), actorID, treatmentID, locationID)
	if err != nil {
		switch {
		case model.IsNotFoundError(err):
			response.Error(c, http.StatusNotFound, "Profile not found", err.Error())
		case errors.Is(err, stockmodel.ErrInsufficientStock):
			response.Error(c, http.StatusConflict, "Insufficient stock", err.Error())
		case stockmodel.IsValidationError(err):
			response.Error(c, http.StatusBadRequest, "Invalid consumption", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to apply consumption", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, "Consumption applied successfully", result)
}
