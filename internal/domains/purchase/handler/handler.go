package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/purchase/model"
	"dentalcare-backend/internal/domains/purchase/service"
	"dentalcare-backend/internal/shared/middleware"
	"dentalcare-backend/internal/shared/response"
)

type Handler struct {
	svc service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func respondError(c *gin.Context, message string, err error) {
	switch {
	case model.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, message, err.Error())
	case model.IsNotFoundError(err):
		response.Error(c, http.StatusNotFound, message, err.Error())
	case model.IsConflictError(err):
		response.Error(c, http.StatusConflict, message, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, message, err.Error())
	}
}

// CreateDraft crea un pedido en borrador
// POST /orders
func (h *Handler) CreateDraft(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Missing actor identity", nil)
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	order, err := h.svc.CreateDraft(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, "Failed to create order", err)
		return
	}

	response.Success(c, http.StatusCreated, "Order created successfully", order)
}

// UpdateDraft edita un pedido mientras sigue en borrador
// PUT /orders/:id
func (h *Handler) UpdateDraft(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Missing actor identity", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	var req model.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	order, err := h.svc.UpdateDraft(c.Request.Context(), actorID, id, req)
	if err != nil {
		respondError(c, "Failed to update order", err)
		return
	}

	response.Success(c, http.StatusOK, "Order updated successfully", order)
}

// GetOrder devuelve un pedido con líneas e historial
// GET /orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	order, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to get order", err)
		return
	}

	response.Success(c, http.StatusOK, "Order retrieved successfully", order)
}

// ListOrders lista pedidos con filtros
// GET /orders?supplier_id=&location_id=&status=&page=&limit=
func (h *Handler) ListOrders(c *gin.Context) {
	var filter model.ListOrderFilter
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if v := c.Query("supplier_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid supplier ID", err.Error())
			return
		}
		filter.SupplierID = &id
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
		if !status.IsValid() {
			response.Error(c, http.StatusBadRequest, "Invalid status filter", v)
			return
		}
		filter.Status = &status
	}

	listing, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list orders", err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Orders retrieved successfully", listing.Items, response.Meta{
		Page:       listing.Page,
		Limit:      listing.Limit,
		TotalItems: listing.TotalItems,
		TotalPages: listing.TotalPages,
	})
}

// ChangeState aplica una transición de estado
// POST /orders/:id/state
func (h *Handler) ChangeState(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Missing actor identity", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	var req model.ChangeStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	order, err := h.svc.ChangeState(c.Request.Context(), actorID, id, req)
	if err != nil {
		respondError(c, "Failed to change order state", err)
		return
	}

	response.Success(c, http.StatusOK, "Order state changed successfully", order)
}

// Receive registra una entrega de mercancía
// POST /orders/:id/receive
func (h *Handler) Receive(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Missing actor identity", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	var req model.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	order, err := h.svc.Receive(c.Request.Context(), actorID, id, req)
	if err != nil {
		respondError(c, "Failed to receive order", err)
		return
	}

	response.Success(c, http.StatusOK, "Delivery recorded successfully", order)
}

// Delete elimina un pedido en borrador
// DELETE /orders/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete order", err)
		return
	}

	response.Success(c, http.StatusOK, "Order deleted successfully", nil)
}

// UploadAttachment adjunta un albarán o factura al pedido
// POST /orders/:id/attachments (multipart, field "file")
func (h *Handler) UploadAttachment(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Missing actor identity", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Missing file", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Cannot open file", err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	attachment, err := h.svc.UploadAttachment(c.Request.Context(), actorID, id, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		respondError(c, "Failed to upload attachment", err)
		return
	}

	response.Success(c, http.StatusCreated, "Attachment uploaded successfully", attachment)
}

// ListAttachments lista los documentos de un pedido
// GET /orders/:id/attachments
func (h *Handler) ListAttachments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid order ID", err.Error())
		return
	}

	attachments, err := h.svc.ListAttachments(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to list attachments", err)
		return
	}

	response.Success(c, http.StatusOK, "Attachments retrieved successfully", attachments)
}

// DownloadAttachment descarga un documento
// GET /attachments/:id
func (h *Handler) DownloadAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid attachment ID", err.Error())
		return
	}

	attachment, reader, err := h.svc.DownloadAttachment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to download attachment", err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	c.Header("Content-Type", attachment.ContentType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}
