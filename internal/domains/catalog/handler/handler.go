package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/catalog/model"
	"dentalcare-backend/internal/domains/catalog/service"
	"dentalcare-backend/internal/shared/response"
)

type Handler struct {
	svc service.ServiceInterface
}

func NewHandler(svc service.ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// ==================== PRODUCTS ====================

// CreateProduct registra un producto nuevo
// POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		if model.IsValidationError(err) {
			response.Error(c, http.StatusBadRequest, "Invalid product", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create product", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Product created successfully", product)
}

// GetProduct devuelve un producto por ID
// GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
		return
	}

	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.Error(c, http.StatusNotFound, "Product not found", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get product", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Product retrieved successfully", product)
}

// UpdateProduct actualiza campos de un producto
// PUT /products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid product ID", err.Error())
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.Error(c, http.StatusNotFound, "Product not found", err.Error())
			return
		}
		if model.IsValidationError(err) {
			response.Error(c, http.StatusBadRequest, "Invalid update", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to update product", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Product updated successfully", product)
}

// ListProducts lista productos con filtros y paginado
// GET /products?keyword=&category=&active=&page=&limit=
func (h *Handler) ListProducts(c *gin.Context) {
	filter := model.ListProductFilter{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid active filter", err.Error())
			return
		}
		filter.Active = &active
	}

	listing, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list products", err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Products retrieved successfully", listing.Items, response.Meta{
		Page:       listing.Page,
		Limit:      listing.Limit,
		TotalItems: listing.TotalItems,
		TotalPages: listing.TotalPages,
	})
}

// ImportProducts importa productos desde un Excel
// POST /products/import (multipart, field "file")
func (h *Handler) ImportProducts(c *gin.Context) {
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

	result, err := h.svc.ImportProducts(c.Request.Context(), file)
	if err != nil {
		if model.IsValidationError(err) {
			response.Error(c, http.StatusBadRequest, "Invalid import file", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to import products", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Import finished", result)
}

// ExportProducts descarga el catálogo como Excel
// GET /products/export
func (h *Handler) ExportProducts(c *gin.Context) {
	filter := model.ListProductFilter{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
	}

	f, err := h.svc.ExportProducts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to export products", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to write workbook", err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ==================== SUPPLIERS ====================

// CreateSupplier registra un proveedor
// POST /suppliers
func (h *Handler) CreateSupplier(c *gin.Context) {
	var req model.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	supplier, err := h.svc.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		if model.IsValidationError(err) {
			response.Error(c, http.StatusBadRequest, "Invalid supplier", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create supplier", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Supplier created successfully", supplier)
}

// GetSupplier devuelve un proveedor por ID
// GET /suppliers/:id
func (h *Handler) GetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid supplier ID", err.Error())
		return
	}

	supplier, err := h.svc.GetSupplier(c.Request.Context(), id)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.Error(c, http.StatusNotFound, "Supplier not found", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get supplier", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Supplier retrieved successfully", supplier)
}

// ListSuppliers lista proveedores
// GET /suppliers?active_only=
func (h *Handler) ListSuppliers(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))

	suppliers, err := h.svc.ListSuppliers(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list suppliers", err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Suppliers retrieved successfully", suppliers)
}
