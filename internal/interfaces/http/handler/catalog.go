package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/listforge/backend/internal/application/catalog"
)

// CatalogHandler handles category, marketplace and product type endpoints
type CatalogHandler struct {
	BaseHandler
	categories   *catalogapp.CategoryService
	marketplaces *catalogapp.MarketplaceService
	productTypes *catalogapp.ProductTypeService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	categories *catalogapp.CategoryService,
	marketplaces *catalogapp.MarketplaceService,
	productTypes *catalogapp.ProductTypeService,
) *CatalogHandler {
	return &CatalogHandler{
		categories:   categories,
		marketplaces: marketplaces,
		productTypes: productTypes,
	}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.POST("/:id/archive", h.ArchiveCategory)
		categories.DELETE("/:id", h.DeleteCategory)
		categories.GET("/:id/product-types", h.ListProductTypes)
	}

	marketplaces := rg.Group("/marketplaces")
	{
		marketplaces.POST("", h.CreateMarketplace)
		marketplaces.GET("", h.ListMarketplaces)
		marketplaces.GET("/:id", h.GetMarketplace)
		marketplaces.PUT("/:id", h.UpdateMarketplace)
	}

	productTypes := rg.Group("/product-types")
	{
		productTypes.POST("", h.CreateProductType)
		productTypes.GET("/:id", h.GetProductType)
		productTypes.PUT("/:id", h.UpdateProductType)
		productTypes.DELETE("/:id", h.DeleteProductType)
	}
}

// CreateCategory creates a new research category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// GetCategory retrieves a category by ID
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// ListCategories lists categories with search and status filters
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var filter catalogapp.CategoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	categories, total, err := h.categories.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, categories, total, filter.Page, filter.PageSize)
}

// UpdateCategory updates a category's mutable fields
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// ArchiveCategory archives a category, hiding it from active pickers
func (h *CatalogHandler) ArchiveCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	category, err := h.categories.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// DeleteCategory deletes a category with no listings
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateMarketplace registers a new marketplace
func (h *CatalogHandler) CreateMarketplace(c *gin.Context) {
	var req catalogapp.CreateMarketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	marketplace, err := h.marketplaces.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, marketplace)
}

// GetMarketplace retrieves a marketplace by ID
func (h *CatalogHandler) GetMarketplace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid marketplace ID format")
		return
	}

	marketplace, err := h.marketplaces.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, marketplace)
}

// ListMarketplaces lists all registered marketplaces
func (h *CatalogHandler) ListMarketplaces(c *gin.Context) {
	marketplaces, err := h.marketplaces.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, marketplaces)
}

// UpdateMarketplace updates a marketplace's mutable fields
func (h *CatalogHandler) UpdateMarketplace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid marketplace ID format")
		return
	}

	var req catalogapp.UpdateMarketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	marketplace, err := h.marketplaces.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, marketplace)
}

// CreateProductType creates a product type under a category
func (h *CatalogHandler) CreateProductType(c *gin.Context) {
	var req catalogapp.CreateProductTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productType, err := h.productTypes.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, productType)
}

// GetProductType retrieves a product type by ID
func (h *CatalogHandler) GetProductType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product type ID format")
		return
	}

	productType, err := h.productTypes.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, productType)
}

// ListProductTypes lists the product types under a category
func (h *CatalogHandler) ListProductTypes(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	productTypes, err := h.productTypes.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, productTypes)
}

// UpdateProductType updates a product type's generation defaults
func (h *CatalogHandler) UpdateProductType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product type ID format")
		return
	}

	var req catalogapp.UpdateProductTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	productType, err := h.productTypes.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, productType)
}

// DeleteProductType deletes a product type
func (h *CatalogHandler) DeleteProductType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product type ID format")
		return
	}

	if err := h.productTypes.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
