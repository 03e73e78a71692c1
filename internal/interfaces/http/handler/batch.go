package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	generationapp "github.com/listforge/backend/internal/application/generation"
	"github.com/listforge/backend/internal/domain/shared"
	"github.com/listforge/backend/internal/interfaces/http/dto"
)

// BatchHandler handles batch generation endpoints
type BatchHandler struct {
	BaseHandler
	batches *generationapp.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batches *generationapp.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// RegisterRoutes registers batch routes
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	{
		batches.POST("", h.Start)
		batches.GET("", h.List)
		batches.GET("/:id", h.Get)
	}
}

// batchListQuery binds the batch list filters
type batchListQuery struct {
	dto.ListRequest
	Status        string `form:"status"`
	CategoryID    string `form:"category_id" binding:"omitempty,uuid"`
	MarketplaceID string `form:"marketplace_id" binding:"omitempty,uuid"`
}

// Start kicks off a batch generation run and returns 202 with the job view
func (h *BatchHandler) Start(c *gin.Context) {
	var req generationapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.batches.StartBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, job)
}

// Get returns the pollable progress view for one batch
func (h *BatchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch job ID format")
		return
	}

	job, err := h.batches.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// List lists batch jobs with status and catalog filters
func (h *BatchHandler) List(c *gin.Context) {
	var query batchListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.ApplyDefaults()

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.CategoryID != "" {
		filter.Filters["category_id"] = query.CategoryID
	}
	if query.MarketplaceID != "" {
		filter.Filters["marketplace_id"] = query.MarketplaceID
	}

	jobs, total, err := h.batches.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, jobs, total, query.Page, query.PageSize)
}
