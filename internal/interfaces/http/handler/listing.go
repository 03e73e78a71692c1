package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	generationapp "github.com/listforge/backend/internal/application/generation"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/shared"
	"github.com/listforge/backend/internal/interfaces/http/dto"
)

// ListingHandler handles listing lifecycle and phased generation endpoints
type ListingHandler struct {
	BaseHandler
	phases *generationapp.PhaseService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(phases *generationapp.PhaseService) *ListingHandler {
	return &ListingHandler{phases: phases}
}

// RegisterRoutes registers listing routes
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	listings := rg.Group("/listings")
	{
		listings.POST("", h.CreateWithTitle)
		listings.GET("", h.List)
		listings.GET("/:id", h.Get)
		listings.DELETE("/:id", h.Delete)

		listings.POST("/:id/bullets", h.RunBullets)
		listings.POST("/:id/description", h.RunDescription)
		listings.POST("/:id/backend", h.RunBackend)

		listings.PUT("/:id/sections/:type", h.UpdateSection)
	}
}

// listingListQuery binds the listing list filters
type listingListQuery struct {
	dto.ListRequest
	Phase         string `form:"phase"`
	Status        string `form:"status"`
	CategoryID    string `form:"category_id" binding:"omitempty,uuid"`
	MarketplaceID string `form:"marketplace_id" binding:"omitempty,uuid"`
}

// CreateWithTitle creates a listing and runs its title phase
func (h *ListingHandler) CreateWithTitle(c *gin.Context) {
	var req generationapp.TitlePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.phases.RunTitlePhase(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves a listing with its sections
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID format")
		return
	}

	resp, err := h.phases.GetListing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List lists listings with phase, status and catalog filters
func (h *ListingHandler) List(c *gin.Context) {
	var query listingListQuery
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
		Search:   query.Search,
		Filters:  map[string]interface{}{},
	}
	if query.Phase != "" {
		filter.Filters["phase"] = query.Phase
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

	listings, total, err := h.phases.ListListings(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, listings, total, query.Page, query.PageSize)
}

// Delete deletes a listing and its sections
func (h *ListingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID format")
		return
	}

	if err := h.phases.DeleteListing(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RunBullets runs or regenerates the bullets phase
func (h *ListingHandler) RunBullets(c *gin.Context) {
	h.runPhase(c, h.phases.RunBulletsPhase)
}

// RunDescription runs or regenerates the description phase
func (h *ListingHandler) RunDescription(c *gin.Context) {
	h.runPhase(c, h.phases.RunDescriptionPhase)
}

// RunBackend runs the backend subject-matter phase
func (h *ListingHandler) RunBackend(c *gin.Context) {
	h.runPhase(c, h.phases.RunBackendPhase)
}

// phaseRunner is one of the PhaseService phase entry points
type phaseRunner func(ctx context.Context, listingID uuid.UUID) (*generationapp.ListingResponse, error)

// runPhase parses the listing ID and delegates to one phase runner
func (h *ListingHandler) runPhase(c *gin.Context, run phaseRunner) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID format")
		return
	}

	resp, err := run(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateSection selects a variant or records a human override on a section
func (h *ListingHandler) UpdateSection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID format")
		return
	}

	sectionType := listing.SectionType(c.Param("type"))
	if !sectionType.IsValid() {
		h.BadRequest(c, "Unknown section type: "+c.Param("type"))
		return
	}

	var req generationapp.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	section, err := h.phases.UpdateSection(c.Request.Context(), id, sectionType, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, section)
}
