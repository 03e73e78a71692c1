package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	researchapp "github.com/listforge/backend/internal/application/research"
)

// ResearchHandler handles research fetch, fetch job and analysis endpoints
type ResearchHandler struct {
	BaseHandler
	fetch    *researchapp.FetchService
	analyses *researchapp.AnalysisService
}

// NewResearchHandler creates a new ResearchHandler
func NewResearchHandler(fetch *researchapp.FetchService, analyses *researchapp.AnalysisService) *ResearchHandler {
	return &ResearchHandler{fetch: fetch, analyses: analyses}
}

// RegisterRoutes registers research routes
func (h *ResearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	research := rg.Group("/research")
	{
		research.POST("/reviews/fetch", h.FetchReviews)
		research.POST("/qa/fetch", h.FetchQA)

		research.POST("/jobs", h.StartFetchJob)
		research.GET("/jobs/:id", h.GetFetchJob)

		research.POST("/analyses", h.UpsertAnalysis)
		research.GET("/analyses", h.ListAnalyses)
		research.GET("/analyses/selected", h.SelectedAnalyses)
		research.DELETE("/analyses/:id", h.DeleteAnalysis)
	}
}

// analysisQuery binds the analysis scope query parameters
type analysisQuery struct {
	CategoryID    string `form:"category_id" binding:"required,uuid"`
	MarketplaceID string `form:"marketplace_id" binding:"required,uuid"`
}

// FetchReviews runs a synchronous review pull through the provider chain
func (h *ResearchHandler) FetchReviews(c *gin.Context) {
	var req researchapp.FetchReviewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.fetch.FetchReviews(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// FetchQA runs a synchronous Q&A pull through the provider chain
func (h *ResearchHandler) FetchQA(c *gin.Context) {
	var req researchapp.FetchQARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.fetch.FetchQA(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// StartFetchJob dispatches a background pull and returns 202 with the job view
func (h *ResearchHandler) StartFetchJob(c *gin.Context) {
	var req researchapp.StartFetchJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.fetch.StartFetchJob(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, job)
}

// GetFetchJob returns the pollable status view for one fetch job
func (h *ResearchHandler) GetFetchJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fetch job ID format")
		return
	}

	job, err := h.fetch.GetFetchJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// UpsertAnalysis writes one analysis for a (category, marketplace, type, source)
func (h *ResearchHandler) UpsertAnalysis(c *gin.Context) {
	var req researchapp.UpsertAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	analysis, err := h.analyses.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, analysis)
}

// ListAnalyses lists every analysis row for a category and marketplace
func (h *ResearchHandler) ListAnalyses(c *gin.Context) {
	categoryID, marketplaceID, ok := h.bindAnalysisScope(c)
	if !ok {
		return
	}

	analyses, err := h.analyses.List(c.Request.Context(), categoryID, marketplaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, analyses)
}

// SelectedAnalyses lists the winning analysis per type after source priority
func (h *ResearchHandler) SelectedAnalyses(c *gin.Context) {
	categoryID, marketplaceID, ok := h.bindAnalysisScope(c)
	if !ok {
		return
	}

	analyses, err := h.analyses.Selected(c.Request.Context(), categoryID, marketplaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, analyses)
}

// DeleteAnalysis deletes one analysis row
func (h *ResearchHandler) DeleteAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid analysis ID format")
		return
	}

	if err := h.analyses.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// bindAnalysisScope parses the category/marketplace scope query parameters
func (h *ResearchHandler) bindAnalysisScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	var query analysisQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, uuid.Nil, false
	}

	categoryID, err := uuid.Parse(query.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return uuid.Nil, uuid.Nil, false
	}
	marketplaceID, err := uuid.Parse(query.MarketplaceID)
	if err != nil {
		h.BadRequest(c, "Invalid marketplace ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return categoryID, marketplaceID, true
}
