package handler

import (
	"github.com/gin-gonic/gin"

	researchapp "github.com/listforge/backend/internal/application/research"
	"github.com/listforge/backend/internal/interfaces/http/middleware"
)

// maxIngestBodyBytes caps scraped Q&A payloads from the browser extension
const maxIngestBodyBytes = 2 * 1024 * 1024 // 2MB

// IngestHandler handles the scraping-agent ingestion endpoint
type IngestHandler struct {
	BaseHandler
	ingest    *researchapp.IngestService
	ingestKey string
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(ingest *researchapp.IngestService, ingestKey string) *IngestHandler {
	return &IngestHandler{ingest: ingest, ingestKey: ingestKey}
}

// RegisterRoutes registers ingestion routes behind the pre-shared key check
func (h *IngestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ingest := rg.Group("/ingest",
		middleware.IngestAuth(h.ingestKey),
		middleware.BodyLimit(maxIngestBodyBytes),
	)
	{
		ingest.POST("/qa", h.IngestQA)
	}
}

// IngestQA merges a scraped Q&A batch into the ASIN's stored set
func (h *IngestHandler) IngestQA(c *gin.Context) {
	var req researchapp.IngestQARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.ingest.IngestQA(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
