package aigen

import (
	"fmt"
	"strings"

	"github.com/listforge/backend/internal/domain/integration"
	"github.com/listforge/backend/internal/domain/listing"
)

// systemPrompt pins the model to the copywriter role and the JSON contract.
// The response schema mirrors GenerationResult so parsing stays mechanical.
const systemPrompt = `You are an expert Amazon listing copywriter. You write marketplace-compliant listing content and track keyword coverage.

Respond with a single JSON object and nothing else, using this schema:
{
  "sections": [{"type": "<section type>", "position": <int>, "variants": ["<text>", ...]}],
  "coverage": {"placed": ["<keyword>", ...], "remaining": ["<keyword>", ...], "score": <number>}
}

Move every keyword you worked into the new content from "remaining" to "placed". Never invent product claims that are not supported by the provided research.`

// phaseInstructions names what each phase must produce
var phaseInstructions = map[listing.Phase]string{
	listing.PhaseTitle:       `Produce one "title" section with %d title variants, each at most %d characters.`,
	listing.PhaseBullets:     `Produce %d "bullet" sections (positions 0..%d), each with %d variants of at most %d characters.`,
	listing.PhaseDescription: `Produce one "description" section (max %d characters) and one "search_terms" section (max %d characters), each with %d variants.`,
	listing.PhaseComplete:    `Produce one "subject_matter" section and one "backend_attributes" section (hidden attribute keywords), each with %d variants of concise backend text.`,
}

// buildUserPrompt flattens one generation request into the user message
func buildUserPrompt(req integration.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product: %s\nBrand: %s\n", req.ProductName, req.Brand)
	if req.ASIN != "" {
		fmt.Fprintf(&b, "ASIN: %s\n", req.ASIN)
	}
	fmt.Fprintf(&b, "Marketplace: %s (write in %s)\n", req.MarketplaceCode, req.Language)

	switch req.Mode {
	case listing.ModeOptimize:
		fmt.Fprintf(&b, "\nOptimize this existing listing text, keeping what works:\n%s\n", req.ReferenceText)
	case listing.ModeBasedExisting:
		fmt.Fprintf(&b, "\nUse this existing listing as loose inspiration only:\n%s\n", req.ReferenceText)
	}

	if len(req.AnalysisSummaries) > 0 {
		b.WriteString("\nResearch:\n")
		for _, analysisType := range analysisOrder {
			if summary, ok := req.AnalysisSummaries[analysisType]; ok && summary != "" {
				fmt.Fprintf(&b, "[%s]\n%s\n", analysisType, summary)
			}
		}
	}

	if req.ConfirmedTitle != "" {
		fmt.Fprintf(&b, "\nConfirmed title: %s\n", req.ConfirmedTitle)
	}
	if len(req.ConfirmedBullets) > 0 {
		b.WriteString("Confirmed bullets:\n")
		for i, bullet := range req.ConfirmedBullets {
			fmt.Fprintf(&b, "%d. %s\n", i+1, bullet)
		}
	}
	if req.ConfirmedDescription != "" {
		fmt.Fprintf(&b, "Confirmed description: %s\n", req.ConfirmedDescription)
	}
	if req.ConfirmedSearchTerms != "" {
		fmt.Fprintf(&b, "Confirmed search terms: %s\n", req.ConfirmedSearchTerms)
	}

	fmt.Fprintf(&b, "\nKeywords already placed: %s\n", joinOrNone(req.Coverage.Placed))
	fmt.Fprintf(&b, "Keywords still to place: %s\n", joinOrNone(req.Coverage.Remaining))

	b.WriteString("\nTask: ")
	b.WriteString(phaseTask(req))
	return b.String()
}

// analysisOrder fixes the research block ordering in the prompt
var analysisOrder = []string{"keyword", "review", "qa", "competitor", "market_intelligence"}

// phaseTask renders the phase instruction with the request's limits
func phaseTask(req integration.GenerationRequest) string {
	switch req.Phase {
	case listing.PhaseTitle:
		return fmt.Sprintf(phaseInstructions[listing.PhaseTitle], req.VariantCount, req.Limits.Title)
	case listing.PhaseBullets:
		return fmt.Sprintf(phaseInstructions[listing.PhaseBullets],
			req.BulletCount, req.BulletCount-1, req.VariantCount, req.Limits.Bullet)
	case listing.PhaseDescription:
		return fmt.Sprintf(phaseInstructions[listing.PhaseDescription],
			req.Limits.Description, req.Limits.SearchTerms, req.VariantCount)
	case listing.PhaseComplete:
		return fmt.Sprintf(phaseInstructions[listing.PhaseComplete], req.VariantCount)
	}
	return ""
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
