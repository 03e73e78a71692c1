package generation

import (
	"fmt"
	"strings"

	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/research"
)

// ResearchInput is the generation context assembled once per (category,
// marketplace) pair: one flattened summary per analysis type plus the
// initial keyword-coverage state derived from the keyword analysis.
type ResearchInput struct {
	Summaries       map[string]string
	InitialCoverage listing.KeywordCoverage
}

// assembleResearchInput runs the source selector over all analysis rows of
// the pair and flattens each pick into prompt-ready text. Listings generate
// fine with no research at all; an empty input just means the model works
// from the product facts alone.
func assembleResearchInput(rows []research.Analysis) *ResearchInput {
	input := &ResearchInput{
		Summaries:       make(map[string]string),
		InitialCoverage: listing.EmptyCoverage(),
	}

	for analysisType, pick := range research.SelectPreferredByType(rows) {
		if pick == nil {
			continue
		}
		summary, err := summarizeAnalysis(pick)
		if err != nil || summary == "" {
			continue
		}
		input.Summaries[string(analysisType)] = summary

		if analysisType == research.AnalysisTypeKeyword {
			if payload, err := pick.Keyword(); err == nil {
				input.InitialCoverage = initialCoverage(payload)
			}
		}
	}
	return input
}

// initialCoverage seeds the coverage accumulator: every target keyword
// starts in the remaining set, nothing placed yet.
func initialCoverage(payload *research.KeywordPayload) listing.KeywordCoverage {
	coverage := listing.EmptyCoverage()
	for _, stat := range payload.TopKeywords {
		if kw := strings.TrimSpace(stat.Keyword); kw != "" {
			coverage.Remaining = append(coverage.Remaining, kw)
		}
	}
	for _, stat := range payload.LongTail {
		if kw := strings.TrimSpace(stat.Keyword); kw != "" {
			coverage.Remaining = append(coverage.Remaining, kw)
		}
	}
	return coverage
}

func summarizeAnalysis(a *research.Analysis) (string, error) {
	switch a.Type {
	case research.AnalysisTypeKeyword:
		payload, err := a.Keyword()
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(payload.TopKeywords))
		for _, stat := range payload.TopKeywords {
			parts = append(parts, fmt.Sprintf("%s (%d)", stat.Keyword, stat.Volume))
		}
		return joinSummary("Target keywords", parts), nil

	case research.AnalysisTypeReview:
		payload, err := a.Review()
		if err != nil {
			return "", err
		}
		var lines []string
		if len(payload.Themes) > 0 {
			lines = append(lines, joinSummary("Themes", payload.Themes))
		}
		if len(payload.Praises) > 0 {
			lines = append(lines, joinSummary("Praised", payload.Praises))
		}
		if len(payload.Complaints) > 0 {
			lines = append(lines, joinSummary("Complaints", payload.Complaints))
		}
		return strings.Join(lines, "\n"), nil

	case research.AnalysisTypeQA:
		payload, err := a.QA()
		if err != nil {
			return "", err
		}
		var lines []string
		if len(payload.CommonQuestions) > 0 {
			lines = append(lines, joinSummary("Common questions", payload.CommonQuestions))
		}
		if len(payload.BuyerConcerns) > 0 {
			lines = append(lines, joinSummary("Buyer concerns", payload.BuyerConcerns))
		}
		return strings.Join(lines, "\n"), nil

	case research.AnalysisTypeCompetitor:
		payload, err := a.Competitor()
		if err != nil {
			return "", err
		}
		var lines []string
		if len(payload.TopFeatures) > 0 {
			lines = append(lines, joinSummary("Competitor features", payload.TopFeatures))
		}
		if len(payload.Gaps) > 0 {
			lines = append(lines, joinSummary("Gaps", payload.Gaps))
		}
		if payload.PriceRange != "" {
			lines = append(lines, "Price range: "+payload.PriceRange)
		}
		return strings.Join(lines, "\n"), nil

	case research.AnalysisTypeMarketIntel:
		payload, err := a.MarketIntel()
		if err != nil {
			return "", err
		}
		var lines []string
		if len(payload.Trends) > 0 {
			lines = append(lines, joinSummary("Trends", payload.Trends))
		}
		if payload.Audience != "" {
			lines = append(lines, "Audience: "+payload.Audience)
		}
		if payload.Seasonality != "" {
			lines = append(lines, "Seasonality: "+payload.Seasonality)
		}
		return strings.Join(lines, "\n"), nil
	}
	return "", nil
}

func joinSummary(label string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return label + ": " + strings.Join(items, ", ")
}
