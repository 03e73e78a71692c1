package sourcing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/listforge/backend/internal/domain/integration"
	"github.com/listforge/backend/internal/domain/research"
)

// ApifyAdapter implements the ScrapeActorSource interface against the Apify
// actor API: submit a run, poll until terminal, download the dataset. Each
// Fetch call hides one full cycle behind the call's context deadline.
type ApifyAdapter struct {
	config     *ApifyConfig
	httpClient *http.Client
}

// NewApifyAdapter creates a new Apify adapter with the given configuration
func NewApifyAdapter(config *ApifyConfig) (*ApifyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ApifyAdapter{
		config: config,
		// The overall cycle is bounded per call via context; individual
		// HTTP round trips get a shorter client timeout.
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Name returns the provider name used in chain records and error messages
func (a *ApifyAdapter) Name() string {
	return "apify"
}

// FetchReviewPage scrapes one page of reviews for an ASIN
func (a *ApifyAdapter) FetchReviewPage(ctx context.Context, asin, domain string, page int) (*integration.ReviewPage, error) {
	if a.config.ReviewActor == "" {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("no review actor configured"))
	}

	input := map[string]any{
		"asin":   asin,
		"domain": domain,
		"page":   page,
	}
	items, err := a.runActor(ctx, a.config.ReviewActor, input)
	if err != nil {
		return nil, err
	}

	result := &integration.ReviewPage{Page: page}
	for _, raw := range items {
		var item apifyReviewItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.ReviewID == "" {
			continue
		}
		result.Items = append(result.Items, research.Review{
			ReviewID:     item.ReviewID,
			Title:        item.Title,
			Body:         item.Text,
			Rating:       item.Rating.Decimal,
			HelpfulCount: int(item.HelpfulStatement),
			Reviewer:     item.Author,
			Date:         item.Date,
			Verified:     item.Verified,
		})
	}
	if len(result.Items) == 0 {
		return nil, integration.NewEmptyResultError(a.Name())
	}
	return result, nil
}

// FetchQAPage scrapes one page of Q&A pairs for an ASIN
func (a *ApifyAdapter) FetchQAPage(ctx context.Context, asin, domain string, page int) (*integration.QAPage, error) {
	if a.config.QAActor == "" {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("no qa actor configured"))
	}

	input := map[string]any{
		"asin":   asin,
		"domain": domain,
		"page":   page,
	}
	items, err := a.runActor(ctx, a.config.QAActor, input)
	if err != nil {
		return nil, err
	}

	result := &integration.QAPage{Page: page}
	for _, raw := range items {
		var item apifyQAItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Question == "" || item.Answer == "" {
			continue
		}
		result.Items = append(result.Items, research.QAItem{
			Question: item.Question,
			Answer:   item.Answer,
			Votes:    int(item.Votes),
			AskedAt:  item.Date,
		})
	}
	if len(result.Items) == 0 {
		return nil, integration.NewEmptyResultError(a.Name())
	}
	return result, nil
}

// FetchSellerCatalog scrapes the full catalog of one seller
func (a *ApifyAdapter) FetchSellerCatalog(ctx context.Context, sellerID, domain string) ([]integration.ProductInfo, error) {
	if a.config.CatalogActor == "" {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("no catalog actor configured"))
	}

	input := map[string]any{
		"sellerId": sellerID,
		"domain":   domain,
	}
	items, err := a.runActor(ctx, a.config.CatalogActor, input)
	if err != nil {
		return nil, err
	}

	var products []integration.ProductInfo
	for _, raw := range items {
		var item apifyCatalogItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.ASIN == "" {
			continue
		}
		products = append(products, integration.ProductInfo{
			ASIN:        item.ASIN,
			Title:       item.Title,
			Brand:       item.Brand,
			Bullets:     item.Bullets,
			Description: item.Description,
			Rating:      item.Rating.Decimal,
			ReviewCount: int(item.ReviewCount),
		})
	}
	if len(products) == 0 {
		return nil, integration.NewEmptyResultError(a.Name())
	}
	return products, nil
}

// runActor submits a run, polls until the run is terminal and downloads the
// dataset items. The context carries the caller's time budget for the whole
// cycle; hitting it reports a timeout failure.
func (a *ApifyAdapter) runActor(ctx context.Context, actorID string, input map[string]any) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	run, err := a.submitRun(ctx, actorID, input)
	if err != nil {
		return nil, err
	}

	for !isTerminalRunStatus(run.Status) {
		select {
		case <-ctx.Done():
			return nil, integration.NewTimeoutError(a.Name(), fmt.Errorf("run %s still %s: %w", run.ID, run.Status, ctx.Err()))
		case <-time.After(a.config.PollInterval):
		}

		run, err = a.pollRun(ctx, run.ID)
		if err != nil {
			return nil, err
		}
	}

	if run.Status != apifyRunSucceeded {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("run %s ended %s: %s", run.ID, run.Status, run.StatusMessage))
	}
	return a.fetchDatasetItems(ctx, run.DefaultDatasetID)
}

// submitRun starts an actor run with the given input
func (a *ApifyAdapter) submitRun(ctx context.Context, actorID string, input map[string]any) (*apifyRunData, error) {
	bodyBytes, err := json.Marshal(input)
	if err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to marshal input: %w", err))
	}

	requestURL := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", a.config.BaseURL, actorID, a.config.APIKey)
	respBody, err := a.doRequest(ctx, http.MethodPost, requestURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	var resp apifyRunResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to parse run response: %w", err))
	}
	if resp.Data.ID == "" {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("run submission returned no run id"))
	}
	return &resp.Data, nil
}

// pollRun fetches the current state of a run
func (a *ApifyAdapter) pollRun(ctx context.Context, runID string) (*apifyRunData, error) {
	requestURL := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", a.config.BaseURL, runID, a.config.APIKey)
	respBody, err := a.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	var resp apifyRunResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to parse run status: %w", err))
	}
	return &resp.Data, nil
}

// fetchDatasetItems downloads the items of a finished run's dataset
func (a *ApifyAdapter) fetchDatasetItems(ctx context.Context, datasetID string) ([]json.RawMessage, error) {
	requestURL := fmt.Sprintf("%s/v2/datasets/%s/items?format=json&token=%s", a.config.BaseURL, datasetID, a.config.APIKey)
	respBody, err := a.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to parse dataset: %w", err))
	}
	return items, nil
}

// doRequest performs one HTTP round trip with failure-kind mapping
func (a *ApifyAdapter) doRequest(ctx context.Context, method, requestURL string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			return nil, integration.NewTimeoutError(a.Name(), err)
		}
		return nil, integration.NewProviderError(a.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return respBody, nil
}

// Ensure ApifyAdapter implements the ScrapeActorSource interface
var _ integration.ScrapeActorSource = (*ApifyAdapter)(nil)
