package sourcing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/listforge/backend/internal/domain/integration"
	"github.com/listforge/backend/internal/domain/research"
)

// maxResponseSize limits response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// RainforestAdapter implements the ProductDataSource interface against the
// Rainforest structured marketplace-data API.
type RainforestAdapter struct {
	config     *RainforestConfig
	httpClient *http.Client
}

// NewRainforestAdapter creates a new Rainforest adapter with the given configuration
func NewRainforestAdapter(config *RainforestConfig) (*RainforestAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RainforestAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Name returns the provider name used in chain records and error messages
func (a *RainforestAdapter) Name() string {
	return "rainforest"
}

// FetchProduct performs a basic product lookup
func (a *RainforestAdapter) FetchProduct(ctx context.Context, asin, domain string) (*integration.ProductInfo, error) {
	params := url.Values{
		"type":          {"product"},
		"asin":          {asin},
		"amazon_domain": {domain},
	}

	body, err := a.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp rainforestProductResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to parse response: %w", err))
	}
	if !resp.RequestInfo.Success {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("request failed: %s", resp.RequestInfo.Message))
	}
	if resp.Product == nil {
		return nil, integration.NewEmptyResultError(a.Name())
	}

	info := &integration.ProductInfo{
		ASIN:        resp.Product.ASIN,
		Title:       resp.Product.Title,
		Brand:       resp.Product.Brand,
		Bullets:     resp.Product.FeatureBullets,
		Description: resp.Product.Description,
		Rating:      resp.Product.Rating.Decimal,
		ReviewCount: int(resp.Product.RatingsTotal),
	}
	for _, item := range resp.TopReviews {
		if review, ok := convertRainforestReview(item); ok {
			info.TopReviews = append(info.TopReviews, review)
		}
	}
	return info, nil
}

// FetchReviewPage fetches one page of reviews
func (a *RainforestAdapter) FetchReviewPage(ctx context.Context, asin, domain string, page int) (*integration.ReviewPage, error) {
	params := url.Values{
		"type":          {"reviews"},
		"asin":          {asin},
		"amazon_domain": {domain},
		"page":          {strconv.Itoa(page)},
	}

	body, err := a.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp rainforestReviewsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to parse response: %w", err))
	}
	if !resp.RequestInfo.Success {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("request failed: %s", resp.RequestInfo.Message))
	}
	if len(resp.Reviews) == 0 {
		return nil, integration.NewEmptyResultError(a.Name())
	}

	result := &integration.ReviewPage{
		Page:       page,
		TotalPages: resp.Pagination.TotalPages,
	}
	for _, item := range resp.Reviews {
		if review, ok := convertRainforestReview(item); ok {
			result.Items = append(result.Items, review)
		}
	}
	return result, nil
}

// FetchQAPage fetches one page of questions with their top answer
func (a *RainforestAdapter) FetchQAPage(ctx context.Context, asin, domain string, page int) (*integration.QAPage, error) {
	params := url.Values{
		"type":          {"questions"},
		"asin":          {asin},
		"amazon_domain": {domain},
		"page":          {strconv.Itoa(page)},
	}

	body, err := a.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp rainforestQuestionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to parse response: %w", err))
	}
	if !resp.RequestInfo.Success {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("request failed: %s", resp.RequestInfo.Message))
	}
	if len(resp.Questions) == 0 {
		return nil, integration.NewEmptyResultError(a.Name())
	}

	result := &integration.QAPage{
		Page:       page,
		TotalPages: resp.Pagination.TotalPages,
	}
	for _, item := range resp.Questions {
		if item.Question.Text == "" || len(item.Answers) == 0 {
			continue
		}
		result.Items = append(result.Items, research.QAItem{
			Question: item.Question.Text,
			Answer:   item.Answers[0].Text,
			Votes:    int(item.Question.Votes),
			AskedAt:  item.Date.Raw,
		})
	}
	if len(result.Items) == 0 {
		return nil, integration.NewEmptyResultError(a.Name())
	}
	return result, nil
}

// doRequest performs a GET against the request endpoint with the API key added
func (a *RainforestAdapter) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("api_key", a.config.APIKey)
	requestURL := fmt.Sprintf("%s/request?%s", a.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if isTimeoutError(err) {
			return nil, integration.NewTimeoutError(a.Name(), err)
		}
		return nil, integration.NewProviderError(a.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return nil, integration.NewProviderError(a.Name(), fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return body, nil
}

// convertRainforestReview maps a provider review to the canonical shape.
// Reviews without a provider id are dropped: without an identity they cannot
// be deduplicated safely.
func convertRainforestReview(item rainforestReview) (research.Review, bool) {
	if item.ID == "" {
		return research.Review{}, false
	}
	return research.Review{
		ReviewID:     item.ID,
		Title:        item.Title,
		Body:         item.Body,
		Rating:       item.Rating.Decimal,
		HelpfulCount: int(item.HelpfulVotes),
		Reviewer:     item.Profile.Name,
		Date:         item.Date.Raw,
		Verified:     item.VerifiedPurchase,
	}, true
}

// isTimeoutError reports whether err is a deadline or network timeout
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ensure RainforestAdapter implements the ProductDataSource interface
var _ integration.ProductDataSource = (*RainforestAdapter)(nil)
