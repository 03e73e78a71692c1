package sourcing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listforge/backend/internal/domain/integration"
)

func TestApifyConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *ApifyConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &ApifyConfig{APIKey: "test_token", ReviewActor: "acme~reviews"},
			wantErr: nil,
		},
		{
			name:    "missing api key",
			config:  &ApifyConfig{ReviewActor: "acme~reviews"},
			wantErr: ErrApifyConfigMissingAPIKey,
		},
		{
			name:    "no actors configured",
			config:  &ApifyConfig{APIKey: "test_token"},
			wantErr: ErrApifyConfigMissingActor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, tt.config.BaseURL)
				assert.True(t, tt.config.PollInterval > 0)
			}
		})
	}
}

// newApifyAdapter builds an adapter pointed at a test server with a fast poll
func newApifyAdapter(t *testing.T, handler http.Handler) *ApifyAdapter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewApifyAdapter(&ApifyConfig{
		APIKey:       "test_token",
		BaseURL:      server.URL,
		ReviewActor:  "acme~amazon-reviews",
		QAActor:      "acme~amazon-qa",
		CatalogActor: "acme~seller-catalog",
		PollInterval: time.Millisecond,
		Timeout:      2 * time.Second,
	})
	require.NoError(t, err)
	return adapter
}

func TestApifyAdapter_FetchReviewPage(t *testing.T) {
	t.Run("runs the submit-poll-download cycle", func(t *testing.T) {
		var polls atomic.Int32

		mux := http.NewServeMux()
		mux.HandleFunc("/v2/acts/acme~amazon-reviews/runs", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test_token", r.URL.Query().Get("token"))
			w.Write([]byte(`{"data": {"id": "run-1", "status": "RUNNING", "defaultDatasetId": "ds-1"}}`))
		})
		mux.HandleFunc("/v2/actor-runs/run-1", func(w http.ResponseWriter, r *http.Request) {
			// First poll still running, second poll succeeded
			if polls.Add(1) == 1 {
				w.Write([]byte(`{"data": {"id": "run-1", "status": "RUNNING", "defaultDatasetId": "ds-1"}}`))
				return
			}
			w.Write([]byte(`{"data": {"id": "run-1", "status": "SUCCEEDED", "defaultDatasetId": "ds-1"}}`))
		})
		mux.HandleFunc("/v2/datasets/ds-1/items", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"reviewId": "R1", "title": "Great", "text": "Love it", "rating": "4.0 out of 5 stars", "helpfulStatement": "One person found this helpful", "verified": true},
				{"title": "No id", "text": "dropped"}
			]`))
		})

		adapter := newApifyAdapter(t, mux)

		page, err := adapter.FetchReviewPage(context.Background(), "B0TEST1234", "amazon.com", 1)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, polls.Load(), int32(2))
		require.Len(t, page.Items, 1)
		assert.Equal(t, "R1", page.Items[0].ReviewID)
		assert.True(t, page.Items[0].Rating.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, 1, page.Items[0].HelpfulCount)
	})

	t.Run("failed run is a provider error naming the run", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/acts/acme~amazon-reviews/runs", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"id": "run-2", "status": "FAILED", "statusMessage": "actor crashed"}}`))
		})

		adapter := newApifyAdapter(t, mux)

		_, err := adapter.FetchReviewPage(context.Background(), "B0TEST1234", "amazon.com", 1)

		require.Error(t, err)
		assert.Equal(t, integration.FailureProviderError, integration.FailureKind(err))
		assert.Contains(t, err.Error(), "actor crashed")
	})

	t.Run("run that never finishes is a timeout", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/acts/acme~amazon-reviews/runs", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"id": "run-3", "status": "RUNNING", "defaultDatasetId": "ds-3"}}`))
		})
		mux.HandleFunc("/v2/actor-runs/run-3", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"id": "run-3", "status": "RUNNING", "defaultDatasetId": "ds-3"}}`))
		})

		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		adapter, err := NewApifyAdapter(&ApifyConfig{
			APIKey:       "test_token",
			BaseURL:      server.URL,
			ReviewActor:  "acme~amazon-reviews",
			PollInterval: time.Millisecond,
			Timeout:      50 * time.Millisecond,
		})
		require.NoError(t, err)

		_, err = adapter.FetchReviewPage(context.Background(), "B0TEST1234", "amazon.com", 1)

		require.Error(t, err)
		assert.True(t, integration.IsTimeout(err))
	})

	t.Run("empty dataset is an empty-result failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/acts/acme~amazon-reviews/runs", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"id": "run-4", "status": "SUCCEEDED", "defaultDatasetId": "ds-4"}}`))
		})
		mux.HandleFunc("/v2/datasets/ds-4/items", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		adapter := newApifyAdapter(t, mux)

		_, err := adapter.FetchReviewPage(context.Background(), "B0TEST1234", "amazon.com", 1)

		require.Error(t, err)
		assert.True(t, integration.IsEmptyResult(err))
	})
}

func TestApifyAdapter_FetchSellerCatalog(t *testing.T) {
	t.Run("maps catalog items and drops ASIN-less rows", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/acts/acme~seller-catalog/runs", func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "SELLER123")
			w.Write([]byte(`{"data": {"id": "run-5", "status": "SUCCEEDED", "defaultDatasetId": "ds-5"}}`))
		})
		mux.HandleFunc("/v2/datasets/ds-5/items", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"asin": "B0AAA", "title": "Bottle A", "brand": "Acme", "rating": 4.2, "reviewCount": "120 ratings"},
				{"title": "No asin"}
			]`))
		})

		adapter := newApifyAdapter(t, mux)

		products, err := adapter.FetchSellerCatalog(context.Background(), "SELLER123", "amazon.com")
		require.NoError(t, err)

		require.Len(t, products, 1)
		assert.Equal(t, "B0AAA", products[0].ASIN)
		assert.Equal(t, 120, products[0].ReviewCount)
	})
}
