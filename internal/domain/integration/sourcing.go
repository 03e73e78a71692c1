package integration

import (
	"context"

	"github.com/listforge/backend/internal/domain/research"
	"github.com/shopspring/decimal"
)

// PageSize is the item batch size requested per provider call
const PageSize = 10

// FetchAllPages is the caller-supplied sentinel converting the page budget
// to the provider-reported total page count once it is known.
const FetchAllPages = 0

// ProductInfo is the canonical basic product lookup result. The handful of
// reviews some providers embed in it serve as the last fallback in the
// review chain.
type ProductInfo struct {
	ASIN        string
	Title       string
	Brand       string
	Bullets     []string
	Description string
	Rating      decimal.Decimal
	ReviewCount int
	TopReviews  []research.Review
}

// ReviewPage is one page of canonical review items. TotalPages is zero when
// the provider does not report it.
type ReviewPage struct {
	Items      []research.Review
	Page       int
	TotalPages int
}

// QAPage is one page of canonical question/answer items
type QAPage struct {
	Items      []research.QAItem
	Page       int
	TotalPages int
}

// ProductDataSource is the synchronous structured marketplace-data provider.
// Every call is bounded by the adapter's timeout; failures come back as
// *FetchError.
type ProductDataSource interface {
	Name() string
	FetchProduct(ctx context.Context, asin, domain string) (*ProductInfo, error)
	FetchReviewPage(ctx context.Context, asin, domain string, page int) (*ReviewPage, error)
	FetchQAPage(ctx context.Context, asin, domain string, page int) (*QAPage, error)
}

// ScrapeActorSource is the asynchronous scrape-actor provider: submit a run,
// poll until terminal, download the dataset. The submit/poll cycle is hidden
// behind these calls; they block until the run finishes or times out.
type ScrapeActorSource interface {
	Name() string
	FetchReviewPage(ctx context.Context, asin, domain string, page int) (*ReviewPage, error)
	FetchQAPage(ctx context.Context, asin, domain string, page int) (*QAPage, error)
	FetchSellerCatalog(ctx context.Context, sellerID, domain string) ([]ProductInfo, error)
}
