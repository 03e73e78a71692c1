// Package integration contains the ports to the external services the
// pipeline depends on.
//
// Key concepts:
//   - ProductDataSource: structured marketplace-data API used for product
//     lookups and paged review fetches
//   - ScrapeActorSource: scrape-actor API used as the review fallback and as
//     the only Q&A and seller-catalog source
//   - ListingGenerator: AI text generation service driving the phased
//     listing workflow
//   - FetchError: typed provider failure separating timeouts, provider
//     errors and empty results
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
