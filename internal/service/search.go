package service

import (
	"context"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/telemetry"
)

const (
	// searchLimit caps the candidate names taken from instant search.
	searchLimit = 5

	// servingPrefix turns a food name into the natural-language description
	// the nutrient parser expects.
	servingPrefix = "1 serving "
)

// NutrientAPI defines the interface for the external nutrient lookup
// service (for testing)
type NutrientAPI interface {
	InstantSearch(ctx context.Context, query string, limit int) ([]string, error)
	NutrientsFor(ctx context.Context, description string) ([]domain.FoodCandidate, error)
}

// SearchService runs the search-and-enrich flow against the nutrient lookup
// client.
type SearchService struct {
	api NutrientAPI
}

// NewSearchService creates a new SearchService instance
func NewSearchService(api NutrientAPI) *SearchService {
	return &SearchService{api: api}
}

// Search looks up candidate food names for the query and enriches each with
// its per-serving nutrient profile, keeping the first record per name.
// Candidates whose enrichment yields no record are silently dropped; result
// order follows instant search order. Upstream failures propagate to the
// caller with no partial results.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.FoodCandidate, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		Operation: "search",
	})
	defer span.End()

	names, err := s.api.InstantSearch(ctx, query, searchLimit)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	results := make([]domain.FoodCandidate, 0, len(names))
	for _, name := range names {
		enriched, err := s.api.NutrientsFor(ctx, servingPrefix+name)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		if len(enriched) == 0 {
			continue
		}
		results = append(results, enriched[0])
	}
	return results, nil
}
