package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/nutrilog/nutrilog/internal/api"
	"github.com/nutrilog/nutrilog/internal/domain"
)

type SearchService interface {
	Search(ctx context.Context, query string) ([]domain.FoodCandidate, error)
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type FoodCandidateResponse struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

type SearchResponse struct {
	Results []FoodCandidateResponse `json:"results"`
}

// Search handles GET /api/search?q=. A blank query is rejected before any
// upstream call.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		api.Error(w, http.StatusBadRequest, "missing query")
		return
	}

	candidates, err := h.svc.Search(r.Context(), q)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := make([]FoodCandidateResponse, len(candidates))
	for i, c := range candidates {
		results[i] = FoodCandidateResponse{
			Name:     c.FoodName,
			Calories: c.Calories,
			Protein:  c.Protein,
			Fat:      c.Fat,
			Carbs:    c.Carbs,
		}
	}

	api.JSON(w, http.StatusOK, SearchResponse{Results: results})
}
