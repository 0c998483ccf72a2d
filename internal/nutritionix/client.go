// Package nutritionix wraps the Nutritionix v2 API: instant search by food
// name and natural-language nutrient lookup. Calls are synchronous with
// fixed timeouts; there is no caching and no retry.
package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nutrilog/nutrilog/internal/domain"
)

const (
	// DefaultBaseURL is the production Nutritionix endpoint.
	DefaultBaseURL = "https://trackapi.nutritionix.com/v2"

	searchTimeout    = 10 * time.Second
	nutrientsTimeout = 12 * time.Second
)

// Config holds Nutritionix client configuration. Empty credentials do not
// block construction; requests simply fail upstream.
type Config struct {
	AppID   string
	APIKey  string
	BaseURL string
}

// Client is a Nutritionix API client.
type Client struct {
	appID   string
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Nutritionix client. BaseURL defaults to the production
// endpoint; tests point it at a stub server.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		appID:   cfg.AppID,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

type instantSearchResponse struct {
	Common []struct {
		FoodName string `json:"food_name"`
	} `json:"common"`
}

// InstantSearch returns up to limit common food names matching the query.
// An empty match set is not an error.
func (c *Client) InstantSearch(ctx context.Context, query string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/search/instant?query=%s&detailed=true", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to build instant search request", err)
	}
	c.setHeaders(req)

	var data instantSearchResponse
	if err := c.do(req, "instant search", &data); err != nil {
		return nil, err
	}

	names := make([]string, 0, limit)
	for _, item := range data.Common {
		if len(names) == limit {
			break
		}
		names = append(names, item.FoodName)
	}
	return names, nil
}

type naturalNutrientsResponse struct {
	Foods []struct {
		FoodName          string  `json:"food_name"`
		Calories          float64 `json:"nf_calories"`
		Protein           float64 `json:"nf_protein"`
		TotalFat          float64 `json:"nf_total_fat"`
		TotalCarbohydrate float64 `json:"nf_total_carbohydrate"`
	} `json:"foods"`
}

// NutrientsFor parses a natural-language quantity+food description into one
// normalized record per food the upstream parser recognized. Missing
// nutrient fields decode as 0, not absent.
func (c *Client) NutrientsFor(ctx context.Context, description string) ([]domain.FoodCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, nutrientsTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"query": description})
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to marshal nutrients payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/natural/nutrients", bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to build nutrients request", err)
	}
	c.setHeaders(req)

	var data naturalNutrientsResponse
	if err := c.do(req, "nutrient lookup", &data); err != nil {
		return nil, err
	}

	candidates := make([]domain.FoodCandidate, 0, len(data.Foods))
	for _, f := range data.Foods {
		candidates = append(candidates, domain.FoodCandidate{
			FoodName: f.FoodName,
			Calories: f.Calories,
			Protein:  f.Protein,
			Fat:      f.TotalFat,
			Carbs:    f.TotalCarbohydrate,
		})
	}
	return candidates, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) do(req *http.Request, op string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, op+" failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to read "+op+" response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewDomainError(domain.ErrCodeUpstream, op+" returned status "+strconv.Itoa(resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to parse "+op+" response", err)
	}
	return nil
}
