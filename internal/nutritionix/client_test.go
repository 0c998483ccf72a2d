package nutritionix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{AppID: "test-app", APIKey: "test-key", BaseURL: srv.URL})
}

func TestInstantSearch_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search/instant", r.URL.Path)
		assert.Equal(t, "grilled chicken", r.URL.Query().Get("query"))
		assert.Equal(t, "true", r.URL.Query().Get("detailed"))
		assert.Equal(t, "test-app", r.Header.Get("x-app-id"))
		assert.Equal(t, "test-key", r.Header.Get("x-app-key"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"common": []map[string]string{
				{"food_name": "chicken breast"},
				{"food_name": "chicken thigh"},
				{"food_name": "chicken wing"},
			},
		})
	})

	names, err := client.InstantSearch(context.Background(), "grilled chicken", 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"chicken breast", "chicken thigh", "chicken wing"}, names)
}

func TestInstantSearch_TruncatesToLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"common": []map[string]string{
				{"food_name": "a"}, {"food_name": "b"}, {"food_name": "c"},
			},
		})
	})

	names, err := client.InstantSearch(context.Background(), "x", 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestInstantSearch_EmptyMatchSetIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"common": []}`))
	})

	names, err := client.InstantSearch(context.Background(), "zzzz", 5)

	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestInstantSearch_UpstreamStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	names, err := client.InstantSearch(context.Background(), "apple", 5)

	assert.Nil(t, names)
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUpstream, domainErr.Code)
	assert.Contains(t, err.Error(), "401")
}

func TestInstantSearch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewClient(Config{BaseURL: srv.URL})

	_, err := client.InstantSearch(context.Background(), "apple", 5)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUpstream, domainErr.Code)
}

func TestNutrientsFor_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/natural/nutrients", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1 serving chicken breast", req["query"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"foods": []map[string]interface{}{
				{
					"food_name":             "chicken breast",
					"nf_calories":           165.0,
					"nf_protein":            31.0,
					"nf_total_fat":          3.6,
					"nf_total_carbohydrate": 0.0,
				},
			},
		})
	})

	candidates, err := client.NutrientsFor(context.Background(), "1 serving chicken breast")

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, domain.FoodCandidate{
		FoodName: "chicken breast",
		Calories: 165,
		Protein:  31,
		Fat:      3.6,
		Carbs:    0,
	}, candidates[0])
}

func TestNutrientsFor_MissingNutrientFieldsDefaultToZero(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": [{"food_name": "water"}]}`))
	})

	candidates, err := client.NutrientsFor(context.Background(), "1 serving water")

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Zero(t, candidates[0].Calories)
	assert.Zero(t, candidates[0].Protein)
	assert.Zero(t, candidates[0].Fat)
	assert.Zero(t, candidates[0].Carbs)
}

func TestNutrientsFor_NoRecognizedFoods(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": []}`))
	})

	candidates, err := client.NutrientsFor(context.Background(), "1 serving gibberish")

	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient(Config{AppID: "a", APIKey: "b"})

	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
