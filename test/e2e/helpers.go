//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/nutrilog/nutrilog/internal/api/handlers"
	"github.com/nutrilog/nutrilog/internal/nutritionix"
	"github.com/nutrilog/nutrilog/internal/repository"
	"github.com/nutrilog/nutrilog/internal/server"
	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/nutrilog/nutrilog/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T           *testing.T
	ServerURL   string
	ExportPath  string
	Nutritionix *httptest.Server
	HTTPClient  *http.Client
}

// nutritionixStub serves canned instant-search and nutrients responses so the
// full stack can run without upstream credentials.
func nutritionixStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search/instant", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"common": []map[string]string{
				{"food_name": "apple"},
				{"food_name": "apple pie"},
			},
		})
	})

	mux.HandleFunc("/natural/nutrients", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		food := map[string]interface{}{
			"food_name":             "apple",
			"nf_calories":           95.0,
			"nf_protein":            0.5,
			"nf_total_fat":          0.3,
			"nf_total_carbohydrate": 25.0,
		}
		if req.Query == "1 serving apple pie" {
			food = map[string]interface{}{
				"food_name":             "apple pie",
				"nf_calories":           296.0,
				"nf_protein":            2.4,
				"nf_total_fat":          13.8,
				"nf_total_carbohydrate": 42.5,
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"foods": []map[string]interface{}{food},
		})
	})

	return httptest.NewServer(mux)
}

// SetupE2EEnv wires a real sqlite database, the stub Nutritionix upstream and
// the full router into an in-process HTTP server.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	t.Helper()

	db := testutil.OpenTestDB(t)
	stub := nutritionixStub(t)
	t.Cleanup(stub.Close)

	client := nutritionix.NewClient(nutritionix.Config{
		AppID:   "test-app",
		APIKey:  "test-key",
		BaseURL: stub.URL,
	})

	logRepo := repository.NewLogEntryRepository(db)
	searchSvc := service.NewSearchService(client)
	logSvc := service.NewLogService(logRepo, "demo")
	reportSvc := service.NewReportService(logRepo, "demo", nil)

	exportPath := filepath.Join(t.TempDir(), "logs_export.csv")
	router := server.NewRouter(server.RouterConfig{
		SearchHandler: handlers.NewSearchHandler(searchSvc),
		LogHandler:    handlers.NewLogHandler(logSvc),
		ReportHandler: handlers.NewReportHandler(logSvc, reportSvc, exportPath),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &E2ETestEnv{
		T:           t,
		ServerURL:   srv.URL,
		ExportPath:  exportPath,
		Nutritionix: stub,
		HTTPClient:  srv.Client(),
	}
}

// Get issues a GET against the test server and returns status plus body.
func (env *E2ETestEnv) Get(path string) (int, []byte) {
	env.T.Helper()
	resp, err := env.HTTPClient.Get(env.ServerURL + path)
	if err != nil {
		env.T.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		env.T.Fatalf("read body for GET %s: %v", path, err)
	}
	return resp.StatusCode, body
}

// Post issues a JSON POST against the test server.
func (env *E2ETestEnv) Post(path string, payload interface{}) (int, []byte) {
	env.T.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		env.T.Fatalf("marshal payload for POST %s: %v", path, err)
	}
	resp, err := env.HTTPClient.Post(env.ServerURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		env.T.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		env.T.Fatalf("read body for POST %s: %v", path, err)
	}
	return resp.StatusCode, body
}

// Delete issues a DELETE against the test server.
func (env *E2ETestEnv) Delete(path string) (int, []byte) {
	env.T.Helper()
	req, err := http.NewRequest(http.MethodDelete, env.ServerURL+path, nil)
	if err != nil {
		env.T.Fatalf("build DELETE %s: %v", path, err)
	}
	resp, err := env.HTTPClient.Do(req)
	if err != nil {
		env.T.Fatalf("DELETE %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		env.T.Fatalf("read body for DELETE %s: %v", path, err)
	}
	return resp.StatusCode, body
}
