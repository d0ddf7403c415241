package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/soldbyofficial/backend/config"
	"github.com/soldbyofficial/backend/internal/infrastructure/storage"
	"github.com/soldbyofficial/backend/internal/sites"
	"github.com/soldbyofficial/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	// Run tests
	exitCode := m.Run()

	// Exit with the test result code
	os.Exit(exitCode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:3000"},
		},
		Storage: config.StorageConfig{
			Type: "memory",
		},
		Extension: config.ExtensionConfig{
			InfoPageURL: usecase.DefaultInfoPageURL,
		},
	}
}

// setupTestRouterWithStore creates a test router over the built-in registry
// and the given store
func setupTestRouterWithStore(store *storage.MemoryStore) *gin.Engine {
	cfg := testConfig()

	prefs := usecase.NewPreferenceService(store)
	rewrite := usecase.NewRewriteService(sites.Builtin(), prefs)

	handler := NewHandler(rewrite, cfg.Extension.InfoPageURL)
	if handler == nil {
		panic("setupTestRouter: NewHandler returned nil")
	}

	router := SetupRouter(cfg, handler, zerolog.Nop())
	if router == nil {
		panic("setupTestRouter: SetupRouter returned nil *gin.Engine")
	}

	return router
}

// setupTestRouter creates a test router with default configuration
func setupTestRouter() *gin.Engine {
	return setupTestRouterWithStore(storage.NewMemoryStore())
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return response
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "GET", "/health", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decodeBody(t, w)
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "soldby-backend" {
			t.Errorf("service = %v, want soldby-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		methods := []string{"POST", "PUT", "DELETE", "PATCH"}

		for _, method := range methods {
			w := performRequest(router, method, "/health", "")

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestNavigationEndpoint tests the navigation endpoint
func TestNavigationEndpoint(t *testing.T) {
	t.Run("redirects an enabled search to the filtered URL", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "POST", "/api/v1/navigation",
			`{"url":"https://www.amazon.com/s?k=tv","frameId":0,"tabId":7}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		response := decodeBody(t, w)
		if response["redirect"] != true {
			t.Errorf("redirect = %v, want true", response["redirect"])
		}
		want := "https://www.amazon.com/s?k=tv&rh=p_6%3AATVPDKIKX0DER"
		if response["redirectUrl"] != want {
			t.Errorf("redirectUrl = %v, want %s", response["redirectUrl"], want)
		}
		if response["badge"] != "ON" {
			t.Errorf("badge = %v, want ON", response["badge"])
		}
		if response["tabId"] != float64(7) {
			t.Errorf("tabId = %v, want 7", response["tabId"])
		}
	})

	t.Run("does not redirect an already filtered URL", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "POST", "/api/v1/navigation",
			`{"url":"https://www.amazon.com/s?k=tv&rh=p_6%3AATVPDKIKX0DER","frameId":0}`)

		response := decodeBody(t, w)
		if response["redirect"] != false {
			t.Errorf("redirect = %v, want false", response["redirect"])
		}
		if _, ok := response["redirectUrl"]; ok {
			t.Errorf("redirectUrl should be omitted, got %v", response["redirectUrl"])
		}
		if response["badge"] != "ON" {
			t.Errorf("badge = %v, want ON", response["badge"])
		}
	})

	t.Run("skips subframes", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "POST", "/api/v1/navigation",
			`{"url":"https://www.amazon.com/s?k=tv","frameId":3}`)

		response := decodeBody(t, w)
		if response["skipped"] != true {
			t.Errorf("skipped = %v, want true", response["skipped"])
		}
		if response["redirect"] != false {
			t.Errorf("redirect = %v, want false", response["redirect"])
		}
	})

	t.Run("unknown site has empty badge", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "POST", "/api/v1/navigation",
			`{"url":"https://example.net/s?k=tv","frameId":0}`)

		response := decodeBody(t, w)
		if response["redirect"] != false {
			t.Errorf("redirect = %v, want false", response["redirect"])
		}
		if response["badge"] != "" {
			t.Errorf("badge = %v, want empty", response["badge"])
		}
	})

	t.Run("rejects missing url", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "POST", "/api/v1/navigation", `{"frameId":0}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "POST", "/api/v1/navigation", `{"url":`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestToggleEndpoint tests the toolbar click flow end to end
func TestToggleEndpoint(t *testing.T) {
	router := setupTestRouter()
	filtered := "https://www.amazon.com/s?k=tv&rh=p_6%3AATVPDKIKX0DER"

	// first click turns the site off and strips the filter
	w := performRequest(router, "POST", "/api/v1/toggle", `{"url":"`+filtered+`","tabId":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	response := decodeBody(t, w)
	if response["url"] != "https://www.amazon.com/s?k=tv" {
		t.Errorf("url = %v, want https://www.amazon.com/s?k=tv", response["url"])
	}
	if response["redirect"] != true {
		t.Errorf("redirect = %v, want true", response["redirect"])
	}
	if response["badge"] != "OFF" {
		t.Errorf("badge = %v, want OFF", response["badge"])
	}

	// a disabled site is not redirected on navigation
	w = performRequest(router, "POST", "/api/v1/navigation", `{"url":"https://www.amazon.com/s?k=tv","frameId":0}`)
	response = decodeBody(t, w)
	if response["redirect"] != false {
		t.Errorf("redirect = %v, want false", response["redirect"])
	}
	if response["badge"] != "OFF" {
		t.Errorf("badge = %v, want OFF", response["badge"])
	}

	// second click turns it back on
	w = performRequest(router, "POST", "/api/v1/toggle", `{"url":"https://www.amazon.com/s?k=tv","tabId":3}`)
	response = decodeBody(t, w)
	if response["url"] != filtered {
		t.Errorf("url = %v, want %s", response["url"], filtered)
	}
	if response["badge"] != "ON" {
		t.Errorf("badge = %v, want ON", response["badge"])
	}

	// other sites are untouched
	w = performRequest(router, "GET", "/api/v1/badge?url=https://www.amazon.de/s?k=buch", "")
	response = decodeBody(t, w)
	if response["badge"] != "ON" {
		t.Errorf("Amazon.de badge = %v, want ON", response["badge"])
	}
}

// TestActivateDeactivateEndpoints tests the direct rewrite endpoints
func TestActivateDeactivateEndpoints(t *testing.T) {
	router := setupTestRouter()

	w := performRequest(router, "POST", "/api/v1/activate", `{"url":"https://www.newegg.com/p/pl?N=100"}`)
	response := decodeBody(t, w)
	if response["url"] != "https://www.newegg.com/p/pl?N=100+8000" {
		t.Errorf("activate url = %v", response["url"])
	}
	if response["matched"] != true {
		t.Errorf("matched = %v, want true", response["matched"])
	}

	w = performRequest(router, "POST", "/api/v1/deactivate", `{"url":"https://www.target.com/s?searchTerm=lamp&facetedValue=dq4mn"}`)
	response = decodeBody(t, w)
	if response["url"] != "https://www.target.com/s?searchTerm=lamp" {
		t.Errorf("deactivate url = %v", response["url"])
	}

	w = performRequest(router, "POST", "/api/v1/deactivate", `{"url":"https://example.net/"}`)
	response = decodeBody(t, w)
	if response["matched"] != false {
		t.Errorf("matched = %v, want false", response["matched"])
	}
}

// TestBadgeEndpoint tests the badge endpoint
func TestBadgeEndpoint(t *testing.T) {
	t.Run("requires url", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "GET", "/api/v1/badge", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("corrupted preferences map to 500", func(t *testing.T) {
		store := storage.NewMemoryStore()
		if err := store.Set(context.Background(), usecase.OnOffKey, "not an object"); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
		router := setupTestRouterWithStore(store)

		w := performRequest(router, "GET", "/api/v1/badge?url=https://www.amazon.com/s?k=tv", "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		response := decodeBody(t, w)
		if response["code"] != "corrupted_preference_state" {
			t.Errorf("code = %v, want corrupted_preference_state", response["code"])
		}
	})
}

// TestSitesEndpoints tests the registry listing and per-site toggle
func TestSitesEndpoints(t *testing.T) {
	router := setupTestRouter()

	w := performRequest(router, "POST", "/api/v1/sites/Target.com/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	response := decodeBody(t, w)
	if response["enabled"] != false {
		t.Errorf("enabled = %v, want false", response["enabled"])
	}

	w = performRequest(router, "GET", "/api/v1/sites", "")
	var listing struct {
		Sites []siteResponse `json:"sites"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(listing.Sites) != 14 {
		t.Fatalf("len(sites) = %d, want 14", len(listing.Sites))
	}
	if listing.Sites[0].ID != "Amazon.ca" || listing.Sites[0].Policy != "delimited" {
		t.Errorf("first site = %+v", listing.Sites[0])
	}
	for _, site := range listing.Sites {
		if want := site.ID != "Target.com"; site.Enabled != want {
			t.Errorf("%s enabled = %v, want %v", site.ID, site.Enabled, want)
		}
		if site.Pattern == "" {
			t.Errorf("%s has empty pattern", site.ID)
		}
	}

	w = performRequest(router, "POST", "/api/v1/sites/Nope.com/toggle", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown site: Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestLifecycleEndpoint tests install and update pages
func TestLifecycleEndpoint(t *testing.T) {
	tests := []struct {
		reason     string
		wantStatus int
		wantURL    string
	}{
		{"install", http.StatusOK, usecase.DefaultInfoPageURL},
		{"update", http.StatusOK, usecase.DefaultInfoPageURL + "#changelog"},
		{"chrome_update", http.StatusNotFound, ""},
	}

	router := setupTestRouter()
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			w := performRequest(router, "GET", "/api/v1/lifecycle/"+tt.reason, "")
			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantURL != "" {
				response := decodeBody(t, w)
				if response["url"] != tt.wantURL {
					t.Errorf("url = %v, want %s", response["url"], tt.wantURL)
				}
			}
		})
	}
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for Chrome extension", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "chrome-extension://abcdefghijklmnop" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "chrome-extension://abcdefghijklmnop")
		}

		gotCreds := w.Header().Get("Access-Control-Allow-Credentials")
		if gotCreds != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", gotCreds, "true")
		}
	})

	t.Run("navigation endpoint has CORS for localhost", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/navigation", strings.NewReader(`{"url":"https://example.net/"}`))
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter()

		// Add a test route that panics
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := performRequest(router, "GET", "/panic", "")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		response := decodeBody(t, w)
		if response["error"] != "internal server error" {
			t.Errorf("error = %v, want internal server error", response["error"])
		}
	})
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	t.Run("v1 routes are accessible", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "GET", "/api/v1/sites", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter()

		w := performRequest(router, "GET", "/api/sites", "")

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

// TestJSONResponses tests that all responses are valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"POST", "/api/v1/navigation"},
		{"POST", "/api/v1/toggle"},
		{"GET", "/api/v1/badge?url=https://www.walmart.com/search?q=tv"},
		{"GET", "/api/v1/sites"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter()

			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			if err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}
