package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/consultjules/receipts/internal/auth"
	"github.com/consultjules/receipts/internal/metrics"
	"github.com/consultjules/receipts/internal/models"
	"github.com/consultjules/receipts/internal/render"
	"github.com/consultjules/receipts/internal/service"
	"github.com/consultjules/receipts/internal/storage/sqlite"
)

// newTestServer builds the full stack against a throwaway SQLite database
// and the fallback font.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "receipts-handler-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	renderer, err := render.New("")
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := NewRouter(RouterConfig{
		Auth:           NewAuthHandler(service.NewAuthService(authenticator, jwtManager, logger)),
		Receipts:       NewReceiptHandler(service.NewReceiptService(store, renderer, collector, logger)),
		JWT:            jwtManager,
		Collector:      collector,
		Registry:       registry,
		AllowedOrigins: []string{"*"},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func TestRootEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	body := decodeBody[map[string]string](t, resp)
	if body["message"] != "Receipt System API is running" {
		t.Errorf("Unexpected root message: %q", body["message"])
	}
}

func TestAuthEndpoints(t *testing.T) {
	server := newTestServer(t)
	creds := map[string]string{"email": "ada@example.com", "password": "correct horse"}

	t.Run("Register succeeds", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/auth/register", creds)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody[map[string]string](t, resp)
		if body["message"] != "User registered successfully" {
			t.Errorf("Unexpected message: %q", body["message"])
		}
	})

	t.Run("Duplicate register returns 400", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/auth/register", creds)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("Login returns token and user id", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/auth/login", creds)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody[map[string]string](t, resp)
		if body["access_token"] == "" {
			t.Error("Expected an access token")
		}
		if body["user_id"] == "" {
			t.Error("Expected a user id")
		}
	})

	t.Run("Wrong password returns 401", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/auth/login", map[string]string{
			"email": "ada@example.com", "password": "wrong horse!",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestReceiptEndpoints(t *testing.T) {
	server := newTestServer(t)

	input := service.ReceiptInput{
		Customer: "Grace Hopper",
		Items: []service.ItemInput{
			{Name: "Compiler", Qty: 1, Price: 100},
			{Name: "Manual", Qty: 2, Price: 25},
		},
		Tax:      10,
		Discount: 5,
		Payment:  "Card",
		Total:    155,
	}

	var receiptID int64

	t.Run("Create returns the receipt id", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/receipt/create", input)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		body := decodeBody[map[string]int64](t, resp)
		receiptID = body["receipt_id"]
		if receiptID == 0 {
			t.Fatal("Expected a nonzero receipt id")
		}
	})

	t.Run("Render streams a JPEG", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/receipt/render/%d", server.URL, receiptID))
		if err != nil {
			t.Fatalf("GET render failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("Expected image/jpeg, got %s", ct)
		}
		img, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read image: %v", err)
		}
		if len(img) < 2 || img[0] != 0xFF || img[1] != 0xD8 {
			t.Error("Response does not start with the JPEG magic bytes")
		}
	})

	t.Run("Render of unknown id returns 404", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/receipt/render/999999")
		if err != nil {
			t.Fatalf("GET render failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("List includes the created receipt", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/receipt/all")
		if err != nil {
			t.Fatalf("GET all failed: %v", err)
		}
		summaries := decodeBody[[]models.ReceiptSummary](t, resp)
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 summary, got %d", len(summaries))
		}
		s := summaries[0]
		if s.ID != receiptID || s.Customer != input.Customer || s.Total != input.Total ||
			s.Payment != input.Payment || s.Tax != input.Tax || s.Discount != input.Discount {
			t.Errorf("Summary does not match input: %+v", s)
		}
	})

	t.Run("Delete requires a token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/receipt/%d", server.URL, receiptID), nil)
		if err != nil {
			t.Fatalf("Failed to build request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("DELETE failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("Expected 401 without token, got %d", resp.StatusCode)
		}
	})

	t.Run("Delete removes the receipt", func(t *testing.T) {
		creds := map[string]string{"email": "del@example.com", "password": "delete-me-pw"}
		registerResp := postJSON(t, server.URL+"/auth/register", creds)
		registerResp.Body.Close()
		loginResp := postJSON(t, server.URL+"/auth/login", creds)
		login := decodeBody[map[string]string](t, loginResp)

		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/receipt/%d", server.URL, receiptID), nil)
		if err != nil {
			t.Fatalf("Failed to build request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+login["access_token"])
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("DELETE failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", resp.StatusCode)
		}

		renderResp, err := http.Get(fmt.Sprintf("%s/receipt/render/%d", server.URL, receiptID))
		if err != nil {
			t.Fatalf("GET render failed: %v", err)
		}
		defer renderResp.Body.Close()
		if renderResp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", renderResp.StatusCode)
		}
	})

	t.Run("Create with invalid body returns 400", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/receipt/create", "application/json", bytes.NewReader([]byte("{")))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)

	// Generate some traffic first.
	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	resp.Body.Close()

	metricsResp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer metricsResp.Body.Close()

	if metricsResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", metricsResp.StatusCode)
	}
	body, err := io.ReadAll(metricsResp.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}
	if !bytes.Contains(body, []byte("receipts_http_requests_total")) {
		t.Error("Expected receipts_http_requests_total in metrics output")
	}
}
