package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateFromText(t *testing.T) {
	var gotAuth string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		_ = json.NewEncoder(w).Encode(GenerateResponse{
			Results: []Result{{
				Job:   Job{Role: "Go Developer", Skills: []string{"go"}},
				Links: []string{"https://portfolio.example/go"},
				Email: "Dear team,",
			}},
			Succeeded: 1,
		})
	}))
	defer srv.Close()

	client := New(srv.URL, WithAPIKey("secret"))
	resp, err := client.GenerateFromText(context.Background(), "hiring go devs")
	if err != nil {
		t.Fatalf("GenerateFromText() error = %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Text != "hiring go devs" || gotBody.URL != "" {
		t.Errorf("request body = %+v", gotBody)
	}
	if len(resp.Results) != 1 || resp.Results[0].Email != "Dear team," {
		t.Errorf("response = %+v", resp)
	}
}

func TestGenerateFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.URL != "https://example.com/careers" {
			t.Errorf("url = %q", req.URL)
		}
		_ = json.NewEncoder(w).Encode(GenerateResponse{})
	}))
	defer srv.Close()

	if _, err := New(srv.URL).GenerateFromURL(context.Background(), "https://example.com/careers"); err != nil {
		t.Fatalf("GenerateFromURL() error = %v", err)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, "unauthorized", ErrUnauthorized},
		{"bad request", http.StatusBadRequest, "validation_failed", ErrBadRequest},
		{"extraction", http.StatusUnprocessableEntity, "extraction_failed", ErrExtraction},
		{"catalog", http.StatusServiceUnavailable, "catalog_unavailable", ErrCatalogUnavailable},
		{"provider", http.StatusBadGateway, "llm_provider_error", ErrProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    tt.code,
					"message": "boom",
				})
			}))
			defer srv.Close()

			_, err := New(srv.URL).GenerateFromText(context.Background(), "text")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatal("expected *APIError")
			}
			if apiErr.Code != tt.code {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.code)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		if err := New(srv.URL).Health(context.Background()); err != nil {
			t.Fatalf("Health() error = %v", err)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		if err := New(srv.URL).Health(context.Background()); err == nil {
			t.Fatal("expected error for unhealthy server")
		}
	})
}
