package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
  <title>Careers</title>
  <script>window.track = function() { return "noise"; };</script>
  <style>.hidden { display: none; }</style>
</head>
<body>
  <h1>Senior Backend Engineer</h1>
  <p>5+ years of experience with
     Python, Go and Kubernetes.</p>
  <noscript>Enable JavaScript</noscript>
</body>
</html>`

func TestFetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "coldreach-test" {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer server.Close()

	f := New(Config{UserAgent: "coldreach-test"})
	text, err := f.FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}

	if !strings.Contains(text, "Senior Backend Engineer") {
		t.Errorf("missing heading in %q", text)
	}
	if !strings.Contains(text, "Python, Go and Kubernetes.") {
		t.Errorf("multi-line paragraph not collapsed: %q", text)
	}
	if strings.Contains(text, "window.track") {
		t.Errorf("script content leaked into %q", text)
	}
	if strings.Contains(text, "Enable JavaScript") {
		t.Errorf("noscript content leaked into %q", text)
	}
}

func TestFetchText_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(Config{})
	if _, err := f.FetchText(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetchText_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Config{})
	if _, err := f.FetchText(ctx, server.URL); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
