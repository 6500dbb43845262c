package sapofetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serverAdapter(t *testing.T, server *httptest.Server) *SapoFetcherAdapter {
	t.Helper()
	a, err := NewSapoFetcherAdapter(server.URL, "test-agent")
	if err != nil {
		t.Fatalf("NewSapoFetcherAdapter: %v", err)
	}
	return a
}

func TestFetchListingsFromResultsPage(t *testing.T) {
	first := defaultCard()
	second := defaultCard()
	second.title = "Moradia V3"
	page := "<html><body>" + first.html() + second.html() + "</body></html>"

	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		w.Write([]byte(page))
	}))
	defer server.Close()

	adapter := serverAdapter(t, server)
	records, err := adapter.FetchListings(context.Background(), server.URL+"/?pn=0")
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Title != "Apartamento T2" || records[1].Title != "Moradia V3" {
		t.Errorf("titles = %q, %q; want document order preserved", records[0].Title, records[1].Title)
	}
	if gotAgent != "test-agent" {
		t.Errorf("request user agent = %q, want %q", gotAgent, "test-agent")
	}
}

func TestFetchListingsEmptyPageIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><div class=\"noResults\"></div></body></html>"))
	}))
	defer server.Close()

	adapter := serverAdapter(t, server)
	records, err := adapter.FetchListings(context.Background(), server.URL+"/?pn=3")
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestFetchListingsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	adapter := serverAdapter(t, server)
	records, err := adapter.FetchListings(context.Background(), server.URL+"/missing")
	if err == nil {
		t.Fatalf("FetchListings returned %d records, want error", len(records))
	}
	if !strings.Contains(err.Error(), "HTTP error") {
		t.Errorf("error = %v, want it classified as an HTTP error", err)
	}
}

func TestFetchListingsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	uri := server.URL
	adapter := serverAdapter(t, server)
	server.Close()

	if records, err := adapter.FetchListings(context.Background(), uri); err == nil {
		t.Fatalf("FetchListings returned %d records, want error", len(records))
	}
}

func TestFetchListingsCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request made despite cancelled context")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := serverAdapter(t, server)
	if records, err := adapter.FetchListings(ctx, server.URL); err == nil {
		t.Fatalf("FetchListings returned %d records, want error", len(records))
	}
}

func TestFailureKind(t *testing.T) {
	if kind := failureKind(404, nil); kind != "HTTP error" {
		t.Errorf("failureKind(404) = %q, want %q", kind, "HTTP error")
	}
	if kind := failureKind(0, context.DeadlineExceeded); kind != "timeout error" {
		t.Errorf("failureKind(deadline) = %q, want %q", kind, "timeout error")
	}
	if kind := failureKind(0, errors.New("colly: forbidden domain")); kind != "request error" {
		t.Errorf("failureKind(other) = %q, want %q", kind, "request error")
	}
}
