package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testSource(url string) *Source {
	source := DefaultSource()
	source.URL = url
	return source
}

func TestFetchAppendsDateParameter(t *testing.T) {
	var gotDate string
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("fdate")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`<rates><date>15.01.2026</date></rates>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(testSource(server.URL), server.Client(), "kzrates/test")
	data, err := fetcher.Fetch(context.Background(), "15.01.2026")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if gotDate != "15.01.2026" {
		t.Errorf("Expected fdate query '15.01.2026', got: %s", gotDate)
	}
	if gotAgent != "kzrates/test" {
		t.Errorf("Expected user agent 'kzrates/test', got: %s", gotAgent)
	}
	if len(data) == 0 {
		t.Error("Expected response bytes")
	}
}

func TestFetchHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(testSource(server.URL), server.Client(), "kzrates/test")
	_, err := fetcher.Fetch(context.Background(), "15.01.2026")

	if err == nil {
		t.Fatal("Expected error for 500 response")
	}

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *HTTPStatusError, got: %T", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got: %d", statusErr.StatusCode)
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`<rates></rates>`))
	}))
	defer server.Close()

	client := &http.Client{Timeout: 50 * time.Millisecond}
	fetcher := NewFetcher(testSource(server.URL), client, "kzrates/test")

	_, err := fetcher.Fetch(context.Background(), "15.01.2026")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
}

func TestFetchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`<rates></rates>`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(testSource(server.URL), server.Client(), "kzrates/test")
	if _, err := fetcher.Fetch(ctx, "15.01.2026"); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestFetchPreservesExistingQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`<rates></rates>`))
	}))
	defer server.Close()

	source := testSource(server.URL + "?switch=russian")
	fetcher := NewFetcher(source, server.Client(), "kzrates/test")

	if _, err := fetcher.Fetch(context.Background(), "15.01.2026"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if gotQuery != "fdate=15.01.2026&switch=russian" {
		t.Errorf("Unexpected query string: %s", gotQuery)
	}
}
