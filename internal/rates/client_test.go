package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
	"eucalito/internal/ports"
)

func testClient(live, historical string) *Client {
	c := NewClient()
	c.liveURL = live
	c.historicalURL = historical
	return c
}

func TestUYURateLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","rates":{"USD":1,"UYU":40.5}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "http://127.0.0.1:0")
	rate, source := c.UYURate(context.Background(), core.Today())
	if source != ports.RateLive {
		t.Fatalf("source = %q, want live", source)
	}
	if !rate.Equal(decimal.NewFromFloat(40.5)) {
		t.Fatalf("rate = %s, want 40.5", rate)
	}
}

func TestUYURateHistorical(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"base":"USD","rates":{"UYU":39.2}}`))
	}))
	defer srv.Close()

	c := testClient("http://127.0.0.1:0", srv.URL)
	rate, source := c.UYURate(context.Background(), core.NewDate(2025, 6, 1))
	if source != ports.RateHistorical {
		t.Fatalf("source = %q, want historical", source)
	}
	if !rate.Equal(decimal.NewFromFloat(39.2)) {
		t.Fatalf("rate = %s, want 39.2", rate)
	}
	if gotPath != "/2025-06-01" {
		t.Fatalf("path = %q, want /2025-06-01", gotPath)
	}
}

func TestUYURateHistoricalFallsBackToLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"UYU":41.0}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, "http://127.0.0.1:0")
	rate, source := c.UYURate(context.Background(), core.NewDate(2025, 6, 1))
	if source != ports.RateLive {
		t.Fatalf("source = %q, want live", source)
	}
	if !rate.Equal(decimal.NewFromFloat(41.0)) {
		t.Fatalf("rate = %s", rate)
	}
}

func TestUYURateFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	rate, source := c.UYURate(context.Background(), core.Today())
	if source != ports.RateFallback {
		t.Fatalf("source = %q, want fallback", source)
	}
	if !rate.Equal(core.FallbackUYURate) {
		t.Fatalf("rate = %s, want %s", rate, core.FallbackUYURate)
	}
}

func TestUYURateRejectsMissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":0.9}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, source := c.UYURate(context.Background(), core.Today())
	if source != ports.RateFallback {
		t.Fatalf("source = %q, want fallback", source)
	}
}
