package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Do_NoRetryOnStatus(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(Settings{Timeout: time.Second, Retries: 3})
	if err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest("GET", server.URL, nil)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Expected response, got error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestClient_Do_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client, _ := NewClient(Settings{Timeout: time.Second, Retries: 1})
	req, _ := http.NewRequest("GET", addr, nil)

	if _, err := client.Do(req); err == nil {
		t.Fatal("Expected error for closed server")
	}
}

func TestClient_Do_ContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := NewClient(Settings{Timeout: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, nil)

	if _, err := client.Do(req); err == nil {
		t.Fatal("Expected error due to context cancellation, got nil")
	}
}

func TestClient_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// 1 request per second. Initial burst = 1.
	client, _ := NewClient(Settings{Timeout: time.Second, RateLimit: 1})

	start := time.Now()
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("GET", server.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Request %d failed: %v", i, err)
		}
		resp.Body.Close()
	}
	elapsed := time.Since(start)

	if elapsed < 900*time.Millisecond {
		t.Errorf("Rate limiting too fast: %v", elapsed)
	}
}

func TestClient_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, _ := NewClient(Settings{Timeout: time.Second})
	req, _ := http.NewRequest("GET", server.URL+"/start", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected redirect to be followed, got %d", resp.StatusCode)
	}

	noFollow, _ := NewClient(Settings{Timeout: time.Second, NoFollowRedirs: true})
	req, _ = http.NewRequest("GET", server.URL+"/start", nil)
	resp, err = noFollow.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302 without following, got %d", resp.StatusCode)
	}
}

func TestNewClient_InvalidProxy(t *testing.T) {
	if _, err := NewClient(Settings{Proxy: "::not a proxy"}); err == nil {
		t.Error("expected error for invalid proxy")
	}
}

func TestClient_Proxy(t *testing.T) {
	var proxyHit atomic.Bool
	proxyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxyHit.Store(true)
		w.WriteHeader(http.StatusOK)
	}))
	defer proxyServer.Close()

	client, err := NewClient(Settings{Timeout: 2 * time.Second, Proxy: proxyServer.URL})
	if err != nil {
		t.Fatal(err)
	}
	req, _ := http.NewRequest("GET", "http://example.com/?q=1", nil)
	resp, err := client.Do(req)
	if err == nil {
		resp.Body.Close()
	}

	if !proxyHit.Load() {
		t.Errorf("Expected request to go through proxy %s", proxyServer.URL)
	}
}
