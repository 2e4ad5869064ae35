package relay

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchPassesTargetThroughRelay(t *testing.T) {
	const target = "https://files.example.com/peliculas/Dune (2021)/"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != target {
			t.Errorf("relay received url=%q, want %q", got, target)
		}
		w.Write([]byte("<html>listing</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	body, err := c.Fetch(target)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if string(body) != "<html>listing</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchNon2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Fetch("https://files.example.com/x/")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", fetchErr.Status)
	}
}

func TestFetchUnreachableRelayIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	c := New(srv.URL)
	_, err := c.Fetch("https://files.example.com/x/")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failure", fetchErr.Status)
	}
}
