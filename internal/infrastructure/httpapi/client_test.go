package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("jwt-abc"), 0, zerolog.Nop())
	if err := c.do(context.Background(), http.MethodGet, "/students", nil, nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer jwt-abc" {
		t.Fatalf("Authorization = %q, want Bearer jwt-abc", gotAuth)
	}
}

func TestClient_NoTokenMeansNoHeader(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""), 0, zerolog.Nop())
	if err := c.do(context.Background(), http.MethodGet, "/notices", nil, nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if hasAuth {
		t.Fatalf("Authorization header sent without a token")
	}
}

func TestClient_NonOKBecomesRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Email is already registered"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, 0, zerolog.Nop())
	err := c.do(context.Background(), http.MethodPost, "/auth/register", nil, map[string]string{"email": "a@b.edu"}, nil)
	var re *domain.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *domain.RequestError", err)
	}
	if re.StatusCode != http.StatusConflict {
		t.Fatalf("StatusCode = %d, want 409", re.StatusCode)
	}
	if re.Message != "Email is already registered" {
		t.Fatalf("Message = %q", re.Message)
	}
}

func TestClient_ErrorFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad input"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, 0, zerolog.Nop())
	err := c.do(context.Background(), http.MethodGet, "/courses", nil, nil, nil)
	var re *domain.RequestError
	if !errors.As(err, &re) || re.Message != "bad input" {
		t.Fatalf("err = %v, want RequestError with 'bad input'", err)
	}
}

func TestClient_JSONBodyRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["email"]})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, 0, zerolog.Nop())
	var out map[string]string
	if err := c.do(context.Background(), http.MethodPost, "/auth/login", nil, map[string]string{"email": "a@b.edu"}, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out["echo"] != "a@b.edu" {
		t.Fatalf("out = %v", out)
	}
}

func TestEndpointFamily(t *testing.T) {
	cases := map[string]string{
		"/auth/login":         "auth",
		"/students":           "students",
		"/results/student/s1": "results",
		"/":                   "root",
	}
	for path, want := range cases {
		if got := endpointFamily(path); got != want {
			t.Fatalf("endpointFamily(%q) = %q, want %q", path, got, want)
		}
	}
}
