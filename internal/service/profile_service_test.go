package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ostapk/vitabot/internal/clients/healthapi"
	"github.com/ostapk/vitabot/internal/domain"
	"github.com/ostapk/vitabot/internal/storage"
)

func TestEnsureSessionReusesCachedToken(t *testing.T) {
	store, err := storage.NewInMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.SaveToken("cached-tok"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	loginCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			if r.Header.Get("Authorization") != "Bearer cached-tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(domain.User{ID: "u1", Name: "Оксана"})
		case "/auth/login":
			loginCalls++
			_ = json.NewEncoder(w).Encode(healthapi.AuthResponse{Token: "fresh-tok"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	svc := NewProfileService(healthapi.NewClient(srv.URL, "test@example.com", "secret", store))

	user, err := svc.EnsureSession()
	if err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if user.Name != "Оксана" {
		t.Errorf("user = %q", user.Name)
	}
	if loginCalls != 0 {
		t.Errorf("login calls = %d, want 0 (cached session is valid)", loginCalls)
	}
}

func TestEnsureSessionFallsBackToLogin(t *testing.T) {
	store, err := storage.NewInMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	loginCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			if r.Header.Get("Authorization") != "Bearer fresh-tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(domain.User{ID: "u1", Name: "Оксана"})
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
		case "/auth/login":
			loginCalls++
			_ = json.NewEncoder(w).Encode(healthapi.AuthResponse{
				Token: "fresh-tok",
				User:  domain.User{ID: "u1", Name: "Оксана"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	svc := NewProfileService(healthapi.NewClient(srv.URL, "test@example.com", "secret", store))

	user, err := svc.EnsureSession()
	if err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if user.Name != "Оксана" {
		t.Errorf("user = %q", user.Name)
	}
	if loginCalls != 1 {
		t.Errorf("login calls = %d, want 1", loginCalls)
	}
	if token, _ := store.GetToken(); token != "fresh-tok" {
		t.Errorf("persisted token = %q, want fresh-tok", token)
	}
}
