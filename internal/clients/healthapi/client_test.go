package healthapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ostapk/vitabot/internal/domain"
)

type memTokenStore struct {
	token string
}

func (m *memTokenStore) GetToken() (string, error) { return m.token, nil }
func (m *memTokenStore) SaveToken(t string) error  { m.token = t; return nil }
func (m *memTokenStore) ClearToken() error         { m.token = ""; return nil }

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "test@example.com" || req.Password != "secret" {
			t.Errorf("credentials = %s/%s", req.Email, req.Password)
		}
		_ = json.NewEncoder(w).Encode(AuthResponse{
			Token: "tok-1",
			User:  domain.User{ID: "u1", Name: "Оксана", Email: req.Email},
		})
	}))
	defer srv.Close()

	store := &memTokenStore{}
	client := NewClient(srv.URL, "test@example.com", "secret", store)

	auth, err := client.Login()
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if auth.User.Name != "Оксана" {
		t.Errorf("user = %q", auth.User.Name)
	}
	if store.token != "tok-1" {
		t.Errorf("persisted token = %q, want tok-1", store.token)
	}
}

func TestBearerHeaderSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer cached-tok" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode([]domain.Reminder{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test@example.com", "secret", &memTokenStore{token: "cached-tok"})
	if _, err := client.TodayReminders(); err != nil {
		t.Fatalf("today reminders: %v", err)
	}
}

func TestRefreshRetryOn401(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reminders/today/list":
			calls++
			if r.Header.Get("Authorization") != "Bearer fresh-tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode([]domain.Reminder{
				{ID: "r1", Title: "Випити води", Time: "09:00", IsActive: true},
			})
		case "/auth/refresh":
			_ = json.NewEncoder(w).Encode(refreshResponse{Token: "fresh-tok"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := &memTokenStore{token: "expired-tok"}
	client := NewClient(srv.URL, "test@example.com", "secret", store)

	reminders, err := client.TodayReminders()
	if err != nil {
		t.Fatalf("today reminders: %v", err)
	}
	if len(reminders) != 1 || reminders[0].ID != "r1" {
		t.Errorf("reminders = %+v, want [r1]", reminders)
	}
	if calls != 2 {
		t.Errorf("list calls = %d, want 2 (401 then retry)", calls)
	}
	if store.token != "fresh-tok" {
		t.Errorf("persisted token = %q, want fresh-tok", store.token)
	}
}

func TestRefreshFallsBackToLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(AuthResponse{Token: "login-tok"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := &memTokenStore{token: "dead-tok"}
	client := NewClient(srv.URL, "test@example.com", "secret", store)

	if err := client.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if store.token != "login-tok" {
		t.Errorf("persisted token = %q, want login-tok", store.token)
	}
}

func TestListEntriesQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "10" {
			t.Errorf("pagination = page %s limit %s", q.Get("page"), q.Get("limit"))
		}
		if q.Get("startDate") != "2026-03-01" || q.Get("endDate") != "2026-03-10" {
			t.Errorf("range = %s..%s", q.Get("startDate"), q.Get("endDate"))
		}
		_ = json.NewEncoder(w).Encode(EntryPage{
			Entries:      []domain.HealthEntry{{ID: 7, Date: "2026-03-05", Mood: 4}},
			TotalPages:   3,
			CurrentPage:  2,
			TotalEntries: 25,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test@example.com", "secret", &memTokenStore{token: "tok"})
	page, err := client.ListEntries(EntryFilter{Page: 2, Limit: 10, StartDate: "2026-03-01", EndDate: "2026-03-10"})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(page.Entries) != 1 || page.Entries[0].ID != 7 {
		t.Errorf("entries = %+v", page.Entries)
	}
	if page.TotalEntries != 25 {
		t.Errorf("total = %d, want 25", page.TotalEntries)
	}
}

func TestToggleReminder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" || r.URL.Path != "/reminders/r1/toggle" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(domain.Reminder{ID: "r1", IsActive: false})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test@example.com", "secret", &memTokenStore{token: "tok"})
	reminder, err := client.ToggleReminder("r1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if reminder.IsActive {
		t.Error("expected toggled-off reminder")
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test@example.com", "secret", &memTokenStore{token: "tok"})
	if _, err := client.DailyQuote(); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
