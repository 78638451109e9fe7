package healthapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ostapk/vitabot/internal/domain"
)

// TokenStore persists the session token between restarts.
// Persistence failures are not fatal: the in-memory token keeps the
// session alive until the process exits.
type TokenStore interface {
	GetToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Client is a Vita health API client
type Client struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
	tokens     TokenStore

	mu    sync.Mutex
	token string
}

// NewClient creates a new Vita API client
func NewClient(baseURL, email, password string, tokens TokenStore) *Client {
	c := &Client{
		baseURL:  baseURL,
		email:    email,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}
	if tokens != nil {
		if token, err := tokens.GetToken(); err == nil && token != "" {
			c.token = token
		}
	}
	return c
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if c.tokens != nil && token != "" {
		// Best-effort: a failed write only costs a re-login after restart
		_ = c.tokens.SaveToken(token)
	}
}

// doRequest performs an authenticated JSON request. On a 401 the
// session is refreshed once and the request retried, matching the
// behavior of the web client this bot replaces.
func (c *Client) doRequest(method, path string, body interface{}) ([]byte, error) {
	data, status, err := c.doOnce(method, path, body, c.currentToken())
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		if err := c.Refresh(); err != nil {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
		data, status, err = c.doOnce(method, path, body, c.currentToken())
		if err != nil {
			return nil, err
		}
	}
	if status >= 400 {
		return nil, fmt.Errorf("API error %d: %s", status, string(data))
	}
	return data, nil
}

func (c *Client) doOnce(method, path string, body interface{}, token string) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// --- Auth ---

// Login authenticates with the configured credentials and stores the token
func (c *Client) Login() (*AuthResponse, error) {
	data, status, err := c.doOnce("POST", "/auth/login", loginRequest{
		Email:    c.email,
		Password: c.password,
	}, "")
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("login failed %d: %s", status, string(data))
	}

	var auth AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, fmt.Errorf("unmarshal auth response: %w", err)
	}
	c.setToken(auth.Token)
	return &auth, nil
}

// Register creates a new account and stores the token
func (c *Client) Register(name string) (*AuthResponse, error) {
	data, status, err := c.doOnce("POST", "/auth/registration", registerRequest{
		Name:     name,
		Email:    c.email,
		Password: c.password,
	}, "")
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("registration failed %d: %s", status, string(data))
	}

	var auth AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, fmt.Errorf("unmarshal auth response: %w", err)
	}
	c.setToken(auth.Token)
	return &auth, nil
}

// Refresh exchanges the session for a fresh token, falling back to a
// full login when the refresh endpoint rejects us.
func (c *Client) Refresh() error {
	data, status, err := c.doOnce("POST", "/auth/refresh", nil, c.currentToken())
	if err != nil {
		return err
	}
	if status >= 400 {
		if _, err := c.Login(); err != nil {
			return fmt.Errorf("re-login: %w", err)
		}
		return nil
	}

	var refresh refreshResponse
	if err := json.Unmarshal(data, &refresh); err != nil {
		return fmt.Errorf("unmarshal refresh response: %w", err)
	}
	c.setToken(refresh.Token)
	return nil
}

// Logout invalidates the server session and drops the stored token
func (c *Client) Logout() error {
	_, _, _ = c.doOnce("POST", "/auth/logout", nil, c.currentToken())
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if c.tokens != nil {
		return c.tokens.ClearToken()
	}
	return nil
}

// Me returns the current user profile
func (c *Client) Me() (*domain.User, error) {
	data, err := c.doRequest("GET", "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

// UpdateProfile patches the current user profile
func (c *Client) UpdateProfile(req *UpdateProfileRequest) (*domain.User, error) {
	data, err := c.doRequest("PATCH", "/auth/me", req)
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}

// --- Entries ---

// ListEntries returns a page of health entries
func (c *Client) ListEntries(filter EntryFilter) (*EntryPage, error) {
	params := url.Values{}
	if filter.Page > 0 {
		params.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.StartDate != "" {
		params.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		params.Set("endDate", filter.EndDate)
	}
	if filter.EntryType != "" {
		params.Set("entryType", filter.EntryType)
	}

	path := "/entries"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	data, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var page EntryPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal entries: %w", err)
	}
	return &page, nil
}

// CreateEntry creates a new health entry
func (c *Client) CreateEntry(entry *domain.HealthEntry) (*domain.HealthEntry, error) {
	data, err := c.doRequest("POST", "/entries", entry)
	if err != nil {
		return nil, err
	}

	var created domain.HealthEntry
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &created, nil
}

// UpdateEntry replaces an existing entry
func (c *Client) UpdateEntry(id int64, entry *domain.HealthEntry) (*domain.HealthEntry, error) {
	data, err := c.doRequest("PUT", fmt.Sprintf("/entries/%d", id), entry)
	if err != nil {
		return nil, err
	}

	var updated domain.HealthEntry
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &updated, nil
}

// DeleteEntry deletes an entry
func (c *Client) DeleteEntry(id int64) error {
	_, err := c.doRequest("DELETE", fmt.Sprintf("/entries/%d", id), nil)
	return err
}

// Statistics returns per-day aggregates for a date range
func (c *Client) Statistics(startDate, endDate string) (*domain.Statistics, error) {
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)

	data, err := c.doRequest("GET", "/entries/statistics?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var stats domain.Statistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal statistics: %w", err)
	}
	return &stats, nil
}

// --- Quotes ---

// ListQuotes returns a page of quotes, optionally filtered
func (c *Client) ListQuotes(filter QuoteFilter) (*domain.QuotePage, error) {
	params := url.Values{}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.Page > 0 {
		params.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Mood > 0 {
		params.Set("mood", strconv.Itoa(filter.Mood))
	}

	path := "/quotes"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	data, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var page domain.QuotePage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal quotes: %w", err)
	}
	return &page, nil
}

// GetQuote returns a single quote by ID
func (c *Client) GetQuote(id string) (*domain.Quote, error) {
	data, err := c.doRequest("GET", "/quotes/"+id, nil)
	if err != nil {
		return nil, err
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	return &quote, nil
}

// RandomQuote returns a random quote, optionally matching category or mood
func (c *Client) RandomQuote(category string, mood int) (*domain.Quote, error) {
	params := url.Values{}
	if category != "" {
		params.Set("category", category)
	}
	if mood > 0 {
		params.Set("mood", strconv.Itoa(mood))
	}

	path := "/quotes/random/quote"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	data, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	return &quote, nil
}

// DailyQuote returns the quote of the day
func (c *Client) DailyQuote() (*domain.Quote, error) {
	data, err := c.doRequest("GET", "/quotes/daily/quote", nil)
	if err != nil {
		return nil, err
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	return &quote, nil
}

// QuoteCategories returns the known quote categories
func (c *Client) QuoteCategories() ([]string, error) {
	data, err := c.doRequest("GET", "/quotes/categories/list", nil)
	if err != nil {
		return nil, err
	}

	var categories []string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("unmarshal categories: %w", err)
	}
	return categories, nil
}

// CreateQuote adds a quote
func (c *Client) CreateQuote(req *CreateQuoteRequest) (*domain.Quote, error) {
	data, err := c.doRequest("POST", "/quotes", req)
	if err != nil {
		return nil, err
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	return &quote, nil
}

// UpdateQuote updates a quote
func (c *Client) UpdateQuote(id string, req *UpdateQuoteRequest) (*domain.Quote, error) {
	data, err := c.doRequest("PUT", "/quotes/"+id, req)
	if err != nil {
		return nil, err
	}

	var quote domain.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	return &quote, nil
}

// DeleteQuote deletes a quote
func (c *Client) DeleteQuote(id string) error {
	_, err := c.doRequest("DELETE", "/quotes/"+id, nil)
	return err
}

// --- Reminders ---

// ListReminders returns all reminders; active filters by activity when non-nil
func (c *Client) ListReminders(active *bool) ([]domain.Reminder, error) {
	path := "/reminders"
	if active != nil {
		path += "?active=" + strconv.FormatBool(*active)
	}

	data, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var reminders []domain.Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		return nil, fmt.Errorf("unmarshal reminders: %w", err)
	}
	return reminders, nil
}

// GetReminder returns a single reminder by ID
func (c *Client) GetReminder(id string) (*domain.Reminder, error) {
	data, err := c.doRequest("GET", "/reminders/"+id, nil)
	if err != nil {
		return nil, err
	}

	var reminder domain.Reminder
	if err := json.Unmarshal(data, &reminder); err != nil {
		return nil, fmt.Errorf("unmarshal reminder: %w", err)
	}
	return &reminder, nil
}

// TodayReminders returns the reminders relevant for today
func (c *Client) TodayReminders() ([]domain.Reminder, error) {
	data, err := c.doRequest("GET", "/reminders/today/list", nil)
	if err != nil {
		return nil, err
	}

	var reminders []domain.Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		return nil, fmt.Errorf("unmarshal reminders: %w", err)
	}
	return reminders, nil
}

// CreateReminder creates a new reminder
func (c *Client) CreateReminder(req *CreateReminderRequest) (*domain.Reminder, error) {
	data, err := c.doRequest("POST", "/reminders", req)
	if err != nil {
		return nil, err
	}

	var reminder domain.Reminder
	if err := json.Unmarshal(data, &reminder); err != nil {
		return nil, fmt.Errorf("unmarshal reminder: %w", err)
	}
	return &reminder, nil
}

// UpdateReminder updates an existing reminder
func (c *Client) UpdateReminder(id string, req *UpdateReminderRequest) (*domain.Reminder, error) {
	data, err := c.doRequest("PUT", "/reminders/"+id, req)
	if err != nil {
		return nil, err
	}

	var reminder domain.Reminder
	if err := json.Unmarshal(data, &reminder); err != nil {
		return nil, fmt.Errorf("unmarshal reminder: %w", err)
	}
	return &reminder, nil
}

// ToggleReminder flips a reminder's active flag
func (c *Client) ToggleReminder(id string) (*domain.Reminder, error) {
	data, err := c.doRequest("PATCH", "/reminders/"+id+"/toggle", nil)
	if err != nil {
		return nil, err
	}

	var reminder domain.Reminder
	if err := json.Unmarshal(data, &reminder); err != nil {
		return nil, fmt.Errorf("unmarshal reminder: %w", err)
	}
	return &reminder, nil
}

// DeleteReminder deletes a reminder
func (c *Client) DeleteReminder(id string) error {
	_, err := c.doRequest("DELETE", "/reminders/"+id, nil)
	return err
}
