package healthapi

import "github.com/ostapk/vitabot/internal/domain"

// AuthResponse is returned by login/registration
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EntryFilter narrows entry listings
type EntryFilter struct {
	Page      int
	Limit     int
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	EntryType string
}

// EntryPage is a paginated entry listing
type EntryPage struct {
	Entries      []domain.HealthEntry `json:"entries"`
	TotalPages   int                  `json:"totalPages"`
	CurrentPage  int                  `json:"currentPage"`
	TotalEntries int                  `json:"totalEntries"`
}

// QuoteFilter narrows quote listings
type QuoteFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
	Mood     int
}

// CreateReminderRequest for creating a new reminder
type CreateReminderRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Time        string            `json:"time"`
	RepeatType  domain.RepeatType `json:"repeatType,omitempty"`
	DaysOfWeek  []int             `json:"daysOfWeek,omitempty"`
	Date        string            `json:"date,omitempty"`
}

// UpdateReminderRequest for partial reminder updates
type UpdateReminderRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Time        *string            `json:"time,omitempty"`
	IsActive    *bool              `json:"isActive,omitempty"`
	RepeatType  *domain.RepeatType `json:"repeatType,omitempty"`
	DaysOfWeek  []int              `json:"daysOfWeek,omitempty"`
	Date        *string            `json:"date,omitempty"`
}

// CreateQuoteRequest for adding a quote
type CreateQuoteRequest struct {
	Text     string `json:"text"`
	Author   string `json:"author,omitempty"`
	Category string `json:"category,omitempty"`
}

// UpdateQuoteRequest for partial quote updates
type UpdateQuoteRequest struct {
	Text     *string `json:"text,omitempty"`
	Author   *string `json:"author,omitempty"`
	Category *string `json:"category,omitempty"`
}

// UpdateProfileRequest for PATCH /auth/me
type UpdateProfileRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Preferences *domain.UserPreferences `json:"preferences,omitempty"`
}
