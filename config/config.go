package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	TelegramToken   string
	OwnerTelegramID int64
	APIBaseURL      string
	APIEmail        string
	APIPassword     string
	DatabasePath    string
	Timezone        *time.Location
	RefreshInterval time.Duration
	CalDAVURL       string
	CalDAVUsername  string
	CalDAVPassword  string
	CalDAVCalendar  string
}

func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	ownerID, err := strconv.ParseInt(os.Getenv("OWNER_TELEGRAM_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("OWNER_TELEGRAM_ID is required and must be a number")
	}

	apiURL := os.Getenv("VITA_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:4500/api"
	}

	email := os.Getenv("VITA_EMAIL")
	if email == "" {
		return nil, fmt.Errorf("VITA_EMAIL is required")
	}

	password := os.Getenv("VITA_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("VITA_PASSWORD is required")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/vitabot.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Europe/Kyiv"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	refreshMinutes := 5
	if v := os.Getenv("REFRESH_INTERVAL_MINUTES"); v != "" {
		refreshMinutes, err = strconv.Atoi(v)
		if err != nil || refreshMinutes < 1 {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL_MINUTES: %s", v)
		}
	}

	return &Config{
		TelegramToken:   token,
		OwnerTelegramID: ownerID,
		APIBaseURL:      apiURL,
		APIEmail:        email,
		APIPassword:     password,
		DatabasePath:    dbPath,
		Timezone:        tz,
		RefreshInterval: time.Duration(refreshMinutes) * time.Minute,
		CalDAVURL:       os.Getenv("CALDAV_URL"),
		CalDAVUsername:  os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:  os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendar:  os.Getenv("CALDAV_CALENDAR"),
	}, nil
}

func (c *Config) IsAllowedUser(telegramID int64) bool {
	return telegramID == c.OwnerTelegramID
}
