package service

import (
	"fmt"
	"strings"

	"github.com/ostapk/vitabot/internal/clients/healthapi"
	"github.com/ostapk/vitabot/internal/domain"
)

// ProfileService wraps the account endpoints: current user, profile and
// goal preferences.
type ProfileService struct {
	client *healthapi.Client
}

func NewProfileService(client *healthapi.Client) *ProfileService {
	return &ProfileService{client: client}
}

// Login authenticates with the configured credentials.
func (s *ProfileService) Login() (*domain.User, error) {
	auth, err := s.client.Login()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &auth.User, nil
}

// EnsureSession validates the cached session token against the profile
// endpoint and only falls back to a credential login when it is
// missing or rejected. Called once at startup.
func (s *ProfileService) EnsureSession() (*domain.User, error) {
	if user, err := s.client.Me(); err == nil {
		return user, nil
	}
	return s.Login()
}

func (s *ProfileService) Logout() error {
	return s.client.Logout()
}

func (s *ProfileService) Me() (*domain.User, error) {
	return s.client.Me()
}

func (s *ProfileService) UpdateName(name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	return s.client.UpdateProfile(&healthapi.UpdateProfileRequest{Name: &name})
}

// UpdateGoals sets the daily goal preferences, keeping the rest of the
// preference block intact.
func (s *ProfileService) UpdateGoals(waterGoal, sleepGoal, activityGoal int) (*domain.User, error) {
	if waterGoal < 0 || sleepGoal < 0 || activityGoal < 0 {
		return nil, fmt.Errorf("goals cannot be negative")
	}

	user, err := s.client.Me()
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}

	prefs := domain.UserPreferences{}
	if user.Preferences != nil {
		prefs = *user.Preferences
	}
	if waterGoal > 0 {
		prefs.WaterGoal = waterGoal
	}
	if sleepGoal > 0 {
		prefs.SleepGoal = sleepGoal
	}
	if activityGoal > 0 {
		prefs.ActivityGoal = activityGoal
	}

	return s.client.UpdateProfile(&healthapi.UpdateProfileRequest{Preferences: &prefs})
}

func (s *ProfileService) FormatProfile(user *domain.User) string {
	var sb strings.Builder
	sb.WriteString("👤 <b>Профіль</b>\n\n")
	sb.WriteString("Ім'я: " + user.Name + "\n")
	sb.WriteString("Email: " + user.Email + "\n")
	if p := user.Preferences; p != nil {
		sb.WriteString("\n🎯 <b>Цілі</b>\n")
		sb.WriteString(fmt.Sprintf("💧 Вода: %d мл/день\n", p.WaterGoal))
		sb.WriteString(fmt.Sprintf("😴 Сон: %d год/день\n", p.SleepGoal))
		sb.WriteString(fmt.Sprintf("🏃 Активність: %d хв/день\n", p.ActivityGoal))
	}
	return sb.String()
}
