package domain

// UserPreferences holds per-user goals and notification switches
// stored on the server.
type UserPreferences struct {
	Notifications      bool   `json:"notifications"`
	EmailNotifications bool   `json:"emailNotifications"`
	Theme              string `json:"theme,omitempty"`
	Language           string `json:"language,omitempty"`
	WaterGoal          int    `json:"waterGoal"`    // ml per day
	SleepGoal          int    `json:"sleepGoal"`    // hours per day
	ActivityGoal       int    `json:"activityGoal"` // minutes per day
}

type User struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
}
