package domain

// ReminderSettings is device-local notification configuration.
// EnableNotifications is the master switch for the scheduler;
// AutoDismiss and DismissDelay are forwarded to the notifier.
type ReminderSettings struct {
	EnableNotifications bool `json:"enableNotifications"`
	ShowOnDashboard     bool `json:"showOnDashboard"`
	SoundEnabled        bool `json:"soundEnabled"`
	AutoDismiss         bool `json:"autoDismiss"`
	DismissDelay        int  `json:"dismissDelay"` // seconds
}

func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		EnableNotifications: true,
		ShowOnDashboard:     false,
		SoundEnabled:        true,
		AutoDismiss:         false,
		DismissDelay:        30,
	}
}
