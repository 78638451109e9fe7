package domain

// HealthEntry is a single daily wellness record.
type HealthEntry struct {
	ID              int64    `json:"id,omitempty"`
	Date            string   `json:"date"` // YYYY-MM-DD
	Mood            int      `json:"mood"` // 1..5
	SleepHours      float64  `json:"sleepHours"`
	WaterIntake     int      `json:"waterIntake"`     // ml
	ActivityMinutes int      `json:"activityMinutes"` // minutes
	ActivityType    string   `json:"activityType,omitempty"`
	Steps           int      `json:"steps,omitempty"`
	CaloriesBurned  int      `json:"caloriesBurned,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// DayStatistics aggregates the entries of one calendar day.
type DayStatistics struct {
	Date          string        `json:"date"`
	Entries       []HealthEntry `json:"entries"`
	TotalWater    int           `json:"totalWater"`
	TotalActivity int           `json:"totalActivity"`
	TotalSteps    int           `json:"totalSteps"`
	TotalCalories int           `json:"totalCalories"`
	Moods         []int         `json:"moods"`
	AverageMood   float64       `json:"averageMood"`
}

type StatisticsSummary struct {
	TotalEntries  int     `json:"totalEntries"`
	AverageMood   float64 `json:"averageMood"`
	TotalWater    int     `json:"totalWater"`
	TotalActivity int     `json:"totalActivity"`
	TotalSteps    int     `json:"totalSteps"`
	TotalCalories int     `json:"totalCalories"`
}

type Statistics struct {
	Statistics []DayStatistics   `json:"statistics"`
	Summary    StatisticsSummary `json:"summary"`
}

var moodLabels = []string{"Жахливо", "Погано", "Нейтрально", "Добре", "Чудово"}

var moodEmoji = []string{"😞", "🙁", "😐", "🙂", "😄"}

func MoodLabel(mood int) string {
	if mood < 1 || mood > len(moodLabels) {
		return "—"
	}
	return moodLabels[mood-1]
}

func MoodEmoji(mood int) string {
	if mood < 1 || mood > len(moodEmoji) {
		return "❔"
	}
	return moodEmoji[mood-1]
}

var ActivityTypeLabels = map[string]string{
	"walking":  "Ходьба",
	"running":  "Біг",
	"cycling":  "Велосипед",
	"swimming": "Плавання",
	"gym":      "Тренажерний зал",
	"yoga":     "Йога",
	"other":    "Інше",
}
