package domain

// Quote is a motivational quote served by the Vita API.
type Quote struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type QuotePage struct {
	Quotes      []Quote `json:"quotes"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	TotalQuotes int     `json:"totalQuotes"`
}

var QuoteCategoryLabels = map[string]string{
	"motivation":  "Мотивація",
	"health":      "Здоров'я",
	"success":     "Успіх",
	"inspiration": "Натхнення",
	"wisdom":      "Мудрість",
	"general":     "Загальні",
}

// MoodCategories maps a mood score to quote categories that suit it.
// A low mood gets encouragement, a high one gets celebration.
var MoodCategories = map[int][]string{
	1: {"motivation", "inspiration", "hope"},
	2: {"motivation", "encouragement"},
	3: {"balance", "wisdom"},
	4: {"success", "achievement"},
	5: {"celebration", "joy", "success"},
}
