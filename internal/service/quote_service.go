package service

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ostapk/vitabot/internal/clients/healthapi"
	"github.com/ostapk/vitabot/internal/domain"
)

// QuoteService serves motivational quotes from the Vita API.
type QuoteService struct {
	client *healthapi.Client
}

func NewQuoteService(client *healthapi.Client) *QuoteService {
	return &QuoteService{client: client}
}

func (s *QuoteService) Daily() (*domain.Quote, error) {
	return s.client.DailyQuote()
}

func (s *QuoteService) Random() (*domain.Quote, error) {
	return s.client.RandomQuote("", 0)
}

// RandomForMood picks a quote suited to a mood score by choosing one of
// the mood's categories at random, with a plain random quote as fallback.
func (s *QuoteService) RandomForMood(mood int) (*domain.Quote, error) {
	categories := CategoriesForMood(mood)
	if len(categories) == 0 {
		return s.client.RandomQuote("", mood)
	}
	category := categories[rand.Intn(len(categories))]
	quote, err := s.client.RandomQuote(category, mood)
	if err != nil {
		return s.client.RandomQuote("", 0)
	}
	return quote, nil
}

// CategoriesForMood returns the quote categories suited to a mood score.
func CategoriesForMood(mood int) []string {
	return domain.MoodCategories[mood]
}

func (s *QuoteService) List(filter healthapi.QuoteFilter) (*domain.QuotePage, error) {
	if filter.Limit == 0 {
		filter.Limit = 5
	}
	return s.client.ListQuotes(filter)
}

func (s *QuoteService) Categories() ([]string, error) {
	return s.client.QuoteCategories()
}

func (s *QuoteService) FormatQuote(q *domain.Quote) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💬 <i>%s</i>\n", q.Text))
	if q.Author != "" {
		sb.WriteString("— " + q.Author + "\n")
	}
	if q.Category != "" {
		label := q.Category
		if l, ok := domain.QuoteCategoryLabels[q.Category]; ok {
			label = l
		}
		sb.WriteString("🏷 " + label)
	}
	return sb.String()
}

func (s *QuoteService) FormatQuotePage(page *domain.QuotePage) string {
	if page == nil || len(page.Quotes) == 0 {
		return "Цитат не знайдено"
	}

	var sb strings.Builder
	for _, q := range page.Quotes {
		sb.WriteString(s.FormatQuote(&q))
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("Сторінка %d з %d (всього: %d)", page.CurrentPage, page.TotalPages, page.TotalQuotes))
	return sb.String()
}
