package services

import (
	"sort"

	"hotel-reviews/models"
	"hotel-reviews/utils"
)

// OverallKey is the attribute shown first on every card
const OverallKey = "overall"

// FallbackSymbol marks attributes missing from the symbol table
const FallbackSymbol = "🔹"

var symbols = map[string]string{
	"service":       "🛎️",
	"cleanliness":   "🧼",
	"overall":       "⭐",
	"value":         "💰",
	"location":      "📍",
	"sleep_quality": "💤",
	"rooms":         "🚪",
}

// Symbol returns the display symbol for a rating attribute
func Symbol(attr string) string {
	if s, ok := symbols[attr]; ok {
		return s
	}
	return FallbackSymbol
}

// OrderAttributes puts "overall" first and the rest in alphabetical order
func OrderAttributes(attrs []string) []string {
	out := make([]string, 0, len(attrs))
	hasOverall := false
	for _, a := range attrs {
		if a == OverallKey {
			hasOverall = true
			continue
		}
		out = append(out, a)
	}
	sort.Strings(out)
	if hasOverall {
		out = append([]string{OverallKey}, out...)
	}
	return out
}

// Dashboard is the presentation layer over one loaded dataset.
// It only reads the reviews and insights it was given.
type Dashboard struct {
	title     string
	datasetID string
	reviews   []*models.Review
	insights  *models.Insights
}

// NewDashboard creates a Dashboard over a loaded dataset
func NewDashboard(dataset *models.Dataset) *Dashboard {
	return &Dashboard{
		title:     "🏨 Explorador de Reviews por Tópico y Hotel",
		datasetID: dataset.ID,
		reviews:   dataset.Reviews,
		insights:  dataset.Insights,
	}
}

// Insights returns the aggregates the dashboard compares against
func (d *Dashboard) Insights() *models.Insights {
	return d.insights
}

// Topics returns the unique topics in first-seen order
func (d *Dashboard) Topics() []string {
	return append([]string(nil), d.insights.Topics...)
}

// Hotels returns the sorted unique hotel names
func (d *Dashboard) Hotels() []string {
	return append([]string(nil), d.insights.Hotels...)
}

// HasHotel reports whether any review belongs to hotel
func (d *Dashboard) HasHotel(hotel string) bool {
	_, ok := d.insights.ReviewsByHotel[hotel]
	return ok
}

// NormalizeQuery fills defaults: first topic, all hotels, and a row cap
// clamped to [MinLimit, MaxLimit] (zero means DefaultLimit)
func (d *Dashboard) NormalizeQuery(q models.Query) models.Query {
	if q.Topic == "" && len(d.insights.Topics) > 0 {
		q.Topic = d.insights.Topics[0]
	}
	if q.Hotel == "" {
		q.Hotel = models.AllHotels
	}
	switch {
	case q.Limit == 0:
		q.Limit = models.DefaultLimit
	case q.Limit < models.MinLimit:
		q.Limit = models.MinLimit
	case q.Limit > models.MaxLimit:
		q.Limit = models.MaxLimit
	}
	return q
}

// Filter selects reviews for q: the topic, then one hotel or the first
// review of every hotel, then at most q.Limit rows, all in dataset order
func (d *Dashboard) Filter(q models.Query) []*models.Review {
	q = d.NormalizeQuery(q)
	seen := utils.NewSeenSet()

	var out []*models.Review
	for _, r := range d.reviews {
		if len(out) >= q.Limit {
			break
		}
		if r.Topic != q.Topic {
			continue
		}
		if q.Hotel != models.AllHotels {
			if r.Hotel != q.Hotel {
				continue
			}
		} else if !seen.Add(r.Hotel) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Cards renders the filtered reviews for display
func (d *Dashboard) Cards(q models.Query) []models.ReviewCard {
	reviews := d.Filter(q)
	cards := make([]models.ReviewCard, 0, len(reviews))
	for _, r := range reviews {
		cards = append(cards, BuildCard(r, d.insights))
	}
	return cards
}

// Page assembles a full dashboard view for q
func (d *Dashboard) Page(q models.Query) *models.Page {
	q = d.NormalizeQuery(q)
	return &models.Page{
		Title:     d.title,
		DatasetID: d.datasetID,
		Query:     q,
		Topics:    d.Topics(),
		Hotels:    d.Hotels(),
		Cards:     d.Cards(q),
		Global:    d.insights.Global,
	}
}

// BuildCard lays out one review: "overall" first, remaining ratings
// alphabetically, then the numeric comparison against dataset averages.
// The review's RatingMap is copied, never modified.
func BuildCard(r *models.Review, insights *models.Insights) models.ReviewCard {
	card := models.ReviewCard{
		Row:   r.Row,
		Hotel: r.Hotel,
		Topic: r.Topic,
		Text:  r.Text,
	}
	if len(r.Ratings) == 0 {
		card.NoRatings = true
		return card
	}

	ratings := r.Ratings.Clone()
	if overall, ok := ratings[OverallKey]; ok {
		delete(ratings, OverallKey)
		if overall != nil {
			card.Ratings = append(card.Ratings, ratingLine(OverallKey, overall))
		}
	}
	for _, k := range ratings.Keys() {
		card.Ratings = append(card.Ratings, ratingLine(k, ratings[k]))
	}

	card.Comparison = compare(r, insights)
	card.NoNumeric = len(card.Comparison) == 0
	return card
}

func ratingLine(attr string, v any) models.RatingLine {
	return models.RatingLine{
		Attribute: attr,
		Label:     Capitalize(attr),
		Symbol:    Symbol(attr),
		Value:     FormatScore(v),
	}
}

func compare(r *models.Review, insights *models.Insights) []models.ComparisonRow {
	if insights == nil {
		return nil
	}
	scores := NumericScores(r.Ratings)
	hotel := insights.ByHotel[r.Hotel]

	attrs := make([]string, 0, len(scores))
	for a := range scores {
		if _, ok := insights.Global[a]; ok {
			attrs = append(attrs, a)
		}
	}

	rows := make([]models.ComparisonRow, 0, len(attrs))
	for _, a := range OrderAttributes(attrs) {
		row := models.ComparisonRow{
			Attribute: a,
			Label:     Capitalize(a),
			Review:    scores[a],
			Global:    insights.Global[a],
		}
		if avg, ok := hotel[a]; ok {
			row.Hotel = &avg
		}
		rows = append(rows, row)
	}
	return rows
}
