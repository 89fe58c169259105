package models

const (
	// AllHotels is the hotel selection that disables the hotel filter
	AllHotels = "Todos"

	DefaultLimit = 5
	MinLimit     = 1
	MaxLimit     = 20
)

// Query is the presentation filter: one topic, one hotel or all, a row cap
type Query struct {
	Topic string `json:"topic" yaml:"topic"`
	Hotel string `json:"hotel" yaml:"hotel"`
	Limit int    `json:"limit" yaml:"limit"`
}

// RatingLine is one "symbol Label: value/5" entry of a review card
type RatingLine struct {
	Attribute string `json:"attribute" yaml:"attribute"`
	Label     string `json:"label" yaml:"label"`
	Symbol    string `json:"symbol" yaml:"symbol"`
	Value     string `json:"value" yaml:"value"`
}

// ComparisonRow puts one numeric review score next to the dataset averages.
// Hotel is nil when the hotel has no numeric value for the attribute.
type ComparisonRow struct {
	Attribute string   `json:"attribute" yaml:"attribute"`
	Label     string   `json:"label" yaml:"label"`
	Review    float64  `json:"review" yaml:"review"`
	Global    float64  `json:"global" yaml:"global"`
	Hotel     *float64 `json:"hotel,omitempty" yaml:"hotel,omitempty"`
}

// ReviewCard is the display form of one review
type ReviewCard struct {
	Row        int             `json:"row" yaml:"row"`
	Hotel      string          `json:"hotel" yaml:"hotel"`
	Topic      string          `json:"topic" yaml:"topic"`
	Text       string          `json:"text" yaml:"text"`
	Ratings    []RatingLine    `json:"ratings" yaml:"ratings"`
	Comparison []ComparisonRow `json:"comparison" yaml:"comparison"`
	NoRatings  bool            `json:"no_ratings" yaml:"no_ratings"`
	NoNumeric  bool            `json:"no_numeric" yaml:"no_numeric"`
}

// Page is everything a renderer needs for one dashboard view
type Page struct {
	Title     string       `json:"title" yaml:"title"`
	DatasetID string       `json:"dataset_id" yaml:"dataset_id"`
	Query     Query        `json:"query" yaml:"query"`
	Topics    []string     `json:"topics" yaml:"topics"`
	Hotels    []string     `json:"hotels" yaml:"hotels"`
	Cards     []ReviewCard `json:"cards" yaml:"cards"`
	Global    Averages     `json:"global" yaml:"global"`
}
