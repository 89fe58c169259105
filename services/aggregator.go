package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"hotel-reviews/models"
	"hotel-reviews/utils"
)

// CoerceScore reads a raw rating value as a number. Ints, finite floats and
// strings holding a plain decimal number qualify; everything else (booleans,
// None, "n/a", sequences, NaN/Inf) does not.
func CoerceScore(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case float32:
		f = float64(t)
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.ContainsAny(s, "xX_") {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RoundScore rounds to one decimal place, ties to even on the scaled value
func RoundScore(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}

// NumericScores returns the coercible scores of m, nested mappings flattened
// into dotted keys. Non-numeric values are skipped one attribute at a time.
func NumericScores(m models.RatingMap) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m.Flatten() {
		if f, ok := CoerceScore(v); ok {
			out[k] = f
		}
	}
	return out
}

// accumulator keeps a column-wise running mean with missing values excluded
type accumulator struct {
	sum   map[string]float64
	count map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{sum: make(map[string]float64), count: make(map[string]int)}
}

func (a *accumulator) add(scores map[string]float64) {
	for k, v := range scores {
		a.sum[k] += v
		a.count[k]++
	}
}

func (a *accumulator) averages() models.Averages {
	out := make(models.Averages, len(a.sum))
	for k, total := range a.sum {
		out[k] = RoundScore(total / float64(a.count[k]))
	}
	return out
}

func (a *accumulator) contributions() map[string]int {
	out := make(map[string]int, len(a.count))
	for k, n := range a.count {
		out[k] = n
	}
	return out
}

// RatingAggregator computes attribute-wise averages from parsed ratings
type RatingAggregator struct {
	logger *utils.Logger
}

// NewRatingAggregator creates a new RatingAggregator
func NewRatingAggregator(logger *utils.Logger) *RatingAggregator {
	return &RatingAggregator{logger: logger}
}

// Global averages every attribute across all reviews and reports how many
// reviews contributed to each mean
func (a *RatingAggregator) Global(reviews []*models.Review) (models.Averages, map[string]int) {
	acc := newAccumulator()
	for _, r := range reviews {
		acc.add(NumericScores(r.Ratings))
	}
	return acc.averages(), acc.contributions()
}

// ByHotel averages every attribute within each hotel. Hotels without a single
// numeric score are absent.
func (a *RatingAggregator) ByHotel(reviews []*models.Review) models.HotelAverages {
	averages, _ := a.byHotel(reviews)
	return averages
}

func (a *RatingAggregator) byHotel(reviews []*models.Review) (models.HotelAverages, map[string]map[string]int) {
	groups := make(map[string]*accumulator)
	for _, r := range reviews {
		scores := NumericScores(r.Ratings)
		if len(scores) == 0 {
			continue
		}
		acc, ok := groups[r.Hotel]
		if !ok {
			acc = newAccumulator()
			groups[r.Hotel] = acc
		}
		acc.add(scores)
	}

	averages := make(models.HotelAverages, len(groups))
	counts := make(map[string]map[string]int, len(groups))
	for hotel, acc := range groups {
		averages[hotel] = acc.averages()
		counts[hotel] = acc.contributions()
	}
	return averages, counts
}

// Generate computes all insights from a slice of normalized reviews
func (a *RatingAggregator) Generate(reviews []*models.Review) *models.Insights {
	insights := &models.Insights{
		Global:             models.Averages{},
		Contributions:      map[string]int{},
		ByHotel:            models.HotelAverages{},
		HotelContributions: map[string]map[string]int{},
		ReviewsByHotel:     make(map[string]int),
	}

	if len(reviews) == 0 {
		a.logger.Warn("No reviews to generate insights from")
		return insights
	}

	topics := utils.NewSeenSet()
	hotels := utils.NewSeenSet()
	for _, r := range reviews {
		insights.TotalReviews++
		insights.ReviewsByHotel[r.Hotel]++
		topics.Add(r.Topic)
		hotels.Add(r.Hotel)
		if len(NumericScores(r.Ratings)) > 0 {
			insights.RatedReviews++
		}
	}
	insights.Topics = topics.Keys()
	insights.Hotels = hotels.Keys()
	sort.Strings(insights.Hotels)

	insights.Global, insights.Contributions = a.Global(reviews)
	insights.ByHotel, insights.HotelContributions = a.byHotel(reviews)

	a.logger.Info("Aggregated %d attributes over %d/%d rated reviews across %d hotels",
		len(insights.Global), insights.RatedReviews, insights.TotalReviews, len(insights.Hotels))
	return insights
}
