package models

import (
	"sort"
	"time"
)

// RawReview represents one dataset row exactly as the source yielded it
type RawReview struct {
	Row     int
	Hotel   string
	Topic   string
	Text    any // nil or numeric when the source column was empty or typed
	Ratings any // mapping literal text, an already decoded mapping, or nil
}

// Review represents a normalized row ready for aggregation and display.
// A Review and its Ratings are never modified after normalization.
type Review struct {
	Row     int       `json:"row" yaml:"row"`
	Hotel   string    `json:"hotel" yaml:"hotel"`
	Topic   string    `json:"topic" yaml:"topic"`
	Text    string    `json:"text" yaml:"text"`
	Ratings RatingMap `json:"ratings" yaml:"ratings"`
}

// RatingMap maps a rating attribute to its score as the source encoded it.
// Values are not coerced: 4, 4.5, "5" and "n/a" are all kept as given.
type RatingMap map[string]any

// Clone returns a deep copy so callers can reshape it for display
func (m RatingMap) Clone() RatingMap {
	out := make(RatingMap, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// Without returns a copy of the map minus key
func (m RatingMap) Without(key string) RatingMap {
	out := m.Clone()
	delete(out, key)
	return out
}

// Keys returns the attribute names in sorted order
func (m RatingMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flatten lifts nested mappings into dotted keys ("sub.score"), the way a
// column normalizer would. Sequences and scalars are left as leaves.
// When two paths flatten to the same key, the shallower one wins, then the
// one whose keys sort first.
func (m RatingMap) Flatten() RatingMap {
	out := make(RatingMap, len(m))
	depth := make(map[string]int, len(m))
	flattenInto(out, depth, "", 0, m)
	return out
}

func flattenInto(out RatingMap, depth map[string]int, prefix string, level int, m RatingMap) {
	for _, k := range m.Keys() {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch nested := m[k].(type) {
		case RatingMap:
			flattenInto(out, depth, key, level+1, nested)
		case map[string]any:
			flattenInto(out, depth, key, level+1, RatingMap(nested))
		default:
			if d, taken := depth[key]; taken && d <= level {
				continue
			}
			out[key] = m[k]
			depth[key] = level
		}
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case RatingMap:
		return t.Clone()
	case map[string]any:
		return RatingMap(t).Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Averages maps a rating attribute to its mean score, rounded to one decimal
type Averages map[string]float64

// HotelAverages maps a hotel name to the averages of its own reviews
type HotelAverages map[string]Averages

// Insights holds everything derived from one dataset load
type Insights struct {
	DatasetID          string                    `json:"dataset_id" yaml:"dataset_id"`
	LoadedAt           time.Time                 `json:"loaded_at" yaml:"loaded_at"`
	TotalReviews       int                       `json:"total_reviews" yaml:"total_reviews"`
	RatedReviews       int                       `json:"rated_reviews" yaml:"rated_reviews"`
	Topics             []string                  `json:"topics" yaml:"topics"` // first-seen order
	Hotels             []string                  `json:"hotels" yaml:"hotels"` // sorted
	Global             Averages                  `json:"global" yaml:"global"`
	Contributions      map[string]int            `json:"contributions" yaml:"contributions"`
	ByHotel            HotelAverages             `json:"by_hotel" yaml:"by_hotel"`
	HotelContributions map[string]map[string]int `json:"hotel_contributions" yaml:"hotel_contributions"`
	ReviewsByHotel     map[string]int            `json:"reviews_by_hotel" yaml:"reviews_by_hotel"`
}

// Dataset is one session's immutable load: rows plus everything derived
type Dataset struct {
	ID       string
	LoadedAt time.Time
	Reviews  []*Review
	Insights *Insights
}

// Attributes returns every attribute with a global average, sorted
func (i *Insights) Attributes() []string {
	attrs := make([]string, 0, len(i.Global))
	for a := range i.Global {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	return attrs
}
