package services

import (
	"errors"
	"fmt"

	"hotel-reviews/models"
)

var (
	// ErrNotMapping means the rating text decoded to something other than a mapping
	ErrNotMapping = errors.New("ratings: decoded value is not a mapping")
	// ErrUnsupportedRatings means the raw value is neither text nor a mapping
	ErrUnsupportedRatings = errors.New("ratings: unsupported raw value")
)

// ParseRatings turns one review's raw rating field into a RatingMap.
// It never fails: anything it cannot read becomes an empty map.
func ParseRatings(raw any) models.RatingMap {
	m, err := DecodeRatings(raw)
	if err != nil {
		return models.RatingMap{}
	}
	return m
}

// DecodeRatings is ParseRatings with the reason for an empty result.
// A failed decode discards the whole field; no pairs are salvaged.
func DecodeRatings(raw any) (models.RatingMap, error) {
	switch v := raw.(type) {
	case nil:
		return models.RatingMap{}, nil
	case models.RatingMap:
		return v.Clone(), nil
	case map[string]any:
		return models.RatingMap(v).Clone(), nil
	case map[string]float64:
		return copyRatings(v), nil
	case map[string]int:
		return copyRatings(v), nil
	case map[string]string:
		return copyRatings(v), nil
	case string:
		return decodeRatingText(v)
	case []byte:
		return decodeRatingText(string(v))
	default:
		return models.RatingMap{}, fmt.Errorf("%w: %T", ErrUnsupportedRatings, raw)
	}
}

func decodeRatingText(text string) (models.RatingMap, error) {
	decoded, err := DecodeLiteral(text)
	if err != nil {
		return models.RatingMap{}, err
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		return models.RatingMap{}, fmt.Errorf("%w: got %T", ErrNotMapping, decoded)
	}
	return models.RatingMap(m), nil
}

func copyRatings[V float64 | int | string](in map[string]V) models.RatingMap {
	out := make(models.RatingMap, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
