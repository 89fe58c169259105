package services

import (
	"hotel-reviews/models"
	"hotel-reviews/utils"
)

// ReviewNormalizer turns raw dataset rows into Reviews
type ReviewNormalizer struct {
	logger *utils.Logger
}

// NewReviewNormalizer creates a new ReviewNormalizer
func NewReviewNormalizer(logger *utils.Logger) *ReviewNormalizer {
	return &ReviewNormalizer{logger: logger}
}

// Normalize parses every row's ratings and coerces its text to a string.
// Rows are kept one-for-one and in order; unreadable ratings become empty.
func (n *ReviewNormalizer) Normalize(raw []*models.RawReview) []*models.Review {
	reviews := make([]*models.Review, 0, len(raw))
	unrated := 0

	for _, r := range raw {
		ratings, err := DecodeRatings(r.Ratings)
		if err != nil {
			n.logger.Debug("Row %d (%s): ratings discarded: %v", r.Row, r.Hotel, err)
		}
		if len(ratings) == 0 {
			unrated++
		}

		reviews = append(reviews, &models.Review{
			Row:     r.Row,
			Hotel:   r.Hotel,
			Topic:   r.Topic,
			Text:    textOf(r.Text),
			Ratings: ratings,
		})
	}

	n.logger.Info("Normalized %d reviews (%d without ratings)", len(reviews), unrated)
	return reviews
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return FormatScore(t)
	}
}
