package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel-reviews/models"
	"hotel-reviews/utils"
)

// ErrSourceLoad marks the one fatal failure: the dataset could not be read
var ErrSourceLoad = errors.New("dataset load failed")

// ReviewLoader produces the raw dataset rows
type ReviewLoader interface {
	Load(ctx context.Context) ([]*models.RawReview, error)
}

// LoadDataset reads the source once, normalizes every row and aggregates
// the averages. The returned Dataset is never modified afterwards.
func LoadDataset(ctx context.Context, src ReviewLoader, logger *utils.Logger) (*models.Dataset, error) {
	raw, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
	}

	reviews := NewReviewNormalizer(logger).Normalize(raw)
	insights := NewRatingAggregator(logger).Generate(reviews)

	ds := &models.Dataset{
		ID:       uuid.NewString(),
		LoadedAt: time.Now(),
		Reviews:  reviews,
		Insights: insights,
	}
	insights.DatasetID = ds.ID
	insights.LoadedAt = ds.LoadedAt
	return ds, nil
}
