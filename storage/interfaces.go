package storage

import (
	"context"

	"hotel-reviews/models"
)

// ReviewSource defines the interface for reading the raw review dataset
type ReviewSource interface {
	Load(ctx context.Context) ([]*models.RawReview, error)
	Close() error
}

// AveragesWriter defines the interface for persisting computed averages
type AveragesWriter interface {
	WriteAverages(insights *models.Insights) error
}
