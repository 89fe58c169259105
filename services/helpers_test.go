package services

import (
	"bytes"

	"hotel-reviews/models"
	"hotel-reviews/utils"
)

func quietLogger() *utils.Logger {
	return utils.NewLoggerTo(&bytes.Buffer{})
}

func review(row int, hotel, topic, ratings string) *models.Review {
	return &models.Review{
		Row:     row,
		Hotel:   hotel,
		Topic:   topic,
		Text:    "review " + hotel,
		Ratings: ParseRatings(ratings),
	}
}
