package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"hotel-reviews/config"
	"hotel-reviews/models"
	"hotel-reviews/utils"
)

// Dataset column names
const (
	ColumnHotel   = "name"
	ColumnTopic   = "topic_label"
	ColumnText    = "text"
	ColumnRatings = "ratings"
)

// CSVSource reads the review dataset from a CSV file or URL
type CSVSource struct {
	location     string
	client       *http.Client
	timeout      time.Duration // per attempt
	maxRetries   int
	backoff      utils.Backoff
	showProgress bool
	logger       *utils.Logger
}

// NewCSVSource creates a new CSVSource for a URL or local path
func NewCSVSource(location string, cfg *config.Config, logger *utils.Logger) *CSVSource {
	return &CSVSource{
		location:     location,
		client:       &http.Client{},
		timeout:      cfg.FetchTimeout(),
		maxRetries:   cfg.MaxRetries,
		backoff:      utils.QuadraticBackoff,
		showProgress: cfg.ShowProgress,
		logger:       logger,
	}
}

// Load fetches and parses the whole dataset. Every download attempt gets
// its own timeout; ctx only bounds the whole load.
func (s *CSVSource) Load(ctx context.Context) ([]*models.RawReview, error) {
	start := time.Now()

	var data []byte
	if isRemote(s.location) {
		err := utils.RetryWithBackoff(ctx, s.maxRetries, s.backoff, func() error {
			var fetchErr error
			data, fetchErr = s.fetch(ctx)
			return fetchErr
		}, s.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", s.location, err)
		}
	} else {
		var err error
		data, err = os.ReadFile(s.location)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", s.location, err)
		}
	}

	reviews, err := ReadReviewsCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.location, err)
	}

	s.logger.Info("Loaded %d rows from %s in %v", len(reviews), s.location, time.Since(start).Round(time.Millisecond))
	return reviews, nil
}

// Close is a no-op; each Load opens and releases its own handles
func (s *CSVSource) Close() error { return nil }

func (s *CSVSource) fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, utils.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, utils.Permanent(err)
		}
		return nil, err
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf
	if s.showProgress {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription("Downloading dataset"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		dst = io.MultiWriter(&buf, bar)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return buf.Bytes(), nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ReadReviewsCSV parses a dataset CSV. Columns are located by header name;
// name and topic_label are required. Empty text or ratings cells become nil.
func ReadReviewsCSV(r io.Reader) ([]*models.RawReview, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty dataset: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, required := range []string{ColumnHotel, ColumnTopic} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(record []string, column string) (string, bool) {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return "", false
		}
		return record[i], true
	}
	optional := func(record []string, column string) any {
		v, ok := cell(record, column)
		if !ok || v == "" {
			return nil
		}
		return v
	}

	var reviews []*models.RawReview
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(reviews)+1, err)
		}

		hotel, _ := cell(record, ColumnHotel)
		topic, _ := cell(record, ColumnTopic)
		reviews = append(reviews, &models.RawReview{
			Row:     len(reviews),
			Hotel:   hotel,
			Topic:   topic,
			Text:    optional(record, ColumnText),
			Ratings: optional(record, ColumnRatings),
		})
	}
	return reviews, nil
}
