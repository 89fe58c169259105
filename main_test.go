package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"hotel-reviews/models"
	"hotel-reviews/services"
)

const datasetCSV = "name,topic_label,text,ratings\n" +
	"Hotel B,rooms,Nice,\"{'overall': 4, 'service': '5'}\"\n" +
	"Hotel A,rooms,Fine,\"{'overall': 5}\"\n" +
	"Hotel B,staff,Slow,\n"

// resetFlags restores the package-level flag values between tests
func resetFlags(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HOTEL_REVIEWS_CONFIG", "SOURCE_DSN", "DATASET_URL", "MAX_RETRIES", "FETCH_TIMEOUT_SEC", "MAX_REVIEWS"} {
		t.Setenv(key, "")
	}
	t.Setenv("SHOW_PROGRESS", "false")
	configPath, sourceDSN, debug = "", "", false
	queryTopic, queryHotel, queryLimit = "", models.AllHotels, 0
	t.Cleanup(func() {
		configPath, sourceDSN, debug = "", "", false
		queryTopic, queryHotel, queryLimit = "", models.AllHotels, 0
	})
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(datasetCSV), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBootstrap_LocalCSV(t *testing.T) {
	resetFlags(t)
	sourceDSN = writeDataset(t)

	s, err := bootstrap(context.Background())
	if err != nil {
		t.Fatalf("bootstrap() error = %v", err)
	}
	if len(s.dataset.Reviews) != 3 || s.dataset.ID == "" {
		t.Fatalf("dataset = %d reviews, id %q", len(s.dataset.Reviews), s.dataset.ID)
	}
	if got := s.dataset.Insights.Global["overall"]; got != 4.5 {
		t.Fatalf("overall = %v, want 4.5", got)
	}

	q := s.query()
	if q.Topic != "rooms" || q.Hotel != models.AllHotels || q.Limit != s.cfg.MaxReviews {
		t.Fatalf("default query = %+v", q)
	}
	queryLimit = 50
	if q := s.query(); q.Limit != models.MaxLimit {
		t.Fatalf("limit should clamp to %d, got %d", models.MaxLimit, q.Limit)
	}
}

func TestBootstrap_MissingSourceIsFatal(t *testing.T) {
	resetFlags(t)
	sourceDSN = filepath.Join(t.TempDir(), "missing.csv")

	_, err := bootstrap(context.Background())
	if !errors.Is(err, services.ErrSourceLoad) {
		t.Fatalf("expected ErrSourceLoad, got %v", err)
	}
}

func TestBootstrap_RetriesAStalledDownload(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a real fetch timeout")
	}
	resetFlags(t)
	t.Setenv("FETCH_TIMEOUT_SEC", "1")
	t.Setenv("MAX_RETRIES", "2")

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
			return
		}
		w.Write([]byte(datasetCSV))
	}))
	defer srv.Close()
	sourceDSN = srv.URL + "/reviews.csv"

	s, err := bootstrap(context.Background())
	if err != nil {
		t.Fatalf("bootstrap() error = %v", err)
	}
	if len(s.dataset.Reviews) != 3 || atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("got %d reviews after %d requests", len(s.dataset.Reviews), atomic.LoadInt32(&hits))
	}
}

func TestReportCommand_JSON(t *testing.T) {
	resetFlags(t)
	out := filepath.Join(t.TempDir(), "report.json")

	rootCmd.SetArgs([]string{"report", "--source", writeDataset(t), "--format", "json", "--output", out, "--hotel", "Hotel B"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		reportFormat, reportOutput = "text", ""
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Insights models.Insights `json:"insights"`
		Page     models.Page     `json:"page"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not json: %v", err)
	}
	if doc.Page.Query.Hotel != "Hotel B" || len(doc.Page.Cards) != 1 || doc.Page.Cards[0].Row != 0 {
		t.Fatalf("page = %+v", doc.Page)
	}
	if doc.Insights.TotalReviews != 3 {
		t.Fatalf("insights = %+v", doc.Insights)
	}
}
