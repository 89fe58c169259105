package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"hotel-reviews/models"
)

type stubLoader struct {
	rows []*models.RawReview
	err  error
}

func (s stubLoader) Load(context.Context) ([]*models.RawReview, error) {
	return s.rows, s.err
}

func TestNormalize_CoercesTextAndKeepsRows(t *testing.T) {
	raw := []*models.RawReview{
		{Row: 0, Hotel: "X", Topic: "t", Text: "great stay", Ratings: "{'overall': 4}"},
		{Row: 1, Hotel: "X", Topic: "t", Text: nil, Ratings: nil},
		{Row: 2, Hotel: "Y", Topic: "t", Text: int64(42), Ratings: "{'overall': "},
		{Row: 3, Hotel: "Y", Topic: "t", Text: 3.0, Ratings: map[string]any{"rooms": 2}},
	}
	got := NewReviewNormalizer(quietLogger()).Normalize(raw)
	if len(got) != 4 {
		t.Fatalf("expected every row kept, got %d", len(got))
	}
	texts := []string{got[0].Text, got[1].Text, got[2].Text, got[3].Text}
	if want := []string{"great stay", "", "42", "3.0"}; strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Fatalf("texts = %q, want %q", texts, want)
	}
	if got[0].Ratings["overall"] != int64(4) {
		t.Fatalf("ratings not parsed: %#v", got[0].Ratings)
	}
	if got[1].Ratings == nil || len(got[2].Ratings) != 0 {
		t.Fatalf("unusable ratings should be empty maps: %#v / %#v", got[1].Ratings, got[2].Ratings)
	}
	if got[3].Ratings["rooms"] != 2 {
		t.Fatalf("structured ratings not used: %#v", got[3].Ratings)
	}
}

func TestLoadDataset(t *testing.T) {
	src := stubLoader{rows: []*models.RawReview{
		{Row: 0, Hotel: "X", Topic: "t", Text: "a", Ratings: "{'overall': 4}"},
		{Row: 1, Hotel: "X", Topic: "t", Text: "b", Ratings: "{'overall': 5}"},
	}}
	ds, err := LoadDataset(context.Background(), src, quietLogger())
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if ds.ID == "" || ds.Insights.DatasetID != ds.ID {
		t.Fatalf("dataset id not stamped: %q / %q", ds.ID, ds.Insights.DatasetID)
	}
	if ds.Insights.ByHotel["X"]["overall"] != 4.5 {
		t.Fatalf("X overall = %v, want 4.5", ds.Insights.ByHotel["X"]["overall"])
	}
}

func TestLoadDataset_SourceFailureIsFatal(t *testing.T) {
	cause := errors.New("connection refused")
	_, err := LoadDataset(context.Background(), stubLoader{err: cause}, quietLogger())
	if !errors.Is(err, ErrSourceLoad) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrSourceLoad wrapping cause, got %v", err)
	}
}

func TestPrintInsightReport(t *testing.T) {
	ds := sampleDataset()
	var buf bytes.Buffer
	PrintInsightReport(&buf, ds.Insights)
	out := buf.String()

	for _, want := range []string{"HOTEL REVIEW RATING INSIGHTS", "Reviews Loaded          : 6", "⭐ Overall:", "4.7", "Hotel B"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Hotel A") > strings.Index(out, "Hotel D") {
		t.Fatalf("hotels should be sorted by overall average (A=5.0 before D without one):\n%s", out)
	}
}

func TestPrintInsightReport_NoRatings(t *testing.T) {
	var buf bytes.Buffer
	PrintInsightReport(&buf, NewRatingAggregator(quietLogger()).Generate(nil))
	if !strings.Contains(buf.String(), "No hay ratings disponibles.") {
		t.Fatalf("expected empty state:\n%s", buf.String())
	}
}

func TestPrintCards(t *testing.T) {
	d := NewDashboard(sampleDataset())
	var buf bytes.Buffer
	PrintCards(&buf, d.Page(models.Query{Topic: "staff"}))
	if !strings.Contains(buf.String(), "No hay ratings disponibles.") {
		t.Fatalf("expected no-ratings card:\n%s", buf.String())
	}

	buf.Reset()
	PrintCards(&buf, d.Page(models.Query{Topic: "pool"}))
	if !strings.Contains(buf.String(), "No hay reviews") {
		t.Fatalf("expected empty selection:\n%s", buf.String())
	}
}
