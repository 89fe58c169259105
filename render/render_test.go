package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"hotel-reviews/models"
)

func samplePage() *models.Page {
	hotelAvg := 4.5
	return &models.Page{
		Title:     "🏨 Explorador de Reviews por Tópico y Hotel",
		DatasetID: "ds-1",
		Query:     models.Query{Topic: "rooms", Hotel: models.AllHotels, Limit: 5},
		Topics:    []string{"rooms", "staff"},
		Hotels:    []string{"Hotel A", "Hotel B"},
		Global:    models.Averages{"overall": 4.7},
		Cards: []models.ReviewCard{
			{
				Row:   0,
				Hotel: "Hotel B",
				Text:  "<script>alert(1)</script> clean room",
				Ratings: []models.RatingLine{
					{Attribute: "overall", Label: "Overall", Symbol: "⭐", Value: "4"},
					{Attribute: "cleanliness", Label: "Cleanliness", Symbol: "🧼", Value: "n/a"},
				},
				Comparison: []models.ComparisonRow{
					{Attribute: "overall", Label: "Overall", Review: 4, Global: 4.7, Hotel: &hotelAvg},
				},
			},
			{Row: 3, Hotel: "Hotel A", Text: "no ratings", NoRatings: true},
			{
				Row:       4,
				Hotel:     "Hotel A",
				Ratings:   []models.RatingLine{{Attribute: "value", Label: "Value", Symbol: "💰", Value: "n/a"}},
				NoNumeric: true,
			},
		},
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, samplePage()); err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	doc := parse(t, buf.String())

	if doc.Find("form select[name=topic] option").Length() != 2 {
		t.Fatal("expected one option per topic")
	}
	if got := doc.Find("select[name=hotel] option").First().Text(); got != models.AllHotels {
		t.Fatalf("first hotel option = %q, want %q", got, models.AllHotels)
	}
	if v, _ := doc.Find("select[name=topic] option[selected]").Attr("value"); v != "rooms" {
		t.Fatalf("selected topic = %q", v)
	}
	if doc.Find(".card").Length() != 3 {
		t.Fatalf("expected 3 cards, got %d", doc.Find(".card").Length())
	}
	if doc.Find(".card script").Length() != 0 {
		t.Fatal("review text must be escaped")
	}

	first := doc.Find(".card").First()
	items := first.Find("ul.ratings li")
	if items.Length() != 2 || strings.TrimSpace(items.First().Text()) != "⭐ Overall: 4/5" {
		t.Fatalf("ratings list = %q", items.Text())
	}
	if style, _ := first.Find(".bar.review").Attr("style"); style != "width:80%" {
		t.Fatalf("review bar style = %q", style)
	}
	if first.Find(".bar.hotel").Length() != 1 || !strings.Contains(first.Find("tr").Text(), "Hotel: 4.5") {
		t.Fatalf("comparison row = %q", first.Find("tr").Text())
	}

	cards := doc.Find(".card")
	if !strings.Contains(cards.Eq(1).Text(), "No hay ratings disponibles.") {
		t.Fatal("card without ratings should say so")
	}
	if cards.Eq(2).Find("table").Length() != 0 {
		t.Fatal("card without numeric ratings should have no comparison")
	}
}

func TestStaticHTML_NoFormOrBars(t *testing.T) {
	var buf bytes.Buffer
	if err := StaticHTML(&buf, samplePage()); err != nil {
		t.Fatalf("StaticHTML() error = %v", err)
	}
	doc := parse(t, buf.String())
	if doc.Find("form").Length() != 0 || doc.Find(".bar").Length() != 0 {
		t.Fatal("static render should have no form and no bars")
	}
}

func TestHTML_EmptySelection(t *testing.T) {
	page := samplePage()
	page.Cards = nil
	var buf bytes.Buffer
	if err := HTML(&buf, page); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No hay reviews para esta selección.") {
		t.Fatal("expected empty selection message")
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown(samplePage())
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	for _, want := range []string{"# 🏨 Explorador", "🏨 Hotel B", "⭐ Overall: 4/5", "No hay ratings disponibles."} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestStructured(t *testing.T) {
	page := samplePage()

	var jbuf bytes.Buffer
	if err := JSON(&jbuf, page); err != nil {
		t.Fatal(err)
	}
	var decoded models.Page
	if err := json.Unmarshal(jbuf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Cards) != 3 || *decoded.Cards[0].Comparison[0].Hotel != 4.5 {
		t.Fatalf("json round trip lost cards: %+v", decoded.Cards)
	}

	var ybuf bytes.Buffer
	if err := YAML(&ybuf, page.Query); err != nil {
		t.Fatal(err)
	}
	var q models.Query
	if err := yaml.Unmarshal(ybuf.Bytes(), &q); err != nil {
		t.Fatal(err)
	}
	if q != page.Query {
		t.Fatalf("yaml query = %+v", q)
	}
}
