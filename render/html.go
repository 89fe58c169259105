package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"hotel-reviews/models"
	"hotel-reviews/services"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"percent":   percent,
	"score":     services.FormatScore,
	"avg":       services.FormatAverage,
	"hotelAvg":  hotelAvg,
	"allHotels": func() string { return models.AllHotels },
	"minLimit":  func() int { return models.MinLimit },
	"maxLimit":  func() int { return models.MaxLimit },
}).ParseFS(templateFS, "templates/dashboard.html"))

type htmlView struct {
	*models.Page
	Interactive bool
}

// HTML renders the interactive dashboard: filter form plus review cards
func HTML(w io.Writer, page *models.Page) error {
	return renderHTML(w, page, true)
}

// StaticHTML renders the dashboard without the form or the CSS bars, for
// documents that cannot be interacted with
func StaticHTML(w io.Writer, page *models.Page) error {
	return renderHTML(w, page, false)
}

func renderHTML(w io.Writer, page *models.Page, interactive bool) error {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, htmlView{Page: page, Interactive: interactive}); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// percent maps a 0-5 score onto a 0-100 bar width
func percent(score float64) string {
	p := math.Max(0, math.Min(100, score*20))
	return fmt.Sprintf("%.0f", p)
}

func hotelAvg(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return services.FormatAverage(*avg)
}
