package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"hotel-reviews/models"
)

// PrintInsightReport formats the dataset averages for a terminal
func PrintInsightReport(w io.Writer, report *models.Insights) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("HOTEL REVIEW RATING INSIGHTS", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Reviews Loaded          : %d\n", report.TotalReviews)
	fmt.Fprintf(w, "  Reviews With Ratings    : %d\n", report.RatedReviews)
	fmt.Fprintf(w, "  Hotels                  : %d\n", len(report.Hotels))
	fmt.Fprintf(w, "  Topics                  : %d\n", len(report.Topics))

	if len(report.Global) == 0 {
		fmt.Fprintf(w, "\n  No hay ratings disponibles.\n")
	} else {
		fmt.Fprintf(w, "\n GLOBAL AVERAGES\n%s\n", thin)
		for _, attr := range OrderAttributes(report.Attributes()) {
			avg := report.Global[attr]
			fmt.Fprintf(w, "  %s %-22s %4s  %-20s (n=%d)\n",
				Symbol(attr), truncate(Capitalize(attr), 22)+":", FormatAverage(avg), scoreBar(avg), report.Contributions[attr])
		}
	}

	if len(report.ByHotel) > 0 {
		fmt.Fprintf(w, "\n HOTELS BY OVERALL AVERAGE\n%s\n", thin)
		// Sort by overall descending, hotels without one last
		type hotelScore struct {
			name    string
			overall float64
			has     bool
		}
		var hotels []hotelScore
		for name, avgs := range report.ByHotel {
			overall, ok := avgs[OverallKey]
			hotels = append(hotels, hotelScore{name, overall, ok})
		}
		sort.Slice(hotels, func(i, j int) bool {
			if hotels[i].has != hotels[j].has {
				return hotels[i].has
			}
			if hotels[i].overall != hotels[j].overall {
				return hotels[i].overall > hotels[j].overall
			}
			return hotels[i].name < hotels[j].name
		})
		for _, h := range hotels {
			score := "  - "
			if h.has {
				score = fmt.Sprintf("%4s", FormatAverage(h.overall))
			}
			fmt.Fprintf(w, "  %-35s %s  (%d reviews)\n", truncate(h.name, 35), score, report.ReviewsByHotel[h.name])
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

// PrintCards formats filtered review cards for a terminal
func PrintCards(w io.Writer, page *models.Page) {
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, " %s | %s | max %d\n%s\n", page.Query.Topic, page.Query.Hotel, page.Query.Limit, thin)
	if len(page.Cards) == 0 {
		fmt.Fprintf(w, "  No hay reviews para esta selección.\n\n")
		return
	}

	for _, card := range page.Cards {
		fmt.Fprintf(w, "\n 🏨 %s\n", card.Hotel)
		fmt.Fprintf(w, "  %s\n", truncate(strings.Join(strings.Fields(card.Text), " "), 200))
		if card.NoRatings {
			fmt.Fprintf(w, "  No hay ratings disponibles.\n")
			continue
		}
		for _, line := range card.Ratings {
			fmt.Fprintf(w, "  %s %s: %s/5\n", line.Symbol, line.Label, line.Value)
		}
		for _, row := range card.Comparison {
			hotel := "  - "
			if row.Hotel != nil {
				hotel = fmt.Sprintf("%4s", FormatAverage(*row.Hotel))
			}
			fmt.Fprintf(w, "    %-18s review %4s | hotel %s | global %4s\n",
				truncate(row.Label, 18), formatFloat(row.Review), hotel, FormatAverage(row.Global))
		}
	}
	fmt.Fprintln(w)
}

// scoreBar draws a 0-5 score as up to 20 blocks
func scoreBar(score float64) string {
	n := int(math.Round(score * 4))
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	return strings.Repeat("▓", n)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
