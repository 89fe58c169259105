package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"hotel-reviews/models"
	"hotel-reviews/services"
	"hotel-reviews/utils"
)

// CSVWriter handles writing computed averages to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// WriteAverages writes global and per-hotel averages to the CSV file
func (w *CSVWriter) WriteAverages(insights *models.Insights) error {
	// Ensure output directory exists
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	n, err := EncodeAverages(file, insights)
	if err != nil {
		return err
	}

	w.logger.Info("Averages written to: %s (%d rows)", w.filePath, n)
	return nil
}

// EncodeAverages writes the long-form averages table
// (scope,hotel,attribute,average,contributions) and returns the row count
func EncodeAverages(out io.Writer, insights *models.Insights) (int, error) {
	writer := csv.NewWriter(out)

	header := []string{"scope", "hotel", "attribute", "average", "contributions"}
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	rows := 0
	write := func(scope, hotel, attr string, avg float64, n int) error {
		rows++
		return writer.Write([]string{scope, hotel, attr, services.FormatAverage(avg), strconv.Itoa(n)})
	}

	for _, attr := range services.OrderAttributes(insights.Attributes()) {
		if err := write("global", "", attr, insights.Global[attr], insights.Contributions[attr]); err != nil {
			return rows, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	hotels := make([]string, 0, len(insights.ByHotel))
	for hotel := range insights.ByHotel {
		hotels = append(hotels, hotel)
	}
	sort.Strings(hotels)

	for _, hotel := range hotels {
		avgs := insights.ByHotel[hotel]
		attrs := make([]string, 0, len(avgs))
		for attr := range avgs {
			attrs = append(attrs, attr)
		}
		for _, attr := range services.OrderAttributes(attrs) {
			if err := write("hotel", hotel, attr, avgs[attr], insights.HotelContributions[hotel][attr]); err != nil {
				return rows, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return rows, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return rows, nil
}
