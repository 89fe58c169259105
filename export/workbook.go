package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"hotel-reviews/models"
	"hotel-reviews/services"
)

// Sheet names
const (
	GlobalSheet = "Global"
	HotelsSheet = "Hotels"
)

// NewWorkbook builds the averages workbook: global averages with a chart,
// then one row per hotel with a column per attribute
func NewWorkbook(insights *models.Insights) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", GlobalSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	attrs := services.OrderAttributes(insights.Attributes())

	// Global averages
	for i, h := range []string{"Attribute", "Average", "Contributions"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(GlobalSheet, cell, h)
	}
	f.SetRowStyle(GlobalSheet, 1, 1, headerStyle)

	for i, attr := range attrs {
		row := i + 2
		f.SetCellValue(GlobalSheet, fmt.Sprintf("A%d", row), services.Capitalize(attr))
		f.SetCellValue(GlobalSheet, fmt.Sprintf("B%d", row), insights.Global[attr])
		f.SetCellValue(GlobalSheet, fmt.Sprintf("C%d", row), insights.Contributions[attr])
	}
	f.SetColWidth(GlobalSheet, "A", "A", 24)
	f.SetColWidth(GlobalSheet, "B", "C", 14)

	if len(attrs) > 0 {
		last := len(attrs) + 1
		err := f.AddChart(GlobalSheet, "E2", &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$B$1", GlobalSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", GlobalSheet, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", GlobalSheet, last),
			}},
			Title: []excelize.RichTextRun{{Text: "Promedio global por atributo"}},
		})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add chart: %w", err)
		}
	}

	// Per-hotel averages
	if _, err := f.NewSheet(HotelsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{"Hotel", "Reviews"}
	for _, attr := range attrs {
		headers = append(headers, services.Capitalize(attr))
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(HotelsSheet, cell, h)
	}
	f.SetRowStyle(HotelsSheet, 1, 1, headerStyle)

	hotels := make([]string, 0, len(insights.ByHotel))
	for hotel := range insights.ByHotel {
		hotels = append(hotels, hotel)
	}
	sort.Strings(hotels)

	for i, hotel := range hotels {
		row := i + 2
		f.SetCellValue(HotelsSheet, fmt.Sprintf("A%d", row), hotel)
		f.SetCellValue(HotelsSheet, fmt.Sprintf("B%d", row), insights.ReviewsByHotel[hotel])
		for j, attr := range attrs {
			avg, ok := insights.ByHotel[hotel][attr]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+3, row)
			f.SetCellValue(HotelsSheet, cell, avg)
		}
	}
	f.SetColWidth(HotelsSheet, "A", "A", 35)

	return f, nil
}

// WriteWorkbook streams the averages workbook to w
func WriteWorkbook(w io.Writer, insights *models.Insights) error {
	f, err := NewWorkbook(insights)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the averages workbook to path, creating its directory
func SaveWorkbook(path string, insights *models.Insights) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := NewWorkbook(insights)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
