package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"hotel-reviews/models"
)

func sampleInsights() *models.Insights {
	return &models.Insights{
		TotalReviews:  3,
		RatedReviews:  3,
		Global:        models.Averages{"overall": 4.5, "service": 5},
		Contributions: map[string]int{"overall": 2, "service": 1},
		ByHotel: map[string]models.Averages{
			"Hotel B": {"overall": 4},
			"Hotel A": {"overall": 5, "service": 5},
		},
		ReviewsByHotel: map[string]int{"Hotel A": 2, "Hotel B": 1},
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sampleInsights()); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != GlobalSheet || sheets[1] != HotelsSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	global, err := f.GetRows(GlobalSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(global) != 3 || global[1][0] != "Overall" || global[1][1] != "4.5" || global[2][0] != "Service" {
		t.Fatalf("global rows = %v", global)
	}

	hotels, err := f.GetRows(HotelsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(hotels) != 3 {
		t.Fatalf("hotel rows = %v", hotels)
	}
	if hotels[1][0] != "Hotel A" || hotels[2][0] != "Hotel B" {
		t.Fatalf("hotels should be sorted: %v", hotels)
	}
	// Hotel B has no service average: the trailing cell stays blank
	if len(hotels[2]) != 3 || hotels[2][2] != "4" {
		t.Fatalf("Hotel B row = %v", hotels[2])
	}
}

func TestSaveWorkbook_EmptyInsights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "averages.xlsx")
	err := SaveWorkbook(path, &models.Insights{
		Global:         models.Averages{},
		Contributions:  map[string]int{},
		ByHotel:        map[string]models.Averages{},
		ReviewsByHotel: map[string]int{},
	})
	if err != nil {
		t.Fatalf("SaveWorkbook() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(GlobalSheet)
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %v", rows)
	}
}
