package excel

import (
	"math"
	"pos-proximity/internal/models"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const ReportSheet = "Sonuclar"

// ReadRows returns every row of sheet, or of the first sheet when sheet is
// empty. The header row is included.
func ReadRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	return rows, nil
}

// WriteReport writes nearby-producer rows to a new workbook at path.
func WriteReport(path string, data []models.ReportRow, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	headers := []interface{}{
		"Mağaza Kodu", "Mağaza Adı", "Mağaza Enlem", "Mağaza Boylam",
		"Sıra",
		"Üretici Kodu", "Üretici Adı", "Üretici Enlem", "Üretici Boylam",
		"Mesafe (km)",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, r := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.OutletCode, r.OutletName, r.OutletLat, r.OutletLon,
			r.Rank,
			r.ProducerCode, r.ProducerName, r.ProducerLat, r.ProducerLon,
			roundKm(r.DistanceKm),
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	return errors.Wrapf(f.SaveAs(path), "save %s", path)
}

// Distances are reported with three decimals (metre precision).
func roundKm(km float64) float64 {
	return math.Round(km*1000) / 1000
}
