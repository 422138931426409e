package excel

import (
	"path/filepath"
	"pos-proximity/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReport_ThenReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	data := []models.ReportRow{
		{OutletCode: "O1", OutletName: "Kurtuluş", OutletLat: 41, OutletLon: 29, Rank: 1,
			ProducerCode: "P1", ProducerName: "Yakın", ProducerLat: 41, ProducerLon: 29, DistanceKm: 0},
		{OutletCode: "O1", OutletName: "Kurtuluş", OutletLat: 41, OutletLon: 29, Rank: 2,
			ProducerCode: "P2", ProducerName: "Orta", ProducerLat: 41.1, ProducerLon: 29, DistanceKm: 11.119492664},
	}

	require.NoError(t, WriteReport(path, data, ReportSheet))

	rows, err := ReadRows(path, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Mağaza Kodu", rows[0][0])
	assert.Equal(t, "Mesafe (km)", rows[0][9])
	assert.Equal(t, []string{"O1", "Kurtuluş", "41", "29", "2", "P2", "Orta", "41.1", "29", "11.119"}, rows[2])

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{ReportSheet}, f.GetSheetList())
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "nope.xlsx"), "")
	assert.Error(t, err)
}

func TestReadRows_UnknownSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteReport(path, nil, ReportSheet))

	_, err := ReadRows(path, "Missing")
	assert.Error(t, err)
}
