package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"pos-proximity/internal/entitystore"
	"pos-proximity/internal/excel"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column headers of the dataset export.
const (
	ColCode     = "CARI_KOD"
	ColName     = "CARI_ISIM"
	ColType     = "TIPI"
	ColLat      = "ENLEM"
	ColLon      = "BOYLAM"
	ColRegion   = "IL"
	ColDistrict = "ILCE"
	ColAddress  = "ADRES"
)

var requiredColumns = []string{ColCode, ColName, ColType, ColLat, ColLon}

var (
	ErrUnsupportedFormat   = errors.New("unsupported dataset format")
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
	ErrMissingColumn       = errors.New("required column missing")
	ErrEmptyDataset        = errors.New("dataset has no header row")
)

type Options struct {
	// Encoding of CSV files: "cp1254" (default) or "utf-8".
	Encoding string
	// Sheet of XLSX files; the first sheet when empty.
	Sheet string
	// Comma of CSV files; ',' when zero.
	Comma rune
}

// Load reads a .csv or .xlsx dataset into raw records.
func Load(path string, opts Options) ([]entitystore.Record, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		rows, err = readCSV(path, opts)
	case ".xlsx", ".xlsm":
		rows, err = excel.ReadRows(path, opts.Sheet)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
	if err != nil {
		return nil, err
	}

	return toRecords(rows)
}

func decoder(name string) (transform.Transformer, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "", "cp1254", "windows1254":
		return charmap.Windows1254.NewDecoder(), nil
	case "utf8":
		return unicode.BOMOverride(transform.Nop), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedEncoding, "%q", name)
}

func readCSV(path string, opts Options) ([][]string, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	return parseCSV(transform.NewReader(file, dec), opts.Comma)
}

func parseCSV(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	return rows, nil
}

func toRecords(rows [][]string) ([]entitystore.Record, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "%s", c)
		}
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]entitystore.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		records = append(records, entitystore.Record{
			Code:     get(row, ColCode),
			Name:     get(row, ColName),
			Type:     get(row, ColType),
			Lat:      get(row, ColLat),
			Lon:      get(row, ColLon),
			Region:   get(row, ColRegion),
			District: get(row, ColDistrict),
			Address:  get(row, ColAddress),
		})
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
