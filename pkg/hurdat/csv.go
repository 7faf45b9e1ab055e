package hurdat

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/stormlabel/stormlabel/pkg/errors"
)

// csvHeader is the column layout of the processed landfall file. It
// mirrors the archive fields one-to-one so the file remains usable by
// other tooling (spreadsheets, plotting scripts).
var csvHeader = []string{
	"storm_id", "name", "datetime", "year",
	"latitude", "longitude", "max_wind_knots", "category",
}

// WriteCSV writes landfalls as a CSV flat file with a header row.
func WriteCSV(w io.Writer, landfalls []Landfall) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range landfalls {
		rec := []string{
			l.StormID,
			l.Name,
			l.Time.UTC().Format(time.RFC3339),
			strconv.Itoa(l.Year),
			strconv.FormatFloat(l.Lat, 'f', -1, 64),
			strconv.FormatFloat(l.Lon, 'f', -1, 64),
			strconv.Itoa(l.MaxWindKt),
			strconv.Itoa(l.Category),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes landfalls to a CSV file at path.
func WriteCSVFile(path string, landfalls []Landfall) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, landfalls)
}

// ReadCSV reads a landfall CSV produced by WriteCSV.
func ReadCSV(r io.Reader) ([]Landfall, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "read landfall CSV")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make([]Landfall, 0, len(rows)-1)
	for i, row := range rows[1:] {
		lf, err := parseCSVRow(row)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "landfall CSV row %d", i+2)
		}
		out = append(out, lf)
	}
	return out, nil
}

// ReadCSVFile reads a landfall CSV file at path.
func ReadCSVFile(path string) ([]Landfall, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseCSVRow(row []string) (Landfall, error) {
	if len(row) != len(csvHeader) {
		return Landfall{}, errors.New(errors.ErrCodeInvalidRecord,
			"expected %d columns, got %d", len(csvHeader), len(row))
	}

	ts, err := time.Parse(time.RFC3339, row[2])
	if err != nil {
		return Landfall{}, err
	}
	year, err := strconv.Atoi(row[3])
	if err != nil {
		return Landfall{}, err
	}
	lat, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return Landfall{}, err
	}
	lon, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return Landfall{}, err
	}
	wind, err := strconv.Atoi(row[6])
	if err != nil {
		return Landfall{}, err
	}
	cat, err := strconv.Atoi(row[7])
	if err != nil {
		return Landfall{}, err
	}

	return Landfall{
		StormID:   row[0],
		Name:      row[1],
		Time:      ts,
		Year:      year,
		Lat:       lat,
		Lon:       lon,
		MaxWindKt: wind,
		Category:  cat,
	}, nil
}
