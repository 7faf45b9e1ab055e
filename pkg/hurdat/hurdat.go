// Package hurdat parses the NOAA HURDAT2 best-track archive and
// extracts US hurricane landfalls.
//
// HURDAT2 is a flat text format: each storm starts with a header line
// (basin-prefixed storm id, name, entry count) followed by that many
// data lines of comma-separated track records. See
// https://www.nhc.noaa.gov/data/hurdat/ for the format description.
//
// Only landfall records (record identifier "L") of hurricane strength
// (Saffir-Simpson category 1-5) are kept; tropical storms and
// open-water track points are discarded.
package hurdat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
)

// Landfall is a single US hurricane landfall event. Immutable once
// loaded.
type Landfall struct {
	StormID   string    // basin-prefixed id, e.g. "AL041992"
	Name      string    // storm name, or the storm id for unnamed storms
	Time      time.Time // landfall time (UTC)
	Year      int
	Lat       float64 // degrees north
	Lon       float64 // degrees east (negative in the Atlantic basin)
	MaxWindKt int     // maximum sustained wind in knots
	Category  int     // Saffir-Simpson category, 1-5
}

// Label returns the display label used on maps, e.g. "ANDREW (1992)".
func (l Landfall) Label() string {
	return fmt.Sprintf("%s (%d)", l.Name, l.Year)
}

// Point returns the landfall coordinate as a map point (lon, lat).
func (l Landfall) Point() geo.Point {
	return geo.Point{X: l.Lon, Y: l.Lat}
}

// Category returns the Saffir-Simpson category for a sustained wind
// speed in knots, or 0 below hurricane strength.
func Category(windKt int) int {
	switch {
	case windKt >= 137:
		return 5
	case windKt >= 113:
		return 4
	case windKt >= 96:
		return 3
	case windKt >= 83:
		return 2
	case windKt >= 64:
		return 1
	default:
		return 0
	}
}

// Parse reads a HURDAT2 archive and returns all hurricane-strength
// landfall records, sorted by time. Malformed data lines are skipped,
// matching the forgiving behavior needed for the historical portions of
// the archive (pre-1900 records have gaps and irregularities).
func Parse(r io.Reader) ([]Landfall, error) {
	var (
		out       []Landfall
		stormID   string
		stormName string
		remaining int
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if isHeader(line) {
			parts := strings.Split(line, ",")
			if len(parts) < 3 {
				return nil, errors.New(errors.ErrCodeInvalidRecord,
					"malformed header at line %d: %q", lineNo, line)
			}
			stormID = strings.TrimSpace(parts[0])
			stormName = strings.TrimSpace(parts[1])
			if stormName == "UNNAMED" {
				stormName = stormID
			}
			n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err,
					"bad entry count at line %d", lineNo)
			}
			remaining = n
			continue
		}

		if remaining <= 0 {
			// Data line outside any declared storm block; skip.
			continue
		}
		remaining--

		lf, ok := parseDataLine(line)
		if !ok {
			continue
		}
		lf.StormID = stormID
		lf.Name = stormName
		out = append(out, lf)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read HURDAT2 data")
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) ([]Landfall, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// isHeader reports whether a line is a storm header. Header lines begin
// with a two-letter basin code (AL for the Atlantic, CP/EP for the
// Pacific archives) followed by the cyclone number and season.
func isHeader(line string) bool {
	if len(line) < 8 {
		return false
	}
	switch line[:2] {
	case "AL", "CP", "EP":
	default:
		return false
	}
	// The next six characters are the cyclone number and year.
	for _, r := range line[2:8] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseDataLine parses one track record. It returns ok=false for lines
// that are not hurricane-strength landfalls or that fail to parse.
func parseDataLine(line string) (Landfall, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		return Landfall{}, false
	}

	dateStr := strings.TrimSpace(parts[0])
	timeStr := strings.TrimSpace(parts[1])
	recordID := strings.TrimSpace(parts[2])
	lat, okLat := parseCoordinate(strings.TrimSpace(parts[4]), 'N', 'S')
	lon, okLon := parseCoordinate(strings.TrimSpace(parts[5]), 'E', 'W')
	wind, errWind := strconv.Atoi(strings.TrimSpace(parts[6]))

	if !okLat || !okLon || errWind != nil {
		return Landfall{}, false
	}

	cat := Category(wind)
	if !strings.Contains(recordID, "L") || cat < 1 {
		return Landfall{}, false
	}

	ts, err := time.Parse("20060102 1504", dateStr+" "+timeStr)
	if err != nil {
		return Landfall{}, false
	}

	return Landfall{
		Time:      ts,
		Year:      ts.Year(),
		Lat:       lat,
		Lon:       lon,
		MaxWindKt: wind,
		Category:  cat,
	}, true
}

// parseCoordinate parses a hemisphere-suffixed coordinate such as
// "25.4N" or "80.3W". The positive hemisphere letter keeps the sign,
// the negative one flips it.
func parseCoordinate(s string, pos, neg byte) (float64, bool) {
	if len(s) < 2 {
		return 0, false
	}
	hemi := s[len(s)-1]
	v, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, false
	}
	switch hemi {
	case pos:
		return v, true
	case neg:
		return -v, true
	default:
		return 0, false
	}
}
