package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/biotope-labs/gbif-curator/internal/dataset"
)

// eventDate forms seen in GBIF exports, from most to least specific.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ValidationResult is the outcome of the coordinate and date checks.
// CoordValid and DateValid are the two sequential checkpoints the report
// publishes, even though both filters run in a single pass.
type ValidationResult struct {
	Data       *dataset.Dataset
	Initial    int
	CoordValid int
	DateValid  int
}

// Validate filters rows by coordinate sanity and event date range.
//
// A row survives the coordinate check when latitude and longitude both
// parse, fall inside [-90,90] and [-180,180], and carry 3 to 8 decimals of
// precision. It survives the date check when eventDate parses and falls
// inside [minDate, maxDate]. Failures drop the row, never the run.
// Surviving rows are rewritten: coordinates rounded to 8 decimals,
// eventDate as YYYY-MM-DD.
func Validate(ds *dataset.Dataset, minDate, maxDate time.Time) (*ValidationResult, error) {
	latIdx, ok := ds.ColumnIndex("decimalLatitude")
	if !ok {
		return nil, eris.New("pipeline: validate: column \"decimalLatitude\" not found")
	}
	lonIdx, ok := ds.ColumnIndex("decimalLongitude")
	if !ok {
		return nil, eris.New("pipeline: validate: column \"decimalLongitude\" not found")
	}
	dateIdx, ok := ds.ColumnIndex("eventDate")
	if !ok {
		return nil, eris.New("pipeline: validate: column \"eventDate\" not found")
	}

	res := &ValidationResult{
		Data:    dataset.New(ds.Columns()...),
		Initial: ds.Len(),
	}

	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)

		lat, ok := parseCoordinate(row[latIdx], -90, 90)
		if !ok {
			continue
		}
		lon, ok := parseCoordinate(row[lonIdx], -180, 180)
		if !ok {
			continue
		}
		res.CoordValid++

		when, ok := parseEventDate(row[dateIdx])
		if !ok || when.Before(minDate) || when.After(maxDate) {
			continue
		}
		res.DateValid++

		row[latIdx] = formatCoordinate(lat)
		row[lonIdx] = formatCoordinate(lon)
		row[dateIdx] = when.Format("2006-01-02")
		if err := res.Data.Append(row); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// parseCoordinate parses a coordinate cell and applies the range and
// precision rules.
func parseCoordinate(cell string, min, max float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || v < min || v > max {
		return 0, false
	}
	if !preciseEnough(v) {
		return 0, false
	}
	return v, true
}

// preciseEnough applies the decimal-precision rule to the value's shortest
// textual form: the digit run after the decimal point must be 3 to 8 long.
// A form with no decimal point (integers, NaN) fails.
func preciseEnough(v float64) bool {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return false
	}
	frac := s[dot+1:]
	if e := strings.IndexAny(frac, "eE"); e >= 0 {
		frac = frac[:e]
	}
	return len(frac) >= 3 && len(frac) <= 8
}

func parseEventDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(round8(v), 'f', -1, 64)
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
