package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord marks a best-track line that does not match the HURDAT2
// column layout.
var ErrMalformedRecord = errors.New("malformed best-track record")

// BestTrackStats summarises one parse.
type BestTrackStats struct {
	Lines    int `json:"lines"`
	Storms   int `json:"storms"`
	Records  int `json:"records"`
	Kept     int `json:"kept"`
	Skipped  int `json:"skipped"`
	Filtered int `json:"filtered"`
}

// ParseBestTrack reads HURDAT2 text and returns the fixes the analysis uses:
// synoptic hours only, status TS or HU, inside the May 30 - Nov 28 window.
// Malformed lines are logged and skipped; they never abort the parse or
// affect neighbouring records. Only read errors are returned.
func ParseBestTrack(r io.Reader, logger *slog.Logger) ([]CycloneFix, BestTrackStats, error) {
	var (
		fixes []CycloneFix
		st    BestTrackStats
		id    string
		name  string
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		st.Lines++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitRecord(line)
		if isHeader(fields) {
			hid, hname, err := parseHeader(fields)
			if err != nil {
				st.Skipped++
				id, name = "", ""
				logger.Warn("skipping best-track header", "line", st.Lines, "error", err)
				continue
			}
			id, name = hid, hname
			st.Storms++
			continue
		}

		if id == "" {
			st.Skipped++
			logger.Warn("skipping best-track record", "line", st.Lines, "error", fmt.Errorf("%w: no storm header", ErrMalformedRecord))
			continue
		}

		fix, err := parseFix(fields)
		if err != nil {
			st.Skipped++
			logger.Warn("skipping best-track record", "line", st.Lines, "storm_id", id, "error", err)
			continue
		}
		st.Records++
		fix.StormID = id
		fix.StormName = name

		if !KeepFix(fix) {
			st.Filtered++
			continue
		}
		fixes = append(fixes, fix)
	}
	if err := sc.Err(); err != nil {
		return nil, st, fmt.Errorf("read best track: %w", err)
	}
	st.Kept = len(fixes)
	return fixes, st, nil
}

// KeepFix applies the season, synoptic-hour and status filters.
func KeepFix(f CycloneFix) bool {
	return f.Status.Tracked() && IsSynoptic(f.Time) && InSeasonWindow(f.Time)
}

func splitRecord(line string) []string {
	parts := strings.Split(line, ",")
	// HURDAT2 lines end with a trailing comma.
	if n := len(parts); n > 0 && strings.TrimSpace(parts[n-1]) == "" {
		parts = parts[:n-1]
	}
	return parts
}

// isHeader matches "AL092017,             HARVEY,     67,".
func isHeader(fields []string) bool {
	if len(fields) != 3 {
		return false
	}
	f := strings.TrimSpace(fields[0])
	return len(f) == 8 && isLetter(f[0]) && isLetter(f[1])
}

func parseHeader(fields []string) (id, name string, err error) {
	id = strings.TrimSpace(fields[0])
	if _, err := strconv.Atoi(id[2:]); err != nil {
		return "", "", fmt.Errorf("%w: storm id %q", ErrMalformedRecord, id)
	}
	if _, err := strconv.Atoi(strings.TrimSpace(fields[2])); err != nil {
		return "", "", fmt.Errorf("%w: entry count %q", ErrMalformedRecord, fields[2])
	}
	return id, strings.TrimSpace(fields[1]), nil
}

// Column positions in a HURDAT2 data line.
const (
	colDate = iota
	colTime
	colRecordID
	colStatus
	colLat
	colLon
	colMaxWind
	colPressure
	colRadiusNE
	colRadiusSE
	colRadiusSW
	colRadiusNW
	minDataColumns
)

func parseFix(fields []string) (CycloneFix, error) {
	if len(fields) < minDataColumns {
		return CycloneFix{}, fmt.Errorf("%w: %d columns, want at least %d", ErrMalformedRecord, len(fields), minDataColumns)
	}

	date := strings.TrimSpace(fields[colDate])
	hhmm := strings.TrimSpace(fields[colTime])
	if len(date) != 8 || !isDigits(date) {
		return CycloneFix{}, fmt.Errorf("%w: date %q", ErrMalformedRecord, date)
	}
	if len(hhmm) != 4 || !isDigits(hhmm) {
		return CycloneFix{}, fmt.Errorf("%w: time %q", ErrMalformedRecord, hhmm)
	}
	ts, err := time.Parse("200601021504", date+hhmm)
	if err != nil {
		return CycloneFix{}, fmt.Errorf("%w: timestamp %q: %v", ErrMalformedRecord, date+hhmm, err)
	}

	status := strings.TrimSpace(fields[colStatus])
	if len(status) != 2 {
		return CycloneFix{}, fmt.Errorf("%w: status %q", ErrMalformedRecord, status)
	}

	lat, err := parseCoordinate(fields[colLat], 'N', 'S')
	if err != nil {
		return CycloneFix{}, err
	}
	lon, err := parseCoordinate(fields[colLon], 'E', 'W')
	if err != nil {
		return CycloneFix{}, err
	}

	wind, err := strconv.Atoi(strings.TrimSpace(fields[colMaxWind]))
	if err != nil {
		return CycloneFix{}, fmt.Errorf("%w: max wind %q", ErrMalformedRecord, fields[colMaxWind])
	}

	var radii [4]float64
	for i := range radii {
		raw := strings.TrimSpace(fields[colRadiusNE+i])
		v, err := strconv.Atoi(raw)
		if err != nil {
			return CycloneFix{}, fmt.Errorf("%w: wind radius %q", ErrMalformedRecord, raw)
		}
		radii[i] = float64(v)
	}

	return CycloneFix{
		Time:      ts.UTC(),
		Status:    StormStatus(status),
		Lat:       lat,
		Lon:       lon,
		MaxWindKt: wind,
		Radii:     WindRadii{NE: radii[0], SE: radii[1], SW: radii[2], NW: radii[3]},
	}, nil
}

// parseCoordinate reads "28.0N" / " 94.8W" into signed degrees; pos and neg
// are the hemisphere letters for positive and negative values.
func parseCoordinate(raw string, pos, neg byte) (float64, error) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || len(s) > 6 {
		return 0, fmt.Errorf("%w: coordinate %q", ErrMalformedRecord, raw)
	}
	hemi := s[len(s)-1]
	v, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q", ErrMalformedRecord, raw)
	}
	switch hemi {
	case pos:
		return v, nil
	case neg:
		return -v, nil
	default:
		return 0, fmt.Errorf("%w: hemisphere in %q", ErrMalformedRecord, raw)
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
