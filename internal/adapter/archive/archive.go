// Package archive reads and writes the wind-speed archive and best-track
// files on disk.
//
// The archive is a JSON document with three parallel arrays:
//
//	{"loc": [[lon, lat], ...], "mydate": [serial, ...], "ts": [[speed|null, ...], ...]}
//
// Null speeds are missing samples. Files ending in .gz or .zst are
// decompressed transparently.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
)

type document struct {
	Locations [][2]float64 `json:"loc"`
	Times     []float64    `json:"mydate"`
	Speeds    [][]sample   `json:"ts"`
}

// sample is a speed that round-trips NaN through JSON null.
type sample float64

var null = []byte("null")

func (s *sample) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, null) {
		*s = sample(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("speed %s: %w", b, err)
	}
	*s = sample(v)
	return nil
}

func (s sample) MarshalJSON() ([]byte, error) {
	v := float64(s)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null, nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// ReadWindField decodes and validates an archive.
func ReadWindField(r io.Reader) (*domain.WindField, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}

	field := &domain.WindField{
		Locations: make([]domain.Location, len(doc.Locations)),
		Times:     doc.Times,
		Speeds:    make([][]float64, len(doc.Speeds)),
	}
	for i, ll := range doc.Locations {
		field.Locations[i] = domain.Location{Lon: ll[0], Lat: ll[1]}
	}
	for i, row := range doc.Speeds {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = float64(v)
		}
		field.Speeds[i] = out
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	return field, nil
}

// WriteWindField encodes a field in archive format.
func WriteWindField(w io.Writer, field *domain.WindField) error {
	doc := document{
		Locations: make([][2]float64, len(field.Locations)),
		Times:     field.Times,
		Speeds:    make([][]sample, len(field.Speeds)),
	}
	for i, l := range field.Locations {
		doc.Locations[i] = [2]float64{l.Lon, l.Lat}
	}
	for i, row := range field.Speeds {
		out := make([]sample, len(row))
		for j, v := range row {
			out[j] = sample(v)
		}
		doc.Speeds[i] = out
	}
	return json.NewEncoder(w).Encode(doc)
}

// LoadWindField opens and decodes an archive file.
func LoadWindField(path string) (*domain.WindField, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer rc.Close()

	field, err := ReadWindField(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return field, nil
}

// SaveWindField writes an archive file, compressing by extension.
func SaveWindField(path string, field *domain.WindField) error {
	wc, err := Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := WriteWindField(wc, field); err != nil {
		wc.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	return wc.Close()
}

// LoadBestTrack opens and parses a HURDAT2 file.
func LoadBestTrack(path string, logger *slog.Logger) ([]domain.CycloneFix, domain.BestTrackStats, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, domain.BestTrackStats{}, fmt.Errorf("open best track: %w", err)
	}
	defer rc.Close()

	fixes, st, err := domain.ParseBestTrack(rc, logger.With("file", path))
	if err != nil {
		return nil, st, fmt.Errorf("%s: %w", path, err)
	}
	return fixes, st, nil
}
