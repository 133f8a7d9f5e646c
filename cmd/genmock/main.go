// Command genmock generates a synthetic steering-wind archive and a matching
// HURDAT2 best-track fixture for local runs and validation. Output is fully
// determined by the flags, so fixtures can be regenerated byte for byte.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -archive-out data/mock/dlm_speeds.json.gz \
//	  -best-track-out data/mock/hurdat2.txt \
//	  -seasons 2
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/dlm-steering-stats/internal/adapter/archive"
	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
	"github.com/couchcryptid/dlm-steering-stats/internal/stats"
)

var stormNames = []string{"ALLISON", "BARRY", "CHANTAL", "DEAN", "ERIN", "FELIX", "GABRIELLE", "HUMBERTO"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	archiveOut := flag.String("archive-out", "", "output path for the wind archive (.json, .json.gz, .json.zst)")
	trackOut := flag.String("best-track-out", "", "optional output path for a HURDAT2 fixture")
	seasons := flag.Int("seasons", 2, "number of seasons to generate, starting in 1979")
	step := flag.Float64("step", 0.5, "grid spacing in degrees")
	missing := flag.Float64("missing", 0.02, "fraction of samples left missing")
	seed := flag.Int64("seed", 1979, "random seed")
	flag.Parse()

	if *archiveOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -archive-out")
	}
	if *seasons <= 0 || *step <= 0 || *missing < 0 || *missing >= 1 {
		return fmt.Errorf("invalid -seasons, -step or -missing")
	}

	rng := rand.New(rand.NewSource(*seed))
	field := generateField(rng, *seasons, *step, *missing)
	log.Printf("archive: %d locations, %d slots", len(field.Locations), field.NumSlots())

	if err := archive.SaveWindField(*archiveOut, field); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	log.Printf("wrote archive: %s", *archiveOut)

	if *trackOut != "" {
		if err := writeBestTrack(*trackOut, *seasons); err != nil {
			return fmt.Errorf("writing best track: %w", err)
		}
		log.Printf("wrote best track: %s", *trackOut)
	}

	printStats(field)
	return nil
}

// generateField lays a regular grid over the coastal box and fills it with a
// seasonal cycle that strengthens poleward, plus Gaussian noise.
func generateField(rng *rand.Rand, seasons int, step, missing float64) *domain.WindField {
	var locs []domain.Location
	for lat := 24 + step/2; lat < 36; lat += step {
		for lon := -98 + step/2; lon <= -75; lon += step {
			loc := domain.Location{Lon: round2(lon), Lat: round2(lat)}
			if domain.InCoastalBox(loc) {
				locs = append(locs, loc)
			}
		}
	}

	slots := seasons * domain.SlotsPerSeason
	times := make([]float64, slots)
	for j := range times {
		times[j] = domain.ToSerialDay(domain.SlotTime(j))
	}

	speeds := make([][]float64, len(locs))
	for i, loc := range locs {
		row := make([]float64, slots)
		base := 3 + 0.35*(loc.Lat-24)
		for j := range row {
			if rng.Float64() < missing {
				row[j] = math.NaN()
				continue
			}
			phase := 2 * math.Pi * float64(domain.SeasonOffset(j)) / domain.SlotsPerSeason
			v := base + 2.5*math.Cos(phase) + 1.5*rng.NormFloat64()
			row[j] = round2(math.Abs(v))
		}
		speeds[i] = row
	}
	return &domain.WindField{Locations: locs, Times: times, Speeds: speeds}
}

// writeBestTrack writes one storm per season crossing the Gulf toward the
// upper Texas coast, plus a depression that the parser filters out.
func writeBestTrack(path string, seasons int) error {
	wc, err := archive.Create(path)
	if err != nil {
		return err
	}
	for s := 0; s < seasons; s++ {
		year := domain.BaseYear + s
		start := domain.SeasonStart(year).Add(70 * 24 * time.Hour)
		name := stormNames[s%len(stormNames)]
		if err := writeStorm(wc, year, 1, name, start, 12); err != nil {
			wc.Close()
			return err
		}
		if err := writeStorm(wc, year, 2, "TWO", start.Add(30*24*time.Hour), 3); err != nil {
			wc.Close()
			return err
		}
	}
	return wc.Close()
}

func writeStorm(w io.Writer, year, number int, name string, start time.Time, fixes int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "AL%02d%04d, %18s, %6d,\n", number, year, name, fixes)
	for k := 0; k < fixes; k++ {
		t := start.Add(time.Duration(k) * domain.SlotDuration)
		status, wind := "TD", 30
		if name != "TWO" {
			status, wind = "TS", 40+5*k
			if wind >= 65 {
				status = "HU"
			}
		}
		lat := 24.0 + 0.5*float64(k)
		lon := 88.0 + 0.6*float64(k)
		radius := 60 + 5*k
		fmt.Fprintf(&b, "%s, %s,  , %s, %4.1fN, %5.1fW, %3d, %4d, %4d, %4d, %4d, %4d,\n",
			t.Format("20060102"), t.Format("1504"), status, lat, lon, wind, 1005-2*k,
			radius, radius, radius/2, radius/2)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func printStats(field *domain.WindField) {
	fmt.Println()
	fmt.Println("Locations by segment:")
	bySegment := map[domain.Segment]int{}
	for _, loc := range field.Locations {
		bySegment[domain.ClassifySegment(loc)]++
	}
	for _, r := range domain.Regions {
		kept, _ := domain.FilterRegion(field.Locations, r)
		fmt.Printf("  %-6s %d\n", r.Code, len(kept))
	}

	summary, err := stats.SummarizeRows(field.Speeds)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Samples: %d present, %d missing\n", summary.Count, summary.Missing)
	fmt.Printf("Speed: mean %.2f, median %.2f, max %.2f m/s\n", summary.Mean, summary.Median, summary.Max)
	fmt.Printf("Segments: %d distinct\n", len(bySegment))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
