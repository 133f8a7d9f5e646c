// Command validate performs integrity checks on a steering-wind archive and,
// optionally, a HURDAT2 best-track file before they are fed to dlmstats. It
// verifies array shapes, the six-hourly season cadence, coastal coverage of
// every region, sample plausibility and best-track parse quality.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -archive data/mock/dlm_speeds.json.gz \
//	  -best-track data/mock/hurdat2.txt
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/dlm-steering-stats/internal/adapter/archive"
	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
)

// Samples faster than this are physically implausible for a steering flow.
const implausibleSpeed = 100.0

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxErrors caps the detail collected per phase.
const maxErrors = 20

func (p *phase) full() bool { return len(p.errors) >= maxErrors }

func main() {
	archivePath := flag.String("archive", "", "path to the wind archive (.json, .json.gz, .json.zst)")
	bestTrack := flag.String("best-track", "", "optional path to a HURDAT2 best-track file")
	maxMissing := flag.Float64("max-missing", 0.5, "largest tolerated fraction of missing samples")
	flag.Parse()

	if *archivePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*archivePath, *bestTrack, *maxMissing); code != 0 {
		os.Exit(code)
	}
}

func run(archivePath, bestTrackPath string, maxMissing float64) int {
	fmt.Println("=== Steering Archive Integrity Validation ===")
	fmt.Println()

	doc, err := archive.Open(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open archive: %v\n", err)
		return 1
	}
	field, err := archive.ReadWindField(doc)
	doc.Close()
	shape := &phase{name: "Phase 1: Archive shape"}
	if err != nil {
		// A malformed archive fails the shape phase; nothing else can run.
		shape.errorf("%v", err)
		return report([]*phase{shape}, nil, nil)
	}
	validateShape(shape, field)

	phases := []*phase{
		shape,
		validateCadence(field),
		validateCoverage(field),
		validateSamples(field, maxMissing),
	}

	var track *domain.BestTrackStats
	if bestTrackPath != "" {
		p, st := validateBestTrack(bestTrackPath)
		phases = append(phases, p)
		track = st
	}

	return report(phases, field, track)
}

func report(phases []*phase, field *domain.WindField, track *domain.BestTrackStats) int {
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	if field != nil {
		fmt.Printf("Archive: %d locations, %d slots (%d seasons), %d missing samples\n",
			len(field.Locations), field.NumSlots(), field.NumSlots()/domain.SlotsPerSeason, field.CountMissing())
	}
	if track != nil {
		fmt.Printf("Best track: %d storms, %d records, %d kept, %d skipped\n",
			track.Storms, track.Records, track.Kept, track.Skipped)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: shape ──

func validateShape(p *phase, field *domain.WindField) {
	if n := field.NumSlots(); n%domain.SlotsPerSeason != 0 {
		p.errorf("%d slots is not a whole number of %d-slot seasons", n, domain.SlotsPerSeason)
	}
	if len(field.Locations) == 0 {
		p.errorf("archive has no locations")
	}
	seen := make(map[domain.Location]int, len(field.Locations))
	for i, loc := range field.Locations {
		if prev, ok := seen[loc]; ok && !p.full() {
			p.errorf("location %d duplicates location %d (%.2f, %.2f)", i, prev, loc.Lon, loc.Lat)
		}
		seen[loc] = i
	}
}

// ── Phase 2: cadence ──

func validateCadence(field *domain.WindField) *phase {
	p := &phase{name: "Phase 2: Six-hourly season cadence"}
	for j, serial := range field.Times {
		got := domain.ToCalendarTime(serial)
		want := domain.SlotTime(j)
		if !got.Equal(want) {
			p.errorf("slot %d: time %s, want %s", j, got.Format("2006-01-02T15Z"), want.Format("2006-01-02T15Z"))
			if p.full() {
				break
			}
		}
	}
	return p
}

// ── Phase 3: coverage ──

func validateCoverage(field *domain.WindField) *phase {
	p := &phase{name: "Phase 3: Coastal coverage per region"}
	coastal, _ := domain.FilterCoastal(field.Locations)
	if len(coastal) == 0 {
		p.errorf("no locations inside the coastal box")
		return p
	}
	for _, r := range domain.Regions {
		kept, _ := domain.FilterRegion(coastal, r)
		if len(kept) == 0 {
			p.errorf("region %s (%s) has no locations", r.Code, r.Phrase)
		}
	}
	return p
}

// ── Phase 4: samples ──

func validateSamples(field *domain.WindField, maxMissing float64) *phase {
	p := &phase{name: "Phase 4: Sample plausibility"}
	for i, row := range field.Speeds {
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if math.IsInf(v, 0) || math.Abs(v) > implausibleSpeed {
				if !p.full() {
					p.errorf("location %d slot %d: implausible speed %v", i, j, v)
				}
			}
		}
	}
	if n := field.NumSamples(); n > 0 {
		ratio := float64(field.CountMissing()) / float64(n)
		if ratio > maxMissing {
			p.errorf("%.1f%% of samples missing, limit %.1f%%", 100*ratio, 100*maxMissing)
		}
	}
	return p
}

// ── Phase 5: best track ──

func validateBestTrack(path string) (*phase, *domain.BestTrackStats) {
	p := &phase{name: "Phase 5: Best-track parse"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fixes, st, err := archive.LoadBestTrack(path, logger)
	if err != nil {
		p.errorf("%v", err)
		return p, nil
	}
	if st.Skipped > 0 {
		p.errorf("%d malformed lines skipped", st.Skipped)
	}
	if len(fixes) == 0 {
		p.errorf("no tropical storm or hurricane fixes inside the season window")
	}
	for i := 1; i < len(fixes) && !p.full(); i++ {
		a, b := fixes[i-1], fixes[i]
		if a.StormID == b.StormID && !b.Time.After(a.Time) {
			p.errorf("storm %s: fix at %s not after %s", b.StormID, b.Time.Format("2006-01-02T15Z"), a.Time.Format("2006-01-02T15Z"))
		}
	}
	return p, &st
}
