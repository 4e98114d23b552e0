// Command validate checks captured NAV CANADA upperwind responses against the
// transform rules before they are committed as test fixtures. It parses each
// file, runs the transform with a fixed capture time, and verifies bucket
// ordering, period assignment, and the stored document shape.
//
// Usage:
//
//	go run ./cmd/validate -max-skipped 1 data/mock/upperwind_cyyu.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/upper-winds-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

var capturedAt = time.Date(2024, time.January, 16, 1, 30, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	maxSkipped := flag.Int("max-skipped", 0, "malformed entries tolerated per file")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, flag.Args(), *maxSkipped); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, paths []string, maxSkipped int) int {
	domain.SetClock(clockwork.NewFakeClockAt(capturedAt))
	defer domain.SetClock(nil)

	fmt.Fprintln(w, "=== Upper Winds Fixture Validation ===")

	allPassed := true
	for _, path := range paths {
		if !validateFile(w, path, maxSkipped) {
			allPassed = false
		}
	}

	fmt.Fprintln(w)
	if !allPassed {
		fmt.Fprintln(w, "RESULT: FAIL")
		return 1
	}
	fmt.Fprintln(w, "RESULT: PASS")
	return 0
}

func validateFile(w io.Writer, path string, maxSkipped int) bool {
	fmt.Fprintf(w, "\n%s\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  FATAL: %v\n", err)
		return false
	}
	raw, err := domain.ParseRawForecast(data)
	if err != nil {
		fmt.Fprintf(w, "  FATAL: %v\n", err)
		return false
	}

	rec, skipped := domain.Transform(raw, domain.Now())

	phases := []*phase{
		validateEntries(raw, skipped, maxSkipped),
		validateOrdering(rec),
		validatePeriods(rec),
		validateDocument(rec),
	}

	passed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			passed = false
		}
		fmt.Fprintf(w, "  %-24s %s\n", p.name, status)
	}
	fmt.Fprintf(w, "  entries: %d, skipped: %d, levels AM/PM/NIGHT: %d/%d/%d\n",
		len(raw.Entries), len(skipped), len(rec.AM.Data), len(rec.PM.Data), len(rec.Night.Data))

	for _, p := range phases {
		for _, e := range p.errors {
			fmt.Fprintf(w, "    %s: %s\n", p.name, e)
		}
	}
	return passed
}

func validateEntries(raw domain.RawForecast, skipped []*domain.MalformedEntryError, maxSkipped int) *phase {
	p := &phase{name: "entry decoding"}
	if len(raw.Entries) == 0 {
		p.errorf("response has no entries")
	}
	if len(skipped) > maxSkipped {
		for _, s := range skipped {
			p.errorf("%v", s)
		}
	}
	return p
}

func validateOrdering(rec domain.NormalizedRecord) *phase {
	p := &phase{name: "altitude ordering"}
	for _, period := range domain.Periods {
		levels := rec.Bucket(period).Data
		sorted := sort.SliceIsSorted(levels, func(i, j int) bool {
			return levels[i].Altitude < levels[j].Altitude
		})
		if !sorted {
			p.errorf("%s levels are not sorted by altitude", period)
		}
	}
	return p
}

func validatePeriods(rec domain.NormalizedRecord) *phase {
	p := &phase{name: "period assignment"}
	for _, period := range domain.Periods {
		b := rec.Bucket(period)
		if b.StartValidity == nil {
			if len(b.Data) > 0 {
				p.errorf("%s has levels but no validity", period)
			}
			continue
		}
		got, err := domain.ClassifyValidity(*b.StartValidity)
		if err != nil {
			p.errorf("%s: %v", period, err)
			continue
		}
		if got != period {
			p.errorf("%s bucket holds validity %s which classifies as %s", period, *b.StartValidity, got)
		}
	}
	return p
}

func validateDocument(rec domain.NormalizedRecord) *phase {
	p := &phase{name: "document shape"}
	data, err := json.Marshal(rec)
	if err != nil {
		p.errorf("marshal: %v", err)
		return p
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		p.errorf("unmarshal: %v", err)
		return p
	}
	for _, key := range []string{"datetime", "AM", "PM", "NIGHT", "RAW"} {
		if _, ok := doc[key]; !ok {
			p.errorf("missing key %q", key)
		}
	}
	if rec.Datetime != capturedAt.Format(domain.DatetimeLayout) {
		p.errorf("datetime %q does not match capture time", rec.Datetime)
	}
	return p
}
