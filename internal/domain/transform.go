package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// DatetimeLayout is the capture timestamp format: UTC, millisecond precision.
const DatetimeLayout = "2006-01-02T15:04:05.000Z"

// tupleLen is the fixed width of a vendor wind level tuple.
const tupleLen = 5

// Transform reshapes a raw forecast into a NormalizedRecord captured at
// capturedAt. Entries are processed in source order; each one is classified by
// its start validity and its wind levels appended to that period's bucket,
// overwriting the bucket's validity window. Buckets are then sorted by
// altitude.
//
// A malformed entry contributes nothing to the record and is returned in the
// second result; the rest of the forecast is still transformed. Transform does
// not modify raw.
func Transform(raw RawForecast, capturedAt time.Time) (NormalizedRecord, []*MalformedEntryError) {
	rec := NormalizedRecord{
		AM:    newBucket(),
		PM:    newBucket(),
		Night: newBucket(),
	}

	var skipped []*MalformedEntryError
	for i, entry := range raw.Entries {
		period, levels, err := parseEntry(entry)
		if err != nil {
			skipped = append(skipped, &MalformedEntryError{Index: i, StartValidity: entry.StartValidity, Err: err})
			continue
		}

		b := rec.Bucket(period)
		start, end := entry.StartValidity, entry.EndValidity
		b.StartValidity = &start
		b.EndValidity = &end
		b.Data = append(b.Data, levels...)
	}

	for _, p := range Periods {
		sortByAltitude(rec.Bucket(p).Data)
	}

	rec.Raw = RawSection{Data: []map[string]any{raw.Document}}
	rec.Datetime = capturedAt.UTC().Format(DatetimeLayout)
	return rec, skipped
}

func newBucket() Bucket {
	return Bucket{Data: []WindLevel{}}
}

// parseEntry decodes and classifies one entry. Nothing is written to the
// record until it returns without error.
func parseEntry(entry Entry) (Period, []WindLevel, error) {
	levels, err := parseWindText(entry.Text)
	if err != nil {
		return "", nil, err
	}
	period, err := ClassifyValidity(entry.StartValidity)
	if err != nil {
		return "", nil, err
	}
	return period, levels, nil
}

// parseWindText decodes the text member and converts its last group into wind
// levels. Earlier groups are ignored without being decoded.
func parseWindText(text string) ([]WindLevel, error) {
	var groups []json.RawMessage
	if err := json.Unmarshal([]byte(text), &groups); err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	if len(groups) == 0 {
		return nil, ErrEmptyText
	}

	var tuples [][]json.RawMessage
	if err := json.Unmarshal(groups[len(groups)-1], &tuples); err != nil {
		return nil, fmt.Errorf("decode wind group: %w", err)
	}

	levels := make([]WindLevel, 0, len(tuples))
	for i, tuple := range tuples {
		level, err := windLevelFromTuple(tuple)
		if err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i, err)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// windLevelFromTuple maps [altitude, heading, wind, temperature, unused] to a
// WindLevel. Missing heading, wind and temperature become 0. The fifth element
// is never decoded and may hold any JSON value.
func windLevelFromTuple(tuple []json.RawMessage) (WindLevel, error) {
	if len(tuple) != tupleLen {
		return WindLevel{}, fmt.Errorf("%w, got %d", ErrTupleArity, len(tuple))
	}

	var fields [tupleLen - 1]*float64
	for i := range fields {
		if err := json.Unmarshal(tuple[i], &fields[i]); err != nil {
			return WindLevel{}, fmt.Errorf("element %d: %w", i, err)
		}
	}
	if fields[0] == nil {
		return WindLevel{}, ErrNullAltitude
	}
	return WindLevel{
		Altitude:    *fields[0],
		Heading:     orZero(fields[1]),
		Wind:        orZero(fields[2]),
		Temperature: orZero(fields[3]),
	}, nil
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func sortByAltitude(levels []WindLevel) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Altitude < levels[j].Altitude
	})
}
