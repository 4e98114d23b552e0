package domain

import (
	"encoding/json"
	"fmt"
)

// Entry is one forecast issue from the vendor "data" array.
type Entry struct {
	StartValidity string `json:"startValidity"`
	EndValidity   string `json:"endValidity"`
	Text          string `json:"text"`
}

// RawForecast is a decoded vendor response. Entries is the typed view used by
// Transform; Document is the full body kept verbatim for the RAW section.
type RawForecast struct {
	Entries  []Entry
	Document map[string]any
}

// WindLevel is one altitude row of a forecast.
type WindLevel struct {
	Altitude    float64 `json:"altitude" bson:"altitude"`
	Heading     float64 `json:"heading" bson:"heading"`
	Wind        float64 `json:"wind" bson:"wind"`
	Temperature float64 `json:"temperature" bson:"temperature"`
}

// Bucket collects the wind levels of every entry classified into one period.
// StartValidity and EndValidity come from the last entry seen for the period.
type Bucket struct {
	Data          []WindLevel `json:"data" bson:"data"`
	StartValidity *string     `json:"startValidity" bson:"startValidity"`
	EndValidity   *string     `json:"endValidity" bson:"endValidity"`
}

// RawSection holds the untouched vendor document for downstream reprocessing.
type RawSection struct {
	Data []map[string]any `json:"data" bson:"data"`
}

// NormalizedRecord is the document persisted once per airport code per run.
type NormalizedRecord struct {
	Datetime string     `json:"datetime" bson:"datetime"`
	AM       Bucket     `json:"AM" bson:"AM"`
	PM       Bucket     `json:"PM" bson:"PM"`
	Night    Bucket     `json:"NIGHT" bson:"NIGHT"`
	Raw      RawSection `json:"RAW" bson:"RAW"`
}

// Bucket returns the record's bucket for p.
func (r *NormalizedRecord) Bucket(p Period) *Bucket {
	switch p {
	case PeriodAM:
		return &r.AM
	case PeriodPM:
		return &r.PM
	default:
		return &r.Night
	}
}

// ParseRawForecast decodes a vendor response body. The body must be a JSON
// object whose "data" member is an array of entry objects; anything else is
// rejected here so Transform only ever sees well-shaped input.
func ParseRawForecast(body []byte) (RawForecast, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return RawForecast{}, fmt.Errorf("parse forecast: %w", err)
	}
	if doc == nil {
		return RawForecast{}, fmt.Errorf("parse forecast: body is null")
	}

	data, ok := doc["data"]
	if !ok {
		return RawForecast{}, fmt.Errorf("parse forecast: missing \"data\" member")
	}
	if _, ok := data.([]any); !ok {
		return RawForecast{}, fmt.Errorf("parse forecast: \"data\" is %T, want array", data)
	}

	var typed struct {
		Data []Entry `json:"data"`
	}
	if err := json.Unmarshal(body, &typed); err != nil {
		return RawForecast{}, fmt.Errorf("parse forecast entries: %w", err)
	}

	return RawForecast{Entries: typed.Data, Document: doc}, nil
}
