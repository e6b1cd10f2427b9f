// Package normalize maps loosely typed upstream records onto canonical
// models. Mappings are declared as field tables; adding a canonical field
// is a change to a table plus a struct field.
package normalize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/logger"
)

var log = logger.With("normalize")

// Field maps one canonical field to its upstream source keys.
//
// Sources are tried in order; the first present value wins. A value is
// present when the key exists and is not null. With NonEmpty, an empty
// string also counts as absent. When no source matches, the field is set
// to Default (nil unless stated).
type Field struct {
	Name     string
	Sources  []string
	NonEmpty bool
	Default  any
}

// Table is an ordered set of field mappings.
type Table []Field

// QuoteFields is the canonical quote record mapping.
var QuoteFields = Table{
	{Name: "symbol", Sources: []string{"symbol"}, Default: ""},
	{Name: "shortName", Sources: []string{"shortName", "symbol"}, NonEmpty: true, Default: ""},
	{Name: "regularMarketPrice", Sources: []string{"regularMarketPrice"}},
	{Name: "regularMarketChange", Sources: []string{"regularMarketChange"}},
	{Name: "regularMarketChangePercent", Sources: []string{"regularMarketChangePercent"}},
	{Name: "regularMarketVolume", Sources: []string{"regularMarketVolume"}},
	{Name: "marketCap", Sources: []string{"marketCap"}},
	{Name: "exchange", Sources: []string{"exchange"}},
	{Name: "fullExchangeName", Sources: []string{"fullExchangeName"}},
	{Name: "regularMarketTime", Sources: []string{"regularMarketTime"}},
}

// IndexFields is the market summary index mapping.
var IndexFields = Table{
	{Name: "symbol", Sources: []string{"symbol"}, Default: ""},
	{Name: "shortName", Sources: []string{"shortName", "longName", "symbol"}, NonEmpty: true, Default: ""},
	{Name: "regularMarketPrice", Sources: []string{"regularMarketPrice"}},
	{Name: "regularMarketChange", Sources: []string{"regularMarketChange"}},
	{Name: "regularMarketChangePercent", Sources: []string{"regularMarketChangePercent"}},
	{Name: "regularMarketTime", Sources: []string{"regularMarketTime"}},
}

// Apply projects raw onto the table. Every table field is present in the
// result, holding either a source value or the field default.
func (t Table) Apply(raw map[string]any) map[string]any {
	out := make(map[string]any, len(t))
	for _, f := range t {
		out[f.Name] = f.Default
		for _, src := range f.Sources {
			v, ok := raw[src]
			if !ok || v == nil {
				continue
			}
			if s, isStr := v.(string); isStr && f.NonEmpty && s == "" {
				continue
			}
			out[f.Name] = v
			break
		}
	}
	return out
}

// Decode applies the table to raw and decodes the result into out, which
// must be a pointer to a struct with mapstructure tags. A field whose value
// cannot be converted to its target type is set to the field default and
// logged; one malformed field never rejects the whole record.
func (t Table) Decode(raw map[string]any, out any) error {
	fields := t.Apply(raw)

	target := reflect.TypeOf(out)
	if target == nil || target.Kind() != reflect.Pointer {
		return fmt.Errorf("decode target must be a pointer, got %T", out)
	}
	for _, f := range t {
		scratch := reflect.New(target.Elem()).Interface()
		if err := decode(map[string]any{f.Name: fields[f.Name]}, scratch); err != nil {
			log.Warn().
				Err(err).
				Interface("symbol", raw["symbol"]).
				Str("field", f.Name).
				Msg("unconvertible upstream value, using default")
			fields[f.Name] = f.Default
		}
	}
	return decode(fields, out)
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(epochToTimeHook),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// Quote normalizes a single raw quote record.
func Quote(raw map[string]any) (models.QuoteRecord, error) {
	var q models.QuoteRecord
	if err := QuoteFields.Decode(raw, &q); err != nil {
		return models.QuoteRecord{}, fmt.Errorf("normalize quote %v: %w", raw["symbol"], err)
	}
	return q, nil
}

// Quotes normalizes a list of raw records, preserving order.
func Quotes(raws []map[string]any) ([]models.QuoteRecord, error) {
	out := make([]models.QuoteRecord, 0, len(raws))
	for _, raw := range raws {
		q, err := Quote(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// Index normalizes a raw quote into a market summary entry.
func Index(raw map[string]any) (models.IndexSnapshot, error) {
	var s models.IndexSnapshot
	if err := IndexFields.Decode(raw, &s); err != nil {
		return models.IndexSnapshot{}, fmt.Errorf("normalize index %v: %w", raw["symbol"], err)
	}
	return s, nil
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	timestampType = reflect.TypeOf(models.Timestamp{})
)

// epochToTimeHook accepts epoch seconds (number or numeric string), RFC3339
// strings and time.Time values for time.Time and models.Timestamp targets.
func epochToTimeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case timeType:
		return toTime(data)
	case timestampType:
		t, err := toTime(data)
		if err != nil {
			return nil, err
		}
		if ts, ok := t.(time.Time); ok {
			return models.Timestamp(ts), nil
		}
		return t, nil
	}
	return data, nil
}

func toTime(data any) (any, error) {
	switch v := data.(type) {
	case models.Timestamp:
		return time.Time(v), nil
	case time.Time:
		return v, nil
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	case float32:
		return time.Unix(int64(v), 0).UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return time.Unix(n, 0).UTC(), nil
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts.UTC(), nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unrecognized timestamp %q", v)
		}
		return time.Unix(n, 0).UTC(), nil
	}
	return data, nil
}
