package yahoo

import (
	"sort"
	"time"
)

// dateFields are keys carrying epoch seconds anywhere in a response.
var dateFields = map[string]bool{
	"regularMarketTime":         true,
	"preMarketTime":             true,
	"postMarketTime":            true,
	"firstTradeDate":            true,
	"exDividendDate":            true,
	"dividendDate":              true,
	"earningsDate":              true,
	"earningsTimestamp":         true,
	"earningsTimestampStart":    true,
	"earningsTimestampEnd":      true,
	"lastFiscalYearEnd":         true,
	"nextFiscalYearEnd":         true,
	"mostRecentQuarter":         true,
	"lastSplitDate":             true,
	"lastDividendDate":          true,
	"governanceEpochDate":       true,
	"compensationAsOfEpochDate": true,
	"epochGradeDate":            true,
	"providerPublishTime":       true,
	"expirationDate":            true,
	"expirationDates":           true,
	"lastTradeDate":             true,
}

// millisDateFields carry epoch milliseconds.
var millisDateFields = map[string]bool{
	"firstTradeDateMilliseconds": true,
	"jobTimestamp":               true,
}

// unwrapWith replaces formatted number wrappers with their "raw" or "fmt"
// member.
func unwrapWith(v any, member string) any {
	switch x := v.(type) {
	case map[string]any:
		if isFormatted(x) {
			return x[member]
		}
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = unwrapWith(item, member)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = unwrapWith(item, member)
		}
		return out
	default:
		return v
	}
}

func isFormatted(m map[string]any) bool {
	if len(m) > 3 {
		return false
	}
	_, hasRaw := m["raw"]
	_, hasFmt := m["fmt"]
	if !hasRaw || !hasFmt {
		return false
	}
	for k := range m {
		if k != "raw" && k != "fmt" && k != "longFmt" {
			return false
		}
	}
	return true
}

// revive converts known epoch fields to time.Time.
func revive(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			switch {
			case dateFields[k]:
				out[k] = epochValue(item, time.Second)
			case millisDateFields[k]:
				out[k] = epochValue(item, time.Millisecond)
			default:
				out[k] = revive(item)
			}
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = revive(item)
		}
		return out
	default:
		return v
	}
}

func epochValue(v any, unit time.Duration) any {
	switch x := v.(type) {
	case float64:
		return epoch(x, unit)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = epochValue(item, unit)
		}
		return out
	default:
		return revive(v)
	}
}

func epoch(n float64, unit time.Duration) time.Time {
	if unit == time.Millisecond {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}

// chartFrame reshapes a v8 chart result into {meta, quotes, events}: one
// quote row per timestamp, events as date-ordered lists.
func chartFrame(result map[string]any) map[string]any {
	meta, _ := result["meta"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
	}

	timestamps, _ := result["timestamp"].([]any)
	indicators, _ := result["indicators"].(map[string]any)
	series := firstSeries(indicators, "quote")
	adj := firstSeries(indicators, "adjclose")

	quotes := make([]any, 0, len(timestamps))
	for i, ts := range timestamps {
		n, ok := ts.(float64)
		if !ok {
			continue
		}
		row := map[string]any{
			"date":   epoch(n, time.Second),
			"high":   at(series["high"], i),
			"low":    at(series["low"], i),
			"open":   at(series["open"], i),
			"close":  at(series["close"], i),
			"volume": at(series["volume"], i),
		}
		if adj != nil {
			row["adjclose"] = at(adj["adjclose"], i)
		}
		quotes = append(quotes, row)
	}

	frame := map[string]any{"meta": meta, "quotes": quotes}
	if events, ok := result["events"].(map[string]any); ok {
		out := make(map[string]any, len(events))
		for name, raw := range events {
			if byDate, ok := raw.(map[string]any); ok {
				out[name] = eventList(byDate)
			}
		}
		frame["events"] = out
	}
	return frame
}

func firstSeries(indicators map[string]any, key string) map[string]any {
	list, _ := indicators[key].([]any)
	if len(list) == 0 {
		return nil
	}
	m, _ := list[0].(map[string]any)
	return m
}

func at(series any, i int) any {
	list, ok := series.([]any)
	if !ok || i >= len(list) {
		return nil
	}
	return list[i]
}

// eventList turns {"<epoch>": {..., "date": t}} into a slice ordered by date.
func eventList(byDate map[string]any) []any {
	out := make([]any, 0, len(byDate))
	for _, ev := range byDate {
		m, ok := ev.(map[string]any)
		if !ok {
			continue
		}
		row := make(map[string]any, len(m))
		for k, v := range m {
			row[k] = v
		}
		if n, ok := m["date"].(float64); ok {
			row["date"] = epoch(n, time.Second)
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return eventTime(out[i]).Before(eventTime(out[j]))
	})
	return out
}

func eventTime(ev any) time.Time {
	m, _ := ev.(map[string]any)
	t, _ := m["date"].(time.Time)
	return t
}
