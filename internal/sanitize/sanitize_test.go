package sanitize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValue_ReplacesTimestamps(t *testing.T) {
	ts := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	later := ts.Add(24 * time.Hour)

	in := map[string]any{
		"price": map[string]any{
			"regularMarketTime": ts,
			"regularMarketPrice": 187.5,
			"currency":          "USD",
		},
		"calendarEvents": map[string]any{
			"earnings": map[string]any{
				"earningsDate": []any{ts, later},
			},
			"exDividendDate": &later,
		},
		"quotes": []map[string]any{{"date": ts, "close": 1.0}},
		"flag":   true,
		"none":   nil,
	}

	out := Map(in)

	require.Equal(t, "2024-01-15T14:30:00.000Z", out["price"].(map[string]any)["regularMarketTime"])
	require.Equal(t, 187.5, out["price"].(map[string]any)["regularMarketPrice"])
	require.Equal(t, "USD", out["price"].(map[string]any)["currency"])

	events := out["calendarEvents"].(map[string]any)
	require.Equal(t, []any{"2024-01-15T14:30:00.000Z", "2024-01-16T14:30:00.000Z"}, events["earnings"].(map[string]any)["earningsDate"])
	require.Equal(t, "2024-01-16T14:30:00.000Z", events["exDividendDate"])

	require.Equal(t, "2024-01-15T14:30:00.000Z", out["quotes"].([]map[string]any)[0]["date"])
	require.Equal(t, true, out["flag"])
	require.Nil(t, out["none"])

	// input untouched
	require.Equal(t, ts, in["price"].(map[string]any)["regularMarketTime"])

	_, err := json.Marshal(out)
	require.NoError(t, err)
}

func TestValue_Idempotent(t *testing.T) {
	ts := time.Date(2023, 6, 30, 20, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	trees := []any{
		nil,
		"plain",
		42.0,
		ts,
		[]any{ts, "x", 1.0, []any{ts}},
		map[string]any{"a": map[string]any{"b": []any{ts, map[string]any{"c": ts}}}},
	}
	for _, tree := range trees {
		once := Value(tree)
		twice := Value(once)
		require.Equal(t, once, twice)
	}
}

func TestValue_ConvertsZoneToUTC(t *testing.T) {
	ts := time.Date(2023, 6, 30, 16, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	require.Equal(t, "2023-06-30T20:00:00.000Z", Value(ts))
}

func TestValue_NilTimePointer(t *testing.T) {
	var p *time.Time
	require.Nil(t, Value(p))
	require.Nil(t, Map(nil))
}
