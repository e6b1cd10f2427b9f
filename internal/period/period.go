// Package period turns user-supplied period expressions into query bounds.
//
// An expression is one of:
//   - "now": the evaluation instant.
//   - "YYYY-MM-DD": midnight UTC of that calendar date.
//   - anything else: a relative shorthand ("1mo", "1y", "ytd") forwarded
//     untouched; the upstream provider owns its grammar.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Now is the sentinel for the evaluation instant.
const Now = "now"

// DateLayout is the accepted calendar date layout.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Bound is a resolved period expression: either a concrete instant or an
// opaque shorthand token.
type Bound struct {
	At      time.Time
	Token   string
	exact   bool
	current bool
}

// At returns a resolved bound for t.
func At(t time.Time) Bound { return Bound{At: t, exact: true} }

// Resolved reports whether the bound carries a concrete instant.
func (b Bound) Resolved() bool { return b.exact }

// Current reports whether the bound came from the "now" sentinel.
func (b Bound) Current() bool { return b.current }

// Unix returns the bound as epoch seconds. Only meaningful when Resolved.
func (b Bound) Unix() int64 { return b.At.Unix() }

// String renders the bound the way it is sent upstream.
func (b Bound) String() string {
	if b.Resolved() {
		return strconv.FormatInt(b.At.Unix(), 10)
	}
	return b.Token
}

// Resolve resolves expr against now. It never fails: a string that matches
// the date shape but is not a real calendar date is kept as a token.
func Resolve(expr string, now time.Time) Bound {
	if expr == Now {
		return Bound{At: now, exact: true, current: true}
	}
	if datePattern.MatchString(expr) {
		if t, err := time.ParseInLocation(DateLayout, expr, time.UTC); err == nil {
			return At(t)
		}
	}
	return Bound{Token: expr}
}

// Range is a pair of resolved bounds.
type Range struct {
	Start Bound
	End   Bound
}

// ResolveRange resolves both bounds against the same instant.
func ResolveRange(start, end string, now time.Time) Range {
	return Range{Start: Resolve(start, now), End: Resolve(end, now)}
}

// RangeError reports a bound that cannot be placed on the timeline.
type RangeError struct {
	Field string // "period1" or "period2"
	Token string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %q cannot be combined with a date bound; use a date, %q, or a fixed span such as 5d, 1mo, 1y", e.Field, e.Token, Now)
}

// Normalize places mixed bounds on the timeline. A shorthand start before a
// concrete end is counted back from the end, and a shorthand end after a
// concrete start is counted forward from the start. A shorthand start with
// an end of "now" stays a token: the provider expresses it natively as a
// trailing range. Any other combination fails with *RangeError.
func (r Range) Normalize() (Range, error) {
	switch {
	case r.Start.Resolved() && r.End.Resolved():
		return r, nil
	case !r.Start.Resolved() && r.End.Current():
		return r, nil
	case !r.Start.Resolved() && r.End.Resolved():
		if r.Start.Token == "ytd" {
			y := r.End.At.Year()
			return Range{Start: At(time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)), End: r.End}, nil
		}
		span, ok := ParseSpan(r.Start.Token)
		if !ok {
			return r, &RangeError{Field: "period1", Token: r.Start.Token}
		}
		return Range{Start: At(span.Before(r.End.At)), End: r.End}, nil
	case r.Start.Resolved():
		span, ok := ParseSpan(r.End.Token)
		if !ok {
			return r, &RangeError{Field: "period2", Token: r.End.Token}
		}
		return Range{Start: r.Start, End: At(span.After(r.Start.At))}, nil
	default:
		return r, &RangeError{Field: "period2", Token: r.End.Token}
	}
}

// Span is a fixed calendar length such as "5d" or "3mo".
type Span struct {
	Years, Months, Days int
}

var spanPattern = regexp.MustCompile(`^(\d+)(d|wk|mo|y)$`)

// ParseSpan parses the fixed-length shorthand tokens (Nd, Nwk, Nmo, Ny).
// Open-ended tokens such as "max" or "ytd" are not spans.
func ParseSpan(token string) (Span, bool) {
	m := spanPattern.FindStringSubmatch(token)
	if m == nil {
		return Span{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return Span{}, false
	}
	switch m[2] {
	case "d":
		return Span{Days: n}, true
	case "wk":
		return Span{Days: 7 * n}, true
	case "mo":
		return Span{Months: n}, true
	default:
		return Span{Years: n}, true
	}
}

// Before returns t moved back by the span.
func (s Span) Before(t time.Time) time.Time { return t.AddDate(-s.Years, -s.Months, -s.Days) }

// After returns t moved forward by the span.
func (s Span) After(t time.Time) time.Time { return t.AddDate(s.Years, s.Months, s.Days) }

// IsDate reports whether s is a valid YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
