package directory

import "time"

// Clock supplies the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// StartOfDay is local midnight of t's day, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RecentCall is one ledger entry: a canonical number and when it was called.
type RecentCall struct {
	Number   string
	CalledAt time.Time
}

// CallLookup maps canonical number to its most recent call time.
type CallLookup map[string]time.Time

// BuildLookup keeps calls at or after since, latest per number.
func BuildLookup(calls []RecentCall, since time.Time) CallLookup {
	lookup := make(CallLookup, len(calls))
	for _, c := range calls {
		if c.CalledAt.Before(since) {
			continue
		}
		if prev, ok := lookup[c.Number]; !ok || c.CalledAt.After(prev) {
			lookup[c.Number] = c.CalledAt
		}
	}
	return lookup
}

// Annotation is the derived "called today" state of a station.
type Annotation struct {
	CalledToday bool       `json:"calledToday"`
	CalledAt    *time.Time `json:"calledAt"`
}

// Annotate checks every phone number, in the order given, against the lookup.
// The first hit wins: CalledAt is that phone's time, not necessarily the
// latest across all matching phones.
func Annotate(numbers []string, lookup CallLookup) Annotation {
	for _, n := range numbers {
		if at, ok := lookup[n]; ok {
			at := at
			return Annotation{CalledToday: true, CalledAt: &at}
		}
	}
	return Annotation{}
}
