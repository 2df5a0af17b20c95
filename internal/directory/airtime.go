package directory

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var clockTime = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*(?:([ap])\.?\s*m\.?)?`)

// AirTimeMinutes parses the leading clock time of free text such as
// "3:00 PM", "5pm ET" or "17:30" into minutes after midnight.
func AirTimeMinutes(s string) (int, bool) {
	m := clockTime.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return 0, false
	}
	if m[3] == "" {
		if hour > 23 {
			return 0, false
		}
		return hour*60 + minute, true
	}
	if hour < 1 || hour > 12 {
		return 0, false
	}
	hour %= 12
	if strings.EqualFold(m[3], "p") {
		hour += 12
	}
	return hour*60 + minute, true
}

// BroadcastTimeLabel combines local and ET air times for display.
func BroadcastTimeLabel(local, et string) string {
	switch {
	case local == "" && et == "":
		return "Time TBD"
	case local == "":
		return et + " ET"
	case et == "":
		return local + " local"
	}
	return local + " local / " + et + " ET"
}

// SortKey is what station ordering needs to know about a station.
type SortKey struct {
	MarketNumber int
	AirTime      string
}

// SortByAirTime orders keys by parsed air time; unparseable times go last and
// ties fall back to market number. It returns the permutation of indexes.
func SortByAirTime(keys []SortKey) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		ma, okA := AirTimeMinutes(ka.AirTime)
		mb, okB := AirTimeMinutes(kb.AirTime)
		switch {
		case okA && !okB:
			return true
		case !okA && okB:
			return false
		case okA && okB && ma != mb:
			return ma < mb
		}
		return ka.MarketNumber < kb.MarketNumber
	})
	return idx
}
