package directory

import (
	"regexp"
	"strconv"
	"strings"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/phone"
)

// FeedRow is one line of the station feed CSV, keyed by header.
type FeedRow struct {
	Feed      string `csv:"Feed"`
	Status    string `csv:"Status"`
	Rank      string `csv:"Rank"`
	Station   string `csv:"Station"`
	City      string `csv:"City"`
	AirTime   string `csv:"Air Time"`
	ETTime    string `csv:"ET Time"`
	MainName  string `csv:"Main Name"`
	MainPhone string `csv:"Main Phone"`
	Name2     string `csv:"#2 Name"`
	Phone2    string `csv:"Phone #2"`
	Name3     string `csv:"#3 Name"`
	Phone3    string `csv:"Phone #3"`
	Name4     string `csv:"#4 Name"`
	Phone4    string `csv:"Phone #4"`

	// Line is the 1-based data line the row came from; 0 when unknown.
	Line int `csv:"-"`
}

// Trimmed returns a copy with surrounding whitespace removed from every column.
func (r FeedRow) Trimmed() FeedRow {
	fields := []*string{
		&r.Feed, &r.Status, &r.Rank, &r.Station, &r.City, &r.AirTime, &r.ETTime,
		&r.MainName, &r.MainPhone, &r.Name2, &r.Phone2, &r.Name3, &r.Phone3, &r.Name4, &r.Phone4,
	}
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
	return r
}

// CandidatePhone is a contact built from one (name, phone) column pair.
type CandidatePhone struct {
	Label  string
	Number string
	Rank   int
}

// Candidates builds up to four phones from the name/phone column pairs in
// column order. A pair contributes only when the name is non-empty and the
// number normalizes; failing pairs are skipped and the survivors ranked 1..n.
func (r FeedRow) Candidates(region string) []CandidatePhone {
	pairs := [][2]string{
		{r.MainName, r.MainPhone},
		{r.Name2, r.Phone2},
		{r.Name3, r.Phone3},
		{r.Name4, r.Phone4},
	}
	var out []CandidatePhone
	for _, pair := range pairs {
		label, raw := strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])
		if label == "" || raw == "" {
			continue
		}
		number, err := phone.Normalize(raw, region)
		if err != nil {
			continue
		}
		out = append(out, CandidatePhone{Label: label, Number: number})
	}
	for i, rank := range FeedOrder(len(out)) {
		out[i].Rank = rank
	}
	return out
}

// Snapshot is the descriptive station fields the row carries, in audit form.
// Feed and market number are the natural key and are not part of it.
func (r FeedRow) Snapshot() Snapshot {
	return Snapshot{
		constants.FieldMarketName:      r.City,
		constants.FieldCallLetters:     r.Station,
		constants.FieldBroadcastStatus: string(ParseStatus(r.Status)),
		constants.FieldAirTimeLocal:    r.AirTime,
		constants.FieldAirTimeET:       r.ETTime,
	}
}

// ParseFeed maps free feed text onto a Feed by looking for 3, 5 or 6.
// Anything ambiguous or unrecognised lands in the 6pm feed.
func ParseFeed(s string) constants.Feed {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(cleaned, "3"):
		return constants.Feed3PM
	case strings.Contains(cleaned, "5"):
		return constants.Feed5PM
	default:
		return constants.Feed6PM
	}
}

// ParseStatus maps live/rerack/might case-insensitively. Anything else is no status.
func ParseStatus(s string) constants.BroadcastStatus {
	switch constants.BroadcastStatus(strings.ToLower(strings.TrimSpace(s))) {
	case constants.StatusLive:
		return constants.StatusLive
	case constants.StatusRerack:
		return constants.StatusRerack
	case constants.StatusMight:
		return constants.StatusMight
	}
	return constants.StatusNone
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// ParseMarketNumber reads the Rank column. Only the leading integer counts,
// so "5.0" and "5th" both read as 5.
func ParseMarketNumber(s string) (int, error) {
	n, err := strconv.Atoi(leadingInt.FindString(strings.TrimSpace(s)))
	if err != nil {
		return 0, Validationf("invalid market number: %q", s)
	}
	if n < constants.MinMarketNumber || n > constants.MaxMarketNumber {
		return 0, Validationf("market number %d out of range %d-%d", n, constants.MinMarketNumber, constants.MaxMarketNumber)
	}
	return n, nil
}
