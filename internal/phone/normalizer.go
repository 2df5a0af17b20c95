// Package phone canonicalizes free-form phone text into E.164 strings.
package phone

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// MinDigits is the fewest digits a raw value may carry and still be usable.
const MinDigits = 10

var ErrNotParseable = errors.New("phone number is not parseable")

var (
	nonDigits = regexp.MustCompile(`\D`)
	extension = regexp.MustCompile(`(?i)\s*(?:ext\.?|extension|x|#)\s*\d+\s*$`)
)

// Normalize returns the canonical E.164 form of raw.
//
// A strict parse against region is tried first. When that fails but at least
// MinDigits digits remain, the last ten digits are treated as a North American
// number. Anything shorter is ErrNotParseable.
func Normalize(raw string, region string) (string, error) {
	cleaned := strings.TrimSpace(strings.Trim(raw, `"'`))
	if cleaned == "" {
		return "", ErrNotParseable
	}

	base := extension.ReplaceAllString(cleaned, "")
	digits := StripNonDigits(base)
	if len(digits) < MinDigits {
		// Extension digits still count toward the fallback.
		digits = StripNonDigits(cleaned)
		if len(digits) < MinDigits {
			return "", ErrNotParseable
		}
		return "+1" + digits[len(digits)-10:], nil
	}

	if num, err := phonenumbers.Parse(base, region); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164), nil
	}

	return "+1" + digits[len(digits)-10:], nil
}

// Display formats a canonical number for people, e.g. (312) 555-1234.
// Values that do not parse are returned unchanged.
func Display(canonical string) string {
	num, err := phonenumbers.Parse(canonical, "US")
	if err != nil {
		return canonical
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}

// DialString returns a bare dialable string: a leading plus and digits only.
func DialString(canonical string) string {
	digits := StripNonDigits(canonical)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// TelURI builds the tel: link the call dialog opens.
func TelURI(canonical string) string {
	return "tel:" + DialString(canonical)
}

func StripNonDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
