package directory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"infinite-experiment/calllist/internal/constants"
)

// Snapshot is an entity's auditable fields, stringified the way they are stored
// in edit_logs. A patch is a Snapshot holding only the fields it sets.
type Snapshot map[string]string

// Change is one field-level audit entry before it is bound to a station and editor.
type Change struct {
	Field    string
	OldValue string
	NewValue string
}

// Diff returns one Change per patch field whose value differs from before.
// Fields absent from the patch are never considered. Output follows
// constants.StationFields order, then any remaining fields alphabetically.
func Diff(before Snapshot, patch Snapshot) []Change {
	var changes []Change
	for _, field := range patchOrder(patch) {
		newValue := patch[field]
		oldValue := before[field]
		if oldValue == newValue {
			continue
		}
		changes = append(changes, Change{Field: field, OldValue: oldValue, NewValue: newValue})
	}
	return changes
}

// BulkDiff applies one patch to many entities keyed by id. Entities whose
// values already match the patch produce no entries.
func BulkDiff(befores map[string]Snapshot, patch Snapshot) map[string][]Change {
	out := make(map[string][]Change, len(befores))
	for id, before := range befores {
		if changes := Diff(before, patch); len(changes) > 0 {
			out[id] = changes
		}
	}
	return out
}

func patchOrder(patch Snapshot) []string {
	fields := make([]string, 0, len(patch))
	known := make(map[string]bool, len(constants.StationFields))
	for _, f := range constants.StationFields {
		known[f] = true
		if _, ok := patch[f]; ok {
			fields = append(fields, f)
		}
	}
	var rest []string
	for f := range patch {
		if !known[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(fields, rest...)
}

// StationPatch is a partial station update. Nil fields are not part of the patch.
// BroadcastStatus pointing at StatusNone clears the status; JSON null does the same.
type StationPatch struct {
	MarketName      *string                    `json:"marketName,omitempty"`
	CallLetters     *string                    `json:"callLetters,omitempty"`
	Feed            *constants.Feed            `json:"feed,omitempty"`
	BroadcastStatus *constants.BroadcastStatus `json:"broadcastStatus,omitempty"`
	AirTimeLocal    *string                    `json:"airTimeLocal,omitempty"`
	AirTimeET       *string                    `json:"airTimeET,omitempty"`
	IsActive        *bool                      `json:"isActive,omitempty"`
}

// UnmarshalJSON keeps "broadcastStatus": null as an explicit clear rather than
// an absent field.
func (p *StationPatch) UnmarshalJSON(data []byte) error {
	type plain StationPatch
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw[constants.FieldBroadcastStatus]; ok && strings.TrimSpace(string(v)) == "null" {
		none := constants.StatusNone
		decoded.BroadcastStatus = &none
	}
	*p = StationPatch(decoded)
	return nil
}

// Empty reports whether the patch sets no field at all.
func (p StationPatch) Empty() bool {
	return len(p.Snapshot()) == 0
}

// Validate checks the patch against the station field rules.
func (p StationPatch) Validate() error {
	if p.MarketName != nil && strings.TrimSpace(*p.MarketName) == "" {
		return Validationf("marketName must not be empty")
	}
	if p.CallLetters != nil && strings.TrimSpace(*p.CallLetters) == "" {
		return Validationf("callLetters must not be empty")
	}
	if p.Feed != nil && !p.Feed.IsValid() {
		return Validationf("invalid feed %q", *p.Feed)
	}
	if p.BroadcastStatus != nil && !p.BroadcastStatus.IsValid() {
		return Validationf("invalid broadcastStatus %q", *p.BroadcastStatus)
	}
	return nil
}

// Snapshot stringifies the fields the patch sets.
func (p StationPatch) Snapshot() Snapshot {
	s := Snapshot{}
	if p.MarketName != nil {
		s[constants.FieldMarketName] = *p.MarketName
	}
	if p.CallLetters != nil {
		s[constants.FieldCallLetters] = *p.CallLetters
	}
	if p.Feed != nil {
		s[constants.FieldFeed] = string(*p.Feed)
	}
	if p.BroadcastStatus != nil {
		s[constants.FieldBroadcastStatus] = string(*p.BroadcastStatus)
	}
	if p.AirTimeLocal != nil {
		s[constants.FieldAirTimeLocal] = *p.AirTimeLocal
	}
	if p.AirTimeET != nil {
		s[constants.FieldAirTimeET] = *p.AirTimeET
	}
	if p.IsActive != nil {
		s[constants.FieldIsActive] = strconv.FormatBool(*p.IsActive)
	}
	return s
}

// PhonePatch is a partial phone update.
type PhonePatch struct {
	Label     *string `json:"label,omitempty"`
	Number    *string `json:"number,omitempty"`
	SortOrder *int    `json:"sortOrder,omitempty"`
}

func (p PhonePatch) Validate() error {
	if p.Label != nil && strings.TrimSpace(*p.Label) == "" {
		return Validationf("label must not be empty")
	}
	if p.SortOrder != nil && (*p.SortOrder < 1 || *p.SortOrder > constants.MaxPhonesPerStation) {
		return Validationf("sortOrder must be between 1 and %d", constants.MaxPhonesPerStation)
	}
	return nil
}

// PhoneDesc is what the phone audit entries describe.
type PhoneDesc struct {
	Label  string
	Number string
	Rank   int
}

func (d PhoneDesc) String() string {
	return fmt.Sprintf("%s: %s", d.Label, d.Number)
}

// PhoneAdded describes a phone appended to a station.
func PhoneAdded(p PhoneDesc) Change {
	return Change{
		Field:    constants.FieldPhones,
		OldValue: "",
		NewValue: fmt.Sprintf("Added: %s - %s", p.Label, p.Number),
	}
}

// PhoneRemoved describes a deleted phone.
func PhoneRemoved(p PhoneDesc) Change {
	return Change{Field: constants.FieldPhones, OldValue: p.String(), NewValue: "Deleted"}
}

// PhoneEdited describes a label/number/rank edit. ok is false when nothing changed.
func PhoneEdited(before, after PhoneDesc) (Change, bool) {
	var parts []string
	if before.Label != after.Label {
		parts = append(parts, fmt.Sprintf("label: %s → %s", before.Label, after.Label))
	}
	if before.Number != after.Number {
		parts = append(parts, fmt.Sprintf("number: %s → %s", before.Number, after.Number))
	}
	if before.Rank != after.Rank {
		parts = append(parts, fmt.Sprintf("sortOrder: %d → %d", before.Rank, after.Rank))
	}
	if len(parts) == 0 {
		return Change{}, false
	}
	return Change{
		Field:    constants.FieldPhones,
		OldValue: before.String(),
		NewValue: strings.Join(parts, ", "),
	}, true
}

// PrimaryChanged describes a make-primary promotion. oldPrimary may be nil.
func PrimaryChanged(oldPrimary *PhoneDesc, newPrimary PhoneDesc) Change {
	old := "No primary phone"
	if oldPrimary != nil {
		old = fmt.Sprintf("Primary: %s (sortOrder: %d)", oldPrimary.Label, oldPrimary.Rank)
	}
	return Change{
		Field:    constants.FieldPhones,
		OldValue: old,
		NewValue: fmt.Sprintf("Primary: %s (sortOrder: 1)", newPrimary.Label),
	}
}

// PhonesReplaced describes a wholesale replacement. ok is false when the new
// set is identical to the old one.
func PhonesReplaced(before, after []PhoneDesc) (Change, bool) {
	oldText := describePhones(before)
	newText := describePhones(after)
	if oldText == newText {
		return Change{}, false
	}
	return Change{Field: constants.FieldPhones, OldValue: oldText, NewValue: "Replaced: " + newText}, true
}

// StationCreated is the single entry written when a station first appears.
func StationCreated(source string) Change {
	return Change{Field: constants.FieldStation, OldValue: "", NewValue: "Created from " + source}
}

func describePhones(phones []PhoneDesc) string {
	sorted := make([]PhoneDesc, len(phones))
	copy(sorted, phones)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = fmt.Sprintf("%d. %s", p.Rank, p)
	}
	return strings.Join(parts, "; ")
}
