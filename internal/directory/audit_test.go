package directory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/calllist/internal/constants"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func before() Snapshot {
	return Snapshot{
		constants.FieldMarketName:      "NEW YORK",
		constants.FieldCallLetters:     "WCBS-TV",
		constants.FieldFeed:            "6pm",
		constants.FieldBroadcastStatus: "live",
		constants.FieldAirTimeLocal:    "5:00 PM",
		constants.FieldAirTimeET:       "5:00 PM",
		constants.FieldIsActive:        "true",
	}
}

func TestDiff_EmptyPatch(t *testing.T) {
	assert.Empty(t, Diff(before(), Snapshot{}))
	assert.Empty(t, Diff(before(), StationPatch{}.Snapshot()))
}

func TestDiff_PatchEqualToCurrentValues(t *testing.T) {
	patch := StationPatch{MarketName: strPtr("NEW YORK"), IsActive: boolPtr(true)}
	assert.Empty(t, Diff(before(), patch.Snapshot()))
}

func TestDiff_OnlyChangedPatchFields(t *testing.T) {
	none := constants.StatusNone
	patch := StationPatch{
		MarketName:      strPtr("NEW YORK"),
		CallLetters:     strPtr("WNBC"),
		BroadcastStatus: &none,
		IsActive:        boolPtr(false),
	}

	changes := Diff(before(), patch.Snapshot())
	assert.Equal(t, []Change{
		{Field: constants.FieldCallLetters, OldValue: "WCBS-TV", NewValue: "WNBC"},
		{Field: constants.FieldBroadcastStatus, OldValue: "live", NewValue: ""},
		{Field: constants.FieldIsActive, OldValue: "true", NewValue: "false"},
	}, changes)
}

func TestBulkDiff_FansOutPerEntity(t *testing.T) {
	other := before()
	other[constants.FieldAirTimeET] = "6:00 PM"

	patch := Snapshot{constants.FieldAirTimeET: "6:00 PM"}
	got := BulkDiff(map[string]Snapshot{"s1": before(), "s2": other}, patch)

	require.Len(t, got, 1)
	assert.Equal(t, []Change{{Field: constants.FieldAirTimeET, OldValue: "5:00 PM", NewValue: "6:00 PM"}}, got["s1"])
}

func TestStationPatch_JSONNullClearsStatus(t *testing.T) {
	var p StationPatch
	require.NoError(t, json.Unmarshal([]byte(`{"broadcastStatus": null, "airTimeET": "4:00 PM"}`), &p))
	require.NotNil(t, p.BroadcastStatus)
	assert.Equal(t, constants.StatusNone, *p.BroadcastStatus)
	assert.Equal(t, "4:00 PM", *p.AirTimeET)
	assert.Nil(t, p.MarketName)

	var absent StationPatch
	require.NoError(t, json.Unmarshal([]byte(`{"callLetters": "KABC"}`), &absent))
	assert.Nil(t, absent.BroadcastStatus)
	assert.Equal(t, Snapshot{constants.FieldCallLetters: "KABC"}, absent.Snapshot())
}

func TestStationPatch_Validate(t *testing.T) {
	bad := constants.Feed("7pm")
	assert.ErrorIs(t, StationPatch{Feed: &bad}.Validate(), ErrValidation)
	assert.ErrorIs(t, StationPatch{MarketName: strPtr("  ")}.Validate(), ErrValidation)
	status := constants.BroadcastStatus("maybe")
	assert.ErrorIs(t, StationPatch{BroadcastStatus: &status}.Validate(), ErrValidation)
	assert.NoError(t, StationPatch{CallLetters: strPtr("KTLA")}.Validate())
	assert.True(t, StationPatch{}.Empty())
}

func TestPhoneEntries(t *testing.T) {
	a := PhoneDesc{Label: "Desk", Number: "+12125551234", Rank: 2}

	assert.Equal(t, "Added: Desk - +12125551234", PhoneAdded(a).NewValue)
	assert.Equal(t, Change{Field: "phones", OldValue: "Desk: +12125551234", NewValue: "Deleted"}, PhoneRemoved(a))

	_, changed := PhoneEdited(a, a)
	assert.False(t, changed)

	b := a
	b.Label = "Control"
	edit, changed := PhoneEdited(a, b)
	require.True(t, changed)
	assert.Equal(t, "label: Desk → Control", edit.NewValue)

	promo := PrimaryChanged(&PhoneDesc{Label: "Main", Rank: 1}, a)
	assert.Equal(t, "Primary: Main (sortOrder: 1)", promo.OldValue)
	assert.Equal(t, "Primary: Desk (sortOrder: 1)", promo.NewValue)
	assert.Equal(t, "No primary phone", PrimaryChanged(nil, a).OldValue)
}

func TestPhonesReplaced(t *testing.T) {
	old := []PhoneDesc{{Label: "Ops", Number: "+15551234567", Rank: 1}}
	_, changed := PhonesReplaced(old, old)
	assert.False(t, changed)

	c, changed := PhonesReplaced(old, nil)
	require.True(t, changed)
	assert.Equal(t, "1. Ops: +15551234567", c.OldValue)
	assert.Equal(t, "Replaced: ", c.NewValue)
}
