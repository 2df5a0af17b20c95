package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/dtos"
)

func TestPhoneService_AddAppendsAndCaps(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	s := e.seedStation(t, 1, constants.Feed3PM, "A", "B")

	p, err := e.phones.Add(ctx, s.ID, dtos.PhoneInput{Label: "C", Number: "(312) 555-0100"}, e.editor)
	require.NoError(t, err)
	assert.Equal(t, 3, p.SortOrder)
	assert.Equal(t, "+13125550100", p.Number)

	_, err = e.phones.Add(ctx, s.ID, dtos.PhoneInput{Label: "D", Number: "312-555-0101"}, e.editor)
	require.NoError(t, err)

	_, err = e.phones.Add(ctx, s.ID, dtos.PhoneInput{Label: "E", Number: "312-555-0102"}, e.editor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, directory.ErrInvariantViolation))
	assert.Len(t, e.phoneRanks(t, s.ID), 4)

	logs := e.editLogs(t, s.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, "Added: C - +13125550100", logs[0].NewValue)
}

func TestPhoneService_AddAtRankShifts(t *testing.T) {
	e := newTestEnv(t)
	s := e.seedStation(t, 1, constants.Feed3PM, "A", "B")

	_, err := e.phones.Add(context.Background(), s.ID, dtos.PhoneInput{Label: "N", Number: "312-555-0100", SortOrder: 1}, e.editor)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"N": 1, "A": 2, "B": 3}, e.phoneRanks(t, s.ID))
}

func TestPhoneService_AddRejectsBadInput(t *testing.T) {
	e := newTestEnv(t)
	s := e.seedStation(t, 1, constants.Feed3PM, "A")

	_, err := e.phones.Add(context.Background(), s.ID, dtos.PhoneInput{Label: "N", Number: "555-12"}, e.editor)
	assert.True(t, errors.Is(err, directory.ErrValidation))

	_, err = e.phones.Add(context.Background(), "missing", dtos.PhoneInput{Label: "N", Number: "312-555-0100"}, e.editor)
	assert.True(t, errors.Is(err, directory.ErrNotFound))
}

func TestPhoneService_DeleteLastPhoneRejected(t *testing.T) {
	e := newTestEnv(t)
	s := e.seedStation(t, 1, constants.Feed3PM, "A")

	err := e.phones.Delete(context.Background(), s.ID, e.phoneID(t, s, "A"), e.editor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, directory.ErrInvariantViolation))
	assert.Equal(t, map[string]int{"A": 1}, e.phoneRanks(t, s.ID))
	assert.Empty(t, e.editLogs(t, s.ID))
}

func TestPhoneService_DeleteCompacts(t *testing.T) {
	e := newTestEnv(t)
	s := e.seedStation(t, 1, constants.Feed3PM, "A", "B", "C")

	require.NoError(t, e.phones.Delete(context.Background(), s.ID, e.phoneID(t, s, "B"), e.editor))
	assert.Equal(t, map[string]int{"A": 1, "C": 2}, e.phoneRanks(t, s.ID))

	logs := e.editLogs(t, s.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "B: +15550010002", logs[0].OldValue)
	assert.Equal(t, "Deleted", logs[0].NewValue)
}

func TestPhoneService_DeleteForeignPhone(t *testing.T) {
	e := newTestEnv(t)
	s1 := e.seedStation(t, 1, constants.Feed3PM, "A", "B")
	s2 := e.seedStation(t, 2, constants.Feed3PM, "X", "Y")

	err := e.phones.Delete(context.Background(), s1.ID, e.phoneID(t, s2, "X"), e.editor)
	assert.True(t, errors.Is(err, directory.ErrNotFound))
	assert.Len(t, e.phoneRanks(t, s2.ID), 2)
}

func TestPhoneService_MakePrimaryScenario(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	s := e.seedStation(t, 1, constants.Feed3PM, "A", "B", "C")
	c := e.phoneID(t, s, "C")

	_, err := e.phones.MakePrimary(ctx, s.ID, c, e.editor)
	require.NoError(t, err)
	want := map[string]int{"C": 1, "A": 2, "B": 3}
	if diff := cmp.Diff(want, e.phoneRanks(t, s.ID)); diff != "" {
		t.Fatalf("ranks mismatch (-want +got):\n%s", diff)
	}

	logs := e.editLogs(t, s.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "Primary: A (sortOrder: 1)", logs[0].OldValue)
	assert.Equal(t, "Primary: C (sortOrder: 1)", logs[0].NewValue)

	// Second call is a no-op.
	phones, err := e.phones.MakePrimary(ctx, s.ID, c, e.editor)
	require.NoError(t, err)
	require.Len(t, phones, 3)
	assert.Equal(t, c, phones[0].ID)
	if diff := cmp.Diff(want, e.phoneRanks(t, s.ID)); diff != "" {
		t.Fatalf("second promotion changed ranks (-want +got):\n%s", diff)
	}
	assert.Len(t, e.editLogs(t, s.ID), 1)
}

func TestPhoneService_UpdateMovesRank(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	s := e.seedStation(t, 1, constants.Feed3PM, "A", "B", "C", "D")

	label := "Alpha"
	rank := 3
	p, err := e.phones.Update(ctx, s.ID, e.phoneID(t, s, "A"), directory.PhonePatch{Label: &label, SortOrder: &rank}, e.editor)
	require.NoError(t, err)
	assert.Equal(t, 3, p.SortOrder)
	assert.Equal(t, map[string]int{"B": 1, "C": 2, "Alpha": 3, "D": 4}, e.phoneRanks(t, s.ID))

	logs := e.editLogs(t, s.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "label: A → Alpha, sortOrder: 1 → 3", logs[0].NewValue)

	// Same values again: nothing logged.
	_, err = e.phones.Update(ctx, s.ID, p.ID, directory.PhonePatch{Label: &label, SortOrder: &rank}, e.editor)
	require.NoError(t, err)
	assert.Len(t, e.editLogs(t, s.ID), 1)
}

func TestPhoneService_UpdateNormalizesNumber(t *testing.T) {
	e := newTestEnv(t)
	s := e.seedStation(t, 1, constants.Feed3PM, "A")

	raw := "1 (312) 555-0199"
	p, err := e.phones.Update(context.Background(), s.ID, e.phoneID(t, s, "A"), directory.PhonePatch{Number: &raw}, e.editor)
	require.NoError(t, err)
	assert.Equal(t, "+13125550199", p.Number)

	bad := "12345"
	_, err = e.phones.Update(context.Background(), s.ID, p.ID, directory.PhonePatch{Number: &bad}, e.editor)
	assert.True(t, errors.Is(err, directory.ErrValidation))
}

// Random sequences of operations must always leave ranks contiguous.
func TestPhoneService_RandomOperationsKeepRanksContiguous(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	s := e.seedStation(t, 1, constants.Feed3PM, "A", "B")
	rng := rand.New(rand.NewSource(7))
	numbers := []string{"312-555-0100", "312-555-0101", "312-555-0102", "312-555-0103"}

	for i := 0; i < 60; i++ {
		phones, err := e.store.Phones.ListByStation(ctx, s.ID)
		require.NoError(t, err)
		pick := phones[rng.Intn(len(phones))].ID

		switch rng.Intn(4) {
		case 0:
			_, err = e.phones.Add(ctx, s.ID, dtos.PhoneInput{
				Label:     "P",
				Number:    numbers[rng.Intn(len(numbers))],
				SortOrder: rng.Intn(5),
			}, e.editor)
			if len(phones) == constants.MaxPhonesPerStation {
				require.True(t, errors.Is(err, directory.ErrTooManyPhones))
				err = nil
			}
		case 1:
			err = e.phones.Delete(ctx, s.ID, pick, e.editor)
			if len(phones) == 1 {
				require.True(t, errors.Is(err, directory.ErrLastPhone))
				err = nil
			}
		case 2:
			_, err = e.phones.MakePrimary(ctx, s.ID, pick, e.editor)
		case 3:
			rank := 1 + rng.Intn(constants.MaxPhonesPerStation)
			_, err = e.phones.Update(ctx, s.ID, pick, directory.PhonePatch{SortOrder: &rank}, e.editor)
		}
		require.NoError(t, err, "step %d", i)
		assertContiguous(t, e, s.ID)
	}
}
