package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/gorm"
	"infinite-experiment/calllist/internal/testutil"
)

func seedStation(t *testing.T, repo *StationRepo, market int, feed constants.Feed) *gorm.Station {
	t.Helper()
	s := &gorm.Station{MarketNumber: market, MarketName: "Metropolis", CallLetters: "WXYZ", Feed: feed, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestStationRepo_NaturalKeyIsUnique(t *testing.T) {
	orm, _ := testutil.SetupTestDB(t)
	repo := NewStationRepo(orm)
	ctx := context.Background()

	seedStation(t, repo, 5, constants.Feed3PM)
	seedStation(t, repo, 5, constants.Feed5PM)

	err := repo.Create(ctx, &gorm.Station{MarketNumber: 5, MarketName: "Dup", CallLetters: "DUPE", Feed: constants.Feed3PM})
	require.Error(t, err)
	assert.True(t, errors.Is(err, directory.ErrConflict))

	found, err := repo.FindByNaturalKey(ctx, 5, constants.Feed3PM)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "WXYZ", found.CallLetters)

	missing, err := repo.FindByNaturalKey(ctx, 6, constants.Feed3PM)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStationRepo_UpdateUnknown(t *testing.T) {
	orm, _ := testutil.SetupTestDB(t)
	repo := NewStationRepo(orm)

	err := repo.Update(context.Background(), "nope", map[string]interface{}{"market_name": "X"})
	assert.True(t, errors.Is(err, directory.ErrNotFound))
	assert.True(t, errors.Is(repo.Touch(context.Background(), "nope", time.Now()), directory.ErrNotFound))
}

func TestPhoneRepo_OrderAndRanks(t *testing.T) {
	orm, _ := testutil.SetupTestDB(t)
	stations := NewStationRepo(orm)
	phones := NewPhoneRepo(orm)
	ctx := context.Background()

	s := seedStation(t, stations, 1, constants.Feed6PM)
	require.NoError(t, phones.CreateMany(ctx, []gorm.PhoneNumber{
		{StationID: s.ID, Label: "B", Number: "+15551230002", SortOrder: 2},
		{StationID: s.ID, Label: "A", Number: "+15551230001", SortOrder: 1},
	}))

	list, err := phones.ListByStation(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Label)

	require.NoError(t, phones.ApplyRanks(ctx, []directory.RankChange{
		{ID: list[0].ID, From: 1, To: 2},
		{ID: list[1].ID, From: 2, To: 1},
	}))
	list, err = phones.ListByStation(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", list[0].Label)

	other, err := phones.FindInStation(ctx, "other-station", list[0].ID)
	require.NoError(t, err)
	assert.Nil(t, other)

	n, err := phones.DeleteByStation(ctx, s.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestRecentCallRepo_UpsertAndClear(t *testing.T) {
	orm, _ := testutil.SetupTestDB(t)
	repo := NewRecentCallRepo(orm)
	ctx := context.Background()

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err, "clearing an empty ledger must succeed")
	assert.EqualValues(t, 0, n)

	morning := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, "+15551234567", morning))
	require.NoError(t, repo.Upsert(ctx, "+15551234567", morning.Add(time.Hour)))
	require.NoError(t, repo.Upsert(ctx, "+15559876543", morning.Add(-24*time.Hour)))

	calls, err := repo.Since(ctx, morning.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, calls[0].CalledAt.Equal(morning.Add(time.Hour)))

	pruned, err := repo.DeleteBefore(ctx, morning)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRecentCallRepo_CutoffIgnoresWriterZone(t *testing.T) {
	orm, _ := testutil.SetupTestDB(t)
	repo := NewRecentCallRepo(orm)
	ctx := context.Background()

	eastern := time.FixedZone("EST", -5*60*60)
	pacific := time.FixedZone("PST", -8*60*60)

	// 23:30 EST on Feb 29 is 04:30 UTC on Mar 1.
	lateEvening := time.Date(2024, 2, 29, 23, 30, 0, 0, eastern)
	require.NoError(t, repo.Upsert(ctx, "+15551234567", lateEvening))
	// 17:00 PST on Feb 29 is 01:00 UTC on Mar 1.
	earlier := time.Date(2024, 2, 29, 17, 0, 0, 0, pacific)
	require.NoError(t, repo.Upsert(ctx, "+15559876543", earlier))

	cutoff := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	calls, err := repo.Since(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "+15551234567", calls[0].Number)
	assert.True(t, calls[0].CalledAt.Equal(lateEvening))
	assert.Equal(t, time.UTC, calls[0].CalledAt.Location())

	pruned, err := repo.DeleteBefore(ctx, cutoff.In(eastern))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)
}

func TestEditLogRepo_PageAndCount(t *testing.T) {
	orm, read := testutil.SetupTestDB(t)
	stations := NewStationRepo(orm)
	users := NewUserRepo(orm)
	logs := NewEditLogRepo(orm, read)
	ctx := context.Background()

	editor := &gorm.User{Name: "Pat", Role: constants.RoleAdmin}
	require.NoError(t, users.Create(ctx, editor))
	s1 := seedStation(t, stations, 1, constants.Feed3PM)
	s2 := seedStation(t, stations, 2, constants.Feed3PM)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, logs.Append(ctx, s1.ID, editor.ID, base, []directory.Change{
		{Field: constants.FieldMarketName, OldValue: "A", NewValue: "B"},
		{Field: constants.FieldCallLetters, OldValue: "C", NewValue: "D"},
	}))
	require.NoError(t, logs.Append(ctx, s2.ID, editor.ID, base.Add(time.Minute), []directory.Change{
		{Field: constants.FieldIsActive, OldValue: "true", NewValue: "false"},
	}))
	require.NoError(t, logs.Append(ctx, s2.ID, editor.ID, base, nil))

	total, err := logs.Count(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	page, err := logs.Page(ctx, "", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, constants.FieldIsActive, page[0].Field)
	assert.Equal(t, "Pat", page[0].EditorName)
	assert.Equal(t, "WXYZ", page[0].CallLetters)

	own, err := logs.Count(ctx, s1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, own)
}

func TestCallLogRepo_FilterByCaller(t *testing.T) {
	orm, read := testutil.SetupTestDB(t)
	repo := NewCallLogRepo(orm, read)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, caller := range []string{"u1", "u1", "u2"} {
		require.NoError(t, repo.Create(ctx, &gorm.CallLog{
			StationID: "s", PhoneID: "p", PhoneNumber: "+15551234567", CalledBy: caller, CreatedAt: at,
		}))
	}

	total, err := repo.Count(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	rows, err := repo.Page(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "", rows[0].CallLetters, "orphaned call logs still list")
}
