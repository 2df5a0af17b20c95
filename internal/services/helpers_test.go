package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/metrics"
	gormModels "infinite-experiment/calllist/internal/models/gorm"
	"infinite-experiment/calllist/internal/providers"
	"infinite-experiment/calllist/internal/testutil"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type testEnv struct {
	store    *Store
	clock    *fakeClock
	cache    *common.CacheService
	metrics  *metrics.MetricsRegistry
	imports  *ImportService
	stations *StationService
	phones   *PhoneService
	calls    *CallService
	editor   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	orm, read := testutil.SetupTestDB(t)
	store := NewStore(orm, read)

	clock := &fakeClock{now: time.Date(2024, 3, 1, 15, 0, 0, 0, time.Local)}
	cache := common.NewCacheService(time.Minute, time.Minute)
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	editor := &gormModels.User{Name: "Pat", Role: constants.RoleAdmin}
	require.NoError(t, store.Users.Create(context.Background(), editor))

	calls := NewCallService(store, cache, time.Minute, m, clock.Now)
	return &testEnv{
		store:    store,
		clock:    clock,
		cache:    cache,
		metrics:  m,
		imports:  NewImportService(store, providers.NewCSVFeedProvider(), cache, m, clock.Now, constants.DefaultPhoneRegion),
		stations: NewStationService(store, calls, m, clock.Now, constants.DefaultPhoneRegion),
		phones:   NewPhoneService(store, m, clock.Now, constants.DefaultPhoneRegion),
		calls:    calls,
		editor:   editor.ID,
	}
}

// seedStation creates a station whose phones are labelled and ranked in order.
func (e *testEnv) seedStation(t *testing.T, market int, feed constants.Feed, labels ...string) *gormModels.Station {
	t.Helper()
	ctx := context.Background()
	station := &gormModels.Station{
		MarketNumber: market,
		MarketName:   "Metropolis",
		CallLetters:  "W" + labels0(labels),
		Feed:         feed,
		IsActive:     true,
	}
	require.NoError(t, e.store.Stations.Create(ctx, station))

	phones := make([]gormModels.PhoneNumber, len(labels))
	for i, label := range labels {
		phones[i] = gormModels.PhoneNumber{
			StationID: station.ID,
			Label:     label,
			Number:    fmt.Sprintf("+1555%03d%04d", market, i+1),
			SortOrder: i + 1,
		}
	}
	require.NoError(t, e.store.Phones.CreateMany(ctx, phones))
	station.Phones = phones
	return station
}

func labels0(labels []string) string {
	if len(labels) == 0 {
		return "NONE"
	}
	return labels[0]
}

func (e *testEnv) phoneRanks(t *testing.T, stationID string) map[string]int {
	t.Helper()
	phones, err := e.store.Phones.ListByStation(context.Background(), stationID)
	require.NoError(t, err)
	out := make(map[string]int, len(phones))
	for _, p := range phones {
		out[p.Label] = p.SortOrder
	}
	return out
}

func (e *testEnv) editLogs(t *testing.T, stationID string) []gormModels.EditLog {
	t.Helper()
	logs, err := e.store.EditLogs.ByStation(context.Background(), stationID)
	require.NoError(t, err)
	return logs
}

func (e *testEnv) phoneID(t *testing.T, station *gormModels.Station, label string) string {
	t.Helper()
	for _, p := range station.Phones {
		if p.Label == label {
			return p.ID
		}
	}
	t.Fatalf("no phone labelled %s", label)
	return ""
}

func assertContiguous(t *testing.T, e *testEnv, stationID string) {
	t.Helper()
	phones, err := e.store.Phones.ListByStation(context.Background(), stationID)
	require.NoError(t, err)
	require.True(t, directory.Contiguous(gormModels.RankedPhones(phones)), "ranks not contiguous: %+v", phones)
}
