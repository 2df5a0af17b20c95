package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/db/repositories"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/metrics"
	gormModels "infinite-experiment/calllist/internal/models/gorm"
	"infinite-experiment/calllist/internal/models/dtos"
)

func calledTodayKey(now time.Time) string {
	return string(constants.CachePrefixCalledToday) + directory.StartOfDay(now).Format("2006-01-02")
}

// CallService records call actions and answers "called today".
type CallService struct {
	store    *Store
	cache    common.CacheInterface
	cacheTTL time.Duration
	metrics  *metrics.MetricsRegistry
	clock    directory.Clock
}

func NewCallService(store *Store, cache common.CacheInterface, cacheTTL time.Duration, m *metrics.MetricsRegistry, clock directory.Clock) *CallService {
	if clock == nil {
		clock = time.Now
	}
	return &CallService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  m,
		clock:    clock,
	}
}

// LogCall writes the permanent call log and refreshes the ledger entry for the
// phone's canonical number. The phone must belong to the station.
func (s *CallService) LogCall(ctx context.Context, stationID, phoneID, caller string) (*gormModels.CallLog, error) {
	now := s.clock()
	var entry *gormModels.CallLog

	err := s.store.Transaction(ctx, func(tx *Store) error {
		phone, err := tx.Phones.FindInStation(ctx, stationID, phoneID)
		if err != nil {
			return err
		}
		if phone == nil {
			return directory.ErrPhoneNotInStation
		}

		entry = &gormModels.CallLog{
			StationID:   stationID,
			PhoneID:     phone.ID,
			PhoneNumber: phone.Number,
			CalledBy:    caller,
			CreatedAt:   now,
		}
		if err := tx.CallLogs.Create(ctx, entry); err != nil {
			return err
		}
		return tx.RecentCalls.Upsert(ctx, phone.Number, now)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(now)
	s.metrics.CallLogged()
	logging.Info("Call logged", "station_id", stationID, "phone_id", phoneID, "caller", caller)
	return entry, nil
}

// CalledToday returns the lookup of numbers called since local midnight.
func (s *CallService) CalledToday(ctx context.Context) (directory.CallLookup, error) {
	now := s.clock()
	key := calledTodayKey(now)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if lookup, ok := decodeLookup(cached); ok {
				s.metrics.CacheLookup(string(constants.CachePrefixCalledToday), true)
				return lookup, nil
			}
		}
		s.metrics.CacheLookup(string(constants.CachePrefixCalledToday), false)
	}

	since := directory.StartOfDay(now)
	calls, err := s.store.RecentCalls.Since(ctx, since)
	if err != nil {
		return nil, err
	}
	lookup := directory.BuildLookup(calls, since)

	if s.cache != nil {
		s.cache.Set(key, map[string]time.Time(lookup), s.cacheTTL)
	}
	return lookup, nil
}

// decodeLookup accepts both the in-process form and the JSON-decoded form a
// Redis cache hands back.
func decodeLookup(v interface{}) (directory.CallLookup, bool) {
	switch m := v.(type) {
	case map[string]time.Time:
		return directory.CallLookup(m), true
	case directory.CallLookup:
		return m, true
	case map[string]interface{}:
		lookup := make(directory.CallLookup, len(m))
		for number, raw := range m {
			s, ok := raw.(string)
			if !ok {
				return nil, false
			}
			at, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, false
			}
			lookup[number] = at
		}
		return lookup, true
	}
	return nil, false
}

// Reset clears the whole ledger. Call logs are untouched, and an empty ledger
// is not an error.
func (s *CallService) Reset(ctx context.Context) (int64, error) {
	n, err := s.store.RecentCalls.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.invalidate(s.clock())
	s.metrics.LedgerCleared("reset", n)
	logging.Info("Call ledger reset", "cleared", n)
	return n, nil
}

// PruneBefore drops ledger rows older than cutoff.
func (s *CallService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.store.RecentCalls.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.metrics.LedgerCleared("prune", n)
	logging.Info("Call ledger pruned", "cleared", n, "cutoff", cutoff)
	return n, nil
}

func (s *CallService) invalidate(now time.Time) {
	if s.cache != nil {
		s.cache.Delete(calledTodayKey(now))
	}
}

// PageRequest is a 1-based page and a limit; zero values take the defaults.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalize() (limit, offset, page int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	limit = p.Limit
	if limit < 1 {
		limit = constants.DefaultPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}
	return limit, (page - 1) * limit, page
}

// ListCallLogs pages call logs newest first. An empty caller lists everyone's.
func (s *CallService) ListCallLogs(ctx context.Context, caller string, req PageRequest) (*dtos.Page[repositories.CallLogRow], error) {
	limit, offset, page := req.normalize()

	var (
		rows  []repositories.CallLogRow
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.CallLogs.Page(gctx, caller, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.CallLogs.Count(gctx, caller)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dtos.Page[repositories.CallLogRow]{Items: rows, Total: total, Page: page, Limit: limit}, nil
}

// ListEditLogs pages audit entries newest first, optionally for one station.
func (s *CallService) ListEditLogs(ctx context.Context, stationID string, req PageRequest) (*dtos.Page[repositories.EditLogRow], error) {
	limit, offset, page := req.normalize()

	var (
		rows  []repositories.EditLogRow
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.EditLogs.Page(gctx, stationID, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.EditLogs.Count(gctx, stationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dtos.Page[repositories.EditLogRow]{Items: rows, Total: total, Page: page, Limit: limit}, nil
}
