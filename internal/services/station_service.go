package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/metrics"
	gormModels "infinite-experiment/calllist/internal/models/gorm"
	"infinite-experiment/calllist/internal/models/dtos"
	"infinite-experiment/calllist/internal/phone"
)

// ManualSource names the origin recorded on stations an admin creates by hand.
const ManualSource = "manual entry"

// Station list orderings.
const (
	SortByMarket    = "market"
	SortByAirTime   = "airtime"
	SortByETAirTime = "et"
)

// LedgerReader supplies the "called today" lookup for listings.
type LedgerReader interface {
	CalledToday(ctx context.Context) (directory.CallLookup, error)
}

type ListOptions struct {
	Feed constants.Feed
	Sort string
}

// StationService serves listing and station-level edits.
type StationService struct {
	store    *Store
	ledger   LedgerReader
	metrics  *metrics.MetricsRegistry
	clock    directory.Clock
	region   string
	validate *validator.Validate
}

func NewStationService(store *Store, ledger LedgerReader, m *metrics.MetricsRegistry, clock directory.Clock, region string) *StationService {
	if clock == nil {
		clock = time.Now
	}
	return &StationService{
		store:    store,
		ledger:   ledger,
		metrics:  m,
		clock:    clock,
		region:   region,
		validate: validator.New(),
	}
}

// List returns active stations with their phones and "called today" state.
func (s *StationService) List(ctx context.Context, opts ListOptions) ([]dtos.StationView, error) {
	if opts.Feed != "" && !opts.Feed.IsValid() {
		return nil, directory.Validationf("invalid feed %q", opts.Feed)
	}

	var (
		stations []gormModels.Station
		lookup   directory.CallLookup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stations, err = s.store.Stations.ListActive(gctx, opts.Feed)
		return err
	})
	g.Go(func() error {
		var err error
		lookup, err = s.ledger.CalledToday(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]dtos.StationView, len(stations))
	for i := range stations {
		views[i] = stationView(&stations[i], lookup)
	}

	switch opts.Sort {
	case "", SortByMarket:
	case SortByAirTime, SortByETAirTime:
		views = sortByAirTime(views, opts.Sort == SortByETAirTime)
	default:
		return nil, directory.Validationf("invalid sort %q", opts.Sort)
	}
	return views, nil
}

func sortByAirTime(views []dtos.StationView, useET bool) []dtos.StationView {
	keys := make([]directory.SortKey, len(views))
	for i, v := range views {
		airTime := v.AirTimeLocal
		if useET {
			airTime = v.AirTimeET
		}
		keys[i] = directory.SortKey{MarketNumber: v.MarketNumber, AirTime: airTime}
	}
	sorted := make([]dtos.StationView, len(views))
	for i, idx := range directory.SortByAirTime(keys) {
		sorted[i] = views[idx]
	}
	return sorted
}

// Get returns one station, active or not.
func (s *StationService) Get(ctx context.Context, id string) (*dtos.StationView, error) {
	station, err := s.store.Stations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, directory.ErrStationNotFound
	}

	lookup, err := s.ledger.CalledToday(ctx)
	if err != nil {
		return nil, err
	}
	view := stationView(station, lookup)
	return &view, nil
}

// Create adds a station by hand. Phones keep their requested order; a zero
// sortOrder goes after the ranked ones. Ranks are then made contiguous.
func (s *StationService) Create(ctx context.Context, req dtos.StationCreateRequest, editor string) (*dtos.StationView, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, directory.Validationf("%v", err)
	}

	inputs := make([]dtos.PhoneInput, len(req.Phones))
	copy(inputs, req.Phones)
	sort.SliceStable(inputs, func(i, j int) bool {
		a, b := inputs[i].SortOrder, inputs[j].SortOrder
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})

	candidates := make([]directory.CandidatePhone, len(inputs))
	for i, in := range inputs {
		label := strings.TrimSpace(in.Label)
		if label == "" {
			return nil, directory.Validationf("label must not be empty")
		}
		number, err := phone.Normalize(in.Number, s.region)
		if err != nil {
			return nil, directory.Validationf("phone %q: %v", in.Number, err)
		}
		candidates[i] = directory.CandidatePhone{Label: label, Number: number}
	}

	station := &gormModels.Station{
		MarketNumber:    req.MarketNumber,
		MarketName:      strings.TrimSpace(req.MarketName),
		CallLetters:     strings.TrimSpace(req.CallLetters),
		Feed:            req.Feed,
		BroadcastStatus: req.BroadcastStatus,
		AirTimeLocal:    strings.TrimSpace(req.AirTimeLocal),
		AirTimeET:       strings.TrimSpace(req.AirTimeET),
		IsActive:        true,
	}

	now := s.clock()
	err := s.store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Stations.Create(ctx, station); err != nil {
			return err
		}
		if _, _, err := replacePhones(ctx, tx, station, candidates); err != nil {
			return err
		}
		return tx.EditLogs.Append(ctx, station.ID, editor, now, []directory.Change{directory.StationCreated(ManualSource)})
	})
	if err != nil {
		if errors.Is(err, directory.ErrConflict) {
			return nil, fmt.Errorf("%w: station %d already exists in the %s feed", directory.ErrConflict, req.MarketNumber, req.Feed)
		}
		return nil, err
	}

	s.metrics.EditLogged(constants.FieldStation, 1)
	logging.Info("Station created", "station_id", station.ID, "market", station.MarketNumber, "feed", station.Feed)
	view := stationView(station, nil)
	return &view, nil
}

// Update applies a partial patch. Only fields whose value actually changes
// are audited; an empty patch writes nothing.
func (s *StationService) Update(ctx context.Context, id string, patch directory.StationPatch, editor string) (*dtos.StationView, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	now := s.clock()
	var changes []directory.Change
	err := s.store.Transaction(ctx, func(tx *Store) error {
		current, err := tx.Stations.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return directory.ErrStationNotFound
		}

		changes = directory.Diff(current.AuditSnapshot(), patch.Snapshot())
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Stations.Update(ctx, id, stationColumns(patch)); err != nil {
			return err
		}
		return tx.EditLogs.Append(ctx, id, editor, now, changes)
	})
	if err != nil {
		return nil, err
	}

	for _, c := range changes {
		s.metrics.EditLogged(c.Field, 1)
	}
	if len(changes) > 0 {
		logging.Info("Station updated", "station_id", id, "fields", len(changes))
	}
	return s.Get(ctx, id)
}

// BulkResult reports how many stations a bulk edit touched and how many audit
// rows it wrote.
type BulkResult struct {
	Updated int
	Logged  int
}

// BulkUpdate applies one patch to many stations in a single transaction. Each
// station is diffed against its own current values.
func (s *StationService) BulkUpdate(ctx context.Context, ids []string, patch directory.StationPatch, editor string) (*BulkResult, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, directory.Validationf("%s", constants.MsgNoStationsSelected)
	}
	if patch.Empty() {
		return nil, directory.Validationf("no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	now := s.clock()
	result := &BulkResult{}
	fieldCounts := map[string]int{}

	err := s.store.Transaction(ctx, func(tx *Store) error {
		stations, err := tx.Stations.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(stations) != len(ids) {
			return fmt.Errorf("%w: %d of %d stations not found", directory.ErrNotFound, len(ids)-len(stations), len(ids))
		}

		befores := make(map[string]directory.Snapshot, len(stations))
		for i := range stations {
			befores[stations[i].ID] = stations[i].AuditSnapshot()
		}

		n, err := tx.Stations.UpdateMany(ctx, ids, stationColumns(patch))
		if err != nil {
			return err
		}
		result.Updated = int(n)

		for id, changes := range directory.BulkDiff(befores, patch.Snapshot()) {
			if err := tx.EditLogs.Append(ctx, id, editor, now, changes); err != nil {
				return err
			}
			result.Logged += len(changes)
			for _, c := range changes {
				fieldCounts[c.Field]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for field, n := range fieldCounts {
		s.metrics.EditLogged(field, n)
	}
	logging.Info("Bulk station update", "stations", len(ids), "logged", result.Logged)
	return result, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func stationView(st *gormModels.Station, lookup directory.CallLookup) dtos.StationView {
	phones := make([]dtos.PhoneView, len(st.Phones))
	for i, p := range st.Phones {
		phones[i] = dtos.PhoneView{
			ID:        p.ID,
			Label:     p.Label,
			Number:    p.Number,
			Display:   phone.Display(p.Number),
			Dial:      phone.DialString(p.Number),
			SortOrder: p.SortOrder,
		}
	}
	ann := directory.Annotate(st.PhoneNumbers(), lookup)
	return dtos.StationView{
		ID:              st.ID,
		MarketNumber:    st.MarketNumber,
		MarketName:      st.MarketName,
		CallLetters:     st.CallLetters,
		Feed:            st.Feed,
		BroadcastStatus: st.BroadcastStatus,
		AirTimeLocal:    st.AirTimeLocal,
		AirTimeET:       st.AirTimeET,
		AirTimeLabel:    directory.BroadcastTimeLabel(st.AirTimeLocal, st.AirTimeET),
		IsActive:        st.IsActive,
		Phones:          phones,
		CalledToday:     ann.CalledToday,
		CalledAt:        ann.CalledAt,
	}
}
