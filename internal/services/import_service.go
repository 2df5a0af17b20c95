package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/metrics"
	gormModels "infinite-experiment/calllist/internal/models/gorm"
	"infinite-experiment/calllist/internal/providers"
)

// ImportSource names the origin recorded on stations the importer creates.
const ImportSource = "feed import"

// ImportResult aggregates one feed run. Errors is capped at
// constants.ImportErrorPreviewLimit; ErrorCount is the full tally.
type ImportResult struct {
	Created    int
	Updated    int
	Errors     []string
	ErrorCount int
}

func (r *ImportResult) addError(msg string) {
	r.ErrorCount++
	if len(r.Errors) < constants.ImportErrorPreviewLimit {
		r.Errors = append(r.Errors, msg)
	}
}

// ImportService merges station feeds into the directory.
type ImportService struct {
	store    *Store
	provider providers.FeedProvider
	cache    common.CacheInterface
	metrics  *metrics.MetricsRegistry
	clock    directory.Clock
	region   string
}

func NewImportService(store *Store, provider providers.FeedProvider, cache common.CacheInterface, m *metrics.MetricsRegistry, clock directory.Clock, region string) *ImportService {
	if clock == nil {
		clock = time.Now
	}
	return &ImportService{
		store:    store,
		provider: provider,
		cache:    cache,
		metrics:  m,
		clock:    clock,
		region:   region,
	}
}

// ImportCSV decodes a feed and reconciles every row. Rows the decoder could
// not read count as row errors.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader, editor string) (*ImportResult, error) {
	batch, err := s.provider.ReadFeed(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(batch.Rows) == 0 && len(batch.Errors) == 0 {
		return nil, directory.Validationf("%s", constants.MsgNoRows)
	}

	result, err := s.Reconcile(ctx, batch.Rows, editor)
	if err != nil {
		return nil, err
	}
	for _, rowErr := range batch.Errors {
		result.addError(fmt.Sprintf("Row %d: %v", rowErr.Line, rowErr.Err))
		s.metrics.ImportRow("error")
	}
	return result, nil
}

// Reconcile processes rows one at a time, each in its own transaction. A row
// that fails is recorded and skipped; it never aborts the run.
func (s *ImportService) Reconcile(ctx context.Context, rows []directory.FeedRow, editor string) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row = row.Trimmed()
		created, err := s.reconcileRow(ctx, row, editor)
		if err != nil {
			msg := fmt.Sprintf("%s (%s): %v", rowLabel(row, i), row.Station, err)
			result.addError(msg)
			s.metrics.ImportRow("error")
			logging.Warn("Import row rejected", "row", rowLabel(row, i), "station", row.Station, "error", err)
			continue
		}

		if created {
			result.Created++
			s.metrics.ImportRow("created")
		} else {
			result.Updated++
			s.metrics.ImportRow("updated")
		}
	}

	if s.cache != nil {
		// Phone numbers may have changed under the cached ledger view.
		s.cache.Delete(calledTodayKey(s.clock()))
	}

	duration := time.Since(start)
	s.metrics.ObserveImport(duration.Seconds())
	logging.Info("Feed import finished",
		"created", result.Created,
		"updated", result.Updated,
		"errors", result.ErrorCount,
		"duration_ms", duration.Milliseconds(),
	)
	return result, nil
}

func (s *ImportService) reconcileRow(ctx context.Context, row directory.FeedRow, editor string) (bool, error) {
	feed := directory.ParseFeed(row.Feed)
	marketNumber, err := directory.ParseMarketNumber(row.Rank)
	if err != nil {
		return false, err
	}

	candidates := row.Candidates(s.region)
	if len(candidates) == 0 {
		logging.Warn("No valid phones for station", "station", row.Station, "city", row.City, "raw", row.MainPhone)
	}

	now := s.clock()
	created := false

	err = s.store.Transaction(ctx, func(tx *Store) error {
		existing, err := tx.Stations.FindByNaturalKey(ctx, marketNumber, feed)
		if err != nil {
			return err
		}

		if existing == nil {
			created = true
			return s.createFromRow(ctx, tx, row, marketNumber, feed, candidates, editor, now)
		}

		changes := directory.Diff(existing.AuditSnapshot(), row.Snapshot())
		if err := tx.Stations.Update(ctx, existing.ID, map[string]interface{}{
			"market_name":      row.City,
			"call_letters":     row.Station,
			"broadcast_status": directory.ParseStatus(row.Status),
			"air_time_local":   row.AirTime,
			"air_time_et":      row.ETTime,
		}); err != nil {
			return err
		}

		before, after, err := replacePhones(ctx, tx, existing, candidates)
		if err != nil {
			return err
		}
		if change, ok := directory.PhonesReplaced(before, after); ok {
			changes = append(changes, change)
		}

		if err := tx.EditLogs.Append(ctx, existing.ID, editor, now, changes); err != nil {
			return err
		}
		for _, c := range changes {
			s.metrics.EditLogged(c.Field, 1)
		}
		return nil
	})
	return created, err
}

func (s *ImportService) createFromRow(ctx context.Context, tx *Store, row directory.FeedRow, marketNumber int, feed constants.Feed, candidates []directory.CandidatePhone, editor string, now time.Time) error {
	station := &gormModels.Station{
		MarketNumber:    marketNumber,
		MarketName:      row.City,
		CallLetters:     row.Station,
		Feed:            feed,
		BroadcastStatus: directory.ParseStatus(row.Status),
		AirTimeLocal:    row.AirTime,
		AirTimeET:       row.ETTime,
		IsActive:        true,
	}
	if err := tx.Stations.Create(ctx, station); err != nil {
		return err
	}
	if _, _, err := replacePhones(ctx, tx, station, candidates); err != nil {
		return err
	}

	change := directory.StationCreated(ImportSource)
	s.metrics.EditLogged(change.Field, 1)
	return tx.EditLogs.Append(ctx, station.ID, editor, now, []directory.Change{change})
}
