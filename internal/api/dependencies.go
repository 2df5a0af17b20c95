package api

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/metrics"
	"infinite-experiment/calllist/internal/providers"
	"infinite-experiment/calllist/internal/services"
)

type Services struct {
	Stations *services.StationService
	Phones   *services.PhoneService
	Imports  *services.ImportService
	Calls    *services.CallService
}

// Options carries the knobs InitDependencies needs from configuration.
type Options struct {
	Region         string
	LedgerTTL      time.Duration
	ImportMaxBytes int64
}

type Dependencies struct {
	Store    *services.Store
	Services *Services
	Cache    common.CacheInterface
	Metrics  *metrics.MetricsRegistry
	Read     *sqlx.DB
	Redis    *redis.Client
	Options  Options
}

// InitDependencies wires the store and services. redisClient may be nil when
// the in-memory cache is in use; clock may be nil for wall time.
func InitDependencies(orm *gorm.DB, read *sqlx.DB, cache common.CacheInterface, redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry, clock directory.Clock, opts Options) *Dependencies {

	if opts.Region == "" {
		opts.Region = constants.DefaultPhoneRegion
	}
	if opts.LedgerTTL <= 0 {
		opts.LedgerTTL = time.Minute
	}
	if opts.ImportMaxBytes <= 0 {
		opts.ImportMaxBytes = 10 << 20
	}
	store := services.NewStore(orm, read)
	calls := services.NewCallService(store, cache, opts.LedgerTTL, metricsReg, clock)

	return &Dependencies{
		Store: store,
		Services: &Services{
			Stations: services.NewStationService(store, calls, metricsReg, clock, opts.Region),
			Phones:   services.NewPhoneService(store, metricsReg, clock, opts.Region),
			Imports:  services.NewImportService(store, providers.NewCSVFeedProvider(), cache, metricsReg, clock, opts.Region),
			Calls:    calls,
		},
		Cache:   cache,
		Metrics: metricsReg,
		Read:    read,
		Redis:   redisClient,
		Options: opts,
	}
}
