package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/gridironsim/capengine/external/capfeed"
	"github.com/gridironsim/capengine/internal/config"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/infrastructure/repository/cached"
	"github.com/gridironsim/capengine/internal/infrastructure/repository/memory"
	"github.com/gridironsim/capengine/internal/infrastructure/repository/postgres"
	"github.com/gridironsim/capengine/internal/interfaces/httpapi"
	"github.com/gridironsim/capengine/internal/platform/cache"
	idgen "github.com/gridironsim/capengine/internal/platform/id"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/resilience"
	"github.com/gridironsim/capengine/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := newLedgerStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	ids := idgen.NewRandomGenerator()

	tagCfg := usecase.DefaultTagConfig()
	tagCfg.SnapshotTiming = cfg.TagSnapshotTiming

	contractSvc := usecase.NewContractService(store, ids, logger)
	tagSvc := usecase.NewTagService(store, ids, tagCfg, logger)
	complianceSvc := usecase.NewComplianceService(store, logger)
	reportingSvc := usecase.NewReportingService(store, complianceSvc, logger)

	var feed usecase.FeedPublisher
	if cfg.CapFeedEnabled {
		feed = capfeed.NewPublisher(capfeed.Config{
			BaseURL: cfg.CapFeedBaseURL,
			Token:   cfg.CapFeedToken,
			Timeout: cfg.CapFeedTimeout,
			Breaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.CapFeedCircuitEnabled,
				FailureThreshold: cfg.CapFeedCircuitFailureCount,
				OpenTimeout:      cfg.CapFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.CapFeedCircuitHalfOpenMax,
			},
		}, logger)
	}

	bridgeSvc := usecase.NewBridgeService(contractSvc, tagSvc, complianceSvc, feed, logger)

	handler := httpapi.NewHandler(bridgeSvc, contractSvc, tagSvc, complianceSvc, reportingSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalAPIToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// newLedgerStore selects the ledger backend. Without DB_URL the engine runs
// entirely on the seeded in-memory ledger, which is the mode local frontends
// and the test suite use.
func newLedgerStore(cfg config.Config, logger *logging.Logger) (ledger.Store, error) {
	var store ledger.Store
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("ledger store selected", "backend", "memory")
		store = memory.NewLedger(memory.DefaultSeed())
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("ledger store selected", "backend", "postgres", "database", dbNameFromURL(cfg.DBURL))
		store = postgres.NewLedger(db)
	}

	if cfg.CacheEnabled {
		logger.Info("ledger cache enabled", "ttl", cfg.CacheTTL.String())
		store = cached.NewLedger(store, cache.NewStore(cfg.CacheTTL))
	}

	return store, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
