package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/kickpredict/api/internal/config"
	"github.com/kickpredict/api/internal/domain/leaderboard"
	"github.com/kickpredict/api/internal/domain/league"
	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/prediction"
	"github.com/kickpredict/api/internal/domain/user"
	"github.com/kickpredict/api/internal/infrastructure/account/jwtauth"
	"github.com/kickpredict/api/internal/infrastructure/feed/footballdata"
	"github.com/kickpredict/api/internal/infrastructure/repository/memory"
	"github.com/kickpredict/api/internal/infrastructure/repository/postgres"
	"github.com/kickpredict/api/internal/interfaces/httpapi"
	"github.com/kickpredict/api/internal/platform/cache"
	idgen "github.com/kickpredict/api/internal/platform/id"
	"github.com/kickpredict/api/internal/platform/logging"
	"github.com/kickpredict/api/internal/platform/resilience"
	"github.com/kickpredict/api/internal/usecase"
)

type repositories struct {
	match      match.Repository
	prediction prediction.Repository
	league     league.Repository
	user       user.Repository
	snapshot   leaderboard.SnapshotRepository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, closeDB, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	var feed usecase.FeedClient
	if cfg.FeedEnabled {
		feed = footballdata.NewClient(footballdata.ClientConfig{
			BaseURL:     cfg.FeedBaseURL,
			Token:       cfg.FeedToken,
			Competition: cfg.FeedCompetition,
			Timeout:     cfg.FeedTimeout,
			MaxRetries:  cfg.FeedMaxRetries,
			Logger:      logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FeedCircuitEnabled,
				FailureThreshold: cfg.FeedCircuitFailureCount,
				OpenTimeout:      cfg.FeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
			},
		})
	}

	generator := idgen.NewRandomGenerator()

	settlementSvc := usecase.NewSettlementService(repos.match, repos.prediction, store, logger, cfg.SettleWorkers)
	matchSvc := usecase.NewMatchService(repos.match, feed, settlementSvc, store, logger, nil)
	predictionSvc := usecase.NewPredictionService(repos.prediction, repos.match, repos.user, generator, nil)
	standingsSvc := usecase.NewStandingsService(repos.match, store)
	leaderboardSvc := usecase.NewLeaderboardService(repos.prediction, repos.match, repos.league, repos.user, repos.snapshot, store, nil)
	leagueSvc := usecase.NewLeagueService(repos.league, repos.user, generator, nil)

	verifier := jwtauth.NewVerifier(cfg.JWTSecret, nil)

	handler := httpapi.NewHandler(matchSvc, predictionSvc, standingsSvc, leaderboardSvc, leagueSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeDB, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if cfg.UseMemoryRepositories() {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")

		seedStart := time.Now().UTC().AddDate(0, 0, 1).Truncate(time.Hour)
		matchRepo := memory.NewMatchRepository(memory.SeedMatches(seedStart), nil)
		return repositories{
			match:      matchRepo,
			prediction: memory.NewPredictionRepository(matchRepo, nil),
			league:     memory.NewLeagueRepository(),
			user:       memory.NewUserRepository(nil),
			snapshot:   memory.NewSnapshotRepository(),
		}, func() error { return nil }, nil
	}

	db, err := connectDB(cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))
	return repositories{
		match:      postgres.NewMatchRepository(db),
		prediction: postgres.NewPredictionRepository(db),
		league:     postgres.NewLeagueRepository(db),
		user:       postgres.NewUserRepository(db),
		snapshot:   postgres.NewSnapshotRepository(db),
	}, db.Close, nil
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
