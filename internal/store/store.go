// Package store is the single entry point consumers use to open and
// initialize the local database. All reads and writes flow through a
// ready store; nothing else touches the connection lifecycle.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"panier/internal/analytics"
	"panier/internal/config"
	"panier/internal/database"
	"panier/internal/migrations"
	"panier/internal/seeder"
	"panier/internal/timeframe"
)

// State tracks initialization progress. Transitions are strictly forward;
// there is no rollback state.
type State int

const (
	StateUninitialized State = iota
	StateSchemaEnsured
	StateMigrated
	StateSeeded
	StateReady
)

func (s State) String() string {
	switch s {
	case StateSchemaEnsured:
		return "schema-ensured"
	case StateMigrated:
		return "migrated"
	case StateSeeded:
		return "seeded"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// ErrNotReady is returned by query helpers before Initialize has completed.
var ErrNotReady = fmt.Errorf("store is not initialized")

// Store owns the database manager and the initialization state machine.
type Store struct {
	dbManager   *database.DBManager
	logger      *slog.Logger
	seedCatalog bool

	mu     sync.Mutex
	state  State
	report migrations.Report
}

// Open connects to the database described by the config. The schema is not
// touched until Initialize is called.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{
		dbManager:   dbManager,
		logger:      logger,
		seedCatalog: cfg.SeedDefaultCatalog,
		state:       StateUninitialized,
	}, nil
}

// NewWithManager builds a store around an existing manager, for tests.
func NewWithManager(dbManager *database.DBManager, logger *slog.Logger) *Store {
	return &Store{
		dbManager:   dbManager,
		logger:      logger,
		seedCatalog: true,
		state:       StateUninitialized,
	}
}

// State returns the current initialization state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DB exposes the underlying connection for domain packages. Nil until Open
// succeeded.
func (s *Store) DB() *gorm.DB {
	return s.dbManager.GetConnection()
}

// Initialize drives the state machine to Ready: ensure the base schema,
// run the legacy migrations, seed the default catalog. Only a schema-ensure
// failure is fatal; migration and seed failures are recorded in the report
// and the store still becomes Ready. Calling Initialize on a ready store is
// a no-op returning the prior report.
func (s *Store) Initialize(ctx context.Context) (migrations.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady {
		s.logger.Debug("Store already initialized")
		return s.report, nil
	}

	if err := ctx.Err(); err != nil {
		return migrations.Report{}, err
	}

	if err := s.dbManager.EnsureSchema(); err != nil {
		return migrations.Report{}, fmt.Errorf("failed to ensure base schema: %w", err)
	}
	s.state = StateSchemaEnsured

	report := migrations.Run(s.DB(), s.logger)
	s.state = StateMigrated

	seedOutcome := migrations.StepOutcome{Name: "seed-default-catalog", Status: migrations.StepApplied}
	if !s.seedCatalog {
		seedOutcome.Status = migrations.StepSkipped
	} else if err := seeder.NewSeeder(s.dbManager, s.logger).SeedDefaultCatalog(); err != nil {
		s.logger.Error("Failed to seed default catalog", slog.Any("error", err))
		seedOutcome.Status = migrations.StepFailed
		seedOutcome.Error = err.Error()
	}
	report.Outcomes = append(report.Outcomes, seedOutcome)
	s.state = StateSeeded

	s.state = StateReady
	s.report = report
	s.logger.Info("Store initialized", slog.String("state", s.state.String()))

	return report, nil
}

// Summary aggregates spending over a range. The store must be ready.
func (s *Store) Summary(r timeframe.Range, g timeframe.Granularity) (analytics.Summary, error) {
	if s.State() != StateReady {
		return analytics.Summary{}, ErrNotReady
	}
	return analytics.Aggregate(s.DB(), r, g)
}

// DailyTotals returns the zero-filled per-day series for a range. The
// store must be ready.
func (s *Store) DailyTotals(r timeframe.Range) ([]analytics.DailyTotal, error) {
	if s.State() != StateReady {
		return nil, ErrNotReady
	}
	return analytics.DailyTotals(s.DB(), r)
}

// CompareWithPrevious aggregates a range and its immediately preceding
// range of equal length, and compares the totals.
func (s *Store) CompareWithPrevious(r timeframe.Range, g timeframe.Granularity) (analytics.Comparison, error) {
	current, err := s.Summary(r, g)
	if err != nil {
		return analytics.Comparison{}, err
	}
	previous, err := s.Summary(r.Previous(), g)
	if err != nil {
		return analytics.Comparison{}, err
	}
	return analytics.Compare(current.Total, previous.Total), nil
}
