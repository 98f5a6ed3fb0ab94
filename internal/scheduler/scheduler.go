// Package scheduler provides cron-based scheduling for the monthly snapshot close job.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
)

// Config holds the scheduler configuration
type Config struct {
	// Schedule is a cron expression for when to close the previous month
	// (e.g., "30 0 1 * *" for 00:30 on the first of every month)
	Schedule string
	// Timeout is the maximum duration for a complete close sweep
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule: "30 0 1 * *",
		Timeout:  5 * time.Minute,
		Enabled:  true,
	}
}

// SnapshotCloser executes a month close for one user.
type SnapshotCloser interface {
	CloseMonth(ctx context.Context, userID uuid.UUID, month time.Month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, error)
}

// UserLister provides the accounts the close sweep iterates over.
type UserLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Scheduler manages the scheduled month-close sweep
type Scheduler struct {
	cron      *cron.Cron
	snapshots SnapshotCloser
	users     UserLister
	config    Config
	logger    *slog.Logger
	entryID   cron.EntryID
	now       func() time.Time
}

// New creates a new Scheduler instance
func New(cfg Config, snapshots SnapshotCloser, users UserLister, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		snapshots: snapshots,
		users:     users,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	// Convert standard cron (5 fields) to cron with seconds (6 fields)
	// Add "0" at the beginning for seconds
	schedule := "0 " + s.config.Schedule

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runCloseJob()
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	s.logger.Info("Scheduler started",
		slog.String("schedule", s.config.Schedule),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunNow triggers an immediate close sweep (useful for manual triggers)
func (s *Scheduler) RunNow() {
	go s.runCloseJob()
}

// runCloseJob closes the previous calendar month for every user.
func (s *Scheduler) runCloseJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	// The job fires at the start of a month; the month being closed is the
	// one that just ended.
	today := s.now().UTC()
	prev := today.AddDate(0, 0, -today.Day())
	month, year := prev.Month(), prev.Year()

	startTime := time.Now()
	s.logger.Info("Starting scheduled month close",
		slog.String("month", month.String()),
		slog.Int("year", year),
	)

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		s.logger.Error("Month close failed to list users",
			slog.String("error", err.Error()),
		)
		return
	}

	closed, failed := 0, 0
	for _, id := range ids {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			failed++
			s.logger.Error("Month close failed to load user",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		if _, err := s.snapshots.CloseMonth(ctx, id, month, year, user.MonthlyIncome); err != nil {
			failed++
			s.logger.Error("Month close failed for user",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		closed++
	}

	s.logger.Info("Month close completed",
		slog.Int("users_closed", closed),
		slog.Int("users_failed", failed),
		slog.Duration("duration", time.Since(startTime)),
	)
}

// GetNextRunTime returns the next scheduled run time
func (s *Scheduler) GetNextRunTime() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	entry := s.cron.Entry(s.entryID)
	return entry.Next
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
