package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/metrics"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	"github.com/RomanCsn/workshop-DFS/internal/storage"
	"github.com/RomanCsn/workshop-DFS/internal/timezone"
)

const (
	specPurge  = "0 0 * * * *"
	specExport = "0 0 2 1 * *"

	exportPageSize = 1000
	jobTimeout     = 5 * time.Minute
)

type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type VerificationPurger interface {
	PurgeExpiredVerifications(ctx context.Context) (int64, error)
}

type BillingSource interface {
	GetBillingsByDateRange(
		ctx context.Context,
		start time.Time,
		end time.Time,
		take int,
		skip int,
	) ([]models.Billing, error)
}

type Scheduler struct {
	cron          *cron.Cron
	sessions      SessionPurger
	verifications VerificationPurger
	billings      BillingSource
	exports       storage.Store
	loc           *time.Location
	log           zerolog.Logger
	now           func() time.Time
}

// NewScheduler runs jobs in the tz location. A nil exports store disables
// the monthly billing export.
func NewScheduler(
	sessions SessionPurger,
	verifications VerificationPurger,
	billings BillingSource,
	exports storage.Store,
	tz string,
	log zerolog.Logger,
) *Scheduler {
	loc := timezone.Location(tz)
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		sessions:      sessions,
		verifications: verifications,
		billings:      billings,
		exports:       exports,
		loc:           loc,
		log:           log.With().Str("component", "jobs").Logger(),
		now:           time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(specPurge, s.runPurge); err != nil {
		return err
	}
	if s.exports != nil {
		if _, err := s.cron.AddFunc(specExport, s.runExport); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Schedule registers an extra maintenance task under the job name used
// by the metrics.
func (s *Scheduler) Schedule(name, spec string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		err := fn(ctx)
		metrics.JobRun(name, err == nil)
		if err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("job failed")
		}
	})
	return err
}

// Stop prevents new runs; the returned context is done once running jobs
// have returned.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	err := s.Purge(ctx)
	metrics.JobRun("purge", err == nil)
	if err != nil {
		s.log.Error().Err(err).Msg("purge failed")
	}
}

func (s *Scheduler) runExport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	key, err := s.ExportPreviousMonth(ctx)
	metrics.JobRun("billing_export", err == nil)
	if err != nil {
		s.log.Error().Err(err).Msg("billing export failed")
		return
	}
	s.log.Info().Str("key", key).Msg("billing export written")
}

// Purge removes expired sessions and verification tokens.
func (s *Scheduler) Purge(ctx context.Context) error {
	sessions, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}

	verifications, err := s.verifications.PurgeExpiredVerifications(ctx)
	if err != nil {
		return fmt.Errorf("purge verifications: %w", err)
	}

	s.log.Info().
		Int64("sessions", sessions).
		Int64("verifications", verifications).
		Msg("expired records purged")
	return nil
}

type billingExport struct {
	Month       string           `json:"month"`
	From        time.Time        `json:"from"`
	To          time.Time        `json:"to"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Count       int              `json:"count"`
	Total       float64          `json:"total"`
	Billings    []models.Billing `json:"billings"`
}

// ExportPreviousMonth writes the billings of last calendar month, with
// their services, to exports/billings/YYYY-MM.json.
func (s *Scheduler) ExportPreviousMonth(ctx context.Context) (string, error) {
	if s.exports == nil {
		return "", storage.ErrDisabled
	}

	now := s.now().In(s.loc)
	start, end := timezone.PreviousMonth(now)

	doc := billingExport{
		Month:       start.Format("2006-01"),
		From:        start,
		To:          end,
		GeneratedAt: now,
		Billings:    []models.Billing{},
	}

	for skip := 0; ; skip += exportPageSize {
		page, err := s.billings.GetBillingsByDateRange(ctx, start, end, exportPageSize, skip)
		if err != nil {
			return "", err
		}
		for i := range page {
			doc.Total += page[i].Total()
		}
		doc.Billings = append(doc.Billings, page...)
		if len(page) < exportPageSize {
			break
		}
	}
	doc.Count = len(doc.Billings)

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	key := fmt.Sprintf("exports/billings/%s.json", doc.Month)
	if err := s.exports.Put(ctx, key, body, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}
