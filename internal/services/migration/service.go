package migration

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"accord/internal/crypto"
	"accord/internal/domain"
	"accord/internal/observability"
)

// DefaultConcurrency is used when MigrationOptions.Concurrency is below 1.
const DefaultConcurrency = 4

// Service runs key consistency migrations over a ProfileStore.
type Service struct {
	profiles domain.ProfileStore
	queue    domain.NotificationQueue
	log      *observability.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// New constructs a migration Service. queue may be nil, in which case no
// notifications are sent.
func New(
	profiles domain.ProfileStore,
	queue domain.NotificationQueue,
	log *observability.Logger,
	metrics *observability.Metrics,
) *Service {
	if log == nil {
		log = observability.Nop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics(nil)
	}
	return &Service{
		profiles: profiles,
		queue:    queue,
		log:      log.WithComponent("migration"),
		metrics:  metrics,
		now:      time.Now,
	}
}

// Authorize returns ErrUnauthorized unless caller is an admin.
func Authorize(caller domain.Profile) error {
	if !caller.IsAdmin {
		return fmt.Errorf("user %q is not an admin: %w", caller.UserID, domain.ErrUnauthorized)
	}
	return nil
}

// Run scans every profile and repairs drifted keys. Per-profile failures are
// reported in the summary; only a failure to list profiles or a cancelled
// context fails the run. On cancellation the summary still covers the
// profiles handled before it, including keys already rewritten.
func (s *Service) Run(ctx context.Context, opts domain.MigrationOptions) (domain.MigrationSummary, error) {
	start := s.now()
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return domain.MigrationSummary{}, fmt.Errorf("list profiles: %w", err)
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = DefaultConcurrency
	}
	s.log.MigrationStarted(len(profiles), opts.DryRun, limit)

	records := make([]domain.MigrationRecord, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range profiles {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = s.migrateOne(gctx, p, opts.DryRun)
			s.log.MigrationItem(records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		sum := summarize(processed(records), opts.DryRun)
		s.log.MigrationCompleted(sum, s.now().Sub(start))
		return sum, fmt.Errorf("key migration stopped after %d of %d profiles: %w", sum.Total, len(profiles), err)
	}

	sum := summarize(records, opts.DryRun)
	elapsed := s.now().Sub(start)
	s.metrics.RecordMigration(sum, elapsed.Seconds())
	s.log.MigrationCompleted(sum, elapsed)
	return sum, nil
}

func (s *Service) migrateOne(ctx context.Context, p domain.Profile, dryRun bool) domain.MigrationRecord {
	rec := domain.MigrationRecord{
		ProfileID: p.ID,
		UserID:    p.UserID,
		StoredKey: p.EncryptionPublicKey,
	}

	expected, err := crypto.ExpectedPublicKey(p.UserID)
	if err != nil {
		rec.Status = domain.MigrationError
		rec.Error = err.Error()
		return rec
	}
	rec.ExpectedKey = expected

	if p.EncryptionPublicKey == expected {
		rec.Status = domain.MigrationAlreadyCorrect
		return rec
	}
	if dryRun {
		rec.Status = domain.MigrationWouldFix
		return rec
	}

	if err := s.profiles.SetPublicKey(ctx, p.ID, expected); err != nil {
		rec.Status = domain.MigrationError
		rec.Error = fmt.Sprintf("update key: %v", err)
		return rec
	}
	rec.Status = domain.MigrationFixed
	s.notify(ctx, p.UserID)
	return rec
}

// notify queues the key-repaired notice. Failures are logged only; the key
// has already been repaired.
func (s *Service) notify(ctx context.Context, user domain.UserID) {
	if s.queue == nil {
		return
	}
	n := domain.Notification{
		UserID:    user,
		Kind:      domain.NotificationKeyRepaired,
		Title:     "Encryption key updated",
		Body:      "Your encryption key was repaired. Ask your contacts to verify your safety number again.",
		CreatedAt: s.now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.log.WithUser(user).Error(err, "queue key repaired notification")
	}
}

// processed drops the records of profiles that were never reached.
func processed(records []domain.MigrationRecord) []domain.MigrationRecord {
	out := make([]domain.MigrationRecord, 0, len(records))
	for _, r := range records {
		if r.Status != "" {
			out = append(out, r)
		}
	}
	return out
}

func summarize(records []domain.MigrationRecord, dryRun bool) domain.MigrationSummary {
	sum := domain.MigrationSummary{
		Total:   len(records),
		DryRun:  dryRun,
		Details: records,
	}
	for _, r := range records {
		switch r.Status {
		case domain.MigrationAlreadyCorrect:
			sum.AlreadyCorrect++
		case domain.MigrationFixed, domain.MigrationWouldFix:
			sum.Fixed++
		case domain.MigrationError:
			sum.Errors++
		}
	}
	return sum
}

// Compile-time assertion that Service implements domain.MigrationService.
var _ domain.MigrationService = (*Service)(nil)
