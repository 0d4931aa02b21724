package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/repository"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/product-catalog/pkg/ptr"
)

const (
	defaultConcurrency = 16
	stopTimeout        = 5 * time.Second
)

var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Service polls the outbox table and publishes pending product events.
type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

// Run starts polling in the background and, when a retention is configured,
// schedules the purge of processed messages. The cleanup func lets an
// in-flight batch finish for a few seconds before cancelling it.
func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	sched, err := s.newPurgeScheduler(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.poll(ctx)
	}()

	if sched != nil {
		sched.Start()
	}

	return func() {
		close(s.stopChan)
		if sched != nil {
			<-sched.Stop().Done()
		}

		select {
		case <-stoppedChan:
		case <-time.After(stopTimeout):
			cancel()
			<-stoppedChan
		}
		cancel()
	}, nil
}

func (s *Service) newPurgeScheduler(ctx context.Context) (*cron.Cron, error) {
	if s.cfg.Retention <= 0 || s.cfg.PurgeSchedule == "" {
		return nil, nil
	}

	sched := cron.New(cron.WithParser(scheduleParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := sched.AddFunc(s.cfg.PurgeSchedule, func() {
		if _, err := s.Purge(ctx); err != nil {
			s.logger.ErrorContext(ctx, "error purging outbox msgs", slog.Any("error", err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule outbox purge %q: %w", s.cfg.PurgeSchedule, err)
	}

	return sched, nil
}

func (s *Service) poll(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.relayBatch(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}
		}
	}
}

// Purge deletes messages processed longer than the retention period ago.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	if s.cfg.Retention <= 0 {
		return 0, nil
	}

	n, err := s.outboxMsgRepo.DeleteProcessedOutboxMsgs(ctx, repository.DeleteProcessedOutboxMsgsParams{
		ProcessedBefore: time.Now().Add(-s.cfg.Retention),
	})
	if err != nil {
		return 0, fmt.Errorf("delete processed outbox msgs: %w", err)
	}

	if n > 0 {
		s.logger.InfoContext(ctx, "purged processed outbox msgs", slog.Int64("count", n))
	}

	return n, nil
}

// Drain relays batches until the outbox holds no more pending messages and
// returns how many were relayed.
func (s *Service) Drain(ctx context.Context) (int, error) {
	var total int
	for {
		n, err := s.relayBatch(ctx)
		total += n
		if err != nil {
			return total, err
		}
		//nolint:gosec
		if n < int(s.cfg.BatchSize) {
			return total, nil
		}
	}
}

// relayBatch publishes one batch of unprocessed messages and marks each of
// them processed, recording the produce error when there is one.
// It returns the number of messages in the batch.
func (s *Service) relayBatch(ctx context.Context) (int, error) {
	var relayed int

	err := s.db.WithTx(ctx, func(tx db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(tx).
			ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
				//nolint:gosec
				BatchSize: int32(s.cfg.BatchSize),
			})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		if len(outboxMsgs) == 0 {
			return nil
		}

		s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", len(outboxMsgs)))

		items := make([]repository.BulkUpdateOutboxMsgsItem, len(outboxMsgs))

		var g errgroup.Group
		g.SetLimit(s.concurrency())
		for i, msg := range outboxMsgs {
			g.Go(func() error {
				items[i] = repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}
				if err := s.produce(ctx, msg); err != nil {
					s.logger.ErrorContext(ctx,
						"error producing message",
						slog.String("outbox_msg_id", msg.ID.String()),
						slog.String("topic", msg.Topic),
						slog.Any("error", err),
					)
					items[i].Error = ptr.New(err.Error())
				}
				// failures are stored on the row, never abort the batch
				return nil
			})
		}
		//nolint:errcheck
		g.Wait()

		if err := s.outboxMsgRepo.
			WithDB(tx).
			BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: items,
			}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		relayed = len(outboxMsgs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return relayed, nil
}

func (s *Service) concurrency() int {
	if s.cfg.Concurrency > 0 {
		return s.cfg.Concurrency
	}
	return defaultConcurrency
}

func (s *Service) produce(ctx context.Context, msg repository.ListUnprocessedOutboxMsgsResult) error {
	if s.cfg.ProduceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProduceTimeout)
		defer cancel()
	}

	if err := s.mqProducer.Produce(ctx, mq.ProduceMsg{
		Topic:        msg.Topic,
		Headers:      msg.Headers,
		Payload:      msg.Payload,
		PartitionKey: msg.PartitionKey,
	}); err != nil {
		return fmt.Errorf("produce message: %w", err)
	}

	return nil
}
