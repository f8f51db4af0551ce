package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/UPO33/MPMatch/internal/config"
	"github.com/UPO33/MPMatch/internal/constants"
	"github.com/UPO33/MPMatch/internal/domain"
	"github.com/UPO33/MPMatch/internal/matchmaking"
	"github.com/UPO33/MPMatch/internal/monitoring"
	"github.com/UPO33/MPMatch/internal/notify"
	"github.com/UPO33/MPMatch/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type TicketInfo struct {
	ID     string
	Queue  string
	Queued bool
}

// MatchmakerService owns the engine. Every engine call happens under mu;
// engine outcomes are handed to a dispatcher goroutine that does the I/O.
type MatchmakerService struct {
	mu     sync.Mutex
	engine *matchmaking.Engine

	events   chan notify.Event
	interval time.Duration

	matchRepo   *repository.MatchRepository
	failureRepo *repository.FailureRepository
	notifier    notify.Notifier
	monitor     *monitoring.Monitor
	logger      zerolog.Logger
	now         func() time.Time
}

func NewMatchmakerService(
	cfg *config.Config,
	schemas map[string]matchmaking.Schema,
	matchRepo *repository.MatchRepository,
	failureRepo *repository.FailureRepository,
	notifier notify.Notifier,
	monitor *monitoring.Monitor,
	logger zerolog.Logger,
) *MatchmakerService {
	s := &MatchmakerService{
		events:      make(chan notify.Event, cfg.EventBuffer),
		interval:    cfg.TickInterval,
		matchRepo:   matchRepo,
		failureRepo: failureRepo,
		notifier:    notifier,
		monitor:     monitor,
		logger:      logger,
		now:         time.Now,
	}
	s.engine = matchmaking.New(s, matchmaking.WithLogger(logger.With().Str("component", "engine").Logger()))
	s.engine.SetQueueSchema(schemas)
	return s
}

func (s *MatchmakerService) CreateTicket(queue string, data map[string]any, users []matchmaking.User) TicketInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.engine.CreateTicket(queue, data, users)
	info := TicketInfo{ID: t.ID, Queue: queue, Queued: t.Queue() != ""}

	s.logger.Info().
		Str("ticket_id", info.ID).
		Str("queue", queue).
		Int("users", len(users)).
		Bool("queued", info.Queued).
		Msg("ticket submitted")
	return info
}

func (s *MatchmakerService) CancelTicket(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.engine.CancelTicket(id)
	s.logger.Info().Str("ticket_id", id).Bool("cancelled", ok).Msg("ticket cancel requested")
	return ok
}

func (s *MatchmakerService) QueuesStatus() map[string]matchmaking.QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetQueuesBasicStatus()
}

func (s *MatchmakerService) SetSchemas(schemas map[string]matchmaking.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetQueueSchema(schemas)
}

// Tick runs one scheduling pass and refreshes the queue gauges.
func (s *MatchmakerService) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.engine.Tick()
	s.monitor.TrackTick(time.Since(start))
	s.monitor.ObserveQueues(s.engine.GetQueuesBasicStatus())
}

func (s *MatchmakerService) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.matchRepo.GetByID(ctx, matchID)
}

func (s *MatchmakerService) ListMatches(ctx context.Context, queue string, limit int) ([]domain.Match, error) {
	if limit <= 0 {
		limit = constants.DefaultMatchListLimit
	}
	if limit > constants.MaxMatchListLimit {
		limit = constants.MaxMatchListLimit
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.matchRepo.ListRecent(ctx, queue, limit)
}

// FailureCounts reads the failure audit rows per code. An empty queue
// counts every queue.
func (s *MatchmakerService) FailureCounts(ctx context.Context, queue string) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.failureRepo.CountByCode(ctx, queue)
}

// OnMatchReady is called by the engine with mu held.
func (s *MatchmakerService) OnMatchReady(result matchmaking.MatchResult) {
	s.monitor.TrackMatch(result)
	s.enqueue(notify.Event{Type: notify.EventMatchReady, Match: &result, SentAt: s.now()})
}

// OnTicketFailed is called by the engine with mu held.
func (s *MatchmakerService) OnTicketFailed(t *matchmaking.Ticket, code matchmaking.FailCode) {
	s.monitor.TrackFailure(t.QueueName, code)
	now := s.now()
	s.enqueue(notify.Event{
		Type: notify.EventTicketFailed,
		Failure: &notify.TicketFailure{
			TicketID:  t.ID,
			QueueName: t.QueueName,
			Code:      code.String(),
			Users:     t.Users,
			Data:      t.Data,
			Waited:    now.Sub(t.RequestTime),
		},
		SentAt: now,
	})
}

func (s *MatchmakerService) enqueue(e notify.Event) {
	select {
	case s.events <- e:
	default:
		s.monitor.TrackDropped(e.Type)
		s.logger.Warn().Str("type", e.Type).Msg("event buffer full, dropping event")
	}
}

// Run ticks at the configured interval and dispatches events until ctx is
// done. Events still buffered at shutdown are delivered before returning.
func (s *MatchmakerService) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info().Dur("interval", s.interval).Msg("tick loop started")
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				s.Tick()
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gCtx.Done():
				s.drain()
				return nil
			case e := <-s.events:
				s.dispatch(gCtx, e)
			}
		}
	})

	err := g.Wait()
	s.logger.Info().Msg("matchmaker stopped")
	return err
}

func (s *MatchmakerService) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	for {
		select {
		case e := <-s.events:
			s.dispatch(ctx, e)
		default:
			return
		}
	}
}

func (s *MatchmakerService) dispatch(ctx context.Context, e notify.Event) {
	if err := s.store(ctx, e); err != nil {
		s.monitor.TrackDeliveryError(e.Type, "store")
		s.logger.Error().Err(err).Str("type", e.Type).Msg("failed to store event")
	}

	notifyCtx, cancel := context.WithTimeout(ctx, constants.WebhookTimeout)
	defer cancel()
	if err := s.notifier.Notify(notifyCtx, e); err != nil {
		s.monitor.TrackDeliveryError(e.Type, "notify")
		s.logger.Error().Err(err).Str("type", e.Type).Msg("failed to notify event")
	}
}

func (s *MatchmakerService) store(ctx context.Context, e notify.Event) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	switch {
	case e.Match != nil:
		if err := s.matchRepo.Save(ctx, domain.FromResult(*e.Match)); err != nil {
			return fmt.Errorf("failed to save match %s: %w", e.Match.MatchID, err)
		}
		s.logger.Debug().Str("match_id", e.Match.MatchID).Msg("match stored")
	case e.Failure != nil:
		f := e.Failure
		err := s.failureRepo.Record(ctx, domain.TicketFailure{
			TicketID:  f.TicketID,
			QueueName: f.QueueName,
			Code:      f.Code,
			NumUsers:  len(f.Users),
			Waited:    f.Waited,
			CreatedAt: e.SentAt,
		})
		if err != nil {
			return fmt.Errorf("failed to record failure of ticket %s: %w", f.TicketID, err)
		}
	default:
		return errors.New("event carries neither match nor failure")
	}
	return nil
}
