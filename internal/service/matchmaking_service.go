package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
	"github.com/d-osc/game-rpg-world-sub001/internal/repository"
	"github.com/d-osc/game-rpg-world-sub001/pkg/distributed"
)

const matchmakingLockKey = "matchmaking:tick"

// Notifier pushes realtime events to connected players.
type Notifier interface {
	SendToPlayer(playerID, msgType string, payload interface{})
}

// MatchFoundPayload is pushed to both participants when the scheduler
// pairs them.
type MatchFoundPayload struct {
	MatchID        int64  `json:"matchId"`
	OpponentID     string `json:"opponentId"`
	OpponentName   string `json:"opponentName"`
	OpponentRating int    `json:"opponentRating"`
}

// MatchmakingService owns the waiting queue and runs the periodic pairing
// loop. One instance per process; all queue operations go through it.
type MatchmakingService struct {
	queue      *QueueStore
	registry   *MatchRegistry
	playerRepo repository.PlayerRepositoryInterface
	matchRepo  repository.MatchRepositoryInterface
	notifier   Notifier
	lockMgr    *distributed.RedisLockManager
	logger     *zap.Logger

	interval     time.Duration
	queueTimeout time.Duration
	eloRange     int
	instanceID   string

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex

	// tickMu serializes tick bodies; an overlapping tick is skipped, never
	// run concurrently.
	tickMu sync.Mutex
}

type MatchmakingOptions struct {
	Interval     time.Duration
	QueueTimeout time.Duration
	EloRange     int
}

func NewMatchmakingService(
	queue *QueueStore,
	registry *MatchRegistry,
	playerRepo repository.PlayerRepositoryInterface,
	matchRepo repository.MatchRepositoryInterface,
	notifier Notifier,
	lockMgr *distributed.RedisLockManager,
	opts MatchmakingOptions,
) *MatchmakingService {
	logger, _ := zap.NewProduction()

	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.QueueTimeout <= 0 {
		opts.QueueTimeout = 5 * time.Minute
	}
	if opts.EloRange <= 0 {
		opts.EloRange = 200
	}

	return &MatchmakingService{
		queue:        queue,
		registry:     registry,
		playerRepo:   playerRepo,
		matchRepo:    matchRepo,
		notifier:     notifier,
		lockMgr:      lockMgr,
		logger:       logger,
		interval:     opts.Interval,
		queueTimeout: opts.QueueTimeout,
		eloRange:     opts.EloRange,
		instanceID:   uuid.NewString(),
		stopChan:     make(chan struct{}),
	}
}

// JoinQueue validates and enqueues a player, lazily creating their rating
// record. Returns the queue size after joining.
func (s *MatchmakingService) JoinQueue(playerID, playerName string) (int, error) {
	if s.queue.Contains(playerID) {
		return 0, ErrAlreadyQueued
	}
	if s.registry.HasPlayer(playerID) {
		return 0, ErrPlayerInActiveMatch
	}

	player, err := s.playerRepo.Upsert(playerID, playerName)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert player: %w", err)
	}

	entry := models.QueueEntry{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Rating:     player.Rating,
		QueuedAt:   time.Now().UTC(),
	}
	if err := s.queue.Add(entry); err != nil {
		return 0, err
	}

	size := s.queue.Len()
	s.logger.Info("Player joined queue",
		zap.String("playerId", playerID),
		zap.Int("rating", player.Rating),
		zap.Int("queueSize", size))

	return size, nil
}

// LeaveQueue removes the player's entry, reporting whether one existed.
// Leaving when not queued is not an error.
func (s *MatchmakingService) LeaveQueue(playerID string) bool {
	removed := s.queue.Remove(playerID)
	if removed {
		s.logger.Info("Player left queue", zap.String("playerId", playerID))
	}
	return removed
}

// QueueStatus returns the aggregate queue view.
func (s *MatchmakingService) QueueStatus() models.QueueStatus {
	entries := s.queue.Snapshot()

	var avg float64
	if len(entries) > 0 {
		sum := 0
		for _, entry := range entries {
			sum += entry.Rating
		}
		avg = float64(sum) / float64(len(entries))
	}

	return models.QueueStatus{
		QueueSize:        len(entries),
		AverageRating:    avg,
		ActiveMatchCount: s.registry.Count(),
	}
}

// Start launches the pairing loop.
func (s *MatchmakingService) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	// Stop closed the previous channel; a restarted loop needs its own.
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("Starting MatchmakingService",
		zap.Duration("interval", s.interval),
		zap.Duration("queueTimeout", s.queueTimeout),
		zap.Int("eloRange", s.eloRange))

	s.wg.Add(1)
	go s.matchmakingLoop()
}

// Stop shuts the pairing loop down and waits for an in-flight tick.
func (s *MatchmakingService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping MatchmakingService")
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("MatchmakingService stopped")
}

func (s *MatchmakingService) matchmakingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runTick()
		case <-s.stopChan:
			return
		}
	}
}

// runTick performs one scheduling pass: evict stale entries, sort the
// snapshot by rating, pair greedily, create matches. Ticks never overlap;
// if the previous one is still running this one is skipped.
func (s *MatchmakingService) runTick() {
	if !s.tickMu.TryLock() {
		s.logger.Warn("Previous matchmaking tick still running, skipping")
		return
	}
	defer s.tickMu.Unlock()

	ctx := context.Background()

	// With Redis configured, only one replica runs a pairing pass at a
	// time. Redis being down degrades to the in-process guard.
	if s.lockMgr != nil {
		lock, err := s.lockMgr.AcquireLock(ctx, matchmakingLockKey, s.instanceID, s.interval)
		switch {
		case errors.Is(err, distributed.ErrLockNotAcquired):
			s.logger.Debug("Matchmaking lock held elsewhere, skipping tick")
			return
		case err != nil:
			s.logger.Warn("Failed to acquire matchmaking lock, proceeding locally", zap.Error(err))
		default:
			defer func() {
				if err := lock.Release(ctx); err != nil {
					s.logger.Warn("Failed to release matchmaking lock", zap.Error(err))
				}
			}()
		}
	}

	now := time.Now().UTC()

	for _, entry := range s.queue.RemoveExpired(s.queueTimeout, now) {
		s.logger.Info("Evicted stale queue entry",
			zap.String("playerId", entry.PlayerID),
			zap.Duration("waited", now.Sub(entry.QueuedAt)))
	}

	entries := s.queue.Snapshot()
	if len(entries) < 2 {
		return
	}

	sortByRating(entries)
	pairs := pairEntries(entries, s.eloRange)

	created := 0
	for _, pair := range pairs {
		if err := s.createMatch(pair[0], pair[1]); err != nil {
			// One failed pair must not abort the rest of the tick.
			s.logger.Error("Failed to create match",
				zap.String("player1", pair[0].PlayerID),
				zap.String("player2", pair[1].PlayerID),
				zap.Error(err))
			continue
		}
		created++
	}

	if created > 0 {
		s.logger.Info("Matchmaking tick completed",
			zap.Int("matchesCreated", created),
			zap.Int("stillWaiting", s.queue.Len()))
	}
}

func (s *MatchmakingService) createMatch(entry1, entry2 models.QueueEntry) error {
	// A concurrent leave-queue may have raced the snapshot; pair only if
	// both entries are still present.
	removed1 := s.queue.Remove(entry1.PlayerID)
	removed2 := s.queue.Remove(entry2.PlayerID)
	if !removed1 || !removed2 {
		if removed1 {
			_ = s.queue.Add(entry1)
		}
		if removed2 {
			_ = s.queue.Add(entry2)
		}
		return nil
	}

	match, err := s.matchRepo.Create(entry1, entry2)
	if err != nil {
		// Put both players back so they are candidates next tick.
		_ = s.queue.Add(entry1)
		_ = s.queue.Add(entry2)
		return fmt.Errorf("failed to persist match: %w", err)
	}

	s.registry.Put(match)

	if s.notifier != nil {
		s.notifier.SendToPlayer(entry1.PlayerID, "match_found", MatchFoundPayload{
			MatchID:        match.ID,
			OpponentID:     entry2.PlayerID,
			OpponentName:   entry2.PlayerName,
			OpponentRating: entry2.Rating,
		})
		s.notifier.SendToPlayer(entry2.PlayerID, "match_found", MatchFoundPayload{
			MatchID:        match.ID,
			OpponentID:     entry1.PlayerID,
			OpponentName:   entry1.PlayerName,
			OpponentRating: entry1.Rating,
		})
	}

	s.logger.Info("Match created",
		zap.Int64("matchId", match.ID),
		zap.String("player1", entry1.PlayerID),
		zap.String("player2", entry2.PlayerID),
		zap.Int("ratingGap", abs(entry1.Rating-entry2.Rating)))

	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
