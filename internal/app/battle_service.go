package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"exam-battle-service/internal/domain"
)

// maxCodeAttempts bounds room-code regeneration when the registry reports a
// collision on the 6-digit join code.
const maxCodeAttempts = 5

// RoomRegistry abstracts how battle rooms are stored (in-memory, Redis,
// document store). The core never branches on backend identity.
type RoomRegistry interface {
	// Create stores a new battle, failing with domain.ErrRoomExists when the
	// room code is already taken.
	Create(ctx context.Context, b *Battle) error
	// Get returns the live battle for a room code.
	Get(ctx context.Context, roomID string) (*Battle, bool)
	// Sync writes the battle's current room snapshot back to the backing
	// store. Best-effort: in-memory implementations are a no-op.
	Sync(ctx context.Context, b *Battle)
}

// QuestionSource supplies the question snapshot for a new room.
type QuestionSource interface {
	Fetch(ctx context.Context, subject string, count int) ([]domain.Question, error)
}

// BattleService contains the battle-mode use cases.
type BattleService struct {
	rooms   RoomRegistry
	source  QuestionSource
	newCode func() string
}

func NewBattleService(rooms RoomRegistry, source QuestionSource) *BattleService {
	return &BattleService{
		rooms:   rooms,
		source:  source,
		newCode: randomRoomCode,
	}
}

// NewBattleServiceWithCodes is test-only for deterministic room codes.
func NewBattleServiceWithCodes(rooms RoomRegistry, source QuestionSource, newCode func() string) *BattleService {
	return &BattleService{rooms: rooms, source: source, newCode: newCode}
}

// randomRoomCode yields a human-shareable 6-digit join code.
func randomRoomCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

// CreateRoom snapshots questions for the configured subject, seeds the host
// as the first player and registers the room under a fresh join code,
// retrying a bounded number of times on code collision.
func (s *BattleService) CreateRoom(ctx context.Context, host PlayerProfile, cfg domain.BattleConfig) (RoomState, error) {
	questions, err := s.source.Fetch(ctx, cfg.Subject, cfg.QuestionCount)
	if err != nil {
		return RoomState{}, fmt.Errorf("fetch questions: %w", err)
	}

	hostTeam := domain.TeamNone
	if cfg.Mode.Teamed() {
		hostTeam = domain.TeamA
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		b := NewBattle(domain.Room{
			RoomID:    s.newCode(),
			HostID:    host.UID,
			Status:    domain.StatusWaiting,
			Config:    cfg,
			Questions: questions,
			Players: []domain.Player{{
				UID:     host.UID,
				Name:    host.Name,
				Avatar:  host.Avatar,
				College: host.College,
				Team:    hostTeam,
			}},
		})
		err := s.rooms.Create(ctx, b)
		if errors.Is(err, domain.ErrRoomExists) {
			continue
		}
		if err != nil {
			return RoomState{}, fmt.Errorf("register room: %w", err)
		}
		return b.Snapshot(), nil
	}
	return RoomState{}, fmt.Errorf("register room: %w", domain.ErrRoomExists)
}

// Join adds a player to a waiting room.
func (s *BattleService) Join(ctx context.Context, roomID string, p PlayerProfile) error {
	b, ok := s.rooms.Get(ctx, roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := b.Join(p); err != nil {
		return err
	}
	s.rooms.Sync(ctx, b)
	return nil
}

// Start transitions the room to ACTIVE. Host-only.
func (s *BattleService) Start(ctx context.Context, roomID, callerID string) error {
	b, ok := s.rooms.Get(ctx, roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := b.Start(callerID); err != nil {
		return err
	}
	s.rooms.Sync(ctx, b)
	return nil
}

// SubmitAnswer records and scores one answer, returning the ledger entry and
// the player's new total score.
func (s *BattleService) SubmitAnswer(ctx context.Context, roomID, uid string, questionIndex, selectedOption int, timeTaken float64) (domain.Answer, int, error) {
	b, ok := s.rooms.Get(ctx, roomID)
	if !ok {
		return domain.Answer{}, 0, domain.ErrRoomNotFound
	}
	answer, score, err := b.SubmitAnswer(uid, questionIndex, selectedOption, timeTaken)
	if err != nil {
		return domain.Answer{}, 0, err
	}
	s.rooms.Sync(ctx, b)
	return answer, score, nil
}

// Advance moves the question cursor, finishing the room once exhausted. Any
// caller who knows the room code may advance; the per-question deadline is
// enforced by callers, not by a server timer.
func (s *BattleService) Advance(ctx context.Context, roomID string, nextIndex int) error {
	b, ok := s.rooms.Get(ctx, roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := b.Advance(nextIndex); err != nil {
		return err
	}
	s.rooms.Sync(ctx, b)
	return nil
}

// GetState returns the full room snapshot for polling clients.
func (s *BattleService) GetState(ctx context.Context, roomID string) (RoomState, error) {
	b, ok := s.rooms.Get(ctx, roomID)
	if !ok {
		return RoomState{}, domain.ErrRoomNotFound
	}
	return b.Snapshot(), nil
}

// Standings returns the ranked scoreboard for a room.
func (s *BattleService) Standings(ctx context.Context, roomID string) ([]StandingEntry, error) {
	b, ok := s.rooms.Get(ctx, roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return b.Standings(), nil
}
