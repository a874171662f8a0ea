package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"exam-battle-service/internal/app"
	"exam-battle-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRoomRegistryWritesSnapshots(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	defer mr.Close()

	registry := NewRoomRegistry(client, time.Minute)
	b := app.NewBattle(waitingRoom("123456"))

	if err := registry.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !mr.Exists("battle:room:123456") {
		t.Fatalf("expected snapshot key after create")
	}

	if err := b.Join(app.PlayerProfile{UID: "p2", Name: "Bob"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	registry.Sync(ctx, b)

	raw, err := mr.Get("battle:room:123456")
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if want := `"uid":"p2"`; !strings.Contains(raw, want) {
		t.Fatalf("snapshot missing joined player: %s", raw)
	}
}

func TestRoomRegistryDetectsCollisionAcrossInstances(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	defer mr.Close()

	first := NewRoomRegistry(client, time.Minute)
	if err := first.Create(ctx, app.NewBattle(waitingRoom("123456"))); err != nil {
		t.Fatalf("create: %v", err)
	}

	// a second registry sharing the same redis must refuse the code
	second := NewRoomRegistry(client, time.Minute)
	err := second.Create(ctx, app.NewBattle(waitingRoom("123456")))
	if !errors.Is(err, domain.ErrRoomExists) {
		t.Fatalf("expected ErrRoomExists via SetNX, got %v", err)
	}
}

func TestRoomRegistryRebuildsFromSnapshot(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	defer mr.Close()

	first := NewRoomRegistry(client, time.Minute)
	b := app.NewBattle(waitingRoom("123456"))
	if err := first.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = b.Join(app.PlayerProfile{UID: "p2", Name: "Bob"})
	first.Sync(ctx, b)

	// simulates a restarted instance with an empty local map
	second := NewRoomRegistry(client, time.Minute)
	rebuilt, ok := second.Get(ctx, "123456")
	if !ok {
		t.Fatalf("expected rebuild from snapshot")
	}
	state := rebuilt.Snapshot()
	if len(state.Players) != 2 || state.FindPlayer("p2") == nil {
		t.Fatalf("rebuilt room lost players: %+v", state.Players)
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func waitingRoom(roomID string) domain.Room {
	return domain.Room{
		RoomID: roomID,
		HostID: "h1",
		Status: domain.StatusWaiting,
		Config: domain.BattleConfig{Subject: "Physics", Mode: domain.Mode1v1, QuestionCount: 1, TimePerQuestion: 15},
		Questions: []domain.Question{
			{Question: "q1", Options: []string{"A", "B"}, CorrectAnswerIndex: 0, Subject: "Physics"},
		},
		Players: []domain.Player{{UID: "h1", Name: "Alice", Team: domain.TeamNone}},
	}
}
