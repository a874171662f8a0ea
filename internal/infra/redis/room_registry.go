package redis

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"exam-battle-service/internal/app"
	"exam-battle-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RoomRegistry is a Redis-aware implementation of app.RoomRegistry.
// Notes:
//   - It keeps a local in-memory map of live battles so mutations stay
//     single-copy read-modify-write under the aggregate's own lock.
//   - Redis holds a JSON snapshot per room with TTL, written back on every
//     mutation; a Get that misses the local map rebuilds the aggregate from
//     the snapshot (e.g. after a restart).
//   - For true multi-instance operation you'd pair this with a shared lock or
//     route all writes for a room to one instance.
type RoomRegistry struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.RWMutex
	rooms map[string]*app.Battle
}

func NewRoomRegistry(client *redis.Client, ttl time.Duration) *RoomRegistry {
	return &RoomRegistry{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.Battle),
	}
}

func (r *RoomRegistry) Create(ctx context.Context, b *app.Battle) error {
	r.mu.Lock()
	if _, ok := r.rooms[b.RoomID()]; ok {
		r.mu.Unlock()
		return domain.ErrRoomExists
	}
	r.rooms[b.RoomID()] = b
	r.mu.Unlock()

	// the snapshot also guards code uniqueness across restarts
	ok, err := r.client.SetNX(ctx, r.key(b.RoomID()), r.encode(b), r.ttl).Result()
	if err == nil && !ok {
		r.mu.Lock()
		delete(r.rooms, b.RoomID())
		r.mu.Unlock()
		return domain.ErrRoomExists
	}
	if err != nil {
		log.Printf("redis registry: create %s: %v", b.RoomID(), err)
	}
	return nil
}

func (r *RoomRegistry) Get(ctx context.Context, roomID string) (*app.Battle, bool) {
	r.mu.RLock()
	b, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if ok {
		return b, true
	}

	raw, err := r.client.Get(ctx, r.key(roomID)).Bytes()
	if err != nil {
		return nil, false
	}
	var room domain.Room
	if err := json.Unmarshal(raw, &room); err != nil {
		log.Printf("redis registry: decode %s: %v", roomID, err)
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[roomID]; ok {
		return existing, true
	}
	b = app.NewBattle(room)
	r.rooms[roomID] = b
	return b, true
}

func (r *RoomRegistry) Sync(ctx context.Context, b *app.Battle) {
	if err := r.client.Set(ctx, r.key(b.RoomID()), r.encode(b), r.ttl).Err(); err != nil {
		log.Printf("redis registry: sync %s: %v", b.RoomID(), err)
	}
}

func (r *RoomRegistry) encode(b *app.Battle) []byte {
	raw, err := json.Marshal(b.Room())
	if err != nil {
		log.Printf("redis registry: encode %s: %v", b.RoomID(), err)
		return nil
	}
	return raw
}

func (r *RoomRegistry) key(roomID string) string {
	return "battle:room:" + roomID
}
