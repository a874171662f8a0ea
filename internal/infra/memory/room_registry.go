package memory

import (
	"context"
	"sync"

	"exam-battle-service/internal/app"
	"exam-battle-service/internal/domain"
)

// RoomRegistry is an in-memory implementation of app.RoomRegistry.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*app.Battle
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*app.Battle),
	}
}

func (r *RoomRegistry) Create(_ context.Context, b *app.Battle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[b.RoomID()]; ok {
		return domain.ErrRoomExists
	}
	r.rooms[b.RoomID()] = b
	return nil
}

func (r *RoomRegistry) Get(_ context.Context, roomID string) (*app.Battle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.rooms[roomID]
	return b, ok
}

// Sync is a no-op: the live aggregate is the only copy.
func (r *RoomRegistry) Sync(_ context.Context, _ *app.Battle) {}
