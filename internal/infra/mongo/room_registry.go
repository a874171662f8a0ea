package mongo

import (
	"context"
	"log"
	"sync"

	"exam-battle-service/internal/app"
	"exam-battle-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoomRegistry persists battle rooms as documents keyed by their join code.
// Live battles stay in a local map so every mutation is a single-copy
// read-modify-write; the document is replaced on every Sync and reloaded on
// a local-map miss (e.g. after a restart).
type RoomRegistry struct {
	col *mongo.Collection

	mu    sync.RWMutex
	rooms map[string]*app.Battle
}

func NewRoomRegistry(db *mongo.Database) *RoomRegistry {
	return &RoomRegistry{
		col:   db.Collection("battle_rooms"),
		rooms: make(map[string]*app.Battle),
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

	if _, err := r.col.InsertOne(ctx, b.Room()); err != nil {
		r.mu.Lock()
		delete(r.rooms, b.RoomID())
		r.mu.Unlock()
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoomExists
		}
		return err
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

	var room domain.Room
	if err := r.col.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room); err != nil {
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

// Sync is best-effort: a failed write-back leaves the live aggregate as the
// source of truth and is retried on the next mutation.
func (r *RoomRegistry) Sync(ctx context.Context, b *app.Battle) {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.RoomID()}, b.Room(), options.Replace().SetUpsert(true))
	if err != nil {
		log.Printf("mongo registry: sync %s: %v", b.RoomID(), err)
	}
}
