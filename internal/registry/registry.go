package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/immersio/meet-relay/internal/domain"
)

// Registry is the authoritative in-memory table of room membership. It owns
// the room -> member-set mapping exclusively and knows nothing about sockets
// or message delivery.
//
// Rooms are created lazily on first join and deleted eagerly when the last
// member leaves; an entry with an empty member set must never persist.
type Registry struct {
	log   *slog.Logger
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:   log,
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to the room, creating the room entry if absent,
// and returns the resulting member count. Joining is idempotent per member:
// adding an id that is already present leaves the set unchanged.
func (r *Registry) Join(roomID, connID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[roomID] = members
	}
	members[connID] = struct{}{}
	return len(members)
}

// Leave removes the connection from the room's member set. Removing an
// already-absent member is a no-op. The room entry is deleted as soon as its
// member set empties.
func (r *Registry) Leave(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
}

// MembersOf returns the ids of the room's members excluding selfID, in no
// particular order. Pass an empty selfID to list every member.
func (r *Registry) MembersOf(roomID, selfID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	r.checkNotEmpty(roomID, members)

	result := make([]string, 0, len(members))
	for id := range members {
		if id == selfID {
			continue
		}
		result = append(result, id)
	}
	return result
}

// RoomExists reports whether the room currently has any members.
func (r *Registry) RoomExists(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if ok {
		r.checkNotEmpty(roomID, members)
	}
	return ok
}

// MemberCount returns the room's member count, or 0 for an absent room.
func (r *Registry) MemberCount(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if ok {
		r.checkNotEmpty(roomID, members)
	}
	return len(members)
}

// RoomCount returns the number of active rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Rooms returns a stable snapshot of every active room, sorted by id.
func (r *Registry) Rooms() []domain.RoomStat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make([]domain.RoomStat, 0, len(r.rooms))
	for id, members := range r.rooms {
		r.checkNotEmpty(id, members)
		stats = append(stats, domain.RoomStat{RoomID: id, UserCount: len(members)})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].RoomID < stats[j].RoomID })
	return stats
}

// checkNotEmpty flags a violated deletion invariant: a stored room must
// always have at least one member.
func (r *Registry) checkNotEmpty(roomID string, members map[string]struct{}) {
	if len(members) == 0 {
		r.log.Error("invariant violation: empty room entry in registry", slog.String("room_id", roomID))
	}
}
