package chat

import "sync"

// Directory tracks which connections are members of which room.
type Directory interface {
	Join(room, connID string)
	// Leave removes connID from room and reports whether it was a member.
	// Empty rooms are pruned.
	Leave(room, connID string) bool
	// MembersExcept lists every member of room other than connID.
	MembersExcept(room, connID string) []string
	// Rooms returns a snapshot of member counts keyed by room name.
	Rooms() map[string]int
}

// MemoryDirectory is an in-process Directory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join implements Directory.
func (d *MemoryDirectory) Join(room, connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		d.rooms[room] = members
	}
	members[connID] = struct{}{}
}

// Leave implements Directory.
func (d *MemoryDirectory) Leave(room, connID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[connID]; !ok {
		return false
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(d.rooms, room)
	}
	return true
}

// MembersExcept implements Directory.
func (d *MemoryDirectory) MembersExcept(room, connID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members := d.rooms[room]
	out := make([]string, 0, len(members))
	for id := range members {
		if id == connID {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Rooms implements Directory.
func (d *MemoryDirectory) Rooms() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	counts := make(map[string]int, len(d.rooms))
	for name, members := range d.rooms {
		counts[name] = len(members)
	}
	return counts
}
