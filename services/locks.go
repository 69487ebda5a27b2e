package services

import "sync"

// RoomLocks serializes all multi-step occupancy mutations per room. Every
// writer, interactive or background, must hold the room's lock before
// touching its beds; operations on different rooms proceed in parallel.
// The registry grows one mutex per room id ever touched and is never
// pruned; room counts are small and stable, so the map stays bounded by
// the property portfolio.
type RoomLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{
		locks: make(map[uint]*sync.Mutex),
	}
}

func (l *RoomLocks) get(roomID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	return m
}

// Lock acquires the lock for one room.
func (l *RoomLocks) Lock(roomID uint) {
	l.get(roomID).Lock()
}

// Unlock releases the lock for one room.
func (l *RoomLocks) Unlock(roomID uint) {
	l.get(roomID).Unlock()
}

// LockPair acquires the locks for two rooms in ascending id order so that
// concurrent cross-room switches cannot deadlock.
func (l *RoomLocks) LockPair(a, b uint) {
	if a == b {
		l.Lock(a)
		return
	}
	if a > b {
		a, b = b, a
	}
	l.Lock(a)
	l.Lock(b)
}

// UnlockPair releases the locks acquired by LockPair.
func (l *RoomLocks) UnlockPair(a, b uint) {
	if a == b {
		l.Unlock(a)
		return
	}
	l.Unlock(a)
	l.Unlock(b)
}
