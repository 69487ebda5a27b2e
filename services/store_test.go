package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	apperrors "hms/errors"
	"hms/models"
)

// memoryStore is an in-memory OccupancyStore for tests. Claim and release
// honor the same compare-and-swap contract as the database store: the check
// and the write happen under one lock.
type memoryStore struct {
	txMu      sync.Mutex
	mu        sync.Mutex
	rooms     map[uint]*models.Room
	residents map[uint]*models.Resident
	switches  []models.SwitchRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rooms:     make(map[uint]*models.Room),
		residents: make(map[uint]*models.Resident),
	}
}

func (s *memoryStore) addRoom(id, propertyID uint, roomNumber string, sharingType, cost int) *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := &models.Room{
		ID:          id,
		PropertyID:  propertyID,
		RoomNumber:  roomNumber,
		SharingType: sharingType,
		Cost:        cost,
		IsActive:    true,
	}
	for i := 1; i <= sharingType; i++ {
		room.Beds = append(room.Beds, models.Bed{
			ID:        id*100 + uint(i),
			RoomID:    id,
			BedNumber: strconv.Itoa(i),
		})
	}
	s.rooms[id] = room
	return room
}

func (s *memoryStore) addResident(id uint, status string) *models.Resident {
	s.mu.Lock()
	defer s.mu.Unlock()
	resident := &models.Resident{
		ID:       id,
		FullName: fmt.Sprintf("Resident %d", id),
		Status:   status,
	}
	s.residents[id] = resident
	return resident
}

func copyRoom(room *models.Room) *models.Room {
	clone := *room
	clone.Beds = make([]models.Bed, len(room.Beds))
	copy(clone.Beds, room.Beds)
	return &clone
}

func copyResident(resident *models.Resident) *models.Resident {
	clone := *resident
	clone.SwitchHistory = nil
	return &clone
}

func (s *memoryStore) findBed(roomID uint, bedNumber string) *models.Bed {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return room.FindBed(bedNumber)
}

// Transaction serializes against other transactions and restores the
// pre-transaction state when fn fails, mirroring the database rollback.
func (s *memoryStore) Transaction(ctx context.Context, fn func(OccupancyStore) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	rooms := make(map[uint]*models.Room, len(s.rooms))
	for id, room := range s.rooms {
		rooms[id] = copyRoom(room)
	}
	residents := make(map[uint]*models.Resident, len(s.residents))
	for id, resident := range s.residents {
		residents[id] = copyResident(resident)
	}
	switches := append([]models.SwitchRecord(nil), s.switches...)
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.rooms = rooms
		s.residents = residents
		s.switches = switches
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) GetRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (s *memoryStore) GetResident(ctx context.Context, residentID uint) (*models.Resident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resident, ok := s.residents[residentID]
	if !ok {
		return nil, apperrors.ErrResidentNotFound
	}
	return copyResident(resident), nil
}

func (s *memoryStore) SaveResident(ctx context.Context, resident *models.Resident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.residents[resident.ID] = copyResident(resident)
	return nil
}

func (s *memoryStore) ActivateResident(ctx context.Context, residentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resident, ok := s.residents[residentID]
	if !ok {
		return apperrors.ErrResidentNotFound
	}
	if resident.Status != models.ResidentStatusPending || resident.RoomID != nil {
		return apperrors.ErrAlreadyAssigned
	}
	resident.Status = models.ResidentStatusActive
	return nil
}

func (s *memoryStore) SaveBed(ctx context.Context, bed *models.Bed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.findBed(bed.RoomID, bed.BedNumber)
	if stored == nil {
		return apperrors.ErrBedNotFound
	}
	*stored = *bed
	return nil
}

func (s *memoryStore) ClaimBed(ctx context.Context, roomID uint, bedNumber string, residentID uint, at time.Time) (*models.Bed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bed := s.findBed(roomID, bedNumber)
	if bed == nil {
		return nil, apperrors.ErrBedNotFound
	}
	if err := bed.Claim(residentID, at); err != nil {
		return nil, err
	}
	clone := *bed
	return &clone, nil
}

func (s *memoryStore) ReleaseBed(ctx context.Context, roomID uint, bedNumber string, expectedOccupant *uint) (*models.Bed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bed := s.findBed(roomID, bedNumber)
	if bed == nil {
		return nil, apperrors.ErrBedNotFound
	}
	if expectedOccupant != nil &&
		(bed.OccupiedBy == nil || *bed.OccupiedBy != *expectedOccupant) {
		return nil, apperrors.ErrBedAlreadyAvailable
	}
	if err := bed.Release(); err != nil {
		return nil, err
	}
	clone := *bed
	return &clone, nil
}

func (s *memoryStore) AppendSwitchRecord(ctx context.Context, record *models.SwitchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = uint(len(s.switches) + 1)
	s.switches = append(s.switches, *record)
	return nil
}

func (s *memoryStore) ListSwitchHistory(ctx context.Context, residentID uint) ([]models.SwitchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []models.SwitchRecord
	for _, record := range s.switches {
		if record.ResidentID == residentID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SwitchDate.After(records[j].SwitchDate)
	})
	return records, nil
}

func (s *memoryStore) ListRoomsWithFreeBeds(ctx context.Context, propertyID uint, sharingType int) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []models.Room
	for _, room := range s.rooms {
		if room.PropertyID != propertyID || !room.IsActive {
			continue
		}
		if sharingType > 0 && room.SharingType != sharingType {
			continue
		}
		if room.FreeBedCount() == 0 {
			continue
		}
		rooms = append(rooms, *copyRoom(room))
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].RoomNumber < rooms[j].RoomNumber
	})
	return rooms, nil
}

func (s *memoryStore) ListMaturedReservations(ctx context.Context, asOf time.Time) ([]models.Bed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var beds []models.Bed
	for _, room := range s.rooms {
		for i := range room.Beds {
			if room.Beds[i].ReservationMatured(asOf) {
				beds = append(beds, room.Beds[i])
			}
		}
	}
	return beds, nil
}

func (s *memoryStore) ListDueNoticeResidents(ctx context.Context, cutoff time.Time) ([]models.Resident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var residents []models.Resident
	for _, resident := range s.residents {
		if resident.Status != models.ResidentStatusNoticePeriod {
			continue
		}
		if resident.VacationDate == nil || !resident.VacationDate.Before(cutoff) {
			continue
		}
		residents = append(residents, *copyResident(resident))
	}
	return residents, nil
}

func (s *memoryStore) HasPendingReservationFor(ctx context.Context, residentID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		for i := range room.Beds {
			bed := &room.Beds[i]
			if bed.HasPendingReservation() &&
				bed.Reservation.NewResidentID != nil &&
				*bed.Reservation.NewResidentID == residentID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *memoryStore) ResidentStatuses(ctx context.Context, ids []uint) (map[uint]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	statuses := make(map[uint]string, len(ids))
	for _, id := range ids {
		if resident, ok := s.residents[id]; ok {
			statuses[id] = resident.Status
		}
	}
	return statuses, nil
}

// fakeClock is a settable Clock for reconciliation tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
