package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hms/dto"
	"hms/models"
)

func newTestVacations(store OccupancyStore, clock Clock) *VacationProcessor {
	return NewVacationProcessor(VacationProcessorOptions{Store: store, Clock: clock})
}

// noticeFixture onboards resident 1 on room 1 bed 1 and puts them on notice
// until vacationDate.
func noticeFixture(t *testing.T, store *memoryStore, clock *fakeClock, vacationDate time.Time) *OccupancyService {
	t.Helper()
	store.addRoom(1, 10, "101", 2, 6000)
	store.addResident(1, models.ResidentStatusPending)
	svc := newTestOccupancy(store, clock)
	mustAssign(t, svc, 1, 1, "1")
	mustStartNotice(t, svc, 1, vacationDate, 30)
	return svc
}

func TestVacationRunNoopBeforeDate(t *testing.T) {
	store := newMemoryStore()
	clock := newFakeClock(testNow)
	vacationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	noticeFixture(t, store, clock, vacationDate)
	processor := newTestVacations(store, clock)

	result, err := processor.ProcessDueVacations(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.TotalFound)
	assert.Zero(t, result.ProcessedCount)
	assert.Zero(t, result.ErrorCount)

	resident, err := store.GetResident(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ResidentStatusNoticePeriod, resident.Status)
	assert.True(t, resident.HasRoom())
}

func TestVacationRunEndsDueResidency(t *testing.T) {
	store := newMemoryStore()
	clock := newFakeClock(testNow)
	vacationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	noticeFixture(t, store, clock, vacationDate)
	processor := newTestVacations(store, clock)

	// same calendar day counts as due
	runTime := vacationDate.Add(6 * time.Hour)
	clock.Set(runTime)

	result, err := processor.ProcessDueVacations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalFound)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Zero(t, result.ErrorCount)

	resident, err := store.GetResident(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ResidentStatusInactive, resident.Status)
	assert.False(t, resident.HasRoom())
	assert.Nil(t, resident.VacationDate)
	assert.Zero(t, resident.NoticeDays)
	require.NotNil(t, resident.CheckOutDate)
	assert.Equal(t, runTime, *resident.CheckOutDate)

	room, err := store.GetRoom(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, room.FindBed("1").IsOccupied)

	// re-running finds nothing
	result, err = processor.ProcessDueVacations(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.TotalFound)
}

func TestVacationRunSkipsReservedBed(t *testing.T) {
	store := newMemoryStore()
	clock := newFakeClock(testNow)
	vacationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	svc := noticeFixture(t, store, clock, vacationDate)
	store.addResident(2, models.ResidentStatusPending)
	_, err := svc.ReserveForSuccessor(context.Background(), dto.ReserveCommand{
		RoomID:                   1,
		BedNumber:                "1",
		NewResidentID:            2,
		ExpectedAvailabilityDate: vacationDate,
	})
	require.NoError(t, err)

	processor := newTestVacations(store, clock)
	clock.Set(vacationDate.Add(6 * time.Hour))

	result, err := processor.ProcessDueVacations(context.Background())
	require.NoError(t, err)
	// the resident is found but the handover belongs to the reconciler
	assert.Equal(t, 1, result.TotalFound)
	assert.Zero(t, result.ProcessedCount)
	assert.Zero(t, result.ErrorCount)

	resident, err := store.GetResident(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ResidentStatusNoticePeriod, resident.Status)
	room, err := store.GetRoom(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, room.FindBed("1").IsOccupied)
}

func TestVacationRunToleratesFreedBed(t *testing.T) {
	store := newMemoryStore()
	clock := newFakeClock(testNow)
	vacationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	noticeFixture(t, store, clock, vacationDate)

	// the bed was released out of band; the terminal transition must
	// still happen
	_, err := store.ReleaseBed(context.Background(), 1, "1", nil)
	require.NoError(t, err)

	processor := newTestVacations(store, clock)
	clock.Set(vacationDate.Add(6 * time.Hour))

	result, err := processor.ProcessDueVacations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalFound)
	assert.Equal(t, 1, result.ProcessedCount)

	resident, err := store.GetResident(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ResidentStatusInactive, resident.Status)
	assert.False(t, resident.HasRoom())
}

func TestVacationRunDeactivatesRoomlessResident(t *testing.T) {
	store := newMemoryStore()
	clock := newFakeClock(testNow)
	vacationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	resident := store.addResident(1, models.ResidentStatusNoticePeriod)
	resident.VacationDate = &vacationDate

	processor := newTestVacations(store, clock)
	clock.Set(vacationDate.Add(6 * time.Hour))

	result, err := processor.ProcessDueVacations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalFound)
	assert.Equal(t, 1, result.ProcessedCount)

	saved, err := store.GetResident(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ResidentStatusInactive, saved.Status)
}

func TestVacationRunIsolatesFailures(t *testing.T) {
	store := newMemoryStore()
	clock := newFakeClock(testNow)
	vacationDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	svc := noticeFixture(t, store, clock, vacationDate)

	// a second due resident whose room row vanished
	store.addRoom(2, 10, "201", 2, 5000)
	store.addResident(2, models.ResidentStatusPending)
	mustAssign(t, svc, 2, 2, "1")
	mustStartNotice(t, svc, 2, vacationDate, 30)
	store.mu.Lock()
	delete(store.rooms, 2)
	store.mu.Unlock()

	processor := newTestVacations(store, clock)
	clock.Set(vacationDate.Add(6 * time.Hour))

	result, err := processor.ProcessDueVacations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalFound)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, 1, result.ErrorCount)

	healthy, err := store.GetResident(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ResidentStatusInactive, healthy.Status)
}
