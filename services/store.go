package services

import (
	"context"
	"time"

	"hms/models"
)

// OccupancyStore is the persistence boundary of the occupancy core. ClaimBed
// and ReleaseBed are the only operations that mutate a bed's occupancy
// fields; both are atomic conditional updates so that two concurrent claims
// on the same free bed produce exactly one success.
type OccupancyStore interface {
	// Transaction runs fn against a store whose writes commit or roll back
	// as one unit.
	Transaction(ctx context.Context, fn func(OccupancyStore) error) error

	// GetRoom loads a room with its beds ordered by bed number.
	GetRoom(ctx context.Context, roomID uint) (*models.Room, error)
	GetResident(ctx context.Context, residentID uint) (*models.Resident, error)
	SaveResident(ctx context.Context, resident *models.Resident) error
	SaveBed(ctx context.Context, bed *models.Bed) error

	// ActivateResident moves a resident from pending to active as an atomic
	// conditional update, the resident-side counterpart of ClaimBed: of any
	// number of concurrent assigns for the same resident exactly one passes,
	// the rest fail with ErrAlreadyAssigned.
	ActivateResident(ctx context.Context, residentID uint) error

	// ClaimBed occupies a free bed for a resident. Fails with ErrBedNotFound
	// or ErrBedUnavailable.
	ClaimBed(ctx context.Context, roomID uint, bedNumber string, residentID uint, at time.Time) (*models.Bed, error)
	// ReleaseBed frees an occupied bed. When expectedOccupant is non-nil the
	// release only applies while that resident still holds the bed; a bed
	// already free or already handed to someone else fails with
	// ErrBedAlreadyAvailable.
	ReleaseBed(ctx context.Context, roomID uint, bedNumber string, expectedOccupant *uint) (*models.Bed, error)

	AppendSwitchRecord(ctx context.Context, record *models.SwitchRecord) error
	ListSwitchHistory(ctx context.Context, residentID uint) ([]models.SwitchRecord, error)

	// ListRoomsWithFreeBeds returns active rooms of a property having at
	// least one free bed; sharingType 0 means all sharing types.
	ListRoomsWithFreeBeds(ctx context.Context, propertyID uint, sharingType int) ([]models.Room, error)
	// ListMaturedReservations returns beds whose pending reservation's
	// expected availability date is at or before asOf.
	ListMaturedReservations(ctx context.Context, asOf time.Time) ([]models.Bed, error)
	// ListDueNoticeResidents returns notice-period residents whose vacation
	// date falls before the cutoff.
	ListDueNoticeResidents(ctx context.Context, cutoff time.Time) ([]models.Resident, error)
	// HasPendingReservationFor reports whether the resident is already the
	// successor of a pending reservation on any bed.
	HasPendingReservationFor(ctx context.Context, residentID uint) (bool, error)
	// ResidentStatuses returns the status of each listed resident.
	ResidentStatuses(ctx context.Context, ids []uint) (map[uint]string, error)
}
