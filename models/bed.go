package models

import (
	"time"

	apperrors "hms/errors"
)

// Reservation status constants
const (
	ReservationStatusPending   = "pending"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
)

// Reservation earmarks a still-occupied bed for a successor resident.
// An empty Status means the bed has never been reserved.
type Reservation struct {
	CurrentResidentID        *uint      `json:"currentResidentId"`
	NewResidentID            *uint      `json:"newResidentId"`
	ExpectedAvailabilityDate *time.Time `json:"expectedAvailabilityDate"`
	ReservationDate          *time.Time `json:"reservationDate"`
	Status                   string     `json:"status"`
}

// Bed is one assignable sleeping slot within a room. BedNumber is unique
// within its room. Occupancy fields are mutated only through Claim/Release.
type Bed struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	RoomID      uint        `json:"roomId" gorm:"index:idx_room_bed,unique"`
	BedNumber   string      `json:"bedNumber" gorm:"index:idx_room_bed,unique"`
	IsOccupied  bool        `json:"isOccupied"`
	OccupiedBy  *uint       `json:"occupiedBy" gorm:"index"`
	OccupiedAt  *time.Time  `json:"occupiedAt"`
	Reservation Reservation `json:"reservation" gorm:"embedded;embeddedPrefix:reservation_"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Claim marks the bed occupied by the given resident. Fails if the bed is
// already occupied.
func (b *Bed) Claim(residentID uint, at time.Time) error {
	if b.IsOccupied {
		return apperrors.ErrBedUnavailable
	}
	b.IsOccupied = true
	b.OccupiedBy = &residentID
	b.OccupiedAt = &at
	return nil
}

// Release clears the occupancy fields. Fails if the bed is already free so
// callers can distinguish "nothing to do" from a real fault.
func (b *Bed) Release() error {
	if !b.IsOccupied {
		return apperrors.ErrBedAlreadyAvailable
	}
	b.IsOccupied = false
	b.OccupiedBy = nil
	b.OccupiedAt = nil
	return nil
}

// HasPendingReservation reports whether a pending reservation is attached.
func (b *Bed) HasPendingReservation() bool {
	return b.Reservation.Status == ReservationStatusPending
}

// Reserve attaches a pending reservation for a successor. At most one
// pending reservation may exist per bed.
func (b *Bed) Reserve(currentResidentID, newResidentID uint, expectedDate, at time.Time) error {
	if !b.IsOccupied {
		return apperrors.ErrReservationConflict
	}
	if b.HasPendingReservation() {
		return apperrors.ErrReservationConflict
	}
	b.Reservation = Reservation{
		CurrentResidentID:        &currentResidentID,
		NewResidentID:            &newResidentID,
		ExpectedAvailabilityDate: &expectedDate,
		ReservationDate:          &at,
		Status:                   ReservationStatusPending,
	}
	return nil
}

// CompleteReservation marks the pending reservation as fulfilled.
func (b *Bed) CompleteReservation() {
	b.Reservation.Status = ReservationStatusCompleted
}

// CancelReservation marks the pending reservation as cancelled.
func (b *Bed) CancelReservation() {
	b.Reservation.Status = ReservationStatusCancelled
}

// ReservationMatured reports whether the pending reservation's expected
// availability date has been reached.
func (b *Bed) ReservationMatured(now time.Time) bool {
	if !b.HasPendingReservation() || b.Reservation.ExpectedAvailabilityDate == nil {
		return false
	}
	return !b.Reservation.ExpectedAvailabilityDate.After(now)
}
