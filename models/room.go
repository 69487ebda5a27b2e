package models

import (
	"fmt"
	"strconv"
	"time"
)

type Room struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PropertyID  uint      `json:"propertyId" gorm:"index"`
	RoomNumber  string    `json:"roomNumber"`
	Floor       int       `json:"floor"`
	SharingType int       `json:"sharingType"`
	Cost        int       `json:"cost"`
	IsActive    bool      `json:"isActive" gorm:"default:true"`
	Beds        []Bed     `json:"beds" gorm:"foreignKey:RoomID"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *Room) ValidateSharingType() error {
	if r.SharingType < 1 || r.SharingType > 4 {
		return fmt.Errorf("invalid sharing type: %d, must be between 1 and 4", r.SharingType)
	}
	return nil
}

// ValidateBedNumber checks that bedNumber is a number within 1..SharingType.
func (r *Room) ValidateBedNumber(bedNumber string) error {
	n, err := strconv.Atoi(bedNumber)
	if err != nil {
		return fmt.Errorf("bed number %q is not numeric", bedNumber)
	}
	if n < 1 || n > r.SharingType {
		return fmt.Errorf("bed number %d out of range for %d-sharing room", n, r.SharingType)
	}
	return nil
}

// FindBed returns the bed with the given number, or nil.
func (r *Room) FindBed(bedNumber string) *Bed {
	for i := range r.Beds {
		if r.Beds[i].BedNumber == bedNumber {
			return &r.Beds[i]
		}
	}
	return nil
}

// FullyOccupied reports whether every bed of the room is occupied. Always
// derived from the bed list, never stored.
func (r *Room) FullyOccupied() bool {
	if len(r.Beds) == 0 {
		return false
	}
	for i := range r.Beds {
		if !r.Beds[i].IsOccupied {
			return false
		}
	}
	return true
}

// HasAnyOccupant reports whether at least one bed of the room is occupied.
func (r *Room) HasAnyOccupant() bool {
	for i := range r.Beds {
		if r.Beds[i].IsOccupied {
			return true
		}
	}
	return false
}

// FreeBedCount returns the number of unoccupied beds.
func (r *Room) FreeBedCount() int {
	count := 0
	for i := range r.Beds {
		if !r.Beds[i].IsOccupied {
			count++
		}
	}
	return count
}
