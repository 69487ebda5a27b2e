package models

import "time"

// Resident status constants
const (
	ResidentStatusPending      = "pending"
	ResidentStatusActive       = "active"
	ResidentStatusNoticePeriod = "notice_period"
	ResidentStatusInactive     = "inactive"
	ResidentStatusMovedOut     = "moved_out"
)

// Resident is the per-resident occupancy record. RoomID/RoomNumber/BedNumber
// are a denormalized back-reference into the owning room and bed; they are
// kept consistent with Bed.OccupiedBy and mutated only by the occupancy
// service. SharingType and Cost are copied from the room at assignment time.
type Resident struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	FullName          string         `json:"fullName"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone"`
	Status            string         `json:"status" gorm:"default:pending;index"`
	RoomID            *uint          `json:"roomId" gorm:"index"`
	RoomNumber        string         `json:"roomNumber"`
	BedNumber         string         `json:"bedNumber"`
	SharingType       int            `json:"sharingType"`
	Cost              int            `json:"cost"`
	CheckInDate       *time.Time     `json:"checkInDate"`
	ContractStartDate *time.Time     `json:"contractStartDate"`
	ContractEndDate   *time.Time     `json:"contractEndDate"`
	VacationDate      *time.Time     `json:"vacationDate" gorm:"index"`
	NoticeDays        int            `json:"noticeDays"`
	CheckOutDate      *time.Time     `json:"checkOutDate"`
	AdvanceAmount     int            `json:"advanceAmount"`
	RentAmount        int            `json:"rentAmount"`
	SwitchHistory     []SwitchRecord `json:"switchHistory" gorm:"foreignKey:ResidentID"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// HasRoom reports whether the resident currently points at a room.
func (r *Resident) HasRoom() bool {
	return r.RoomID != nil
}

// ClearRoomPointers drops the denormalized room/bed reference.
func (r *Resident) ClearRoomPointers() {
	r.RoomID = nil
	r.RoomNumber = ""
	r.BedNumber = ""
}

// ClearNotice drops the notice-period fields.
func (r *Resident) ClearNotice() {
	r.VacationDate = nil
	r.NoticeDays = 0
}
