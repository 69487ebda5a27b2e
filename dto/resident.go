package dto

import "time"

// AssignToRoomRequest onboards a pending resident onto a bed
type AssignToRoomRequest struct {
	ResidentID        uint   `json:"residentId" binding:"required"`
	RoomID            uint   `json:"roomId" binding:"required"`
	BedNumber         string `json:"bedNumber" binding:"required,bednumber"`
	CheckInDate       string `json:"checkInDate"`
	ContractStartDate string `json:"contractStartDate"`
	ContractEndDate   string `json:"contractEndDate"`
	AdvanceAmount     int    `json:"advanceAmount"`
	RentAmount        int    `json:"rentAmount"`
}

// AssignCommand is the validated form of AssignToRoomRequest
type AssignCommand struct {
	ResidentID        uint
	RoomID            uint
	BedNumber         string
	CheckInDate       *time.Time
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
	AdvanceAmount     int
	RentAmount        int
}

// VacateRequest releases a resident's bed immediately or after notice
type VacateRequest struct {
	ResidentID   uint   `json:"residentId" binding:"required"`
	VacationType string `json:"vacationType" binding:"required"`
	NoticeDays   int    `json:"noticeDays"`
	VacationDate string `json:"vacationDate"`
}

// VacateCommand is the validated form of VacateRequest
type VacateCommand struct {
	ResidentID   uint
	VacationType string
	NoticeDays   int
	VacationDate *time.Time
}

// SwitchRoomRequest moves a resident to a free bed in another room
type SwitchRoomRequest struct {
	ResidentID   uint   `json:"residentId" binding:"required"`
	NewRoomID    uint   `json:"newRoomId" binding:"required"`
	NewBedNumber string `json:"newBedNumber" binding:"required,bednumber"`
	Reason       string `json:"reason"`
	PerformedBy  string `json:"performedBy"`
}

// SwitchRecordResponse is one switch-history entry
type SwitchRecordResponse struct {
	FromRoom    string    `json:"fromRoom"`
	FromBed     string    `json:"fromBed"`
	ToRoom      string    `json:"toRoom"`
	ToBed       string    `json:"toBed"`
	SwitchDate  time.Time `json:"switchDate"`
	Reason      string    `json:"reason"`
	PerformedBy string    `json:"performedBy"`
}
