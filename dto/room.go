package dto

import "time"

// ReserveBedRequest earmarks an occupied bed for a successor resident
type ReserveBedRequest struct {
	RoomID                   uint   `json:"roomId" binding:"required"`
	BedNumber                string `json:"bedNumber" binding:"required,bednumber"`
	NewResidentID            uint   `json:"newResidentId" binding:"required"`
	ExpectedAvailabilityDate string `json:"expectedAvailabilityDate" binding:"required"`
}

// ReserveCommand is the validated form of ReserveBedRequest
type ReserveCommand struct {
	RoomID                   uint
	BedNumber                string
	NewResidentID            uint
	ExpectedAvailabilityDate time.Time
}

// BedAvailability annotates one bed of an available room
type BedAvailability struct {
	BedNumber  string `json:"bedNumber"`
	Status     string `json:"status"`
	OccupantID *uint  `json:"occupantId,omitempty"`
}

// AvailableRoomResponse is one room with at least one free bed
type AvailableRoomResponse struct {
	RoomID         uint              `json:"roomId"`
	RoomNumber     string            `json:"roomNumber"`
	Floor          int               `json:"floor"`
	SharingType    int               `json:"sharingType"`
	Cost           int               `json:"cost"`
	FreeBeds       int               `json:"freeBeds"`
	FullyOccupied  bool              `json:"fullyOccupied"`
	HasAnyOccupant bool              `json:"hasAnyOccupant"`
	Beds           []BedAvailability `json:"beds"`
}
