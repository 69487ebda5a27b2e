package models

import "time"

// SwitchRecord is one entry of a resident's room-switch audit trail.
// Records are append-only and never updated once written.
type SwitchRecord struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ResidentID  uint      `json:"residentId" gorm:"index;not null"`
	FromRoom    string    `json:"fromRoom"`
	FromBed     string    `json:"fromBed"`
	ToRoom      string    `json:"toRoom"`
	ToBed       string    `json:"toBed"`
	SwitchDate  time.Time `json:"switchDate"`
	Reason      string    `json:"reason"`
	PerformedBy string    `json:"performedBy"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
