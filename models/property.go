package models

import "time"

type Property struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Branch    string    `json:"branch"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	Rooms     []Room    `json:"rooms" gorm:"foreignKey:PropertyID"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
