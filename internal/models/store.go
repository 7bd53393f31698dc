// internal/models/store.go
package models

import "github.com/lib/pq"

type Store struct {
	BaseModel
	Name          string         `json:"name" gorm:"size:255;not null"`
	Address       string         `json:"address" gorm:"type:text"`
	IsOpen        bool           `json:"is_open" gorm:"default:true"`
	DeliveryZones pq.StringArray `json:"delivery_zones" gorm:"type:text[]"`
}
