// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	UserID      *uuid.UUID  `json:"user_id" gorm:"type:uuid;index"`
	StoreID     *uuid.UUID  `json:"store_id" gorm:"type:uuid;index"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);default:'placed';index"`
	TotalAmount float64     `json:"total_amount" gorm:"type:decimal(10,2);not null"`

	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Store      *Store      `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Items      []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Deliveries []Delivery  `json:"deliveries,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID `json:"product_id" gorm:"type:uuid;index"`
	Quantity  int        `json:"quantity" gorm:"not null"`
	Price     float64    `json:"price" gorm:"type:decimal(10,2);not null"` // unit price at order time

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type Delivery struct {
	BaseModel
	OrderID uuid.UUID      `json:"order_id" gorm:"type:uuid;not null;index"`
	AgentID uuid.UUID      `json:"agent_id" gorm:"type:uuid;not null;index"`
	Status  DeliveryStatus `json:"status" gorm:"type:varchar(20);default:'assigned';index"`

	Agent *DeliveryAgent `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

type DeliveryAgent struct {
	BaseModel
	UserID      *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	IsAvailable bool       `json:"is_available" gorm:"default:true"`

	User       *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Locations  []AgentLocation `json:"locations,omitempty" gorm:"foreignKey:AgentID"`
	Deliveries []Delivery      `json:"deliveries,omitempty" gorm:"foreignKey:AgentID"`
}

// AgentLocation is a position ping from the courier app.
type AgentLocation struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	AgentID    uuid.UUID `json:"agent_id" gorm:"type:uuid;not null;index"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}
