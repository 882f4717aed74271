package models

import (
	"time"
)

// Message represents an entry in an order's conversation log.
// Messages are append-only and reference the order by id only.
type Message struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderID         uint      `gorm:"not null;index" json:"order_id"`
	SenderID        *uint     `gorm:"index" json:"sender_id"` // nil for system messages
	Sender          *User     `gorm:"foreignKey:SenderID" json:"-"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	IsSystemMessage bool      `gorm:"not null;default:false" json:"is_system_message"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
