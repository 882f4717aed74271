package models

import (
	"time"
)

const (
	NotificationTypeOrderStatus = "order_status"
	NotificationTypeMessage     = "message"
)

// Notification is an in-app notice for one user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"not null;default:'order_status'" json:"type"` // order_status or message
	OrderID   *uint     `gorm:"index" json:"order_id"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
