package models

import "time"

type Membership struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID int  `gorm:"not null;index" json:"user_id"`

	// purchased_inactive | activated | expired
	State     string     `gorm:"size:30;not null" json:"state"`
	ExpiresAt *time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
