package models

import "time"

// Subscriber is a newsletter signup. Email is unique; a duplicate signup
// is a conflict, not an upsert.
type Subscriber struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
