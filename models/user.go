package models

import "time"

// User is the local record of an identity-provider account.
type User struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email,omitempty" bson:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty" bson:"displayName,omitempty"`
	PhotoURL    string    `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	Provider    string    `json:"provider" bson:"provider"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt" bson:"lastLoginAt"`
}
