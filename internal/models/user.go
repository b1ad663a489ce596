package models

import (
	"time"
)

// User represents a registered account in the taxtrack schema.
// AuthzID links the row to the Authorizer identity that authenticates requests;
// PasswordHash is retained for schema parity with the legacy mysql service.
type User struct {
	UserID       uint64 `gorm:"primaryKey;autoIncrement"`
	AuthzID      string `gorm:"type:char(36);uniqueIndex;not null"`
	Username     string `gorm:"uniqueIndex;size:100;not null"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
