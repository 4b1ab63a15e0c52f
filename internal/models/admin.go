// internal/models/admin.go
package models

import "time"

// AdminCredential holds the single admin login. New rows carry only the
// bcrypt hash; the Password and EncryptedPassword columns survive from the
// legacy schema and are accepted at login until the row is upgraded.
type AdminCredential struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Username          string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash      string    `json:"-" gorm:"size:100"`
	Password          string    `json:"-" gorm:"size:255"`
	EncryptedPassword string    `json:"-" gorm:"size:255"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (AdminCredential) TableName() string { return "admin_credentials" }

// HasHash reports whether the row has been upgraded to bcrypt storage.
func (c *AdminCredential) HasHash() bool { return c.PasswordHash != "" }
