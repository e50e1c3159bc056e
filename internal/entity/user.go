package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is provisioned by the external authentication provider; this service only reads it
// and lets the owner edit the bio.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Image     *string   `gorm:"type:text" json:"image,omitempty"`
	Bio       *string   `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
