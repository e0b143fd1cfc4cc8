package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preferences is stored as a jsonb column on the user row.
type Preferences struct {
	Theme        string `json:"theme"`        // light | dark | auto
	ItemsPerPage int    `json:"itemsPerPage"` // 10-100
}

// DefaultPreferences mirrors the defaults applied at registration.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "dark", ItemsPerPage: 20}
}

func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Preferences) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = DefaultPreferences()
		return nil
	default:
		return fmt.Errorf("unsupported preferences column type %T", value)
	}
}

type User struct {
	ID            string      `gorm:"primaryKey;type:uuid" json:"id"`
	Username      string      `gorm:"uniqueIndex;not null" json:"username"`
	Email         string      `gorm:"uniqueIndex;not null" json:"email"`
	Password      string      `gorm:"column:password_hash;not null" json:"-"` // Not shown in JSON
	RecoveryWord  string      `gorm:"column:recovery_word_hash;not null" json:"-"`
	DisplayName   string      `json:"display_name"`
	Preferences   Preferences `gorm:"type:jsonb" json:"preferences"`
	IsActive      bool        `gorm:"default:true;not null" json:"is_active"`
	ProfilePublic bool        `gorm:"default:false;not null" json:"profile_public"`
	ListsPublic   bool        `gorm:"default:false;not null" json:"lists_public"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	LastLogin     *time.Time  `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
