package user

import (
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36)"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName string    `gorm:"type:varchar(150)"`
	LastName  string    `gorm:"type:varchar(150)"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate assigns a fresh UUID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		u.ID = id
	}
	return nil
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Identity is the authenticated caller, passed explicitly into use cases.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// IsAnonymous reports whether no user is attached to the request.
func (i Identity) IsAnonymous() bool {
	return i.ID == uuid.Nil
}
