package post

import (
	"errors"
	"time"

	"yatube/internal/core/group"
	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrNotAuthor = errors.New("only the author can edit this post")
)

type Post struct {
	ID       uint         `gorm:"primaryKey"`
	Text     string       `gorm:"type:text;not null"`
	PubDate  time.Time    `gorm:"autoCreateTime;index"`
	AuthorID uuid.UUID    `gorm:"type:char(36);not null;index"`
	Author   user.User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	GroupID  *uint        `gorm:"index"`
	Group    *group.Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`
}

func (p *Post) String() string {
	return p.Text
}

// Filter narrows a listing to one group or one author; zero value lists everything.
type Filter struct {
	GroupID  *uint
	AuthorID *uuid.UUID
}
