package group

import (
	"errors"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// SlugMaxLen bounds slugs derived from a title.
const SlugMaxLen = 15

var (
	ErrNotFound  = errors.New("group not found")
	ErrSlugTaken = errors.New("group slug already taken")
	ErrEmptySlug = errors.New("group slug cannot be derived from title")
)

type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(200);not null"`
	Slug        string `gorm:"type:varchar(200);uniqueIndex;not null"`
	Description string `gorm:"type:text;not null"`
}

func (g *Group) String() string {
	return g.Title
}

// DeriveSlug transliterates title to ASCII and cuts it to SlugMaxLen.
func DeriveSlug(title string) string {
	s := slug.Make(title)
	if len(s) > SlugMaxLen {
		s = s[:SlugMaxLen]
	}
	return s
}

// BeforeCreate fills an empty slug from the title.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.Slug == "" {
		g.Slug = DeriveSlug(g.Title)
	}
	if g.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}
