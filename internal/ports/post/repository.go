package post

import (
	"context"
	"time"

	"yatube/internal/core/post"
	groupPort "yatube/internal/ports/group"
	userPort "yatube/internal/ports/user"
)

// PostRepository is the storage port for posts.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) error
	Update(ctx context.Context, p *post.Post) error
	FindByID(ctx context.Context, id uint) (*post.Post, error)
	// List returns one page of posts newest first together with the total count.
	List(ctx context.Context, filter post.Filter, offset, limit int) ([]*post.Post, int64, error)
}

// DTOs for use cases and views
type PostDTO struct {
	ID      uint                `json:"id"`
	Text    string              `json:"text"`
	PubDate time.Time           `json:"pub_date"`
	Author  *userPort.UserDTO   `json:"author"`
	Group   *groupPort.GroupDTO `json:"group,omitempty"`
}

func (p *PostDTO) String() string {
	return p.Text
}

// PageDTO is one window of a listing.
type PageDTO struct {
	Number      int        `json:"number"`
	NumPages    int        `json:"num_pages"`
	Count       int64      `json:"count"`
	HasNext     bool       `json:"has_next"`
	HasPrevious bool       `json:"has_previous"`
	Items       []*PostDTO `json:"items"`
}

// NextNumber and PreviousNumber feed the pager links in templates.
func (p *PageDTO) NextNumber() int {
	return p.Number + 1
}

func (p *PageDTO) PreviousNumber() int {
	return p.Number - 1
}

// PostDetailDTO is a single post plus how much its author has written.
type PostDetailDTO struct {
	*PostDTO
	AuthorPostsCount int64 `json:"author_posts_count"`
}

func ToPostDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  userPort.ToUserDTO(&p.Author),
		Group:   groupPort.ToGroupDTO(p.Group),
	}
}
