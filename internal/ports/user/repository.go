package user

import (
	"context"

	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository is the storage port for users.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	// Delete removes the user together with all of their posts.
	Delete(ctx context.Context, id uuid.UUID) error
	CountPosts(ctx context.Context, id uuid.UUID) (int64, error)
}

// DTOs for use cases
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// ProfileDTO describes an author on their profile and post pages.
type ProfileDTO struct {
	UserDTO
	PostsCount int64 `json:"posts_count"`
}

func ToUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName(),
	}
}
