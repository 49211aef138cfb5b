package database

import (
	"context"
	"errors"

	"yatube/internal/core/post"
	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase implements UserRepository on top of gorm
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase constructs a UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) error {
	err := repo.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.ErrUsernameTaken
	}
	return err
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err, user.ErrNotFound)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err, user.ErrNotFound)
	}
	return &u, nil
}

// Delete cascades to the user's posts inside one transaction, so stores
// without enforced foreign keys end up in the same state.
func (repo *UserRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&post.Post{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&user.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return user.ErrNotFound
		}
		return nil
	})
}

func (repo *UserRepositoryDatabase) CountPosts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("author_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// notFound swaps gorm's record-not-found for the entity's own sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
