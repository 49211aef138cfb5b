package database

import (
	"context"
	"errors"

	"yatube/internal/core/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase implements PostRepository on top of gorm
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase constructs a PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) error {
	return repo.db.WithContext(ctx).Omit("Author", "Group").Create(p).Error
}

// Update writes only the user-editable columns; pub_date and author stay put.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) error {
	return repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{"text": p.Text, "group_id": p.GroupID}).Error
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uint) (*post.Post, error) {
	var p post.Post
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, post.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) List(ctx context.Context, filter post.Filter, offset, limit int) ([]*post.Post, int64, error) {
	scope := filtered(filter)

	var total int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := []*post.Post{}
	if offset < 0 || int64(offset) >= total {
		return posts, total, nil
	}

	if err := repo.db.WithContext(ctx).
		Scopes(scope).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func filtered(filter post.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.GroupID != nil {
			db = db.Where("group_id = ?", *filter.GroupID)
		}
		if filter.AuthorID != nil {
			db = db.Where("author_id = ?", *filter.AuthorID)
		}
		return db
	}
}
