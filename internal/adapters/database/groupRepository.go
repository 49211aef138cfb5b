package database

import (
	"context"
	"errors"

	"yatube/internal/core/group"
	"yatube/internal/core/post"

	"gorm.io/gorm"
)

// GroupRepositoryDatabase implements GroupRepository on top of gorm
type GroupRepositoryDatabase struct {
	db *gorm.DB
}

// NewGroupRepositoryDatabase constructs a GroupRepositoryDatabase
func NewGroupRepositoryDatabase(db *gorm.DB) *GroupRepositoryDatabase {
	return &GroupRepositoryDatabase{db: db}
}

func (repo *GroupRepositoryDatabase) Create(ctx context.Context, g *group.Group) error {
	err := repo.db.WithContext(ctx).Create(g).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return group.ErrSlugTaken
	}
	return err
}

func (repo *GroupRepositoryDatabase) FindByID(ctx context.Context, id uint) (*group.Group, error) {
	var g group.Group
	if err := repo.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, notFound(err, group.ErrNotFound)
	}
	return &g, nil
}

func (repo *GroupRepositoryDatabase) FindBySlug(ctx context.Context, slug string) (*group.Group, error) {
	var g group.Group
	if err := repo.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, notFound(err, group.ErrNotFound)
	}
	return &g, nil
}

func (repo *GroupRepositoryDatabase) List(ctx context.Context) ([]*group.Group, error) {
	groups := []*group.Group{}
	if err := repo.db.WithContext(ctx).Order("title").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete clears the group on its posts first; posts are never removed with a group.
func (repo *GroupRepositoryDatabase) Delete(ctx context.Context, id uint) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&group.Group{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return group.ErrNotFound
		}
		return nil
	})
}
