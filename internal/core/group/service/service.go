package groupapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	groupEntity "yatube/internal/core/group"
	groupPort "yatube/internal/ports/group"

	"go.uber.org/zap"
)

var ErrMissingField = errors.New("group title and description are required")

type GroupService struct {
	GroupRepository groupPort.GroupRepository
	Logger          *zap.Logger
}

func NewGroupService(repo groupPort.GroupRepository, logger *zap.Logger) *GroupService {
	return &GroupService{
		GroupRepository: repo,
		Logger:          logger,
	}
}

// CreateGroup stores a new group; an empty slug is derived from the title.
func (s *GroupService) CreateGroup(ctx context.Context, title, slug, description string) (*groupPort.GroupDTO, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, ErrMissingField
	}

	g := &groupEntity.Group{
		Title:       title,
		Slug:        strings.TrimSpace(slug),
		Description: description,
	}
	if g.Slug == "" {
		g.Slug = groupEntity.DeriveSlug(title)
		if g.Slug == "" {
			return nil, groupEntity.ErrEmptySlug
		}
	}

	if _, err := s.GroupRepository.FindBySlug(ctx, g.Slug); err == nil {
		return nil, fmt.Errorf("slug %q: %w", g.Slug, groupEntity.ErrSlugTaken)
	} else if !errors.Is(err, groupEntity.ErrNotFound) {
		return nil, fmt.Errorf("lookup group %q: %w", g.Slug, err)
	}

	if err := s.GroupRepository.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create group %q: %w", g.Slug, err)
	}

	s.Logger.Info("Group created", zap.String("slug", g.Slug), zap.Uint("id", g.ID))
	return groupPort.ToGroupDTO(g), nil
}

func (s *GroupService) GetGroup(ctx context.Context, slug string) (*groupPort.GroupDTO, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return groupPort.ToGroupDTO(g), nil
}

// ListGroups returns every group, used as the choices of the post form.
func (s *GroupService) ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error) {
	groups, err := s.GroupRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*groupPort.GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, groupPort.ToGroupDTO(g))
	}
	return dtos, nil
}

// Exists reports whether the group id can be referenced by a post.
func (s *GroupService) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := s.GroupRepository.FindByID(ctx, id)
	if errors.Is(err, groupEntity.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteGroup removes the group; its posts stay, without a group.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.GroupRepository.Delete(ctx, g.ID); err != nil {
		return fmt.Errorf("delete group %q: %w", slug, err)
	}
	s.Logger.Info("Group deleted", zap.String("slug", slug))
	return nil
}
