package postapp

import (
	"context"
	"errors"
	"fmt"

	groupEntity "yatube/internal/core/group"
	"yatube/internal/core/pagination"
	postEntity "yatube/internal/core/post"
	userEntity "yatube/internal/core/user"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"go.uber.org/zap"
)

type PostService struct {
	PostRepository  postPort.PostRepository
	GroupRepository groupPort.GroupRepository
	UserRepository  userPort.UserRepository
	PageSize        int
	Logger          *zap.Logger
}

func NewPostService(
	postRepo postPort.PostRepository,
	groupRepo groupPort.GroupRepository,
	userRepo userPort.UserRepository,
	pageSize int,
	logger *zap.Logger,
) *PostService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultSize
	}
	return &PostService{
		PostRepository:  postRepo,
		GroupRepository: groupRepo,
		UserRepository:  userRepo,
		PageSize:        pageSize,
		Logger:          logger,
	}
}

// ListPosts is the site-wide feed, newest first.
func (s *PostService) ListPosts(ctx context.Context, page int) (*postPort.PageDTO, error) {
	return s.listPage(ctx, postEntity.Filter{}, page)
}

// ListGroupPosts lists the posts of the group with the given slug.
func (s *PostService) ListGroupPosts(ctx context.Context, slug string, page int) (*groupPort.GroupDTO, *postPort.PageDTO, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.listPage(ctx, postEntity.Filter{GroupID: &g.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return groupPort.ToGroupDTO(g), p, nil
}

// ListProfilePosts lists the posts written by username.
func (s *PostService) ListProfilePosts(ctx context.Context, username string, page int) (*userPort.ProfileDTO, *postPort.PageDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.listPage(ctx, postEntity.Filter{AuthorID: &u.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	profile := &userPort.ProfileDTO{UserDTO: *userPort.ToUserDTO(u), PostsCount: p.Count}
	return profile, p, nil
}

func (s *PostService) listPage(ctx context.Context, filter postEntity.Filter, number int) (*postPort.PageDTO, error) {
	// the total is unknown until the query runs, so window first and fix up after
	window := pagination.New(number, s.PageSize, 0)
	posts, total, err := s.PostRepository.List(ctx, filter, window.Offset(), window.Limit())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	window = pagination.New(number, s.PageSize, total)

	items := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		items = append(items, postPort.ToPostDTO(p))
	}
	return &postPort.PageDTO{
		Number:      window.Number,
		NumPages:    window.NumPages(),
		Count:       total,
		HasNext:     window.HasNext(),
		HasPrevious: window.HasPrevious(),
		Items:       items,
	}, nil
}

// GetPost returns a single post with its author's post count.
func (s *PostService) GetPost(ctx context.Context, id uint) (*postPort.PostDetailDTO, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.UserRepository.CountPosts(ctx, p.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("count posts of %q: %w", p.Author.Username, err)
	}
	return &postPort.PostDetailDTO{PostDTO: postPort.ToPostDTO(p), AuthorPostsCount: count}, nil
}

// EditablePost loads the edit form of a post, refusing anyone but its author.
func (s *PostService) EditablePost(ctx context.Context, actor userEntity.Identity, id uint) (*postEntity.Form, error) {
	p, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	f := postEntity.FormFromPost(p)
	return &f, nil
}

// CreatePost validates the form and stores a post written by actor.
func (s *PostService) CreatePost(ctx context.Context, actor userEntity.Identity, form postEntity.Form) (*postPort.PostDTO, error) {
	if actor.IsAnonymous() {
		return nil, userEntity.ErrInvalidCredentials
	}
	cleaned, err := form.Clean(ctx, s.groupExists)
	if err != nil {
		return nil, err
	}

	p := &postEntity.Post{
		Text:     cleaned.Text,
		AuthorID: actor.ID,
		GroupID:  cleaned.GroupID,
	}
	if err := s.PostRepository.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.Logger.Info("Created post", zap.Uint("id", p.ID), zap.String("author", actor.Username))
	return s.reload(ctx, p.ID)
}

// UpdatePost rewrites text and group of a post; only its author may do so.
func (s *PostService) UpdatePost(ctx context.Context, actor userEntity.Identity, id uint, form postEntity.Form) (*postPort.PostDTO, error) {
	p, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	cleaned, err := form.Clean(ctx, s.groupExists)
	if err != nil {
		return nil, err
	}

	p.Text = cleaned.Text
	p.GroupID = cleaned.GroupID
	if err := s.PostRepository.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}

	s.Logger.Info("Updated post", zap.Uint("id", id), zap.String("author", actor.Username))
	return s.reload(ctx, id)
}

func (s *PostService) authored(ctx context.Context, actor userEntity.Identity, id uint) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAnonymous() || p.AuthorID != actor.ID {
		return nil, postEntity.ErrNotAuthor
	}
	return p, nil
}

func (s *PostService) reload(ctx context.Context, id uint) (*postPort.PostDTO, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return postPort.ToPostDTO(p), nil
}

func (s *PostService) groupExists(ctx context.Context, id uint) (bool, error) {
	_, err := s.GroupRepository.FindByID(ctx, id)
	if errors.Is(err, groupEntity.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
