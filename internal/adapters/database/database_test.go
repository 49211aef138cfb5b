package database_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"yatube/internal/adapters/database"
	"yatube/internal/core/group"
	"yatube/internal/core/post"
	"yatube/internal/core/user"
	"yatube/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type repos struct {
	users  *database.UserRepositoryDatabase
	groups *database.GroupRepositoryDatabase
	posts  *database.PostRepositoryDatabase
}

func setup(t *testing.T) (*gorm.DB, repos) {
	db := testutil.NewDB(t)
	return db, repos{
		users:  database.NewUserRepositoryDatabase(db),
		groups: database.NewGroupRepositoryDatabase(db),
		posts:  database.NewPostRepositoryDatabase(db),
	}
}

func mustUser(t *testing.T, r repos, username string) *user.User {
	t.Helper()
	u := &user.User{Username: username, Password: "x"}
	require.NoError(t, r.users.Create(context.Background(), u))
	require.NotEqual(t, uuid.Nil, u.ID)
	return u
}

func mustGroup(t *testing.T, r repos, title, slug string) *group.Group {
	t.Helper()
	g := &group.Group{Title: title, Slug: slug, Description: "d"}
	require.NoError(t, r.groups.Create(context.Background(), g))
	return g
}

func mustPost(t *testing.T, r repos, p *post.Post) *post.Post {
	t.Helper()
	require.NoError(t, r.posts.Create(context.Background(), p))
	return p
}

func TestPostRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t)
	u := mustUser(t, r, "HasNoName")
	g := mustGroup(t, r, "Тестовая группа4", "test_group4")

	mustPost(t, r, &post.Post{ID: 99, Text: "Второе задание по формам", AuthorID: u.ID, GroupID: &g.ID})

	got, err := r.posts.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "Второе задание по формам", got.Text)
	assert.Equal(t, "HasNoName", got.Author.Username)
	require.NotNil(t, got.Group)
	assert.Equal(t, "test_group4", got.Group.Slug)
	assert.False(t, got.PubDate.IsZero())

	_, err = r.posts.FindByID(ctx, 100)
	assert.ErrorIs(t, err, post.ErrNotFound)
}

func TestPostRepository_ListOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t)
	alice := mustUser(t, r, "alice")
	bob := mustUser(t, r, "bob")
	g := mustGroup(t, r, "Cats", "cats")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	// inserted out of order on purpose
	mustPost(t, r, &post.Post{Text: "middle", AuthorID: alice.ID, PubDate: base.Add(time.Hour)})
	mustPost(t, r, &post.Post{Text: "oldest", AuthorID: bob.ID, GroupID: &g.ID, PubDate: base})
	mustPost(t, r, &post.Post{Text: "newest", AuthorID: alice.ID, GroupID: &g.ID, PubDate: base.Add(2 * time.Hour)})

	all, total, err := r.posts.List(ctx, post.Filter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, texts(all))

	inGroup, total, err := r.posts.List(ctx, post.Filter{GroupID: &g.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"newest", "oldest"}, texts(inGroup))

	byAlice, total, err := r.posts.List(ctx, post.Filter{AuthorID: &alice.ID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"newest", "middle"}, texts(byAlice))
	assert.Equal(t, "alice", byAlice[0].Author.Username)
}

func TestPostRepository_ListWindows(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t)
	u := mustUser(t, r, "writer")
	for i := 0; i < 24; i++ {
		mustPost(t, r, &post.Post{Text: fmt.Sprintf("post %d", i), AuthorID: u.ID})
	}

	for _, tt := range []struct {
		offset int
		want   int
	}{{0, 10}, {10, 10}, {20, 4}, {30, 0}, {-10, 0}, {math.MaxInt, 0}} {
		posts, total, err := r.posts.List(ctx, post.Filter{}, tt.offset, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 24, total)
		assert.Len(t, posts, tt.want, "offset %d", tt.offset)
	}

	first, _, err := r.posts.List(ctx, post.Filter{}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "post 23", first[0].Text, "ties on pub_date fall back to the newest id")
}

func TestPostRepository_UpdateKeepsPubDateAndAuthor(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t)
	u := mustUser(t, r, "author")
	g := mustGroup(t, r, "Dogs", "dogs")
	p := mustPost(t, r, &post.Post{Text: "before", AuthorID: u.ID, GroupID: &g.ID})

	before, err := r.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, r.posts.Update(ctx, &post.Post{ID: p.ID, Text: "after"}))

	after, err := r.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", after.Text)
	assert.Nil(t, after.GroupID)
	assert.Equal(t, u.ID, after.AuthorID)
	assert.True(t, before.PubDate.Equal(after.PubDate))
}

func TestUserRepository_DeleteCascadesPosts(t *testing.T) {
	ctx := context.Background()
	db, r := setup(t)
	doomed := mustUser(t, r, "doomed")
	keeper := mustUser(t, r, "keeper")
	for i := 0; i < 3; i++ {
		mustPost(t, r, &post.Post{Text: "gone", AuthorID: doomed.ID})
	}
	mustPost(t, r, &post.Post{Text: "stays", AuthorID: keeper.ID})

	require.NoError(t, r.users.Delete(ctx, doomed.ID))

	var count int64
	require.NoError(t, db.Model(&post.Post{}).Where("author_id = ?", doomed.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&post.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err := r.users.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
	assert.ErrorIs(t, r.users.Delete(ctx, doomed.ID), user.ErrNotFound)
}

func TestGroupRepository_DeleteDetachesPosts(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t)
	u := mustUser(t, r, "author")
	g := mustGroup(t, r, "Temporary", "temporary")
	p := mustPost(t, r, &post.Post{Text: "survivor", AuthorID: u.ID, GroupID: &g.ID})

	require.NoError(t, r.groups.Delete(ctx, g.ID))

	got, err := r.posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)

	_, err = r.groups.FindBySlug(ctx, "temporary")
	assert.ErrorIs(t, err, group.ErrNotFound)
	assert.ErrorIs(t, r.groups.Delete(ctx, g.ID), group.ErrNotFound)
}

func TestGroupRepository_CreateDerivesSlug(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t)

	g := &group.Group{Title: "A very long group title indeed", Description: "d"}
	require.NoError(t, r.groups.Create(ctx, g))
	assert.Equal(t, "a-very-long-gro", g.Slug)

	found, err := r.groups.FindBySlug(ctx, "a-very-long-gro")
	require.NoError(t, err)
	assert.Equal(t, g.ID, found.ID)

	groups, err := r.groups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestUserRepository_CountPosts(t *testing.T) {
	ctx := context.Background()
	_, r := setup(t)
	u := mustUser(t, r, "counter")
	for i := 0; i < 4; i++ {
		mustPost(t, r, &post.Post{Text: "p", AuthorID: u.ID})
	}

	n, err := r.users.CountPosts(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	found, err := r.users.FindByUsername(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func texts(posts []*post.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Text)
	}
	return out
}
