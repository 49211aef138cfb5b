package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/pagination"
	"yatube/internal/core/post"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"github.com/gin-gonic/gin"
)

type listingView struct {
	Base
	Group   *groupPort.GroupDTO  `json:"group,omitempty"`
	Author  *userPort.ProfileDTO `json:"author,omitempty"`
	PageObj *postPort.PageDTO    `json:"page_obj"`
}

type detailView struct {
	Base
	Post *postPort.PostDetailDTO `json:"post"`
}

type formView struct {
	Base
	IsEdit bool                  `json:"is_edit"`
	PostID uint                  `json:"post_id,omitempty"`
	Form   post.Form             `json:"form"`
	Errors map[string][]string   `json:"errors,omitempty"`
	Groups []*groupPort.GroupDTO `json:"groups"`
}

// SelectedGroup tells the template which option to preselect.
func (v *formView) SelectedGroup(id uint) bool {
	return v.Form.Group == strconv.FormatUint(uint64(id), 10)
}

type PostController struct {
	pc PostUseCase
	gc GroupUseCase
	responder
}

func NewPostController(pc PostUseCase, gc GroupUseCase, resp responder) *PostController {
	return &PostController{pc: pc, gc: gc, responder: resp}
}

func (ctl *PostController) Index(c *gin.Context) {
	page, err := ctl.pc.ListPosts(c.Request.Context(), pageNumber(c))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.render(c, http.StatusOK, &listingView{
		Base:    Base{Template: "posts/index.html", Title: "Latest posts"},
		PageObj: page,
	})
}

func (ctl *PostController) GroupPosts(c *gin.Context) {
	g, page, err := ctl.pc.ListGroupPosts(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.render(c, http.StatusOK, &listingView{
		Base:    Base{Template: "posts/group_list.html", Title: g.Title},
		Group:   g,
		PageObj: page,
	})
}

func (ctl *PostController) Profile(c *gin.Context) {
	author, page, err := ctl.pc.ListProfilePosts(c.Request.Context(), c.Param("username"), pageNumber(c))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.render(c, http.StatusOK, &listingView{
		Base:    Base{Template: "posts/profile.html", Title: "Profile of " + author.FullName},
		Author:  author,
		PageObj: page,
	})
}

func (ctl *PostController) PostDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		ctl.notFound(c)
		return
	}
	p, err := ctl.pc.GetPost(c.Request.Context(), id)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.render(c, http.StatusOK, &detailView{
		Base: Base{Template: "posts/post_detail.html", Title: "Post " + truncate(p.Text, 30)},
		Post: p,
	})
}

func (ctl *PostController) PostCreateForm(c *gin.Context) {
	ctl.renderForm(c, &formView{IsEdit: false})
}

func (ctl *PostController) PostCreate(c *gin.Context) {
	var form post.Form
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	actor := middleware.CurrentUser(c)
	_, err := ctl.pc.CreatePost(c.Request.Context(), actor, form)
	var verr *post.ValidationError
	switch {
	case errors.As(err, &verr):
		ctl.renderForm(c, &formView{IsEdit: false, Form: form, Errors: verr.Fields})
		return
	case err != nil:
		ctl.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+url.PathEscape(actor.Username)+"/")
}

func (ctl *PostController) PostEditForm(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		ctl.notFound(c)
		return
	}
	form, err := ctl.pc.EditablePost(c.Request.Context(), middleware.CurrentUser(c), id)
	if errors.Is(err, post.ErrNotAuthor) {
		c.Redirect(http.StatusFound, detailPath(id))
		return
	}
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.renderForm(c, &formView{IsEdit: true, PostID: id, Form: *form})
}

func (ctl *PostController) PostEdit(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		ctl.notFound(c)
		return
	}
	var form post.Form
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	_, err := ctl.pc.UpdatePost(c.Request.Context(), middleware.CurrentUser(c), id, form)
	var verr *post.ValidationError
	switch {
	case errors.Is(err, post.ErrNotAuthor):
		// someone else's post: bounce back without saying why
		c.Redirect(http.StatusFound, detailPath(id))
		return
	case errors.As(err, &verr):
		ctl.renderForm(c, &formView{IsEdit: true, PostID: id, Form: form, Errors: verr.Fields})
		return
	case err != nil:
		ctl.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, detailPath(id))
}

func (ctl *PostController) renderForm(c *gin.Context, v *formView) {
	groups, err := ctl.gc.ListGroups(c.Request.Context())
	if err != nil {
		ctl.fail(c, err)
		return
	}
	v.Groups = groups
	v.Base = Base{Template: "posts/create_post.html", Title: "New post"}
	if v.IsEdit {
		v.Title = "Edit post"
	}
	ctl.render(c, http.StatusOK, v)
}

func pageNumber(c *gin.Context) int {
	return pagination.ParseNumber(c.Query("page"))
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func detailPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
