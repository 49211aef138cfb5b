package httpapi

import (
	"context"
	"html/template"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/post"
	"yatube/internal/core/user"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"
	sessionPort "yatube/internal/ports/session"
	userPort "yatube/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loginPath = "/auth/login/"

// UserUseCase is what the auth views need from the user service (inbound port)
type UserUseCase interface {
	RegisterUser(ctx context.Context, username, password, firstName, lastName string) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	Authenticate(ctx context.Context, raw string) (user.Identity, *sessionPort.Session, error)
	Logout(ctx context.Context, session *sessionPort.Session) error
}

type PostUseCase interface {
	ListPosts(ctx context.Context, page int) (*postPort.PageDTO, error)
	ListGroupPosts(ctx context.Context, slug string, page int) (*groupPort.GroupDTO, *postPort.PageDTO, error)
	ListProfilePosts(ctx context.Context, username string, page int) (*userPort.ProfileDTO, *postPort.PageDTO, error)
	GetPost(ctx context.Context, id uint) (*postPort.PostDetailDTO, error)
	EditablePost(ctx context.Context, actor user.Identity, id uint) (*post.Form, error)
	CreatePost(ctx context.Context, actor user.Identity, form post.Form) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, actor user.Identity, id uint, form post.Form) (*postPort.PostDTO, error)
}

type GroupUseCase interface {
	ListGroups(ctx context.Context) ([]*groupPort.GroupDTO, error)
}

// Options tunes the router; a nil Metrics disables /metrics.
type Options struct {
	Logger        *zap.Logger
	Metrics       *middleware.Metrics
	SecureCookies bool
}

// SetupRoutes only wires routes; use cases are injected from outside.
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	groupUC GroupUseCase,
	opts Options,
) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.SetHTMLTemplate(template.Must(parseTemplates()))
	r.Use(middleware.RequestLogger(logger), gin.Recovery())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Instrument())
		r.GET("/metrics", opts.Metrics.Handler())
	}
	r.Use(middleware.SessionAuth(userUC, logger, opts.SecureCookies))

	resp := responder{logger: logger}
	uc := NewUserController(userUC, resp, opts.SecureCookies)
	pc := NewPostController(postUC, groupUC, resp)

	r.GET("/", pc.Index)
	r.GET("/group/:slug/", pc.GroupPosts)
	r.GET("/profile/:username/", pc.Profile)
	r.GET("/posts/:post_id/", pc.PostDetail)

	auth := middleware.LoginRequired(loginPath)
	r.GET("/create/", auth, pc.PostCreateForm)
	r.POST("/create/", auth, pc.PostCreate)
	r.GET("/posts/:post_id/edit/", auth, pc.PostEditForm)
	r.POST("/posts/:post_id/edit/", auth, pc.PostEdit)

	r.GET(loginPath, uc.LoginForm)
	r.POST(loginPath, uc.Login)
	r.POST("/auth/logout/", uc.Logout)
	r.GET("/auth/signup/", uc.SignupForm)
	r.POST("/auth/signup/", uc.Signup)

	r.NoRoute(resp.notFound)
	return r
}
