package httpapi

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/group"
	"yatube/internal/core/post"
	"yatube/internal/core/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates
var templateFS embed.FS

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(functions).ParseFS(templateFS, "templates/*/*.html")
}

// Base is embedded by every view-model.
type Base struct {
	Template string `json:"template"`
	Title    string `json:"title"`
	// Viewer is the username of the logged-in caller, empty for guests.
	Viewer string `json:"viewer,omitempty"`
}

func (b *Base) base() *Base { return b }

type view interface {
	base() *Base
}

type errorView struct {
	Base
	Status int    `json:"status"`
	Path   string `json:"path"`
}

// responder renders view-models as HTML or JSON, whichever the client accepts.
type responder struct {
	logger *zap.Logger
}

func (r responder) render(c *gin.Context, status int, v view) {
	b := v.base()
	b.Viewer = middleware.CurrentUser(c).Username
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: b.Template,
		Data:     v,
	})
}

func (r responder) notFound(c *gin.Context) {
	r.render(c, http.StatusNotFound, &errorView{
		Base:   Base{Template: "core/404.html", Title: "Page not found"},
		Status: http.StatusNotFound,
		Path:   c.Request.URL.Path,
	})
}

func (r responder) serverError(c *gin.Context, err error) {
	r.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	r.render(c, http.StatusInternalServerError, &errorView{
		Base:   Base{Template: "core/500.html", Title: "Server error"},
		Status: http.StatusInternalServerError,
		Path:   c.Request.URL.Path,
	})
}

// fail maps a use case error onto a response.
func (r responder) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, post.ErrNotFound),
		errors.Is(err, group.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		r.notFound(c)
	default:
		r.serverError(c, err)
	}
}
