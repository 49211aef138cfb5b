package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"yatube/internal/adapters/httpapi/middleware"
	"yatube/internal/core/user"
	userapp "yatube/internal/core/user/service"

	"github.com/gin-gonic/gin"
)

type loginView struct {
	Base
	Username string `json:"username"`
	Next     string `json:"next,omitempty"`
	Error    string `json:"error,omitempty"`
}

type signupView struct {
	Base
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Error     string `json:"error,omitempty"`
}

type UserController struct {
	uc            UserUseCase
	secureCookies bool
	responder
}

func NewUserController(uc UserUseCase, resp responder, secureCookies bool) *UserController {
	return &UserController{uc: uc, responder: resp, secureCookies: secureCookies}
}

func (ctl *UserController) LoginForm(c *gin.Context) {
	ctl.renderLogin(c, &loginView{Next: safeNext(c.Query("next"))})
}

func (ctl *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
		Next     string `form:"next" json:"next"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	next := safeNext(req.Next)

	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		ctl.renderLogin(c, &loginView{
			Username: req.Username,
			Next:     next,
			Error:    "Please enter a correct username and password.",
		})
		return
	}
	if err != nil {
		ctl.fail(c, err)
		return
	}

	ctl.startSession(c, res.Token, res.ExpiresAt)
	if next == "" {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

func (ctl *UserController) Logout(c *gin.Context) {
	if err := ctl.uc.Logout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		ctl.fail(c, err)
		return
	}
	middleware.ClearSessionCookie(c, ctl.secureCookies)
	c.Redirect(http.StatusFound, "/")
}

func (ctl *UserController) SignupForm(c *gin.Context) {
	ctl.renderSignup(c, &signupView{})
}

func (ctl *UserController) Signup(c *gin.Context) {
	var req struct {
		Username  string `form:"username" json:"username"`
		Password  string `form:"password" json:"password"`
		FirstName string `form:"first_name" json:"first_name"`
		LastName  string `form:"last_name" json:"last_name"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	_, err := ctl.uc.RegisterUser(c.Request.Context(), req.Username, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) ||
			errors.Is(err, userapp.ErrInvalidUsername) ||
			errors.Is(err, userapp.ErrWeakPassword) {
			ctl.renderSignup(c, &signupView{
				Username:  req.Username,
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Error:     err.Error(),
			})
			return
		}
		ctl.fail(c, err)
		return
	}

	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	ctl.startSession(c, res.Token, res.ExpiresAt)
	c.Redirect(http.StatusFound, "/")
}

func (ctl *UserController) startSession(c *gin.Context, token string, expiresAt int64) {
	maxAge := int(time.Until(time.Unix(expiresAt, 0)).Seconds())
	middleware.SetSessionCookie(c, token, maxAge, ctl.secureCookies)
}

func (ctl *UserController) renderLogin(c *gin.Context, v *loginView) {
	v.Base = Base{Template: "users/login.html", Title: "Log in"}
	ctl.render(c, http.StatusOK, v)
}

func (ctl *UserController) renderSignup(c *gin.Context, v *signupView) {
	v.Base = Base{Template: "users/signup.html", Title: "Sign up"}
	ctl.render(c, http.StatusOK, v)
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
