package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/domain/apperror"
	"github.com/oksasatya/go-places-api/internal/interface/middleware"
	"github.com/oksasatya/go-places-api/pkg/helpers"
	"github.com/oksasatya/go-places-api/pkg/response"
	"github.com/oksasatya/go-places-api/pkg/validation"
)

type UserHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

func invalidInput(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, apperror.ErrInvalidInput.Message, validation.ToDetails(err))
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	if apperror.KindOf(err) == apperror.KindUnavailable && h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).WithField("path", c.FullPath()).Warn("request failed")
	}
	response.Fail(c, err)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	response.Success(c, http.StatusOK, out, "users", nil)
}

// Signup expects multipart fields name, email, password and an image file.
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidInput(c, err)
		return
	}
	res, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    middleware.PendingFileFrom(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetAccess(c, res.Token, res.TokenExpiry)
	response.Success(c, http.StatusCreated, authResponse{UserID: res.UserID, Email: res.Email, Name: res.Name, Token: res.Token}, "signup successful", map[string]any{"access_expires_at": res.TokenExpiry})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetAccess(c, res.Token, res.TokenExpiry)
	response.Success(c, http.StatusOK, authResponse{UserID: res.UserID, Email: res.Email, Name: res.Name, Token: res.Token}, "login successful", map[string]any{"access_expires_at": res.TokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	if err := h.Svc.Logout(c.Request.Context(), id.UserID); err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}
