package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/domain/entity"
	"github.com/gardenviki-prog/Cooking-Recipes/internal/interface/middleware"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/response"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,uname"`
	Password  string `json:"password" binding:"required,pwd"`
	Password2 string `json:"password2" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword  string `json:"old_password" binding:"required"`
	NewPassword  string `json:"new_password" binding:"required,pwd"`
	NewPassword2 string `json:"new_password2" binding:"required,eqfield=NewPassword"`
}

func userBody(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"goals":      u.Goals,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Username, req.Password, req.Password2)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUsernameTaken):
			response.Error[any](c, http.StatusBadRequest, "username already taken", nil)
		case errors.Is(err, application.ErrPasswordMismatch), errors.Is(err, application.ErrPasswordTooShort):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, userBody(u), "registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"id": u.ID, "username": u.Username}, "login successful",
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed",
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	sid := c.GetString(middleware.CtxSessionIDKey)
	if err := h.Svc.Logout(c.Request.Context(), sid); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("sid", sid).Warn("logout failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, userBody(u), "profile", nil)
}

// UpdateProfile accepts a multipart form: username, email, goals and an
// optional avatar file.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	sid := c.GetString(middleware.CtxSessionIDKey)

	in := application.UpdateProfileInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Goals:    c.PostForm("goals"),
	}
	if file, err := c.FormFile("avatar"); err == nil && file != nil && file.Filename != "" {
		f, err := file.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid avatar upload", nil)
			return
		}
		defer func() { _ = f.Close() }()
		in.Avatar = &application.AvatarUpload{
			Reader:      f,
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
		}
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), sid, uid, in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUsernameTaken):
			response.Error[any](c, http.StatusBadRequest, "username already taken", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, userBody(u), "profile updated", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword, req.NewPassword2)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrWrongPassword):
			response.Error[any](c, http.StatusBadRequest, "wrong current password", nil)
		case errors.Is(err, application.ErrPasswordMismatch), errors.Is(err, application.ErrPasswordTooShort):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to change password", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}
