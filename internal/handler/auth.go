package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
	"github.com/user/streamflix/internal/utils"
)

type loginForm struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Redirect string `form:"redirect" json:"redirect"`
}

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "auth/login", gin.H{"redirect": c.Query("redirect")})
}

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "auth/register", nil)
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, service.AsValidationError(err))
		return
	}

	user, err := h.AccountService.Authenticate(form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.fail(c, &service.ValidationError{Fields: map[string]string{"email": err.Error()}})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.signIn(c, user)
	if err != nil {
		h.fail(c, err)
		return
	}

	if utils.WantsJSON(c) {
		utils.Success(c, gin.H{"token": token, "user": user})
		return
	}
	c.Redirect(http.StatusSeeOther, safeRedirect(form.Redirect))
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, service.AsValidationError(err))
		return
	}

	user, err := h.AccountService.Register(in)
	if errors.Is(err, service.ErrEmailTaken) {
		h.fail(c, &service.ValidationError{Fields: map[string]string{"email": err.Error()}})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.signIn(c, user)
	if err != nil {
		h.fail(c, err)
		return
	}

	if utils.WantsJSON(c) {
		utils.Success(c, gin.H{"token": token, "user": user})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.Config.IsProduction(), true)

	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	if utils.WantsJSON(c) {
		utils.SuccessWithMessage(c, "已退出登录", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// signIn 下发 JWT Cookie，并把用户信息写入 Session
func (h *Handler) signIn(c *gin.Context, user *model.User) (string, error) {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return "", err
	}
	c.SetCookie(middleware.TokenCookie, token, int(h.Config.JWTExpiry.Seconds()), "/", "", h.Config.IsProduction(), true)

	session := sessions.Default(c)
	session.Set("userinfo", user.ToSession())
	if err := session.Save(); err != nil {
		return "", err
	}
	return token, nil
}

// safeRedirect 只允许站内相对路径
func safeRedirect(target string) string {
	if path, ok := localPath(target); ok {
		return path
	}
	return "/"
}
