package public

import (
	"errors"
	"net/http"
	"time"

	"github.com/trackswift/internal/constants"
	handlershared "github.com/trackswift/internal/http/handlers/shared"
	"github.com/trackswift/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginPage 管理员登录页
func (h *Handler) LoginPage(c *gin.Context) {
	handlershared.Render(c, http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

// Login 管理员登录，成功后写入会话 Cookie
func (h *Handler) Login(c *gin.Context) {
	form := handlershared.NewForm(c)
	username := form.Required("username")
	password := form.Required("password")
	if form.Abort() {
		return
	}

	token, expiresAt, err := h.AuthService.Login(username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			requestLog(c).Warnw("admin_login_failed", "username", username, "client_ip", c.ClientIP())
			handlershared.AddFlash(c, constants.FlashInvalidCredentials)
			handlershared.Render(c, http.StatusOK, "login.html", gin.H{"Title": "Login"})
			return
		}
		respondInternal(c, err)
		return
	}

	h.setSessionCookie(c, token, expiresAt)
	requestLog(c).Infow("admin_login", "username", username)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout 注销会话并清除 Cookie
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.AuthService.CookieName()); err == nil {
		if err := h.AuthService.Logout(c.Request.Context(), token); err != nil {
			requestLog(c).Warnw("admin_logout_revoke_failed", "error", err)
		}
	}
	h.setSessionCookie(c, "", time.Time{})
	c.Redirect(http.StatusFound, "/")
}

// setSessionCookie 写入会话 Cookie；token 为空时删除
func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     h.AuthService.CookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.AuthService.CookieSecure(),
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = expiresAt
	}
	http.SetCookie(c.Writer, cookie)
}
