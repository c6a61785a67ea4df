package shared

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "trackswift_flash"
	flashContextKey = "flash_messages"
)

// flashes 读取当前请求待展示的消息，首次读取时从 cookie 解码
func flashes(c *gin.Context) []string {
	if value, ok := c.Get(flashContextKey); ok {
		if messages, ok := value.([]string); ok {
			return messages
		}
	}
	messages := decodeFlashCookie(c)
	c.Set(flashContextKey, messages)
	return messages
}

func decodeFlashCookie(c *gin.Context) []string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return []string{}
	}
	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return []string{}
	}
	var messages []string
	if err := json.Unmarshal(payload, &messages); err != nil {
		return []string{}
	}
	return messages
}

func setFlashCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AddFlash 追加一条一次性提示，下一次渲染页面时展示
func AddFlash(c *gin.Context, message string) {
	messages := append(flashes(c), message)
	c.Set(flashContextKey, messages)
	payload, err := json.Marshal(messages)
	if err != nil {
		RequestLog(c).Warnw("flash_encode_failed", "error", err)
		return
	}
	setFlashCookie(c, base64.RawURLEncoding.EncodeToString(payload), 0)
}

// PopFlashes 取出并清空待展示的提示
func PopFlashes(c *gin.Context) []string {
	messages := flashes(c)
	c.Set(flashContextKey, []string{})
	if len(messages) > 0 {
		setFlashCookie(c, "", -1)
	}
	return messages
}
