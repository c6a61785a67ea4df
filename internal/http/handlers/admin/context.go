package admin

import (
	handlershared "github.com/trackswift/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminUsername(c *gin.Context) string {
	username, _ := handlershared.GetAdminUsername(c)
	return username
}
