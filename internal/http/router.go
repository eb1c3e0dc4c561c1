// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skylane/internal/http/handlers"
	"skylane/internal/http/middleware"
	"skylane/internal/modules/conversation"
)

func NewRouter(conv *conversation.Service) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	chat := handlers.NewChatHandler(conv)
	r.POST("/api/sessions", chat.CreateSession)
	r.POST("/api/sessions/:id/messages", chat.PostMessage)
	r.GET("/api/sessions/:id/results", chat.Results)
	r.DELETE("/api/sessions/:id", chat.Reset)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
