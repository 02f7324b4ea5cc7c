package api

import (
	"github.com/gin-gonic/gin"

	"github.com/huddlehq/huddle/internal/handlers"
)

func registerMessageRoutes(api *gin.RouterGroup, handler *handlers.MessageHandler) {
	if handler == nil {
		return
	}

	threads := api.Group("/threads")
	threads.GET("/:threadID/messages", handler.List)
	threads.POST("/:threadID/messages", handler.Send)

	messages := api.Group("/messages")
	messages.PATCH("/:id", handler.Edit)
	messages.DELETE("/:id", handler.Delete)
}
