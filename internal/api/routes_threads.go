package api

import (
	"github.com/gin-gonic/gin"

	"github.com/huddlehq/huddle/internal/handlers"
)

func registerThreadRoutes(api *gin.RouterGroup, handler *handlers.ThreadHandler) {
	if handler == nil {
		return
	}

	threads := api.Group("/threads")
	threads.POST("", handler.Create)
	threads.POST("/:threadID/participants", handler.AddParticipant)
	threads.POST("/:threadID/archive", handler.Archive)
}
