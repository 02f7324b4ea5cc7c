package api

import (
	"github.com/gin-gonic/gin"

	"github.com/huddlehq/huddle/internal/handlers"
)

func registerTeamContextRoutes(api *gin.RouterGroup, handler *handlers.TeamContextHandler) {
	if handler == nil {
		return
	}

	teams := api.Group("/teams")
	teams.GET("/current", handler.GetCurrent)
	teams.PUT("/current", handler.SetCurrent)
	teams.DELETE("/current", handler.ClearCurrent)
}
