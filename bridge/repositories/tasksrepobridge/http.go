// Package tasksrepobridge exposes task operations over HTTP.
package tasksrepobridge

import (
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Config holds configuration for the Task bridge
type Config struct {
	Log        *logger.Logger
	Repository *tasksrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Task
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository)
	g := group.Group("", cfg.Middleware...)

	g.GET("/repositories/{repository_id}/tasks", b.httpListForRepository)
	g.POST("/repositories/{repository_id}/tasks", b.httpCreate)

	g.GET("/tasks", b.httpListForUser)
	g.PUT("/tasks/{task_id}/status", b.httpUpdateStatus)
	g.PUT("/tasks/{task_id}/state", b.httpSetStatus)
	g.POST("/tasks/{task_id}/star", b.httpToggleStar)
	g.DELETE("/tasks/{task_id}", b.httpDelete)
}
