package v1

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// mount registers h under path on rg.
func mount(rg *gin.RouterGroup, path string, h RouteRegistrar) {
	h.RegisterRoutes(rg.Group(path))
}
