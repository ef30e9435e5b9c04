package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteguard/internal/adapters/http/dto"
)

// NoRoute renders unknown paths in the API error envelope.
func NoRoute(c *gin.Context) {
	dto.Abort(c, http.StatusNotFound, dto.CodeRouteNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
}

// NoMethod renders a known path called with the wrong method.
func NoMethod(c *gin.Context) {
	dto.Abort(c, http.StatusMethodNotAllowed, dto.CodeMethodNotAllowed,
		c.Request.Method+" is not allowed on "+c.Request.URL.Path)
}
