package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthController serves the liveness probe
type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Health reports that the HTTP loop is up. It deliberately does not ping
// Mongo or Redis: a dependency outage surfaces as 503 on the auth routes,
// not as a dead process.
func (ctrl HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
