package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/andrino-academy/andrino-api/internal/middleware"
	"github.com/andrino-academy/andrino-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// actorFromContext describes the caller. Without claims the actor is empty
// and services answer with 401.
func actorFromContext(c *gin.Context) models.Actor {
	actor := models.ActorFromClaims(claimsFromContext(c))
	actor.IP = c.ClientIP()
	actor.UserAgent = c.GetHeader("User-Agent")
	return actor
}
