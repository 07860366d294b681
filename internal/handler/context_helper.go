package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/childcare-cover-api/internal/middleware"
	"github.com/noah-isme/childcare-cover-api/internal/models"
)

// currentClaims returns the authenticated operator's claims, if any.
func currentClaims(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
