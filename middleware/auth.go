package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

// AuthMiddleware valida o JWT de sessão e injeta o uid no contexto
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credenciais não informadas"})
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims.Purpose != utils.PurposeAuth {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credenciais inválidas"})
			return
		}

		c.Set("uid", claims.UserID)
		c.Set("claims", claims)
		c.Next()
	}
}
