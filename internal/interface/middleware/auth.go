package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gardenviki-prog/Cooking-Recipes/internal/application"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
	"github.com/gardenviki-prog/Cooking-Recipes/pkg/response"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserIDKey    = "userID"
	CtxUsernameKey  = "username"
	CtxSessionIDKey = "sessionID"
)

// Auth validates the access token cookie and ensures the session it
// names is still live in the session store. On success it sets userID,
// username and sessionID in the Gin context.
func Auth(sessions application.SessionStore, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil || sess.UserID != claims.UserID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, sess.UserID)
		c.Set(CtxUsernameKey, sess.Username)
		c.Set(CtxSessionIDKey, sess.ID)
		c.Next()
	}
}
