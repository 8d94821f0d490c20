package middleware

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/models"
)

const CheckUserKey = "user"

// JWTSecret returns the token signing key. The fallback keeps local dev
// working; production sets JWT_SECRET.
func JWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	return secret
}

// LoadUser resolves the current user from the token cookie (or an
// Authorization bearer header) and stores it on the context. Missing or bad
// tokens are not an error here; protected routes enforce presence.
func LoadUser() gin.HandlerFunc {
	secret := []byte(JWTSecret())
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}
		username, _ := claims["username"].(string)
		if username == "" {
			c.Next()
			return
		}

		var user models.User
		if err := db.DB.Where("username = ?", username).First(&user).Error; err == nil {
			c.Set(CheckUserKey, &user)
		}
		c.Next()
	}
}

// AuthRequired rejects requests without an authenticated user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the loaded user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	bearer := c.GetHeader("Authorization")
	if len(bearer) > 7 && bearer[:7] == "Bearer " {
		return bearer[7:]
	}
	return ""
}
