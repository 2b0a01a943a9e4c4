package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"go-affiliate/web/db"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func userFromToken(c *gin.Context) (db.User, bool) {
	header := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" || tokenString == header {
		return db.User{}, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		return db.User{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return db.User{}, false
	}

	if exp, ok := claims["exp"].(float64); !ok || float64(time.Now().Unix()) > exp {
		return db.User{}, false
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return db.User{}, false
	}

	var user db.User
	db.DB.First(&user, uint(sub))
	if user.ID == 0 {
		return db.User{}, false
	}

	return user, true
}

func RequireAuth(c *gin.Context) {
	user, ok := userFromToken(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set("user", user)
	c.Next()
}

func AdminAuth(c *gin.Context) {
	user, ok := userFromToken(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if user.Role != db.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		c.Abort()
		return
	}

	c.Set("user", user)
	c.Next()
}
