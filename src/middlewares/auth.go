package middlewares

import (
	"ets/src/db"
	"ets/src/models"
	"ets/src/types"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func parseToken(reqToken string) (*types.Claims, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	parts := strings.Split(bearerToken, " ")
	if len(parts) < 2 || parts[1] == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims, err := parseToken(parts[1])
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		if err == jwt.ErrSignatureInvalid || err == jwt.ErrTokenMalformed {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ctx.AbortWithError(http.StatusUnauthorized, err)
		return
	}

	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	db := db.GetDb()
	if claims.Role == string(types.ROLE_ORGANIZER) {
		var organizer models.Organizer
		if err := db.
			Model(&models.Organizer{}).
			Where(&models.Organizer{ID: uint(uid)}).
			First(&organizer).
			Error; err != nil || !organizer.IsActive {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ctx.Set("email", organizer.Email)
		ctx.Set("id", organizer.ID)
		ctx.Set("role", string(types.ROLE_ORGANIZER))
		ctx.Set("sid", claims.SessionID)
		return
	}
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{ID: uint(uid)}).
		First(&user).
		Error; err != nil || !user.IsActive {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	ctx.Set("email", user.Email)
	ctx.Set("id", user.ID)
	ctx.Set("role", string(user.Role))
	ctx.Set("sid", claims.SessionID)
}

// OptionalAuth resolves the principal when a token is supplied and lets
// anonymous requests through untouched.
func OptionalAuth(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		return
	}
	parts := strings.Split(bearerToken, " ")
	if len(parts) < 2 {
		return
	}
	claims, err := parseToken(parts[1])
	if err != nil {
		return
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return
	}
	ctx.Set("email", claims.Email)
	ctx.Set("id", uint(uid))
	ctx.Set("role", claims.Role)
}

func RequireOrganizer(ctx *gin.Context) {
	role := ctx.GetString("role")
	if role != string(types.ROLE_ORGANIZER) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Organizer account required"})
	}
}

func RequireAdmin(ctx *gin.Context) {
	role := ctx.GetString("role")
	if role != string(types.ROLE_ADMIN) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin account required"})
	}
}
