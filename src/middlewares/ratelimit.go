package middlewares

import (
	"context"
	"ets/src/config"
	"ets/src/lib"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RateLimit counts attempts per client IP in a fixed redis window. The
// window starts with the first attempt and the key expires with it, so
// counters survive restarts and are shared across replicas.
func RateLimit(scope string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rd := lib.GetRedisClient()
		if rd == nil {
			log.Println("[ratelimit] redis unavailable, skipping")
			return
		}
		key := fmt.Sprintf("ratelimit:%s:%s", scope, ctx.ClientIP())
		count, err := rd.Incr(context.Background(), key).Result()
		if err != nil {
			log.Printf("[ratelimit] Error incrementing counter: %s\n", err.Error())
			return
		}
		if count == 1 {
			rd.Expire(context.Background(), key, config.RATE_LIMIT_WINDOW)
		}
		if count > config.RATE_LIMIT_ATTEMPTS {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many attempts. Please try again later",
			})
		}
	}
}
