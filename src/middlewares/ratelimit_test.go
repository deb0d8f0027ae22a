package middlewares

import (
	"ets/src/config"
	"ets/src/lib"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	lib.NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	router := testRouter()
	router.POST("/login", RateLimit("auth"), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	attempt := func() int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:52000"
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < config.RATE_LIMIT_ATTEMPTS; i++ {
		assert.Equal(t, http.StatusOK, attempt())
	}
	assert.Equal(t, http.StatusTooManyRequests, attempt())

	key := fmt.Sprintf("ratelimit:auth:%s", "10.0.0.1")
	assert.Greater(t, mr.TTL(key), time.Duration(0))

	// counter expires with the window
	mr.FastForward(config.RATE_LIMIT_WINDOW + time.Second)
	assert.Equal(t, http.StatusOK, attempt())
}

func TestRateLimitScopesByIP(t *testing.T) {
	mr := miniredis.RunT(t)
	lib.NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	router := testRouter()
	router.POST("/login", RateLimit("auth"), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	attempt := func(addr string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/login", nil)
		req.RemoteAddr = addr
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i <= config.RATE_LIMIT_ATTEMPTS; i++ {
		attempt("10.0.0.2:52000")
	}
	assert.Equal(t, http.StatusTooManyRequests, attempt("10.0.0.2:52000"))
	assert.Equal(t, http.StatusOK, attempt("10.0.0.3:52000"))
}
