package middleware

import (
	"log"
	"net/http"

	"github.com/Sachinsen7/grin/pkg/response"

	"github.com/gin-gonic/gin"
	libredis "github.com/go-redis/redis/v8"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// LoginRateLimit allows 100 login attempts per IP per hour.
func LoginRateLimit(rdb *libredis.Client) gin.HandlerFunc {
	return newRateLimit("100-H", rdb,
		"Too many login attempts from this IP, please try again after 1 hour")
}

// APIRateLimit allows 1000 requests per IP per hour.
func APIRateLimit(rdb *libredis.Client) gin.HandlerFunc {
	return newRateLimit("1000-H", rdb,
		"Too many requests from this IP, please try again after 1 hour")
}

func newRateLimit(formatted string, rdb *libredis.Client, message string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Fatalf("Invalid rate limit format %q: %v", formatted, err)
	}

	var store limiter.Store
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "grin_limiter"})
		if err != nil {
			log.Fatalf("Failed to create redis rate limit store: %v", err)
		}
	} else {
		store = memory.NewStore()
	}

	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			response.AbortError(c, http.StatusTooManyRequests, "RATE_LIMITED", message)
		}))
}
