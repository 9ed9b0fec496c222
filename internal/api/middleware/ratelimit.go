package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hoopsight/prospects/pkg/utils"
)

// RateLimit caps request throughput on an endpoint with a shared token
// bucket.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			utils.SendRateLimited(c, "Too many prediction requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
