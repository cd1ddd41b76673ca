package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and writes one access log line.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Header(requestIDHeader, rid)

		c.Next()

		status := c.Writer.Status()
		level := "[INFO]"
		if status >= http.StatusInternalServerError {
			level = "[ERROR]"
		}
		log.Printf("%s %s %s %d %s rid=%s", level, c.Request.Method, c.Request.URL.Path,
			status, time.Since(start).Round(time.Microsecond), rid)
	}
}

// RateLimit allows perSecond requests per second with an equal burst. Zero disables it.
func RateLimit(perSecond int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), perSecond)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			fail(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			return
		}
		c.Next()
	}
}
