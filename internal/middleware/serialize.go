package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// Serialize lets one request at a time reach the handlers behind it. The
// catalog and its repositories are not safe for concurrent use.
func Serialize() gin.HandlerFunc {
	var mu sync.Mutex
	return func(c *gin.Context) {
		mu.Lock()
		defer mu.Unlock()
		c.Next()
	}
}
