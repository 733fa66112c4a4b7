package generic

import (
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"rtugateway/pkg/apis"
	"rtugateway/pkg/utils/uuidutil"
	"time"
)

func Default() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestID(), logger(), gin.Recovery())
	return engine
}

// requestID keeps the caller's X-Request-Id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(apis.RequestID)
		if len(id) == 0 {
			id = uuidutil.RequestID()
		}
		c.Set(apis.RequestID, id)
		c.Header(apis.RequestID, id)
		c.Next()
	}
}

func logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Stop timer
		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		klog.V(4).InfoS("Received HTTP request",
			"verb", c.Request.Method,
			"URI", path,
			"status", c.Writer.Status(),
			"latency", latency,
			"requestId", c.GetString(apis.RequestID),
		)
	}
}
