package generic

import (
	"context"
	"crypto/tls"
	"fmt"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"net/http"
	"time"
)

type Server struct {
	Router   *gin.Engine
	Port     string
	Methods  []string // 允许的 HTTP 方法
	CertFile string
	KeyFile  string
}

// AllowMethods answers 405 to any verb not in s.Methods.
func (s *Server) AllowMethods() gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(s.Methods))
	for _, m := range s.Methods {
		allowed[m] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[c.Request.Method]; !ok {
			c.AbortWithStatus(http.StatusMethodNotAllowed)
			return
		}
		c.Next()
	}
}

// Run starts the listener in the background and returns its shutdown func.
func (s *Server) Run() (func(ctx context.Context) error, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.Port),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if len(s.CertFile) != 0 && len(s.KeyFile) != 0 {
		x509KeyPair, err := tls.LoadX509KeyPair(s.CertFile, s.KeyFile)
		if err != nil {
			return nil, err
		}
		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{x509KeyPair},
		}
		go func() {
			klog.Error(srv.ListenAndServeTLS("", ""))
		}()
	} else {
		go func() {
			klog.Error(srv.ListenAndServe())
		}()
	}
	klog.InfoS("Started HTTP server", "port", s.Port, "tls", srv.TLSConfig != nil)

	return func(ctx context.Context) error {
		srv.SetKeepAlivesEnabled(false)
		return srv.Shutdown(ctx)
	}, nil
}
