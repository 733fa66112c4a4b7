package web

import (
	"context"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"net/http"
	"rtugateway/cmd/gateway/config"
	"rtugateway/cmd/gateway/options"
	"rtugateway/pkg/generic"
	"rtugateway/pkg/protocol/modbusrtu"
)

type Server struct {
	*generic.Server
	*config.Config
}

func NewServer(router *gin.Engine, o *options.Options, config *config.Config) (*Server, error) {
	s := &generic.Server{
		Router:   router,
		Port:     o.Port,
		Methods:  []string{http.MethodGet, http.MethodPut},
		CertFile: config.CertFile,
		KeyFile:  config.KeyFile,
	}

	server := &Server{
		Server: s,
		Config: config,
	}

	server.InstallHandlers()

	return server, nil
}

func (s *Server) InstallHandlers() {
	s.Router.Use(s.AllowMethods())
	v1 := s.Router.Group("/api/v1")
	modbusrtu.InstallHandler(v1, s.Config.Controller)
}

func (s *Server) Serve() (func(ctx context.Context), error) {
	shutdown, err := s.Server.Run()
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) {
		if err := shutdown(ctx); err != nil {
			klog.Error(err)
		}
		if s.Config.Publisher != nil {
			if err := s.Config.Publisher.Shutdown(ctx); err != nil {
				klog.Error(err)
			}
		}
	}, nil
}
