package server

import (
	"fmt"

	"github.com/ThreatPilot/SentinelRail/pkg/config"
	handlers "github.com/ThreatPilot/SentinelRail/pkg/handlers/http"
	"github.com/ThreatPilot/SentinelRail/pkg/middleware"
	"github.com/ThreatPilot/SentinelRail/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	AdminServerDI struct {
		MiddlewareTransport *middleware.Transport
		HandlerTransport    *handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	AdminServer struct {
		*BaseServer
	}
)

func NewAdminServer(di AdminServerDI) *AdminServer {
	base := NewBaseServer(di.Config, di.Logger)
	base.WithRouters(router.NewAdminRouter(di.MiddlewareTransport, di.HandlerTransport))
	return &AdminServer{BaseServer: base}
}

func (s *AdminServer) Run() error {
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf(":%d", s.Config.Server.AdminPort)
	s.Logger.WithField("addr", addr).Info("starting admin server")
	return s.Router.Listen(addr)
}

func (s *AdminServer) Shutdown() error {
	return s.Router.Shutdown()
}
