package server

import (
	"fmt"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/infra/prometheus"
	"github.com/honeyguard/honeygate/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	TrapServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	TrapServer struct {
		*BaseServer
	}
)

// NewTrapServer builds the public decoy listener. The trap server owns the
// metrics endpoint; it is the data plane and the only role that records
// events.
func NewTrapServer(di TrapServerDI) *TrapServer {
	if di.Config.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{
			EnableLatency: di.Config.Metrics.EnableLatency,
			EnablePerPath: di.Config.Metrics.EnablePerPath,
		})
	}

	s := &TrapServer{
		BaseServer: NewBaseServer(di.Config, di.Logger).WithRouters(di.Routers...),
	}
	s.BaseServer.setupMetricsEndpoint()
	return s
}

func (s *TrapServer) Run() error {
	addr := fmt.Sprintf(":%d", s.Config.Server.TrapPort)
	s.Logger.WithField("addr", addr).Info("starting trap server")
	return s.Router.Listen(addr)
}

func (s *TrapServer) Shutdown() error {
	return s.Router.Shutdown()
}
