package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Controller registers a set of routes on the router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type Options struct {
	Addr        string
	Logger      *logrus.Logger
	Controllers []Controller
}

type Server struct {
	addr   string
	logger *logrus.Logger
	router *mux.Router
}

func New(opts Options) *Server {
	router := mux.NewRouter()
	for _, controller := range opts.Controllers {
		controller.Register(router)
		opts.Logger.WithField("controller", controller.Key()).Debug("Registered controller")
	}
	return &Server{
		addr:   opts.Addr,
		logger: opts.Logger,
		router: router,
	}
}

func (s *Server) Router() *mux.Router {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
