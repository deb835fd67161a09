// Package webapi exposes the stabilizer-circuit sampler over HTTP: a
// small gin-based upload-then-sample API for storing a parsed program
// and sampling it for a requested number of shots.
package webapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/clifford-labs/stabsim/internal/logger"
	"github.com/clifford-labs/stabsim/internal/server"
	"github.com/clifford-labs/stabsim/internal/server/router"
)

// Options configures a new webapi Server.
type Options struct {
	Debug   bool
	Version string
}

type apiServer struct {
	logger *logger.Logger
	router *router.Router
	h      *handlers
}

// NewServer builds a webapi.Server backed by an in-memory program store.
func NewServer(opts Options) server.Server {
	l, r := server.NewLoggerAndRouter(server.EngineOptions{Debug: opts.Debug})

	h := &handlers{log: l, store: NewProgramStore()}
	s := &apiServer{logger: l, router: r, h: h}
	r.SetRoutes(s.routes())
	return s
}

func (s *apiServer) routes() []*router.Route {
	return []*router.Route{
		{Name: "health", Method: http.MethodGet, Pattern: "/healthz", HandlerFunc: s.health},
		{Name: "create-program", Method: http.MethodPost, Pattern: "/api/programs", HandlerFunc: s.h.postProgram},
		{Name: "get-program", Method: http.MethodGet, Pattern: "/api/programs/:id", HandlerFunc: s.h.getProgram},
		{Name: "sample-program", Method: http.MethodPost, Pattern: "/api/programs/:id/sample", HandlerFunc: s.h.postSample},
	}
}

func (s *apiServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Listen implements server.Server.
func (s *apiServer) Listen(port int, localOnly bool) error {
	s.logger.Info().Int("port", port).Bool("localOnly", localOnly).Msg("webapi: starting stabilizer sampling service")
	return s.router.Start(port, localOnly)
}

// Shutdown implements server.Server.
func (s *apiServer) Shutdown(ctx context.Context) error {
	return s.router.Shutdown(ctx)
}

var _ server.Server = (*apiServer)(nil)
