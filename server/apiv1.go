package server

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/lyon1/condense/engine"
	"github.com/lyon1/condense/server/middleware"
	"github.com/lyon1/condense/store"
)

// Condensation runs hold the store for their full duration, so the
// endpoint is throttled far below ordinary request rates.
const (
	condenseRatePerSecond = 1
	condenseBurst         = 5
)

// Condenser runs condensation over stored graphs. *engine.Engine
// satisfies it.
type Condenser interface {
	Condense(ctx context.Context, graphName string, options *engine.Options) ([]*engine.CandidateResult, error)
}

// GraphCatalog is the slice of the storage API the HTTP surface reads.
// *store.Store satisfies it.
type GraphCatalog interface {
	Ping(ctx context.Context) error
	GetGraph(ctx context.Context, find *store.FindGraph) (*store.Graph, error)
	ListGraphs(ctx context.Context, find *store.FindGraph) ([]*store.Graph, error)
	CountNodes(ctx context.Context, graphID int32) (int64, error)
	CountEdges(ctx context.Context, graphID int32) (int64, error)
}

type APIV1Service struct {
	Catalog   GraphCatalog
	Condenser Condenser

	runLimiter *middleware.RunLimiter
}

func NewAPIV1Service(catalog GraphCatalog, condenser Condenser) *APIV1Service {
	return &APIV1Service{
		Catalog:    catalog,
		Condenser:  condenser,
		runLimiter: middleware.NewRunLimiter(condenseRatePerSecond, condenseBurst),
	}
}

// Register mounts the service routes on the given echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.Healthz)

	group := echoServer.Group("/api/v1")
	group.Use(echomw.CORS())
	group.POST("/condense", s.Condense, s.runLimiter.Middleware())
	group.GET("/graphs", s.ListGraphs)
}
