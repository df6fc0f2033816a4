package server

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lyon1/condense/engine"
	"github.com/lyon1/condense/store"
)

// CondenseRequest is the body of POST /api/v1/condense. Absent fields
// fall back to the engine defaults; Write is a pointer so that leaving
// it out means "persist".
type CondenseRequest struct {
	Graph           string   `json:"graph"`
	Candidates      []string `json:"candidates"`
	DegreeThreshold int64    `json:"degreeThreshold"`
	KValue          int      `json:"kValue"`
	Write           *bool    `json:"write"`
	DropGraph       bool     `json:"dropGraph"`
}

type CondenseResponse struct {
	Graph string          `json:"graph"`
	Rows  []*CandidateRow `json:"rows"`
}

// CandidateRow is the wire form of one engine.CandidateResult.
type CandidateRow struct {
	Candidate         string  `json:"candidate"`
	Status            string  `json:"status"`
	Score             Score   `json:"score"`
	SuperNodeCount    int64   `json:"superNodeCount"`
	SuperEdgeCount    int64   `json:"superEdgeCount"`
	InternalEdgeCount int64   `json:"internalEdgeCount"`
	CoveredEdgeCount  int64   `json:"coveredEdgeCount"`
	CompressionRatio  float64 `json:"compressionRatio"`
	Winner            bool    `json:"winner"`
}

// Score is a candidate score that survives JSON encoding: failed
// candidates carry +Inf, which JSON numbers cannot represent, so it is
// written as the string "Infinity".
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(s), 1) {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(s))
}

type GraphRow struct {
	Name      string `json:"name"`
	UID       string `json:"uid"`
	CreatedTs int64  `json:"createdTs"`
	NodeCount int64  `json:"nodeCount"`
	EdgeCount int64  `json:"edgeCount"`
}

// Healthz reports whether the store is reachable.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	if err := s.Catalog.Ping(c.Request().Context()); err != nil {
		slog.Warn("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Condense runs one condensation over the named graph and reports one
// row per recognized candidate.
// POST /api/v1/condense
func (s *APIV1Service) Condense(c echo.Context) error {
	ctx := c.Request().Context()

	request := &CondenseRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if request.Graph == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "graph is required"})
	}

	graph, err := s.Catalog.GetGraph(ctx, &store.FindGraph{Name: &request.Graph})
	if err != nil {
		slog.Error("failed to find graph", "graph", request.Graph, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to find graph"})
	}
	if graph == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "graph not found"})
	}

	options := engine.DefaultOptions()
	if len(request.Candidates) > 0 {
		options.Candidates = request.Candidates
	}
	if request.DegreeThreshold > 0 {
		options.DegreeThreshold = request.DegreeThreshold
	}
	if request.KValue > 0 {
		options.KValue = request.KValue
	}
	if request.Write != nil {
		options.Write = *request.Write
	}
	options.DropGraph = request.DropGraph

	results, err := s.Condenser.Condense(ctx, request.Graph, options)
	if err != nil {
		slog.Error("condensation run failed", "graph", request.Graph, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "condensation run failed"})
	}

	rows := make([]*CandidateRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, &CandidateRow{
			Candidate:         result.Candidate,
			Status:            string(result.Status),
			Score:             Score(result.Score),
			SuperNodeCount:    result.SuperNodes,
			SuperEdgeCount:    result.SuperEdges,
			InternalEdgeCount: result.InternalEdges,
			CoveredEdgeCount:  result.CoveredEdges,
			CompressionRatio:  result.CompressionRatio,
			Winner:            result.Winner,
		})
	}
	return c.JSON(http.StatusOK, &CondenseResponse{Graph: request.Graph, Rows: rows})
}

// ListGraphs reports every stored graph with its size.
// GET /api/v1/graphs
func (s *APIV1Service) ListGraphs(c echo.Context) error {
	ctx := c.Request().Context()

	graphs, err := s.Catalog.ListGraphs(ctx, &store.FindGraph{})
	if err != nil {
		slog.Error("failed to list graphs", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list graphs"})
	}

	rows := make([]*GraphRow, 0, len(graphs))
	for _, graph := range graphs {
		nodeCount, err := s.Catalog.CountNodes(ctx, graph.ID)
		if err != nil {
			slog.Error("failed to count nodes", "graph", graph.Name, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to count nodes"})
		}
		edgeCount, err := s.Catalog.CountEdges(ctx, graph.ID)
		if err != nil {
			slog.Error("failed to count edges", "graph", graph.Name, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to count edges"})
		}
		rows = append(rows, &GraphRow{
			Name:      graph.Name,
			UID:       graph.UID,
			CreatedTs: graph.CreatedTs,
			NodeCount: nodeCount,
			EdgeCount: edgeCount,
		})
	}
	return c.JSON(http.StatusOK, rows)
}
