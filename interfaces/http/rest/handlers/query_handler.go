package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/application/queries"
	"fraudgraph-backend/pkg/common"
)

// QueryRunner is the slice of the query service this handler needs
type QueryRunner interface {
	Catalog() []queries.Operation
	Run(ctx context.Context, name string, values map[string]interface{}) ([]ports.Record, error)
	Filter(ctx context.Context, nodeType string, conditions map[string]string) ([]ports.Record, error)
}

// QueryHandler serves the predefined catalog and ad-hoc filtered reads
type QueryHandler struct {
	queries QueryRunner
	logger  *zap.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queries QueryRunner, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queries: queries,
		logger:  logger,
	}
}

// ListCatalog handles GET /api/v1/queries
func (h *QueryHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.queries.Catalog())
}

// RunQueryRequest is the body of POST /api/v1/queries/{name}
type RunQueryRequest struct {
	Params map[string]interface{} `json:"params"`
}

// RunQuery handles POST /api/v1/queries/{name}
func (h *QueryHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req RunQueryRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	rows, err := h.queries.Run(r.Context(), name, req.Params)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rowsResult(rows))
}

// FilterNodesRequest is the body of POST /api/v1/nodes/filter
type FilterNodesRequest struct {
	Type       string            `json:"type" validate:"required"`
	Conditions map[string]string `json:"conditions"`
}

// FilterNodes handles POST /api/v1/nodes/filter
func (h *QueryHandler) FilterNodes(w http.ResponseWriter, r *http.Request) {
	var req FilterNodesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rows, err := h.queries.Filter(r.Context(), req.Type, req.Conditions)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rowsResult(rows))
}
