package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/application/services"
	"fraudgraph-backend/pkg/common"
	apperrors "fraudgraph-backend/pkg/errors"
)

// NodeManager is the slice of the node service this handler needs
type NodeManager interface {
	List(ctx context.Context, typeName, extraLabel string) ([]ports.Record, error)
	Get(ctx context.Context, id int64) (*services.NodeDetail, error)
	Search(ctx context.Context, typeName, term string) ([]ports.Record, error)
	Create(ctx context.Context, typeName string, extraLabels []string, props map[string]string) (ports.Record, error)
	UpdateProperties(ctx context.Context, id int64, props map[string]string) (ports.Record, error)
	BulkSet(ctx context.Context, typeName string, conditions, assignments map[string]string) (int64, error)
	Delete(ctx context.Context, id int64) error
	RemoveProperty(ctx context.Context, id int64, property string) (ports.Record, error)
}

// NodeHandler serves node browsing and CRUD
type NodeHandler struct {
	nodes  NodeManager
	logger *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(nodes NodeManager, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		nodes:  nodes,
		logger: logger,
	}
}

// ListNodes handles GET /api/v1/nodes?type=Persona&label=Cliente
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	typeName := r.URL.Query().Get("type")
	if typeName == "" {
		common.RespondAppError(w, apperrors.NewValidationError("type query parameter is required"))
		return
	}

	rows, err := h.nodes.List(r.Context(), typeName, r.URL.Query().Get("label"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rowsResult(rows))
}

// GetNode handles GET /api/v1/nodes/{id}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.nodes.Get(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, detail)
}

// SearchNodes handles GET /api/v1/nodes/search?type=Persona&q=juan
func (h *NodeHandler) SearchNodes(w http.ResponseWriter, r *http.Request) {
	typeName := r.URL.Query().Get("type")
	term := r.URL.Query().Get("q")
	if typeName == "" || term == "" {
		common.RespondAppError(w, apperrors.NewValidationError("type and q query parameters are required"))
		return
	}

	rows, err := h.nodes.Search(r.Context(), typeName, term)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, rowsResult(rows))
}

// CreateNodeRequest is the body of POST /api/v1/nodes
type CreateNodeRequest struct {
	Type       string            `json:"type" validate:"required"`
	Labels     []string          `json:"labels"`
	Properties map[string]string `json:"properties" validate:"required"`
}

// CreateNode handles POST /api/v1/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.nodes.Create(r.Context(), req.Type, req.Labels, req.Properties)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, record)
}

// UpdatePropertiesRequest is the body of PUT .../properties
type UpdatePropertiesRequest struct {
	Properties map[string]string `json:"properties" validate:"required,min=1"`
}

// UpdateNodeProperties handles PUT /api/v1/nodes/{id}/properties
func (h *NodeHandler) UpdateNodeProperties(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdatePropertiesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.nodes.UpdateProperties(r.Context(), id, req.Properties)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}

// BulkPropertiesRequest is the body of POST .../bulk-properties
type BulkPropertiesRequest struct {
	Type        string            `json:"type" validate:"required"`
	Conditions  map[string]string `json:"conditions"`
	Assignments map[string]string `json:"assignments" validate:"required,min=1"`
}

// BulkPropertiesResult reports how many entities a bulk assignment touched
type BulkPropertiesResult struct {
	Affected int64 `json:"affected"`
}

// BulkNodeProperties handles POST /api/v1/nodes/bulk-properties
func (h *NodeHandler) BulkNodeProperties(w http.ResponseWriter, r *http.Request) {
	var req BulkPropertiesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	affected, err := h.nodes.BulkSet(r.Context(), req.Type, req.Conditions, req.Assignments)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, BulkPropertiesResult{Affected: affected})
}

// DeleteNode handles DELETE /api/v1/nodes/{id}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.nodes.Delete(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "node deleted")
}

// RemoveNodeProperty handles DELETE /api/v1/nodes/{id}/properties/{name}
func (h *NodeHandler) RemoveNodeProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.nodes.RemoveProperty(r.Context(), id, chi.URLParam(r, "name"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}
