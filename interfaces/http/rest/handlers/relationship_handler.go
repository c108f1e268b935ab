package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/pkg/common"
)

// RelationshipManager is the slice of the relationship service this handler needs
type RelationshipManager interface {
	Create(ctx context.Context, typeName, sourceRef, targetRef string, props map[string]string) (ports.Record, error)
	UpdateProperties(ctx context.Context, id int64, props map[string]string) (ports.Record, error)
	BulkSet(ctx context.Context, typeName string, conditions, assignments map[string]string) (int64, error)
	Delete(ctx context.Context, id int64) error
	RemoveProperty(ctx context.Context, id int64, property string) (ports.Record, error)
}

// RelationshipHandler serves relationship creation and maintenance
type RelationshipHandler struct {
	relationships RelationshipManager
	logger        *zap.Logger
}

// NewRelationshipHandler creates a new relationship handler
func NewRelationshipHandler(relationships RelationshipManager, logger *zap.Logger) *RelationshipHandler {
	return &RelationshipHandler{
		relationships: relationships,
		logger:        logger,
	}
}

// CreateRelationshipRequest is the body of POST /api/v1/relationships
type CreateRelationshipRequest struct {
	Type       string            `json:"type" validate:"required"`
	Source     string            `json:"source" validate:"required"`
	Target     string            `json:"target" validate:"required"`
	Properties map[string]string `json:"properties"`
}

// CreateRelationship handles POST /api/v1/relationships
func (h *RelationshipHandler) CreateRelationship(w http.ResponseWriter, r *http.Request) {
	var req CreateRelationshipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.relationships.Create(r.Context(), req.Type, req.Source, req.Target, req.Properties)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, record)
}

// UpdateRelationshipProperties handles PUT /api/v1/relationships/{id}/properties
func (h *RelationshipHandler) UpdateRelationshipProperties(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdatePropertiesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	record, err := h.relationships.UpdateProperties(r.Context(), id, req.Properties)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}

// BulkRelationshipProperties handles POST /api/v1/relationships/bulk-properties
func (h *RelationshipHandler) BulkRelationshipProperties(w http.ResponseWriter, r *http.Request) {
	var req BulkPropertiesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	affected, err := h.relationships.BulkSet(r.Context(), req.Type, req.Conditions, req.Assignments)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, BulkPropertiesResult{Affected: affected})
}

// DeleteRelationship handles DELETE /api/v1/relationships/{id}
func (h *RelationshipHandler) DeleteRelationship(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.relationships.Delete(r.Context(), id); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "relationship deleted")
}

// RemoveRelationshipProperty handles DELETE /api/v1/relationships/{id}/properties/{name}
func (h *RelationshipHandler) RemoveRelationshipProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.relationships.RemoveProperty(r.Context(), id, chi.URLParam(r, "name"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}
