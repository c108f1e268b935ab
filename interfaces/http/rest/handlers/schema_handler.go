package handlers

import (
	"net/http"

	"fraudgraph-backend/domain/schema"
	"fraudgraph-backend/pkg/common"
)

// SchemaHandler exposes the type registry so clients can build their forms
// from the same declarations the validators use
type SchemaHandler struct{}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler() *SchemaHandler {
	return &SchemaHandler{}
}

// SchemaResponse is the body of GET /api/v1/schema
type SchemaResponse struct {
	Nodes         []schema.NodeType         `json:"nodes"`
	Relationships []schema.RelationshipType `json:"relationships"`
}

// GetSchema handles GET /api/v1/schema
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	resp := SchemaResponse{}
	for _, name := range schema.NodeTypeNames() {
		nt, err := schema.Node(name)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		resp.Nodes = append(resp.Nodes, nt)
	}
	for _, name := range schema.RelationshipTypeNames() {
		rt, err := schema.Relationship(name)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		resp.Relationships = append(resp.Relationships, rt)
	}
	common.RespondJSON(w, http.StatusOK, resp)
}
