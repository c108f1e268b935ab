package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/domain/cypher"
	"fraudgraph-backend/domain/schema"
	apperrors "fraudgraph-backend/pkg/errors"
)

// NodeDetail is one node together with every relationship touching it
type NodeDetail struct {
	Node          ports.Record   `json:"node"`
	Relationships []ports.Record `json:"relationships"`
}

// NodeService covers the node side of the console: browsing, creation,
// property updates, bulk assignments and deletion
type NodeService struct {
	executor ports.GraphExecutor
	logger   *zap.Logger
}

// NewNodeService creates a new node service
func NewNodeService(executor ports.GraphExecutor, logger *zap.Logger) *NodeService {
	return &NodeService{
		executor: executor,
		logger:   logger,
	}
}

// List returns every node of the type, optionally narrowed to one of its
// classification labels
func (s *NodeService) List(ctx context.Context, typeName, extraLabel string) ([]ports.Record, error) {
	nt, err := schema.Node(typeName)
	if err != nil {
		return nil, err
	}

	labels := []string{nt.Label}
	if extraLabel != "" {
		if !nt.HasAdditionalLabel(extraLabel) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("label '%s' is not declared for node type %s", extraLabel, nt.Label))
		}
		labels = append(labels, extraLabel)
	}

	stmt, err := cypher.NodesByLabels(labels)
	if err != nil {
		return nil, err
	}
	return s.executor.ExecuteRead(ctx, stmt)
}

// Get returns one node by internal id along with its relationships
func (s *NodeService) Get(ctx context.Context, id int64) (*NodeDetail, error) {
	rows, err := s.executor.ExecuteRead(ctx, cypher.NodeByID(id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("node %d", id))
	}

	rels, err := s.executor.ExecuteRead(ctx, cypher.NodeRelationships(id))
	if err != nil {
		return nil, err
	}

	return &NodeDetail{Node: rows[0], Relationships: rels}, nil
}

// Search runs the endpoint-picker lookup over one node type
func (s *NodeService) Search(ctx context.Context, typeName, term string) ([]ports.Record, error) {
	nt, err := schema.Node(typeName)
	if err != nil {
		return nil, err
	}

	stmt, err := cypher.SearchNodes(nt.Label, term)
	if err != nil {
		return nil, err
	}
	return s.executor.ExecuteRead(ctx, stmt)
}

// Create validates the property set against the schema and creates the node
func (s *NodeService) Create(ctx context.Context, typeName string, extraLabels []string, props map[string]string) (ports.Record, error) {
	nt, err := schema.Node(typeName)
	if err != nil {
		return nil, err
	}

	stmt, err := cypher.CreateNode(nt, extraLabels, props)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewDatabaseError("create node", errors.New("creation returned no record"))
	}

	s.logger.Info("node created", zap.String("type", typeName))
	return rows[0], nil
}

// UpdateProperties sets properties on one node by internal id
func (s *NodeService) UpdateProperties(ctx context.Context, id int64, props map[string]string) (ports.Record, error) {
	stmt, err := cypher.UpdateNodeProperties(id, props)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("node %d", id))
	}
	return rows[0], nil
}

// BulkSet assigns properties on every node of the type matching the
// conditions and reports how many were touched
func (s *NodeService) BulkSet(ctx context.Context, typeName string, conditions, assignments map[string]string) (int64, error) {
	nt, err := schema.Node(typeName)
	if err != nil {
		return 0, err
	}

	stmt, err := cypher.BulkSetNodes(nt, conditions, assignments)
	if err != nil {
		return 0, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return 0, err
	}
	affected := affectedCount(rows)

	s.logger.Info("bulk node update",
		zap.String("type", typeName),
		zap.Int64("affected", affected))
	return affected, nil
}

// Delete removes a node and everything attached to it
func (s *NodeService) Delete(ctx context.Context, id int64) error {
	_, err := s.executor.ExecuteWrite(ctx, cypher.DeleteNode(id))
	if err != nil {
		return err
	}

	s.logger.Info("node deleted", zap.Int64("id", id))
	return nil
}

// RemoveProperty drops one property from a node
func (s *NodeService) RemoveProperty(ctx context.Context, id int64, property string) (ports.Record, error) {
	stmt, err := cypher.RemoveNodeProperty(id, property)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("node %d", id))
	}
	return rows[0], nil
}

func affectedCount(rows []ports.Record) int64 {
	if len(rows) == 0 {
		return 0
	}
	if n, ok := rows[0]["affected"].(int64); ok {
		return n
	}
	return 0
}
