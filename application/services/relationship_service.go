package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/domain/cypher"
	"fraudgraph-backend/domain/schema"
	apperrors "fraudgraph-backend/pkg/errors"
)

// RelationshipService covers relationship creation and maintenance.
// Creation resolves the next free identifier just in time; when that lookup
// fails the whole operation fails, an identifier is never guessed.
type RelationshipService struct {
	executor ports.GraphExecutor
	logger   *zap.Logger
}

// NewRelationshipService creates a new relationship service
func NewRelationshipService(executor ports.GraphExecutor, logger *zap.Logger) *RelationshipService {
	return &RelationshipService{
		executor: executor,
		logger:   logger,
	}
}

// Create connects a source and a target node with a typed relationship.
// Sources resolve by DPI or ID, targets by ID. Zero created records means
// an endpoint did not match.
func (s *RelationshipService) Create(ctx context.Context, typeName, sourceRef, targetRef string, props map[string]string) (ports.Record, error) {
	rt, err := schema.Relationship(typeName)
	if err != nil {
		return nil, err
	}

	relID, err := s.executor.NextRelationshipID(ctx, rt.Name)
	if err != nil {
		return nil, err
	}

	stmt, err := cypher.CreateRelationship(rt, relID, sourceRef, targetRef, props)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("source '%s' or target '%s' for %s", sourceRef, targetRef, rt.Name))
	}

	s.logger.Info("relationship created",
		zap.String("type", rt.Name),
		zap.Int64("id", relID))
	return rows[0], nil
}

// UpdateProperties sets properties on one relationship by internal id
func (s *RelationshipService) UpdateProperties(ctx context.Context, id int64, props map[string]string) (ports.Record, error) {
	stmt, err := cypher.UpdateRelationshipProperties(id, props)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("relationship %d", id))
	}
	return rows[0], nil
}

// BulkSet assigns properties on every relationship of the type matching the
// conditions and reports how many were touched
func (s *RelationshipService) BulkSet(ctx context.Context, typeName string, conditions, assignments map[string]string) (int64, error) {
	rt, err := schema.Relationship(typeName)
	if err != nil {
		return 0, err
	}

	stmt, err := cypher.BulkSetRelationships(rt, conditions, assignments)
	if err != nil {
		return 0, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return 0, err
	}
	affected := affectedCount(rows)

	s.logger.Info("bulk relationship update",
		zap.String("type", typeName),
		zap.Int64("affected", affected))
	return affected, nil
}

// Delete removes a relationship by internal id
func (s *RelationshipService) Delete(ctx context.Context, id int64) error {
	_, err := s.executor.ExecuteWrite(ctx, cypher.DeleteRelationship(id))
	if err != nil {
		return err
	}

	s.logger.Info("relationship deleted", zap.Int64("id", id))
	return nil
}

// RemoveProperty drops one property from a relationship
func (s *RelationshipService) RemoveProperty(ctx context.Context, id int64, property string) (ports.Record, error) {
	stmt, err := cypher.RemoveRelationshipProperty(id, property)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.ExecuteWrite(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("relationship %d", id))
	}
	return rows[0], nil
}
