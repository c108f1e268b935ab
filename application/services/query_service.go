package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/application/queries"
	"fraudgraph-backend/domain/cypher"
	"fraudgraph-backend/domain/schema"
	apperrors "fraudgraph-backend/pkg/errors"
)

// QueryService runs predefined catalog queries and ad-hoc node filters
type QueryService struct {
	executor ports.GraphExecutor
	logger   *zap.Logger
}

// NewQueryService creates a new query service
func NewQueryService(executor ports.GraphExecutor, logger *zap.Logger) *QueryService {
	return &QueryService{
		executor: executor,
		logger:   logger,
	}
}

// Catalog lists every predefined operation with its parameter declarations
func (s *QueryService) Catalog() []queries.Operation {
	return queries.All()
}

// Run executes a catalog operation by name. Declared parameters bind from
// the supplied values; missing optional parameters take their defaults,
// missing required ones fail validation. Values outside the declaration are
// rejected. An empty result is a success with zero rows.
func (s *QueryService) Run(ctx context.Context, name string, values map[string]interface{}) ([]ports.Record, error) {
	op, err := queries.Lookup(name)
	if err != nil {
		return nil, err
	}

	params, err := bindParams(op, values)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("running catalog query",
		zap.String("query", name),
		zap.String("category", string(op.Category)))

	return s.executor.ExecuteRead(ctx, cypher.Statement{Text: op.Text, Params: params})
}

// Filter runs an ad-hoc read over one node type with property conditions
func (s *QueryService) Filter(ctx context.Context, nodeType string, conditions map[string]string) ([]ports.Record, error) {
	nt, err := schema.Node(nodeType)
	if err != nil {
		return nil, err
	}

	stmt, err := cypher.FilterNodes(nt, conditions)
	if err != nil {
		return nil, err
	}
	return s.executor.ExecuteRead(ctx, stmt)
}

func bindParams(op queries.Operation, values map[string]interface{}) (map[string]interface{}, error) {
	declared := map[string]bool{}
	params := map[string]interface{}{}

	for _, p := range op.Params {
		declared[p.Name] = true
		value, ok := values[p.Name]
		if !ok || value == nil || value == "" {
			if p.Required {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("query '%s' requires parameter '%s'", op.Name, p.Name))
			}
			params[p.Name] = p.Default
			continue
		}
		typed, err := coerceParam(op.Name, p, value)
		if err != nil {
			return nil, err
		}
		params[p.Name] = typed
	}

	for name := range values {
		if !declared[name] {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("query '%s' does not take parameter '%s'", op.Name, name))
		}
	}
	return params, nil
}

func coerceParam(query string, p queries.Param, value interface{}) (interface{}, error) {
	switch p.Type {
	case queries.ParamNumber:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			if v != float64(int64(v)) {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("query '%s' parameter '%s' must be an integer", query, p.Name))
			}
			return int64(v), nil
		default:
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("query '%s' parameter '%s' must be numeric", query, p.Name))
		}
	default:
		v, ok := value.(string)
		if !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("query '%s' parameter '%s' must be a string", query, p.Name))
		}
		return v, nil
	}
}
