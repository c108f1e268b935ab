// Package ports defines the interfaces the application layer depends on.
// Implementations live in infrastructure.
package ports

import (
	"context"

	"fraudgraph-backend/domain/cypher"
)

// Record is one normalized result row: column name to display-ready value
type Record map[string]interface{}

// GraphExecutor runs statements against the graph database. Every call
// opens its own session and releases it before returning, regardless of
// outcome. Results come back already normalized for display.
type GraphExecutor interface {
	// ExecuteRead runs a read statement inside a read transaction
	ExecuteRead(ctx context.Context, stmt cypher.Statement) ([]Record, error)

	// ExecuteWrite runs a write statement inside a write transaction
	ExecuteWrite(ctx context.Context, stmt cypher.Statement) ([]Record, error)

	// NextRelationshipID resolves the next free identifier for the
	// relationship type. It fails rather than guessing when the lookup
	// returns nothing.
	NextRelationshipID(ctx context.Context, relType string) (int64, error)

	// VerifyConnectivity checks the database is reachable
	VerifyConnectivity(ctx context.Context) error
}
