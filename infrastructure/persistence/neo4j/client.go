// Package neo4j implements the graph executor port on top of the official
// driver. Every statement runs in its own session, released before the call
// returns regardless of outcome.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"fraudgraph-backend/application/ports"
	"fraudgraph-backend/domain/cypher"
	"fraudgraph-backend/domain/schema"
	apperrors "fraudgraph-backend/pkg/errors"
)

// Config holds the connection settings for the graph database
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// sessionRunner is the slice of neo4j.SessionWithContext the client uses.
// Narrowing it here lets tests substitute a fake session.
type sessionRunner interface {
	ExecuteRead(ctx context.Context, work neo4j.ManagedTransactionWork, configurers ...func(*neo4j.TransactionConfig)) (any, error)
	ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork, configurers ...func(*neo4j.TransactionConfig)) (any, error)
	Close(ctx context.Context) error
}

// Client implements ports.GraphExecutor
type Client struct {
	driver     neo4j.DriverWithContext
	logger     *zap.Logger
	newSession func(ctx context.Context) sessionRunner
}

// NewClient connects to the database and returns a ready executor
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, apperrors.NewDatabaseError("connect", err)
	}

	c := &Client{
		driver: driver,
		logger: logger,
	}
	c.newSession = func(ctx context.Context) sessionRunner {
		return driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: cfg.Database})
	}
	return c, nil
}

// Close releases the underlying driver
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// VerifyConnectivity checks the database is reachable
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return apperrors.NewDatabaseError("verify connectivity", err)
	}
	return nil
}

// ExecuteRead runs the statement in a read transaction
func (c *Client) ExecuteRead(ctx context.Context, stmt cypher.Statement) ([]ports.Record, error) {
	return c.run(ctx, stmt, false)
}

// ExecuteWrite runs the statement in a write transaction
func (c *Client) ExecuteWrite(ctx context.Context, stmt cypher.Statement) ([]ports.Record, error) {
	return c.run(ctx, stmt, true)
}

func (c *Client) run(ctx context.Context, stmt cypher.Statement, write bool) ([]ports.Record, error) {
	session := c.newSession(ctx)
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, stmt.Text, stmt.Params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	}

	var raw any
	var err error
	if write {
		raw, err = session.ExecuteWrite(ctx, work)
	} else {
		raw, err = session.ExecuteRead(ctx, work)
	}
	if err != nil {
		c.logger.Error("query failed",
			zap.String("query", stmt.Text),
			zap.Bool("write", write),
			zap.Error(err))
		return nil, apperrors.NewDatabaseError("execute query", err)
	}

	records, ok := raw.([]*neo4j.Record)
	if !ok {
		return nil, apperrors.NewDatabaseError("execute query",
			fmt.Errorf("unexpected result type %T", raw))
	}

	c.logger.Debug("query executed",
		zap.String("query", stmt.Text),
		zap.Bool("write", write),
		zap.Int("records", len(records)))

	return NormalizeRecords(records), nil
}

// NextRelationshipID resolves the next free identifier for the relationship
// type. A lookup that returns no usable value is an error; the caller must
// never fall back to a guessed identifier.
func (c *Client) NextRelationshipID(ctx context.Context, relType string) (int64, error) {
	rt, err := schema.Relationship(relType)
	if err != nil {
		return 0, err
	}

	rows, err := c.ExecuteRead(ctx, cypher.NextRelationshipID(rt))
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, apperrors.NewDatabaseError("resolve next relationship id",
			fmt.Errorf("identifier query for %s returned no rows", relType))
	}

	next, ok := rows[0]["nextId"].(int64)
	if !ok {
		return 0, apperrors.NewDatabaseError("resolve next relationship id",
			fmt.Errorf("identifier query for %s returned %T, want integer", relType, rows[0]["nextId"]))
	}
	return next, nil
}
