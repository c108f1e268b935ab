package neo4j

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fraudgraph-backend/domain/cypher"
	apperrors "fraudgraph-backend/pkg/errors"
)

type fakeSession struct {
	readResult  any
	writeResult any
	err         error
	closed      int
	reads       int
	writes      int
}

func (f *fakeSession) ExecuteRead(ctx context.Context, work neo4j.ManagedTransactionWork, configurers ...func(*neo4j.TransactionConfig)) (any, error) {
	f.reads++
	return f.readResult, f.err
}

func (f *fakeSession) ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork, configurers ...func(*neo4j.TransactionConfig)) (any, error) {
	f.writes++
	return f.writeResult, f.err
}

func (f *fakeSession) Close(ctx context.Context) error {
	f.closed++
	return nil
}

func newTestClient(session *fakeSession) *Client {
	return &Client{
		logger: zap.NewNop(),
		newSession: func(ctx context.Context) sessionRunner {
			return session
		},
	}
}

func TestExecuteRead_NormalizesAndReleasesSession(t *testing.T) {
	session := &fakeSession{
		readResult: []*neo4j.Record{
			{Keys: []string{"total"}, Values: []interface{}{int64(3)}},
		},
	}
	client := newTestClient(session)

	rows, err := client.ExecuteRead(context.Background(), cypher.Statement{
		Text:   "MATCH (n) RETURN count(n) AS total",
		Params: map[string]interface{}{},
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0]["total"])
	assert.Equal(t, 1, session.reads)
	assert.Equal(t, 0, session.writes)
	assert.Equal(t, 1, session.closed)
}

func TestExecuteWrite_UsesWriteTransaction(t *testing.T) {
	session := &fakeSession{writeResult: []*neo4j.Record{}}
	client := newTestClient(session)

	rows, err := client.ExecuteWrite(context.Background(), cypher.DeleteNode(9))

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, session.writes)
	assert.Equal(t, 1, session.closed)
}

func TestRun_FailureStillReleasesSessionExactlyOnce(t *testing.T) {
	session := &fakeSession{err: errors.New("Neo.ClientError.Statement.SyntaxError")}
	client := newTestClient(session)

	_, err := client.ExecuteRead(context.Background(), cypher.NodeByID(1))

	require.Error(t, err)
	assert.True(t, apperrors.IsDatabase(err))
	assert.Equal(t, 1, session.closed)

	// The raw driver message must survive for the console to display.
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Cause.Error(), "SyntaxError")
}

func TestNextRelationshipID(t *testing.T) {
	session := &fakeSession{
		readResult: []*neo4j.Record{
			{Keys: []string{"nextId"}, Values: []interface{}{int64(8)}},
		},
	}
	client := newTestClient(session)

	next, err := client.NextRelationshipID(context.Background(), "POSEE")

	require.NoError(t, err)
	assert.Equal(t, int64(8), next)
}

func TestNextRelationshipID_FailsWhenLookupReturnsNothing(t *testing.T) {
	session := &fakeSession{readResult: []*neo4j.Record{}}
	client := newTestClient(session)

	_, err := client.NextRelationshipID(context.Background(), "POSEE")

	require.Error(t, err)
	assert.True(t, apperrors.IsDatabase(err))
}

func TestNextRelationshipID_FailsOnNonIntegerValue(t *testing.T) {
	session := &fakeSession{
		readResult: []*neo4j.Record{
			{Keys: []string{"nextId"}, Values: []interface{}{"ocho"}},
		},
	}
	client := newTestClient(session)

	_, err := client.NextRelationshipID(context.Background(), "POSEE")

	require.Error(t, err)
	assert.True(t, apperrors.IsDatabase(err))
}

func TestNextRelationshipID_UnknownType(t *testing.T) {
	client := newTestClient(&fakeSession{})

	_, err := client.NextRelationshipID(context.Background(), "CONOCE")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
