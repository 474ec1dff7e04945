package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
)

func TestGetConnectionReusesConnection(t *testing.T) {
	p := NewPool()
	defer p.Close()

	c1, err := p.GetConnection("localhost:50051")
	require.NoError(t, err)
	c2, err := p.GetConnection("localhost:50051")
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	c3, err := p.GetConnection("localhost:50052")
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)
	assert.Equal(t, 2, p.Len())
}

func TestGetConnectionReplacesClosedConnection(t *testing.T) {
	p := NewPool()
	defer p.Close()

	c1, err := p.GetConnection("localhost:50051")
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := p.GetConnection("localhost:50051")
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
	assert.Equal(t, 1, p.Len())
}

func TestCloseEmptiesPool(t *testing.T) {
	p := NewPool(WithDialOptions(grpc.WithUserAgent("ledger-test")))

	conn, err := p.GetConnection("localhost:50051")
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, connectivity.Shutdown, conn.GetState())
}
