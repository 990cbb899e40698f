package db

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SatisfiedByPgxmock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var p Pool = mock
	assert.NotNil(t, p)
}

func TestConnect_InvalidConnString(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: parse config")
}
