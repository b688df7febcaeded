package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBCounter int64

// setupTestRepos creates repositories backed by a unique in-memory database
func setupTestRepos(t *testing.T) *Repositories {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", n)

	repos, err := NewRepositories(context.Background(), Config{DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, repos.Close())
	})
	return repos
}

func TestNewRepositories(t *testing.T) {
	repos := setupTestRepos(t)

	assert.NotNil(t, repos.Analysis)
	assert.NotNil(t, repos.Related)
	assert.NotNil(t, repos.Memory)
	assert.NotNil(t, repos.Feedback)
	assert.NotNil(t, repos.Settings)
	assert.NotNil(t, repos.Session)
	assert.NotNil(t, repos.Stats)
	assert.NotNil(t, repos.Notes)
	assert.NotNil(t, repos.Channels)

	require.NoError(t, repos.Ping(context.Background()))
}

func TestNewRepositories_SchemaIdempotent(t *testing.T) {
	repos := setupTestRepos(t)

	// running the schema again must not fail, all DDL is IF NOT EXISTS
	require.NoError(t, initSchema(context.Background(), repos.DB))
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "busy", err: fmt.Errorf("SQLITE_BUSY: database is busy"), want: true},
		{name: "locked", err: fmt.Errorf("database is locked"), want: true},
		{name: "table locked", err: fmt.Errorf("database table is locked"), want: true},
		{name: "other", err: fmt.Errorf("syntax error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLockError(tt.err))
		})
	}
}
