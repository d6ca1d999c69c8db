package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/record/recordtest"
)

const dsnEnv = "FORESTCLASH_TEST_PG_DSN"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	store, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestNilStore(t *testing.T) {
	var s *Store
	s.Close()
	_, err := s.Recent(context.Background(), "x", 1)
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	recordtest.Run(t, func(t *testing.T) record.Recorder {
		return openTestStore(t)
	})
}
