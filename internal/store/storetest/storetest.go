// Package storetest provides a migrated in-memory store for tests.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MagnunAVF/clicklink/internal/store"
)

func New(t testing.TB) *store.Gorm {
	t.Helper()

	s, err := store.Open("file::memory:", nil)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())

	t.Cleanup(func() { _ = s.Close() })
	return s
}
