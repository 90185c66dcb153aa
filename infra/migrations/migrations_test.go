package migrations

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSource(t *testing.T) {
	src, err := iofs.New(FS, "sql")
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	first, err := src.First()
	require.NoError(t, err)
	assert.EqualValues(t, 1, first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.EqualValues(t, 2, next)

	for _, v := range []uint{1, 2} {
		up, _, err := src.ReadUp(v)
		require.NoError(t, err)
		_ = up.Close()
		down, _, err := src.ReadDown(v)
		require.NoError(t, err)
		_ = down.Close()
	}
}
