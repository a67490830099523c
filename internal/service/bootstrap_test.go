package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := Bootstrap(ctx, st, "bookmeup", testLogger())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "bookmeup", first.Username)

	second, err := Bootstrap(ctx, st, "bookmeup", testLogger())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestBootstrapDisabled(t *testing.T) {
	st := newTestStore(t)

	user, err := Bootstrap(context.Background(), st, "", testLogger())
	require.NoError(t, err)
	assert.Nil(t, user)
}
