package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorageErrorWrapping(t *testing.T) {
	inner := errors.New("boom")
	err := NewStorageError("user.FindByID", inner)
	require.True(t, IsStorageError(err))
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "user.FindByID")
}

func TestStorageErrorNil(t *testing.T) {
	require.NoError(t, NewStorageError("op", nil))
	require.False(t, IsStorageError(nil))
	require.False(t, IsStorageError(errors.New("plain")))
}

func TestConflictMatching(t *testing.T) {
	err := NewStorageError("user.Create", fmt.Errorf("%w: email taken", ErrConflict))
	require.ErrorIs(t, err, ErrConflict)
	require.True(t, IsStorageError(err))
	require.NotErrorIs(t, err, ErrTxDone)
}
