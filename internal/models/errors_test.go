package models_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codealchemy/organizer/internal/models"
)

func TestUnreadableErrorUnwraps(t *testing.T) {
	err := &models.UnreadableError{Path: "/inbox/locked.txt", Err: os.ErrPermission}

	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "/inbox/locked.txt")

	var unreadable *models.UnreadableError
	require.ErrorAs(t, error(err), &unreadable)
	assert.Equal(t, "/inbox/locked.txt", unreadable.Path)
}

func TestMoveErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := &models.MoveError{Source: "/a", Destination: "/b", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/a")
	assert.Contains(t, err.Error(), "/b")
}

func TestRootErrorMatchesSentinels(t *testing.T) {
	src := &models.RootError{Root: "source", Path: "/missing", Err: os.ErrNotExist}
	dst := &models.RootError{Root: "destination", Path: "/denied", Err: os.ErrPermission}

	assert.ErrorIs(t, src, models.ErrSourceRoot)
	assert.NotErrorIs(t, src, models.ErrDestinationRoot)
	assert.ErrorIs(t, dst, models.ErrDestinationRoot)
	assert.NotErrorIs(t, dst, models.ErrSourceRoot)

	// The underlying cause stays reachable through Unwrap.
	assert.ErrorIs(t, src, os.ErrNotExist)
}
