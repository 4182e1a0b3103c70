package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading page: %w", NotFound("table %d not found", 7))
	require.Equal(t, KindNotFound, KindOf(err))
	require.True(t, IsNotFound(err))
	require.Equal(t, "table 7 not found", Message(err))
	require.Equal(t, http.StatusNotFound, KindOf(err).HTTPStatus())
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, cause, "Failed to update cell")
	require.ErrorIs(t, err, cause)
	require.Equal(t, "Failed to update cell", Message(err))
	require.Equal(t, "Failed to update cell: connection reset", err.Error())
	require.Nil(t, Wrap(KindInternal, nil, "unused"))
}

func TestUnknownErrors(t *testing.T) {
	err := errors.New("boom")
	require.Equal(t, KindUnknown, KindOf(err))
	require.Equal(t, "boom", Message(err))
	require.Equal(t, http.StatusInternalServerError, KindOf(err).HTTPStatus())
	require.Equal(t, http.StatusBadRequest, KindOf(BadRequest("x")).HTTPStatus())
}
