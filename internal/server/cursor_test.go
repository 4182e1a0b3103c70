package server

import (
	"encoding/base64"
	"testing"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/stretchr/testify/require"
)

func TestCursorToken(t *testing.T) {
	c := &types.Cursor{ID: 17, SortValues: map[string]any{"Name": "zed", "Points": 4.5, "Notes": nil}}

	token := EncodeCursor(c)
	require.NotContains(t, token, "=")

	got, err := DecodeCursor(token)
	require.NoError(t, err)
	require.Equal(t, c, got)

	require.Empty(t, EncodeCursor(nil))
	got, err = DecodeCursor("")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{
		"not base64!",
		base64.RawURLEncoding.EncodeToString([]byte("[1,2]")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"id":0}`)),
		base64.RawURLEncoding.EncodeToString([]byte(`{"id":-3}`)),
	} {
		_, err := DecodeCursor(token)
		require.Equal(t, errs.KindBadRequest, errs.KindOf(err), token)
	}
}
