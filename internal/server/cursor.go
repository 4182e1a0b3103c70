package server

import (
	"encoding/base64"
	"encoding/json"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
)

// EncodeCursor renders a cursor as an opaque URL-safe token.
func EncodeCursor(c *types.Cursor) string {
	if c == nil {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func DecodeCursor(token string) (*types.Cursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errs.BadRequest("Invalid cursor")
	}
	var c types.Cursor
	if err := json.Unmarshal(data, &c); err != nil || c.ID <= 0 {
		return nil, errs.BadRequest("Invalid cursor")
	}
	return &c, nil
}
