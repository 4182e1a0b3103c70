package server

import (
	"strconv"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/gofiber/fiber/v2"
)

type fakeRowsRequest struct {
	NumRows int `json:"numRows"`
}

type cellRequest struct {
	Value any `json:"value"`
}

type queryRowsRequest struct {
	PageSize int           `json:"pageSize"`
	Cursor   *types.Cursor `json:"cursor"`
	Search   string        `json:"search"`
}

// pageResponse carries the structured cursor and, for GET clients, the same
// cursor as an opaque token.
type pageResponse struct {
	*types.FetchRowsResult
	NextCursorToken string `json:"nextCursorToken,omitempty"`
}

func (s *Server) handleAddRow(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	row, err := s.service.AddRow(c.UserContext(), id)
	if err != nil {
		return err
	}
	return created(c, row)
}

func (s *Server) handleFakeRows(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req fakeRowsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	n, err := s.service.GenerateFakeRows(c.UserContext(), id, req.NumRows)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"inserted": n})
}

func (s *Server) handleFetchRows(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cursor, err := DecodeCursor(c.Query("cursor"))
	if err != nil {
		return err
	}
	pageSize := 0
	if raw := c.Query("pageSize"); raw != "" {
		if pageSize, err = strconv.Atoi(raw); err != nil {
			return errs.BadRequest("Invalid pageSize")
		}
	}
	return s.fetch(c, types.FetchRowsRequest{
		TableID:  id,
		PageSize: pageSize,
		Cursor:   cursor,
		Search:   c.Query("search"),
	})
}

func (s *Server) handleQueryRows(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req queryRowsRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	return s.fetch(c, types.FetchRowsRequest{
		TableID:  id,
		PageSize: req.PageSize,
		Cursor:   req.Cursor,
		Search:   req.Search,
	})
}

func (s *Server) fetch(c *fiber.Ctx, req types.FetchRowsRequest) error {
	result, err := s.service.FetchRows(c.UserContext(), req)
	if err != nil {
		return err
	}
	s.metrics.pageRows.Observe(float64(len(result.Rows)))
	return ok(c, pageResponse{
		FetchRowsResult: result,
		NextCursorToken: EncodeCursor(result.NextCursor),
	})
}

func (s *Server) handleUpdateCell(c *fiber.Ctx) error {
	tableID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	rowID, err := paramID(c, "rowId")
	if err != nil {
		return err
	}
	columnID, err := paramID(c, "columnId")
	if err != nil {
		return err
	}
	var req cellRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	row, err := s.service.UpdateCell(c.UserContext(), tableID, rowID, columnID, req.Value)
	if err != nil {
		return err
	}
	return ok(c, row)
}
