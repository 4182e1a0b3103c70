package server

import (
	"context"

	"github.com/Rana718/gridbase/internal/types"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleGetView(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	view, err := s.service.GetView(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, view)
}

func (s *Server) handleUpdateViewConfig(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var patch types.ViewConfigPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	view, err := s.service.UpdateViewConfig(c.UserContext(), id, patch, c.QueryBool("strict", false))
	if err != nil {
		return err
	}
	return ok(c, view)
}

func (s *Server) handleDeleteSort(c *fiber.Ctx) error {
	return s.editView(c, s.service.DeleteSort)
}

func (s *Server) handleDeleteFilter(c *fiber.Ctx) error {
	return s.editView(c, s.service.DeleteFilter)
}

func (s *Server) handleDeleteHidden(c *fiber.Ctx) error {
	return s.editView(c, s.service.DeleteHiddenColumn)
}

type viewEdit func(ctx context.Context, viewID, columnID int64) (*types.View, error)

func (s *Server) editView(c *fiber.Ctx, edit viewEdit) error {
	viewID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	columnID, err := paramID(c, "columnId")
	if err != nil {
		return err
	}
	view, err := edit(c.UserContext(), viewID, columnID)
	if err != nil {
		return err
	}
	return ok(c, view)
}
