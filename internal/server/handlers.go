package server

import (
	"github.com/Rana718/gridbase/internal/types"
	"github.com/gofiber/fiber/v2"
)

type nameRequest struct {
	Name string `json:"name"`
}

type createTableRequest struct {
	Name    string            `json:"name"`
	Columns []types.ColumnDef `json:"columns"`
}

func (s *Server) handleListBases(c *fiber.Ctx) error {
	bases, err := s.service.ListBases(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, bases)
}

func (s *Server) handleCreateBase(c *fiber.Ctx) error {
	var req nameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	base, err := s.service.CreateBase(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return created(c, base)
}

func (s *Server) handleGetBase(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	base, err := s.service.GetBase(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, base)
}

func (s *Server) handleRenameBase(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req nameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	base, err := s.service.RenameBase(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return ok(c, base)
}

func (s *Server) handleDeleteBase(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.service.DeleteBase(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Base deleted")
}

func (s *Server) handleListTables(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tables, err := s.service.ListTables(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, tables)
}

func (s *Server) handleCreateTable(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req createTableRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	table, err := s.service.CreateTable(c.UserContext(), id, req.Name, req.Columns)
	if err != nil {
		return err
	}
	return created(c, table)
}

func (s *Server) handleGetTable(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	table, err := s.service.GetTable(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, table)
}

func (s *Server) handleAddColumn(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var def types.ColumnDef
	if err := parseBody(c, &def); err != nil {
		return err
	}
	col, err := s.service.AddColumn(c.UserContext(), id, def)
	if err != nil {
		return err
	}
	return created(c, col)
}
