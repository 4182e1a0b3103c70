// Package grid serves tables of semi-structured rows: paged retrieval under a
// view configuration, cell edits, and the catalog of bases, tables, columns
// and views around them.
package grid

import (
	"context"
	"log/slog"

	"github.com/Rana718/gridbase/internal/config"
	"github.com/Rana718/gridbase/internal/database"
	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/query"
	"github.com/Rana718/gridbase/internal/seeder"
	"github.com/Rana718/gridbase/internal/types"
)

type Service struct {
	store     database.Store
	builder   *query.Builder
	seeder    *seeder.Seeder
	paging    config.Pagination
	batchSize int
	log       *slog.Logger
}

func NewService(store database.Store, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	mode, err := query.ParseKeysetMode(cfg.Pagination.KeysetMode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		builder:   query.NewBuilder(store.Dialect(), mode),
		seeder:    seeder.NewSeeder(store, nil),
		paging:    cfg.Pagination,
		batchSize: cfg.Seed.BatchSize,
		log:       logger,
	}, nil
}

func (s *Service) Store() database.Store {
	return s.store
}

// FetchRows returns one page of a table's rows under its current view
// configuration, starting after req.Cursor.
func (s *Service) FetchRows(ctx context.Context, req types.FetchRowsRequest) (*types.FetchRowsResult, error) {
	pageSize, err := s.pageSize(req.PageSize)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetTable(ctx, req.TableID); err != nil {
		return nil, err
	}
	cols, err := s.store.ListColumns(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.viewConfig(ctx, req.TableID)
	if err != nil {
		return nil, err
	}

	plan := s.builder.Build(req.TableID, cols, cfg, req.Search, req.Cursor, pageSize)
	rows, err := s.store.QueryRows(ctx, plan.Query)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "Failed to fetch rows for table %d", req.TableID)
	}

	result := plan.Ordering.Page(rows, pageSize)
	s.log.Debug("fetched rows",
		"table", req.TableID,
		"rows", len(result.Rows),
		"has_more", result.HasMore,
		"sort_terms", len(plan.Ordering.Terms),
		"cursor", req.Cursor != nil,
	)
	return result, nil
}

// MaxPageSize is the largest page FetchRows accepts.
func (s *Service) MaxPageSize() int {
	return s.paging.MaxPageSize
}

func (s *Service) pageSize(requested int) (int, error) {
	if requested == 0 {
		return s.paging.DefaultPageSize, nil
	}
	if requested < 1 || requested > s.paging.MaxPageSize {
		return 0, errs.BadRequest("pageSize must be between 1 and %d", s.paging.MaxPageSize)
	}
	return requested, nil
}

// viewConfig reads the table's view configuration. A table without a view
// is read unsorted and unfiltered.
func (s *Service) viewConfig(ctx context.Context, tableID int64) (types.ViewConfig, error) {
	view, err := s.store.GetView(ctx, tableID)
	if err != nil {
		if errs.IsNotFound(err) {
			return types.ViewConfig{}, nil
		}
		return types.ViewConfig{}, err
	}
	return view.Config, nil
}
