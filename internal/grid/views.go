package grid

import (
	"context"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/Rana718/gridbase/internal/query"
	"github.com/Rana718/gridbase/internal/types"
)

func (s *Service) GetView(ctx context.Context, tableID int64) (*types.View, error) {
	if _, err := s.store.GetTable(ctx, tableID); err != nil {
		return nil, err
	}
	return s.store.GetView(ctx, tableID)
}

// UpdateViewConfig replaces the keys present in patch and keeps the rest.
// With strict set, a filter list containing incomplete rows is rejected
// instead of being stored.
func (s *Service) UpdateViewConfig(ctx context.Context, viewID int64, patch types.ViewConfigPatch, strict bool) (*types.View, error) {
	view, err := s.store.GetViewByID(ctx, viewID)
	if err != nil {
		return nil, err
	}

	cfg := patch.Apply(view.Config)
	if err := validateSort(cfg.Sort); err != nil {
		return nil, err
	}
	if strict && patch.Filters != nil {
		cols, err := s.store.ListColumns(ctx, view.TableID)
		if err != nil {
			return nil, err
		}
		if err := validateFilters(cfg.Filters, cols); err != nil {
			return nil, err
		}
	}
	return s.store.SaveViewConfig(ctx, viewID, cfg)
}

// CheckViewConfig applies the strict update rules to a whole configuration
// without touching the store.
func CheckViewConfig(cfg types.ViewConfig, cols []types.Column) error {
	if err := validateSort(cfg.Sort); err != nil {
		return err
	}
	return validateFilters(cfg.Filters, cols)
}

func validateFilters(filters []types.FilterSpec, cols []types.Column) error {
	if !query.HasValidFilters(filters, query.NewColumns(cols)) {
		return errs.BadRequest("Every filter needs a column and, unless it checks emptiness, a value")
	}
	return nil
}

func validateSort(sort []types.SortSpec) error {
	for _, sp := range sort {
		if sp.Direction != types.Ascending && sp.Direction != types.Descending {
			return errs.BadRequest("Sort direction must be asc or desc")
		}
	}
	return nil
}

func (s *Service) DeleteSort(ctx context.Context, viewID, columnID int64) (*types.View, error) {
	return s.editView(ctx, viewID, func(cfg *types.ViewConfig) {
		kept := cfg.Sort[:0:0]
		for _, sp := range cfg.Sort {
			if sp.ColumnID != columnID {
				kept = append(kept, sp)
			}
		}
		cfg.Sort = kept
	})
}

func (s *Service) DeleteFilter(ctx context.Context, viewID, columnID int64) (*types.View, error) {
	return s.editView(ctx, viewID, func(cfg *types.ViewConfig) {
		kept := cfg.Filters[:0:0]
		for _, f := range cfg.Filters {
			if f.ColumnID != columnID {
				kept = append(kept, f)
			}
		}
		cfg.Filters = kept
	})
}

func (s *Service) DeleteHiddenColumn(ctx context.Context, viewID, columnID int64) (*types.View, error) {
	return s.editView(ctx, viewID, func(cfg *types.ViewConfig) {
		kept := cfg.HiddenColumns[:0:0]
		for _, id := range cfg.HiddenColumns {
			if id != columnID {
				kept = append(kept, id)
			}
		}
		cfg.HiddenColumns = kept
	})
}

func (s *Service) editView(ctx context.Context, viewID int64, edit func(cfg *types.ViewConfig)) (*types.View, error) {
	view, err := s.store.GetViewByID(ctx, viewID)
	if err != nil {
		return nil, err
	}
	cfg := view.Config
	edit(&cfg)
	return s.store.SaveViewConfig(ctx, viewID, cfg)
}
