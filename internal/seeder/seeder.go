package seeder

import (
	"context"
	"fmt"

	"github.com/Rana718/gridbase/internal/database"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/fatih/color"
)

const defaultBatch = 1000

type Seeder struct {
	store     database.Store
	generator *DataGenerator
}

func NewSeeder(store database.Store, generator *DataGenerator) *Seeder {
	if generator == nil {
		generator = NewDataGenerator()
	}
	return &Seeder{store: store, generator: generator}
}

// Seed inserts cfg.Count generated rows into a table in batches and returns
// how many rows were written. Batches already committed stay committed if a
// later batch fails.
func (s *Seeder) Seed(ctx context.Context, tableID int64, cols []types.Column, cfg SeedConfig) (int, error) {
	batch := cfg.Batch
	if batch <= 0 {
		batch = defaultBatch
	}
	if !cfg.Quiet {
		color.Cyan("🌱 Seeding table %d with %d rows...", tableID, cfg.Count)
	}

	inserted := 0
	for inserted < cfg.Count {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		n := batch
		if remaining := cfg.Count - inserted; remaining < n {
			n = remaining
		}
		records := make([]types.Attributes, n)
		for i := range records {
			records[i] = s.generator.Row(cols)
		}

		rows, err := s.store.InsertRows(ctx, tableID, records)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert batch at row %d: %w", inserted, err)
		}
		inserted += len(rows)

		if !cfg.Quiet {
			color.Cyan("  📝 %d/%d rows", inserted, cfg.Count)
		}
	}

	if !cfg.Quiet {
		color.Green("✅ Table %d seeded successfully", tableID)
	}
	return inserted, nil
}
