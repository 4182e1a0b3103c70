package seeder

type SeedConfig struct {
	Count int  // Rows to generate
	Batch int  // Rows per insert batch
	Quiet bool // Suppress progress output
}
