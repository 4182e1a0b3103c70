package database

import (
	"github.com/Rana718/gridbase/internal/database/mysql"
	"github.com/Rana718/gridbase/internal/database/postgres"
	"github.com/Rana718/gridbase/internal/database/sqlite"
)

func NewStore(provider string, maxConns int) Store {
	switch provider {
	case "sqlite", "sqlite3":
		return sqlite.New(maxConns)
	case "mysql":
		return mysql.New(maxConns)
	default:
		return postgres.New(maxConns)
	}
}
