package storage

import "fmt"

// Open returns the repository for the configured driver: memory, sqlite
// or postgres.
func Open(driver, dsn string) (Repository, error) {
	switch driver {
	case "", "memory":
		return NewMemoryRepository(), nil
	case "sqlite":
		return NewSQLiteRepository(dsn)
	case "postgres":
		return NewPostgresRepository(dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
