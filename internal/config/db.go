package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenDB connects to the configured database. Sqlite is the default so
// the server runs with zero setup; postgres kicks in when DB_DRIVER says so.
func OpenDB(cnf *Config) (*gorm.DB, error) {
	switch cnf.DBDriver {
	case "sqlite", "":
		if err := os.MkdirAll(filepath.Dir(cnf.DBPath), os.ModePerm); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(cnf.DBPath), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(cnf.DBUrl), &gorm.Config{})
	}

	return nil, fmt.Errorf("config: unknown db driver %q", cnf.DBDriver)
}
