package database

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mbolis/quick-forms/log"
)

//go:embed migrations
var dbMigrations embed.FS

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return nil, err
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance("iofs", src, "sqlite3", dst)
}

func migrateDB(db *sql.DB) error {
	migrator, err := newMigrator(db)
	if err != nil {
		return err
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		// db already up to date
	case err != nil:
		return err
	}

	version, _, err := migrator.Version()
	if err != nil {
		return err
	}
	log.Debugf("db.migrate: schema at version %d", version)
	return nil
}
